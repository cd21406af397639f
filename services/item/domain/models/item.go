package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxDescriptionLength bounds Item.Description in characters.
const MaxDescriptionLength = 1000

// Item is the core aggregate of the catalogue.
type Item struct {
	ID          uuid.UUID
	OrgID       uuid.UUID // tenant scope; every lookup filters by it
	Name        ItemName
	Description string
	CreatedAt   time.Time
}

// NewItem constructs an Item with a generated ID and the current UTC time.
func NewItem(orgID uuid.UUID, name ItemName, description string) (*Item, error) {
	item := &Item{
		ID:        uuid.New(),
		OrgID:     orgID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := item.SetDescription(description); err != nil {
		return nil, err
	}
	return item, nil
}

// SetDescription replaces the description if it fits MaxDescriptionLength.
func (i *Item) SetDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters, got %d", MaxDescriptionLength, n)
	}
	i.Description = description
	return nil
}
