package models

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxItemNameLength bounds ItemName in characters.
const MaxItemNameLength = 255

// ItemName is a non-empty UTF-8 name of at most MaxItemNameLength characters.
// Business rules on top of that live in domain/services.
type ItemName string

// NewItemName returns s as an ItemName or reports why it is not one.
func NewItemName(s string) (ItemName, error) {
	if !utf8.ValidString(s) {
		return "", errors.New("item name must be valid UTF-8")
	}
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return "", errors.New("item name must not be empty")
	case n > MaxItemNameLength:
		return "", fmt.Errorf("item name must not exceed %d characters, got %d", MaxItemNameLength, n)
	}
	return ItemName(s), nil
}

func (n ItemName) String() string {
	return string(n)
}
