// Package events defines the integration events of the item context.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicItemCreated is the topic published when an Item is created.
	TopicItemCreated = "item.created"
	// TopicItemUpdated is the topic published when an Item's name or description changes.
	TopicItemUpdated = "item.updated"
	// TopicItemDeleted is the topic published when an Item is deleted.
	TopicItemDeleted = "item.deleted"
)

// CurrentVersion is the payload version of every item event.
const CurrentVersion = 1

// ItemCreatedEvent is published after a new Item is persisted.
type ItemCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // deduplication key
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	OrgID      uuid.UUID `json:"org_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemUpdatedEvent is published after an Item is changed. It carries the
// state after the change.
type ItemUpdatedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	ItemID      uuid.UUID `json:"item_id"`
	OrgID       uuid.UUID `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ItemDeletedEvent is published after an Item is removed.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	OrgID      uuid.UUID `json:"org_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
