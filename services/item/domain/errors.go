// Package domain holds the item catalogue's sentinel errors. The HTTP layer
// maps each one to a status with an exception handler.
package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist in the org.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates the org already has an item with the same name.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrInvalidItem indicates a field other than the name violates domain constraints.
	ErrInvalidItem = errors.New("invalid item")
)
