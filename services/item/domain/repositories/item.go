// Package repositories declares the persistence ports of the item context.
package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/apidocs/services/item/domain/models"
)

// QueryOpts selects one page of a list. A Limit of zero means no limit.
type QueryOpts struct {
	Limit  int
	Offset int
}

// Window returns the [start, end) bounds of the page within total records.
// Negative offsets are treated as zero.
func (o QueryOpts) Window(total int) (start, end int) {
	start = min(max(o.Offset, 0), total)
	end = total
	if o.Limit > 0 {
		end = min(start+o.Limit, total)
	}
	return start, end
}

// ItemRepository stores Item aggregates. Every method is scoped to an org:
// items of another org behave as if they did not exist.
type ItemRepository interface {
	// Save stores a new item; ErrItemAlreadyExists when the name is taken in the org.
	Save(ctx context.Context, item *models.Item) error
	// GetByID returns ErrItemNotFound when the org has no such item.
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error)
	// FindByOrgID returns one page, newest first, and the unpaginated total.
	FindByOrgID(ctx context.Context, orgID uuid.UUID, opts QueryOpts) ([]*models.Item, int, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	Exists(ctx context.Context, orgID, id uuid.UUID) (bool, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
