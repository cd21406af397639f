// Package memory provides an in-memory implementation of repositories.ItemRepository.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/apidocs/services/item/domain"
	"github.com/ghuser/apidocs/services/item/domain/models"
	"github.com/ghuser/apidocs/services/item/domain/repositories"
)

// ItemRepository stores items in a map keyed by item ID.
// Names are unique per org.
type ItemRepository struct {
	mu    sync.RWMutex // protects items
	items map[uuid.UUID]models.Item
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns an empty ItemRepository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[uuid.UUID]models.Item)}
}

// Save stores a new Item. It returns ErrItemAlreadyExists when the ID or the
// name is already taken within the org.
func (r *ItemRepository) Save(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return itemdomain.ErrItemAlreadyExists
	}
	if r.nameTakenLocked(item.OrgID, item.Name, uuid.Nil) {
		return itemdomain.ErrItemAlreadyExists
	}
	r.items[item.ID] = *item
	return nil
}

// GetByID returns a copy of the stored Item or ErrItemNotFound.
func (r *ItemRepository) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.OrgID != orgID {
		return nil, itemdomain.ErrItemNotFound
	}
	return &item, nil
}

// FindByOrgID returns the org's items ordered by creation time, newest first,
// plus the total count ignoring pagination.
func (r *ItemRepository) FindByOrgID(_ context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	r.mu.RLock()
	all := make([]*models.Item, 0)
	for _, item := range r.items {
		if item.OrgID == orgID {
			all = append(all, &item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start, end := opts.Window(len(all))
	return all[start:end], len(all), nil
}

// Update replaces the name and description of an existing Item.
func (r *ItemRepository) Update(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok || stored.OrgID != item.OrgID {
		return itemdomain.ErrItemNotFound
	}
	if r.nameTakenLocked(item.OrgID, item.Name, item.ID) {
		return itemdomain.ErrItemAlreadyExists
	}
	stored.Name = item.Name
	stored.Description = item.Description
	r.items[item.ID] = stored
	return nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (r *ItemRepository) Delete(_ context.Context, orgID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.items[id]; ok && item.OrgID == orgID {
		delete(r.items, id)
	}
	return nil
}

// Exists reports whether the org owns an item with the given ID.
func (r *ItemRepository) Exists(_ context.Context, orgID, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return ok && item.OrgID == orgID, nil
}

// Ping always succeeds. It satisfies httpx.HealthChecker.
func (r *ItemRepository) Ping(context.Context) error {
	return nil
}

// Caller must hold r.mu.
func (r *ItemRepository) nameTakenLocked(orgID uuid.UUID, name models.ItemName, except uuid.UUID) bool {
	for id, item := range r.items {
		if id != except && item.OrgID == orgID && item.Name == name {
			return true
		}
	}
	return false
}
