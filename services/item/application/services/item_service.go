// Package services holds the application services of the item context.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	pkgcache "github.com/ghuser/apidocs/pkg/cache"
	"github.com/ghuser/apidocs/pkg/logger"
	itemdomain "github.com/ghuser/apidocs/services/item/domain"
	domainevents "github.com/ghuser/apidocs/services/item/domain/events"
	"github.com/ghuser/apidocs/services/item/domain/models"
	"github.com/ghuser/apidocs/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/apidocs/services/item/domain/services"
)

// Cache is the read-through cache consulted by GetByID.
// Get returns cache.ErrMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, orgID, itemID uuid.UUID) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, orgID, itemID uuid.UUID) error
}

// Publisher delivers integration events. *events.EventBus implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Option configures an ItemService.
type Option func(*ItemService)

// WithCache enables the read-through cache.
func WithCache(c Cache) Option {
	return func(s *ItemService) { s.cache = c }
}

// WithPublisher publishes item events after each successful write.
func WithPublisher(p Publisher) Option {
	return func(s *ItemService) { s.publisher = p }
}

// WithLogger sets the logger used for cache and publish failures.
func WithLogger(log logger.Logger) Option {
	return func(s *ItemService) { s.log = log }
}

// ItemService orchestrates creation, retrieval and removal of Items.
// Cache and publisher failures are logged and never fail the request.
type ItemService struct {
	repo      repositories.ItemRepository
	cache     Cache
	publisher Publisher
	log       logger.Logger
}

// NewItemService returns an ItemService backed by repo.
func NewItemService(repo repositories.ItemRepository, opts ...Option) *ItemService {
	s := &ItemService{repo: repo, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists an Item, then publishes ItemCreatedEvent.
func (s *ItemService) Create(ctx context.Context, orgID uuid.UUID, name, description string) (*models.Item, error) {
	itemName, err := parseName(name)
	if err != nil {
		return nil, err
	}

	item, err := models.NewItem(orgID, itemName, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}

	s.publish(ctx, domainevents.TopicItemCreated, domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.CurrentVersion,
		ItemID:     item.ID,
		OrgID:      item.OrgID,
		Name:       item.Name.String(),
		OccurredAt: item.CreatedAt,
	})
	return item, nil
}

// ItemPatch lists the fields Update changes. Nil fields keep their value.
type ItemPatch struct {
	Name        *string
	Description *string
}

// Update applies patch to an existing Item, evicts its cache entry and
// publishes ItemUpdatedEvent. Renaming onto a name already used in the org
// returns ErrItemAlreadyExists.
func (s *ItemService) Update(ctx context.Context, orgID, id uuid.UUID, patch ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if patch.Name != nil {
		itemName, err := parseName(*patch.Name)
		if err != nil {
			return nil, err
		}
		item.Name = itemName
	}
	if patch.Description != nil {
		if err := item.SetDescription(*patch.Description); err != nil {
			return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
		}
	}
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.evict(ctx, orgID, id)

	s.publish(ctx, domainevents.TopicItemUpdated, domainevents.ItemUpdatedEvent{
		EventID:     uuid.New(),
		Version:     domainevents.CurrentVersion,
		ItemID:      item.ID,
		OrgID:       item.OrgID,
		Name:        item.Name.String(),
		Description: item.Description,
		OccurredAt:  time.Now().UTC(),
	})
	return item, nil
}

// GetByID retrieves an Item, consulting the cache first when one is configured.
// A cache miss or cache error falls through to the repository, and the result
// is written back to the cache.
func (s *ItemService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, orgID, id)
		switch {
		case err == nil:
			return &models.Item{
				ID:          cached.ID,
				OrgID:       cached.OrgID,
				Name:        models.ItemName(cached.Name),
				Description: cached.Description,
				CreatedAt:   cached.CreatedAt,
			}, nil
		case !errors.Is(err, pkgcache.ErrMiss):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, &pkgcache.CachedItem{
			ID:          item.ID,
			OrgID:       item.OrgID,
			Name:        item.Name.String(),
			Description: item.Description,
			CreatedAt:   item.CreatedAt,
		}); err != nil {
			s.log.WarnContext(ctx, "item cache write failed", "item_id", id, "error", err)
		}
	}
	return item, nil
}

// List returns a paginated slice of items for the org plus total count.
func (s *ItemService) List(ctx context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	items, total, err := s.repo.FindByOrgID(ctx, orgID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// Delete removes an item by ID scoped to the given org.
// Returns ErrItemNotFound if no matching item exists.
func (s *ItemService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, orgID, id)
	if err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if !exists {
		return itemdomain.ErrItemNotFound
	}
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.evict(ctx, orgID, id)

	s.publish(ctx, domainevents.TopicItemDeleted, domainevents.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.CurrentVersion,
		ItemID:     id,
		OrgID:      orgID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func parseName(name string) (models.ItemName, error) {
	itemName, err := models.NewItemName(name)
	if err == nil {
		err = domainsvcs.ValidateName(itemName)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err)
	}
	return itemName, nil
}

func (s *ItemService) evict(ctx context.Context, orgID, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, orgID, id); err != nil {
		s.log.WarnContext(ctx, "item cache eviction failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) publish(ctx context.Context, topic string, event any) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.ErrorContext(ctx, "item event encoding failed", "topic", topic, "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_version", strconv.Itoa(domainevents.CurrentVersion))
	if err := s.publisher.Publish(ctx, topic, msg); err != nil {
		s.log.ErrorContext(ctx, "item event publish failed", "topic", topic, "error", err)
	}
}
