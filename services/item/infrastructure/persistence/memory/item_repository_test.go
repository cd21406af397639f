package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/apidocs/services/item/domain"
	"github.com/ghuser/apidocs/services/item/domain/models"
	"github.com/ghuser/apidocs/services/item/domain/repositories"
)

func newItem(t *testing.T, orgID uuid.UUID, name string) *models.Item {
	t.Helper()
	item, err := models.NewItem(orgID, models.ItemName(name), "")
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	return item
}

func TestItemRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	orgID := uuid.New()
	item := newItem(t, orgID, "Widget")

	if err := repo.Save(ctx, item); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByID(ctx, orgID, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != item.Name || got.ID != item.ID {
		t.Fatalf("got %+v, want %+v", got, item)
	}

	got.Name = "mutated"
	again, _ := repo.GetByID(ctx, orgID, item.ID)
	if again.Name != "Widget" {
		t.Fatalf("stored item was mutated through returned pointer: %q", again.Name)
	}
}

func TestItemRepository_GetByID_OtherOrg(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	item := newItem(t, uuid.New(), "Widget")
	if err := repo.Save(ctx, item); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := repo.GetByID(ctx, uuid.New(), item.ID)
	if !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemRepository_Save_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	orgID := uuid.New()

	if err := repo.Save(ctx, newItem(t, orgID, "Widget")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, newItem(t, orgID, "Widget")); !errors.Is(err, itemdomain.ErrItemAlreadyExists) {
		t.Fatalf("expected ErrItemAlreadyExists, got %v", err)
	}
	if err := repo.Save(ctx, newItem(t, uuid.New(), "Widget")); err != nil {
		t.Fatalf("same name in another org should be allowed: %v", err)
	}
}

func TestItemRepository_FindByOrgID_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	orgID := uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c", "d"} {
		item := newItem(t, orgID, name)
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.Save(ctx, item); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := repo.Save(ctx, newItem(t, uuid.New(), "other")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tests := []struct {
		name      string
		opts      repositories.QueryOpts
		wantNames []string
	}{
		{"no limit", repositories.QueryOpts{}, []string{"d", "c", "b", "a"}},
		{"first page", repositories.QueryOpts{Limit: 2}, []string{"d", "c"}},
		{"second page", repositories.QueryOpts{Limit: 2, Offset: 2}, []string{"b", "a"}},
		{"offset past end", repositories.QueryOpts{Limit: 2, Offset: 10}, []string{}},
		{"negative offset", repositories.QueryOpts{Limit: 1, Offset: -3}, []string{"d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.FindByOrgID(ctx, orgID, tt.opts)
			if err != nil {
				t.Fatalf("FindByOrgID: %v", err)
			}
			if total != 4 {
				t.Errorf("total = %d, want 4", total)
			}
			if len(items) != len(tt.wantNames) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if items[i].Name.String() != want {
					t.Errorf("items[%d] = %q, want %q", i, items[i].Name, want)
				}
			}
		})
	}
}

func TestItemRepository_UpdateDeleteExists(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	orgID := uuid.New()
	item := newItem(t, orgID, "Widget")
	other := newItem(t, orgID, "Gadget")
	for _, it := range []*models.Item{item, other} {
		if err := repo.Save(ctx, it); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	renamed := *item
	renamed.Name = "Gadget"
	if err := repo.Update(ctx, &renamed); !errors.Is(err, itemdomain.ErrItemAlreadyExists) {
		t.Fatalf("expected ErrItemAlreadyExists, got %v", err)
	}
	renamed.Name = "Sprocket"
	renamed.Description = "updated"
	if err := repo.Update(ctx, &renamed); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.GetByID(ctx, orgID, item.ID)
	if got.Name != "Sprocket" || got.Description != "updated" {
		t.Fatalf("update not applied: %+v", got)
	}

	missing := newItem(t, orgID, "Missing")
	if err := repo.Update(ctx, missing); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	if ok, _ := repo.Exists(ctx, orgID, item.ID); !ok {
		t.Fatal("expected item to exist")
	}
	if err := repo.Delete(ctx, uuid.New(), item.ID); err != nil {
		t.Fatalf("Delete other org: %v", err)
	}
	if ok, _ := repo.Exists(ctx, orgID, item.ID); !ok {
		t.Fatal("delete from another org must not remove the item")
	}
	if err := repo.Delete(ctx, orgID, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := repo.Exists(ctx, orgID, item.ID); ok {
		t.Fatal("expected item to be gone")
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
