package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/apidocs/services/item/domain/models"
)

// CreateItemRequest is the request body for POST /orgs/{org_id}/items.
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255" example:"Sample Item" description:"Unique within the organization"`
	Description string `json:"description,omitempty" validate:"max=1000" example:"A sample item"`
}

// UpdateItemRequest is the request body for PATCH /orgs/{org_id}/items/{id}.
// Absent fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"Renamed Item" description:"Unique within the organization"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// ItemResponse is the public representation of an Item.
type ItemResponse struct {
	ID          uuid.UUID `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	OrgID       uuid.UUID `json:"org_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string    `json:"name" example:"Sample Item"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemListResponse is one page of items.
type ItemListResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total" description:"Number of items ignoring pagination"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
}

func toResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		OrgID:       item.OrgID,
		Name:        item.Name.String(),
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}
