// Package handlers implements the HTTP endpoints of the item context.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/apidocs/pkg/errhttp"
	"github.com/ghuser/apidocs/pkg/routing"
	pkgvalidator "github.com/ghuser/apidocs/pkg/validator"
	appsvcs "github.com/ghuser/apidocs/services/item/application/services"
	"github.com/ghuser/apidocs/services/item/domain/repositories"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ItemHandlers serves the item endpoints.
type ItemHandlers struct {
	svc *appsvcs.ItemService
}

// NewItemHandlers returns handlers backed by svc.
func NewItemHandlers(svc *appsvcs.ItemService) *ItemHandlers {
	return &ItemHandlers{svc: svc}
}

// Create handles POST /orgs/{org_id}/items.
func (h *ItemHandlers) Create(w http.ResponseWriter, r *http.Request) error {
	orgID, err := pathUUID(r, "org_id")
	if err != nil {
		return err
	}
	req, err := pkgvalidator.DecodeRequest[CreateItemRequest](r)
	if err != nil {
		return err
	}

	item, err := h.svc.Create(r.Context(), orgID, req.Name, req.Description)
	if err != nil {
		return err
	}
	routing.Respond(w, r, http.StatusCreated, toResponse(item))
	return nil
}

// Get handles GET /orgs/{org_id}/items/{id}.
func (h *ItemHandlers) Get(w http.ResponseWriter, r *http.Request) error {
	orgID, err := pathUUID(r, "org_id")
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	item, err := h.svc.GetByID(r.Context(), orgID, id)
	if err != nil {
		return err
	}
	routing.Respond(w, r, http.StatusOK, toResponse(item))
	return nil
}

// List handles GET /orgs/{org_id}/items?limit=&offset=.
func (h *ItemHandlers) List(w http.ResponseWriter, r *http.Request) error {
	orgID, err := pathUUID(r, "org_id")
	if err != nil {
		return err
	}
	opts, err := queryOpts(r)
	if err != nil {
		return err
	}

	items, total, err := h.svc.List(r.Context(), orgID, opts)
	if err != nil {
		return err
	}
	resp := ItemListResponse{
		Items:  make([]ItemResponse, len(items)),
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	for i, item := range items {
		resp.Items[i] = toResponse(item)
	}
	routing.Respond(w, r, http.StatusOK, resp)
	return nil
}

// Update handles PATCH /orgs/{org_id}/items/{id}.
func (h *ItemHandlers) Update(w http.ResponseWriter, r *http.Request) error {
	orgID, err := pathUUID(r, "org_id")
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	req, err := pkgvalidator.DecodeRequest[UpdateItemRequest](r)
	if err != nil {
		return err
	}
	if req.Name == nil && req.Description == nil {
		return &errhttp.ValidationError{Message: "At least one of name or description is required"}
	}

	item, err := h.svc.Update(r.Context(), orgID, id, appsvcs.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	routing.Respond(w, r, http.StatusOK, toResponse(item))
	return nil
}

// Delete handles DELETE /orgs/{org_id}/items/{id}.
func (h *ItemHandlers) Delete(w http.ResponseWriter, r *http.Request) error {
	orgID, err := pathUUID(r, "org_id")
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(r.Context(), orgID, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, &errhttp.ValidationError{
			Message: "Invalid path parameter",
			Fields:  map[string]string{name: "must be a valid UUID"},
		}
	}
	return id, nil
}

func queryOpts(r *http.Request) (repositories.QueryOpts, error) {
	opts := repositories.QueryOpts{Limit: defaultLimit}
	fields := make(map[string]string)

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			fields["limit"] = "must be an integer between 1 and " + strconv.Itoa(maxLimit)
		} else {
			opts.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields["offset"] = "must be a non-negative integer"
		} else {
			opts.Offset = n
		}
	}

	if len(fields) > 0 {
		return opts, &errhttp.ValidationError{Message: "Invalid query parameters", Fields: fields}
	}
	return opts, nil
}
