// Package api registers the item endpoints on an Application.
package api

import (
	"net/http"

	"github.com/ghuser/apidocs/pkg/app"
	"github.com/ghuser/apidocs/pkg/errhttp"
	"github.com/ghuser/apidocs/pkg/openapi"
	"github.com/ghuser/apidocs/pkg/routing"
	"github.com/ghuser/apidocs/services/item/application/handlers"
	appsvcs "github.com/ghuser/apidocs/services/item/application/services"
	itemdomain "github.com/ghuser/apidocs/services/item/domain"
)

const (
	itemsPath = "/orgs/{org_id}/items"
	itemPath  = itemsPath + "/{id}"
	tag       = "items"
)

// Tag documents the item operation group.
var Tag = openapi.Tag{Name: tag, Description: "Catalogue items scoped to an organization"}

// ItemRoutes registers the item endpoints on a.
func ItemRoutes(a *app.Application, svc *appsvcs.ItemService) {
	h := handlers.NewItemHandlers(svc)

	a.Post(itemsPath, h.Create,
		routing.WithName("create_item"),
		routing.WithSummary("Create item"),
		routing.WithTags(tag),
		routing.Body[handlers.CreateItemRequest](),
		routing.Returns[handlers.ItemResponse](http.StatusCreated, "Item created"),
		routing.Returns[handlers.ErrorResponse](http.StatusConflict, "Name already taken"),
	)
	a.Get(itemsPath, h.List,
		routing.WithName("list_items"),
		routing.WithSummary("List items"),
		routing.WithTags(tag),
		routing.WithQuery("limit", "integer", "Page size, 1 to 100"),
		routing.WithQuery("offset", "integer", "Number of items to skip"),
		routing.Returns[handlers.ItemListResponse](http.StatusOK, "One page of items"),
	)
	a.Get(itemPath, h.Get,
		routing.WithName("get_item"),
		routing.WithSummary("Get item"),
		routing.WithTags(tag),
		routing.Returns[handlers.ItemResponse](http.StatusOK, "The item"),
		routing.Returns[handlers.ErrorResponse](http.StatusNotFound, "Item not found"),
	)
	a.Patch(itemPath, h.Update,
		routing.WithName("update_item"),
		routing.WithSummary("Update item"),
		routing.WithTags(tag),
		routing.Body[handlers.UpdateItemRequest](),
		routing.Returns[handlers.ItemResponse](http.StatusOK, "Item updated"),
		routing.Returns[handlers.ErrorResponse](http.StatusNotFound, "Item not found"),
		routing.Returns[handlers.ErrorResponse](http.StatusConflict, "Name already taken"),
	)
	a.Delete(itemPath, h.Delete,
		routing.WithName("delete_item"),
		routing.WithSummary("Delete item"),
		routing.WithTags(tag),
		routing.ReturnsEmpty(http.StatusNoContent, "Item deleted"),
		routing.Returns[handlers.ErrorResponse](http.StatusNotFound, "Item not found"),
	)
}

// ExceptionHandlers maps the item domain errors to HTTP statuses.
func ExceptionHandlers() []app.Option {
	return []app.Option{
		app.WithErrorHandler(itemdomain.ErrItemNotFound, errhttp.Status(http.StatusNotFound)),
		app.WithErrorHandler(itemdomain.ErrItemAlreadyExists, errhttp.Status(http.StatusConflict)),
		app.WithErrorHandler(itemdomain.ErrInvalidItemName, errhttp.Status(http.StatusUnprocessableEntity)),
		app.WithErrorHandler(itemdomain.ErrInvalidItem, errhttp.Status(http.StatusUnprocessableEntity)),
	}
}
