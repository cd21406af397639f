package app

import (
	"context"
	"net/http"

	"github.com/ghuser/apidocs/pkg/routing"
)

// Add registers a prebuilt route.
func (a *Application) Add(route *routing.Route) {
	a.router.Add(route)
}

// Handle registers endpoint for method and pattern.
func (a *Application) Handle(method, pattern string, endpoint routing.HandlerFunc, opts ...routing.RouteOption) *routing.Route {
	return a.router.Handle(method, pattern, endpoint, opts...)
}

// Get registers a GET endpoint.
func (a *Application) Get(pattern string, endpoint routing.HandlerFunc, opts ...routing.RouteOption) *routing.Route {
	return a.router.Get(pattern, endpoint, opts...)
}

// Post registers a POST endpoint.
func (a *Application) Post(pattern string, endpoint routing.HandlerFunc, opts ...routing.RouteOption) *routing.Route {
	return a.router.Post(pattern, endpoint, opts...)
}

// Put registers a PUT endpoint.
func (a *Application) Put(pattern string, endpoint routing.HandlerFunc, opts ...routing.RouteOption) *routing.Route {
	return a.router.Put(pattern, endpoint, opts...)
}

// Patch registers a PATCH endpoint.
func (a *Application) Patch(pattern string, endpoint routing.HandlerFunc, opts ...routing.RouteOption) *routing.Route {
	return a.router.Patch(pattern, endpoint, opts...)
}

// Delete registers a DELETE endpoint.
func (a *Application) Delete(pattern string, endpoint routing.HandlerFunc, opts ...routing.RouteOption) *routing.Route {
	return a.router.Delete(pattern, endpoint, opts...)
}

// AddRoute registers a plain GET handler, optionally hidden from the schema.
func (a *Application) AddRoute(pattern string, h http.HandlerFunc, includeInSchema bool) *routing.Route {
	return a.router.AddRoute(pattern, h, includeInSchema)
}

// Routes returns the registered routes in registration order, documentation
// routes included.
func (a *Application) Routes() []*routing.Route {
	return a.router.Routes()
}

// Startup runs the startup hooks in order and stops at the first failure.
func (a *Application) Startup(ctx context.Context) error {
	return a.router.Startup(ctx)
}

// Shutdown runs every shutdown hook and joins their errors.
func (a *Application) Shutdown(ctx context.Context) error {
	return a.router.Shutdown(ctx)
}
