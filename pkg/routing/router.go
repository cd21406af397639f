// Package routing holds the route registry an Application is built on.
//
// A Router owns the ordered list of registered routes (read by the schema
// generator) and a chi.Mux that dispatches them. Routes may be added after
// construction; they are registered on the mux immediately.
package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/apidocs/pkg/errhttp"
	"github.com/ghuser/apidocs/pkg/httpx"
)

// Hook is a lifecycle callback run on application startup or shutdown.
type Hook func(ctx context.Context) error

// ErrorHandler writes the response for an error returned by an endpoint.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Responder writes v as the response body. It is the default response
// format for endpoints that call Respond.
type Responder func(w http.ResponseWriter, status int, v any)

// Option configures a Router.
type Option func(*Router)

// WithOnStartup appends startup hooks. Hooks run in order.
func WithOnStartup(hooks ...Hook) Option {
	return func(rt *Router) { rt.onStartup = append(rt.onStartup, hooks...) }
}

// WithOnShutdown appends shutdown hooks. Hooks run in order.
func WithOnShutdown(hooks ...Hook) Option {
	return func(rt *Router) { rt.onShutdown = append(rt.onShutdown, hooks...) }
}

// WithErrorHandler sets the handler for endpoint errors and for unmatched
// routes (404) and methods (405).
func WithErrorHandler(fn ErrorHandler) Option {
	return func(rt *Router) { rt.onError = fn }
}

// WithResponder sets the default responder used by Respond.
func WithResponder(fn Responder) Option {
	return func(rt *Router) { rt.respond = fn }
}

// Router is an ordered route registry backed by a chi.Mux.
type Router struct {
	mux *chi.Mux

	mu     sync.RWMutex
	routes []*Route

	onStartup  []Hook
	onShutdown []Hook
	onError    ErrorHandler
	respond    Responder
}

// NewRouter registers routes in order and applies opts.
func NewRouter(routes []*Route, opts ...Option) *Router {
	rt := &Router{
		mux:     chi.NewRouter(),
		onError: errhttp.NewHandlers(false).WriteError,
		respond: httpx.JSON,
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.onError(w, r, errhttp.NewHTTPError(http.StatusNotFound, ""))
	})
	rt.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.onError(w, r, errhttp.NewHTTPError(http.StatusMethodNotAllowed, ""))
	})

	for _, route := range routes {
		rt.Add(route)
	}
	return rt
}

// Add registers a prebuilt route.
func (rt *Router) Add(route *Route) {
	h := route.Handler
	if route.Endpoint != nil {
		h = rt.wrap(route.Endpoint)
	}
	if h == nil {
		panic(fmt.Sprintf("routing: route %s %s has no handler", route.Method, route.Path))
	}

	rt.mu.Lock()
	rt.routes = append(rt.routes, route)
	rt.mu.Unlock()

	if route.Method == "" {
		rt.mux.Handle(route.Path, h)
		return
	}
	rt.mux.Method(route.Method, route.Path, h)
}

// Handle registers endpoint for method and pattern and returns the route.
func (rt *Router) Handle(method, pattern string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	route := NewRoute(method, pattern, endpoint, opts...)
	rt.Add(route)
	return route
}

// Get registers a GET endpoint.
func (rt *Router) Get(pattern string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	return rt.Handle(http.MethodGet, pattern, endpoint, opts...)
}

// Post registers a POST endpoint.
func (rt *Router) Post(pattern string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	return rt.Handle(http.MethodPost, pattern, endpoint, opts...)
}

// Put registers a PUT endpoint.
func (rt *Router) Put(pattern string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	return rt.Handle(http.MethodPut, pattern, endpoint, opts...)
}

// Patch registers a PATCH endpoint.
func (rt *Router) Patch(pattern string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	return rt.Handle(http.MethodPatch, pattern, endpoint, opts...)
}

// Delete registers a DELETE endpoint.
func (rt *Router) Delete(pattern string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	return rt.Handle(http.MethodDelete, pattern, endpoint, opts...)
}

// AddRoute registers a plain GET handler.
func (rt *Router) AddRoute(pattern string, h http.HandlerFunc, includeInSchema bool) *Route {
	route := &Route{
		Method:          http.MethodGet,
		Path:            pattern,
		IncludeInSchema: includeInSchema,
		Handler:         h,
	}
	rt.Add(route)
	return route
}

// Routes returns a snapshot of the registered routes in registration order.
func (rt *Router) Routes() []*Route {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make([]*Route, len(rt.routes))
	copy(out, rt.routes)
	return out
}

// ServeHTTP dispatches to the matching route.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

// Startup runs startup hooks in order and stops at the first failure.
func (rt *Router) Startup(ctx context.Context) error {
	for i, hook := range rt.onStartup {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("startup hook %d: %w", i, err)
		}
	}
	return nil
}

// Shutdown runs every shutdown hook, even after failures, and joins their errors.
func (rt *Router) Shutdown(ctx context.Context) error {
	var errs []error
	for i, hook := range rt.onShutdown {
		if err := hook(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown hook %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

type responderKey struct{}

func (rt *Router) wrap(endpoint HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(context.WithValue(r.Context(), responderKey{}, rt.respond))
		if err := endpoint(w, r); err != nil {
			rt.onError(w, r, err)
		}
	})
}

// Respond writes v with the responder of the Router serving r, falling back
// to httpx.JSON outside a Router.
func Respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if fn, ok := r.Context().Value(responderKey{}).(Responder); ok && fn != nil {
		fn(w, status, v)
		return
	}
	httpx.JSON(w, status, v)
}
