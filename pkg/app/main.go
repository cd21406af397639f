// Package app provides Application, an http.Handler that serves a route
// registry together with its generated schema document and interactive
// documentation pages.
//
// Logging: Application.Logger is backed by a trace-aware handler. Use slog's
// context methods so trace_id, span_id and request_id are injected:
//
//	a.Logger.ErrorContext(r.Context(), "schema generation failed", "error", err)
package app

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-openapi/spec"

	"github.com/ghuser/apidocs/pkg/errhttp"
	"github.com/ghuser/apidocs/pkg/httpx"
	"github.com/ghuser/apidocs/pkg/logger"
	"github.com/ghuser/apidocs/pkg/openapi"
	"github.com/ghuser/apidocs/pkg/routing"
)

// Application composes a routing.Router with the documentation routes.
//
// Exported fields hold the configuration New was called with; changing them
// afterwards only affects the HTML pages, not which routes are registered.
type Application struct {
	Title       string
	Description string
	Version     string

	OpenAPIURL          string
	OpenAPITags         []openapi.Tag
	Servers             []openapi.Server
	SecurityDefinitions spec.SecurityDefinitions

	DocsURL                    string
	RedocURL                   string
	SwaggerUIOAuth2RedirectURL string
	SwaggerUIInitOAuth         map[string]any
	SwaggerUIParameters        map[string]any
	// DocsStaticURL, when set, serves the embedded Swagger UI assets under
	// this prefix instead of loading them from the CDN.
	DocsStaticURL string

	Debug bool
	// Extra holds arbitrary settings passed with WithExtra. They are not interpreted.
	Extra  map[string]any
	Logger logger.Logger

	router  *routing.Router
	handler http.Handler
	errors  *errhttp.Handlers
	schema  atomic.Pointer[spec.Swagger]

	routes         []*routing.Route
	middleware     []func(http.Handler) http.Handler
	respond        routing.Responder
	onStartup      []routing.Hook
	onShutdown     []routing.Hook
	statusHandlers map[int]errhttp.Handler
	errorHandlers  []sentinelHandler
	onSchemaBuilt  func(time.Duration, error)
	swagInstance   string
}

type sentinelHandler struct {
	target error
	fn     errhttp.Handler
}

// New builds an Application. The router is created from the configured routes
// and lifecycle hooks, then the documentation routes are registered for every
// non-empty URL. The handler chain is panic recovery, then the configured
// middleware in order, then the router.
func New(opts ...Option) *Application {
	a := &Application{
		Title:                      "API",
		Version:                    "0.1.0",
		OpenAPIURL:                 "/openapi.json",
		DocsURL:                    "/docs",
		RedocURL:                   "/redoc",
		SwaggerUIOAuth2RedirectURL: "/docs/oauth2-redirect",
		SwaggerUIParameters:        openapi.DefaultSwaggerUIParameters(),
		Extra:                      map[string]any{},
		Logger:                     logger.Discard(),
		respond:                    httpx.JSON,
		statusHandlers:             map[int]errhttp.Handler{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.errors = errhttp.NewHandlers(a.Debug)
	for _, h := range a.errorHandlers {
		a.errors.HandleError(h.target, h.fn)
	}
	for status, fn := range a.statusHandlers {
		a.errors.HandleStatus(status, fn)
	}

	if a.servesStaticDocs() {
		a.onShutdown = append(a.onShutdown, a.releaseSwagInstance)
	}

	a.router = routing.NewRouter(a.routes,
		routing.WithOnStartup(a.onStartup...),
		routing.WithOnShutdown(a.onShutdown...),
		routing.WithErrorHandler(a.errors.WriteError),
		routing.WithResponder(a.respond),
	)
	a.setupDocs()

	var h http.Handler = a.router
	for i := len(a.middleware) - 1; i >= 0; i-- {
		h = a.middleware[i](h)
	}
	a.handler = logger.Recovery(a.Logger, a.handlePanic)(h)

	return a
}

// OpenAPI returns the schema document. It is generated from the routes
// registered at the time of the first successful call and cached for the
// lifetime of the Application. Concurrent first calls may each generate a
// document; the last one stored is kept.
func (a *Application) OpenAPI() (*spec.Swagger, error) {
	if s := a.schema.Load(); s != nil {
		return s, nil
	}

	start := time.Now()
	s, err := openapi.Generate(openapi.Info{
		Title:               a.Title,
		Version:             a.Version,
		Description:         a.Description,
		Routes:              a.router.Routes(),
		Tags:                a.OpenAPITags,
		Servers:             a.Servers,
		SecurityDefinitions: a.SecurityDefinitions,
	})
	if a.onSchemaBuilt != nil {
		a.onSchemaBuilt(time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	a.schema.Store(s)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// handlePanic answers a recovered panic. In debug mode the panic value and
// stack are returned as plain text; otherwise a 500 goes through the
// exception handlers. logger.Recovery only calls it while the response has
// not been started.
func (a *Application) handlePanic(w http.ResponseWriter, r *http.Request, recovered any, stack []byte) {
	if a.Debug {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintf(w, "%s\n\n%v\n\n%s", http.StatusText(http.StatusInternalServerError), recovered, stack)
		return
	}
	a.errors.WriteError(w, r, fmt.Errorf("panic: %v", recovered))
}
