package app

import (
	"net/http"
	"time"

	"github.com/go-openapi/spec"

	"github.com/ghuser/apidocs/pkg/errhttp"
	"github.com/ghuser/apidocs/pkg/logger"
	"github.com/ghuser/apidocs/pkg/openapi"
	"github.com/ghuser/apidocs/pkg/routing"
)

// Option configures an Application.
type Option func(*Application)

// WithTitle sets the API title.
func WithTitle(title string) Option {
	return func(a *Application) { a.Title = title }
}

// WithDescription sets the API description. Markdown is rendered by the docs UIs.
func WithDescription(description string) Option {
	return func(a *Application) { a.Description = description }
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(a *Application) { a.Version = version }
}

// WithOpenAPIURL sets the path of the schema document. An empty url disables
// the schema route.
func WithOpenAPIURL(url string) Option {
	return func(a *Application) { a.OpenAPIURL = url }
}

// WithOpenAPITags documents operation groups.
func WithOpenAPITags(tags ...openapi.Tag) Option {
	return func(a *Application) { a.OpenAPITags = append(a.OpenAPITags, tags...) }
}

// WithServers lists the deployments the API is served from.
func WithServers(servers ...openapi.Server) Option {
	return func(a *Application) { a.Servers = append(a.Servers, servers...) }
}

// WithSecurityDefinitions documents the authentication schemes.
func WithSecurityDefinitions(defs spec.SecurityDefinitions) Option {
	return func(a *Application) { a.SecurityDefinitions = defs }
}

// WithDocsURL sets the Swagger UI path. An empty url disables Swagger UI and
// the OAuth2 redirect page.
func WithDocsURL(url string) Option {
	return func(a *Application) { a.DocsURL = url }
}

// WithRedocURL sets the ReDoc path. An empty url disables ReDoc.
func WithRedocURL(url string) Option {
	return func(a *Application) { a.RedocURL = url }
}

// WithSwaggerUIOAuth2RedirectURL sets the OAuth2 redirect page path.
func WithSwaggerUIOAuth2RedirectURL(url string) Option {
	return func(a *Application) { a.SwaggerUIOAuth2RedirectURL = url }
}

// WithSwaggerUIInitOAuth sets the settings passed to Swagger UI's initOAuth.
func WithSwaggerUIInitOAuth(settings map[string]any) Option {
	return func(a *Application) { a.SwaggerUIInitOAuth = settings }
}

// WithSwaggerUIParameters replaces the SwaggerUIBundle configuration.
func WithSwaggerUIParameters(params map[string]any) Option {
	return func(a *Application) { a.SwaggerUIParameters = params }
}

// WithDocsStaticURL serves the embedded Swagger UI assets under prefix.
func WithDocsStaticURL(prefix string) Option {
	return func(a *Application) { a.DocsStaticURL = prefix }
}

// WithDefaultResponse sets the responder used by routing.Respond.
func WithDefaultResponse(fn routing.Responder) Option {
	return func(a *Application) { a.respond = fn }
}

// WithRoutes registers routes at construction, before the documentation routes.
func WithRoutes(routes ...*routing.Route) Option {
	return func(a *Application) { a.routes = append(a.routes, routes...) }
}

// WithMiddleware appends middleware. The first one added is the outermost.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *Application) { a.middleware = append(a.middleware, mw...) }
}

// WithExceptionHandler handles every error resolved to status.
func WithExceptionHandler(status int, fn errhttp.Handler) Option {
	return func(a *Application) { a.statusHandlers[status] = fn }
}

// WithErrorHandler handles errors matching target via errors.Is. It takes
// precedence over status handlers.
func WithErrorHandler(target error, fn errhttp.Handler) Option {
	return func(a *Application) {
		a.errorHandlers = append(a.errorHandlers, sentinelHandler{target: target, fn: fn})
	}
}

// WithOnStartup appends startup hooks.
func WithOnStartup(hooks ...routing.Hook) Option {
	return func(a *Application) { a.onStartup = append(a.onStartup, hooks...) }
}

// WithOnShutdown appends shutdown hooks.
func WithOnShutdown(hooks ...routing.Hook) Option {
	return func(a *Application) { a.onShutdown = append(a.onShutdown, hooks...) }
}

// WithExtra stores value under key in Application.Extra.
func WithExtra(key string, value any) Option {
	return func(a *Application) { a.Extra[key] = value }
}

// WithDebug enables tracebacks on panics and unmasked 5xx error details.
func WithDebug(debug bool) Option {
	return func(a *Application) { a.Debug = debug }
}

// WithLogger sets the logger used for panics and documentation errors.
func WithLogger(log logger.Logger) Option {
	return func(a *Application) { a.Logger = log }
}

// WithSchemaObserver is called after every schema generation attempt.
func WithSchemaObserver(fn func(elapsed time.Duration, err error)) Option {
	return func(a *Application) { a.onSchemaBuilt = fn }
}
