package routing

import (
	"net/http"
	"reflect"
	"strings"
)

// HandlerFunc is an endpoint that reports failures by returning an error.
// Returned errors are written by the Router's ErrorHandler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Response documents one declared response of a route. Type is nil for
// responses without a body.
type Response struct {
	Description string
	Type        reflect.Type
}

// QueryParam documents a query string parameter. Type is a schema primitive:
// "string", "integer", "number" or "boolean".
type QueryParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Route is a registered endpoint plus the metadata the schema generator reads.
type Route struct {
	Method string
	// Path is a chi pattern, e.g. "/items/{id}".
	Path        string
	Name        string
	Summary     string
	Description string
	OperationID string
	Tags        []string
	Deprecated  bool
	// IncludeInSchema controls whether the route appears in the schema document.
	IncludeInSchema bool
	RequestBody     reflect.Type
	QueryParams     []QueryParam
	Responses       map[int]Response

	// Endpoint is wrapped with the Router's error handling and responder.
	// Handler is used verbatim when Endpoint is nil.
	Endpoint HandlerFunc
	Handler  http.Handler
}

// RouteOption configures a Route.
type RouteOption func(*Route)

// NewRoute returns a schema-visible route for an error-returning endpoint.
func NewRoute(method, path string, endpoint HandlerFunc, opts ...RouteOption) *Route {
	r := &Route{
		Method:          strings.ToUpper(method),
		Path:            path,
		IncludeInSchema: true,
		Endpoint:        endpoint,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithName sets the route name used to derive the default operation id.
func WithName(name string) RouteOption {
	return func(r *Route) { r.Name = name }
}

// WithSummary sets the one-line operation summary.
func WithSummary(summary string) RouteOption {
	return func(r *Route) { r.Summary = summary }
}

// WithDescription sets the long operation description.
func WithDescription(description string) RouteOption {
	return func(r *Route) { r.Description = description }
}

// WithOperationID overrides the generated operation id.
func WithOperationID(id string) RouteOption {
	return func(r *Route) { r.OperationID = id }
}

// WithTags groups the operation in the docs UI.
func WithTags(tags ...string) RouteOption {
	return func(r *Route) { r.Tags = append(r.Tags, tags...) }
}

// WithQuery documents a query string parameter.
func WithQuery(name, typ, description string) RouteOption {
	return func(r *Route) {
		r.QueryParams = append(r.QueryParams, QueryParam{Name: name, Type: typ, Description: description})
	}
}

// Deprecated marks the operation as deprecated.
func Deprecated() RouteOption {
	return func(r *Route) { r.Deprecated = true }
}

// ExcludeFromSchema hides the route from the schema document.
func ExcludeFromSchema() RouteOption {
	return func(r *Route) { r.IncludeInSchema = false }
}

// Body documents T as the JSON request body.
func Body[T any]() RouteOption {
	return func(r *Route) { r.RequestBody = reflect.TypeFor[T]() }
}

// Returns documents a response with a JSON body of type T.
func Returns[T any](status int, description string) RouteOption {
	return func(r *Route) {
		if r.Responses == nil {
			r.Responses = make(map[int]Response)
		}
		r.Responses[status] = Response{Description: description, Type: reflect.TypeFor[T]()}
	}
}

// ReturnsEmpty documents a response without a body.
func ReturnsEmpty(status int, description string) RouteOption {
	return func(r *Route) {
		if r.Responses == nil {
			r.Responses = make(map[int]Response)
		}
		r.Responses[status] = Response{Description: description}
	}
}
