// Package openapi builds the schema document and documentation pages for a
// set of routes.
//
// The document is a Swagger 2.0 spec modelled with go-openapi/spec, the same
// model swaggo/swag produces, so it can be served through the swag registry
// and rendered by Swagger UI or ReDoc.
package openapi

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/go-openapi/spec"

	"github.com/ghuser/apidocs/pkg/routing"
)

// Version is the Swagger spec version of generated documents.
const Version = "2.0"

// Server is a deployment the API is reachable at.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Tag describes an operation group shown in the docs UI.
type Tag struct {
	Name            string
	Description     string
	ExternalDocsURL string
}

// Info is the input of Generate.
type Info struct {
	Title               string
	Version             string
	Description         string
	Routes              []*routing.Route
	Tags                []Tag
	Servers             []Server
	SecurityDefinitions spec.SecurityDefinitions
}

const validationErrorDefinition = "ValidationError"

// Generate builds the schema document for the schema-visible routes in info.
// Routes are emitted in registration order; wildcard routes are skipped.
func Generate(info Info) (*spec.Swagger, error) {
	sw := &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  Version,
			Consumes: []string{"application/json"},
			Produces: []string{"application/json"},
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       info.Title,
					Version:     info.Version,
					Description: info.Description,
				},
			},
			Paths:       &spec.Paths{Paths: map[string]spec.PathItem{}},
			Definitions: spec.Definitions{},
		},
	}

	if err := applyServers(sw, info.Servers); err != nil {
		return nil, err
	}
	for _, t := range info.Tags {
		var docs *spec.ExternalDocumentation
		if t.ExternalDocsURL != "" {
			docs = &spec.ExternalDocumentation{URL: t.ExternalDocsURL}
		}
		sw.Tags = append(sw.Tags, spec.NewTag(t.Name, t.Description, docs))
	}
	if len(info.SecurityDefinitions) > 0 {
		sw.SecurityDefinitions = info.SecurityDefinitions
	}

	reg := newRegistry(sw.Definitions)
	seenIDs := make(map[string]string)

	for _, route := range info.Routes {
		if !route.IncludeInSchema || strings.Contains(route.Path, "*") {
			continue
		}
		path, params := schemaPath(route.Path)

		op, err := buildOperation(reg, route, path, params)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s %s: %w", route.Method, route.Path, err)
		}
		if prev, dup := seenIDs[op.ID]; dup {
			return nil, fmt.Errorf("openapi: duplicate operation id %q (%s and %s %s)", op.ID, prev, route.Method, route.Path)
		}
		seenIDs[op.ID] = route.Method + " " + route.Path

		item := sw.Paths.Paths[path]
		if !setOperation(&item, route.Method, op) {
			continue
		}
		sw.Paths.Paths[path] = item
	}

	return sw, nil
}

func buildOperation(reg *registry, route *routing.Route, path string, params []string) (*spec.Operation, error) {
	op := spec.NewOperation(operationID(route, path)).
		WithSummary(route.Summary).
		WithDescription(route.Description)
	if len(route.Tags) > 0 {
		op.WithTags(route.Tags...)
	}
	op.Deprecated = route.Deprecated

	for _, name := range params {
		op.AddParam(spec.PathParam(name).Typed("string", ""))
	}
	for _, q := range route.QueryParams {
		typ := q.Type
		if typ == "" {
			typ = "string"
		}
		p := spec.QueryParam(q.Name).Typed(typ, "").WithDescription(q.Description)
		p.Required = q.Required
		op.AddParam(p)
	}

	if route.RequestBody != nil {
		schema, err := reg.schemaFor(route.RequestBody)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		op.AddParam(spec.BodyParam("body", schema).AsRequired())
	}

	statuses := make([]int, 0, len(route.Responses))
	for status := range route.Responses {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		declared := route.Responses[status]
		desc := declared.Description
		if desc == "" {
			desc = http.StatusText(status)
		}
		resp := spec.NewResponse().WithDescription(desc)
		if declared.Type != nil {
			schema, err := reg.schemaFor(declared.Type)
			if err != nil {
				return nil, fmt.Errorf("response %d: %w", status, err)
			}
			resp.WithSchema(schema)
		}
		op.RespondsWith(status, resp)
	}
	if len(statuses) == 0 {
		op.RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("Successful Response"))
	}

	if route.RequestBody != nil {
		if _, declared := route.Responses[http.StatusUnprocessableEntity]; !declared {
			reg.ensureValidationError()
			op.RespondsWith(http.StatusUnprocessableEntity, spec.NewResponse().
				WithDescription("Validation Error").
				WithSchema(spec.RefSchema("#/definitions/"+validationErrorDefinition)))
		}
	}

	return op, nil
}

func setOperation(item *spec.PathItem, method string, op *spec.Operation) bool {
	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodHead:
		item.Head = op
	case http.MethodOptions:
		item.Options = op
	default:
		return false
	}
	return true
}

var (
	chiParam      = regexp.MustCompile(`\{([^{}:]+)(?::[^{}]*)?\}`)
	nonIdentifier = regexp.MustCompile(`[^0-9a-zA-Z_]`)
)

// schemaPath converts a chi pattern to a schema path and returns its
// parameter names: "/items/{id:[0-9]+}" becomes "/items/{id}".
func schemaPath(pattern string) (string, []string) {
	var params []string
	path := chiParam.ReplaceAllStringFunc(pattern, func(m string) string {
		name := chiParam.FindStringSubmatch(m)[1]
		params = append(params, name)
		return "{" + name + "}"
	})
	return path, params
}

// operationID returns the route's explicit id, or name+path with every
// non-identifier character replaced by "_", suffixed with the lowercase method.
func operationID(route *routing.Route, path string) string {
	if route.OperationID != "" {
		return route.OperationID
	}
	id := nonIdentifier.ReplaceAllString(route.Name+path, "_")
	id = strings.Trim(id, "_")
	if id == "" {
		id = "root"
	}
	return id + "_" + strings.ToLower(route.Method)
}

func applyServers(sw *spec.Swagger, servers []Server) error {
	if len(servers) == 0 {
		return nil
	}
	u, err := url.Parse(servers[0].URL)
	if err != nil {
		return fmt.Errorf("openapi: server url %q: %w", servers[0].URL, err)
	}
	sw.Host = u.Host
	if p := strings.TrimSuffix(u.Path, "/"); p != "" {
		sw.BasePath = p
	}
	if u.Scheme != "" {
		sw.Schemes = []string{u.Scheme}
	}
	sw.AddExtension("x-servers", servers)
	return nil
}
