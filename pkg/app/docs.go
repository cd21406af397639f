package app

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ghuser/apidocs/pkg/httpx"
	"github.com/ghuser/apidocs/pkg/openapi"
	"github.com/ghuser/apidocs/pkg/routing"
)

// setupDocs registers the documentation routes. None of them is included in
// the schema document.
func (a *Application) setupDocs() {
	if a.OpenAPIURL != "" {
		a.router.AddRoute(a.OpenAPIURL, a.serveOpenAPI, false)
	}
	if a.DocsURL != "" {
		a.router.AddRoute(a.DocsURL, a.serveSwaggerUI, false)
		if a.SwaggerUIOAuth2RedirectURL != "" {
			a.router.AddRoute(a.SwaggerUIOAuth2RedirectURL, a.serveOAuth2Redirect, false)
		}
	}
	if a.RedocURL != "" {
		a.router.AddRoute(a.RedocURL, a.serveRedoc, false)
	}
	if a.servesStaticDocs() {
		a.mountSwaggerAssets()
	}
}

// SwaggerUIHTML renders the Swagger UI page for this application.
func (a *Application) SwaggerUIHTML() (string, error) {
	opts := openapi.SwaggerUIOptions{
		OpenAPIURL:        a.OpenAPIURL,
		Title:             a.Title + " - Swagger UI",
		OAuth2RedirectURL: a.SwaggerUIOAuth2RedirectURL,
		InitOAuth:         a.SwaggerUIInitOAuth,
		Parameters:        a.SwaggerUIParameters,
	}
	if prefix := a.staticPrefix(); prefix != "" {
		opts.JSURL = prefix + "/swagger-ui-bundle.js"
		opts.CSSURL = prefix + "/swagger-ui.css"
		opts.FaviconURL = prefix + "/favicon-32x32.png"
	}
	return openapi.SwaggerUIHTML(opts)
}

// RedocHTML renders the ReDoc page for this application.
func (a *Application) RedocHTML() (string, error) {
	return openapi.RedocHTML(openapi.RedocOptions{
		OpenAPIURL:      a.OpenAPIURL,
		Title:           a.Title + " - ReDoc",
		WithGoogleFonts: true,
	})
}

// SwaggerUIOAuth2RedirectHTML returns the static OAuth2 redirect page.
func (a *Application) SwaggerUIOAuth2RedirectHTML() string {
	return openapi.SwaggerUIOAuth2RedirectHTML()
}

func (a *Application) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	s, err := a.OpenAPI()
	if err != nil {
		a.Logger.ErrorContext(r.Context(), "schema generation failed", "error", err)
		a.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (a *Application) serveSwaggerUI(w http.ResponseWriter, r *http.Request) {
	a.serveHTML(w, r, a.SwaggerUIHTML)
}

func (a *Application) serveRedoc(w http.ResponseWriter, r *http.Request) {
	a.serveHTML(w, r, a.RedocHTML)
}

func (a *Application) serveOAuth2Redirect(w http.ResponseWriter, _ *http.Request) {
	httpx.HTML(w, http.StatusOK, a.SwaggerUIOAuth2RedirectHTML())
}

func (a *Application) serveHTML(w http.ResponseWriter, r *http.Request, render func() (string, error)) {
	page, err := render()
	if err != nil {
		a.Logger.ErrorContext(r.Context(), "docs page render failed", "path", r.URL.Path, "error", err)
		a.errors.WriteError(w, r, err)
		return
	}
	httpx.HTML(w, http.StatusOK, page)
}

func (a *Application) servesStaticDocs() bool {
	return a.DocsStaticURL != "" && a.OpenAPIURL != ""
}

func (a *Application) staticPrefix() string {
	if a.DocsStaticURL == "" {
		return ""
	}
	return strings.TrimSuffix(a.DocsStaticURL, "/")
}

// mountSwaggerAssets binds a pooled swag instance name to this Application
// and serves the embedded Swagger UI assets and doc.json below DocsStaticURL.
// The name is released by a shutdown hook installed in New.
func (a *Application) mountSwaggerAssets() {
	a.swagInstance = acquireSwagInstance(a)

	prefix := a.staticPrefix()
	a.router.Add(&routing.Route{
		Method: http.MethodGet,
		Path:   prefix + "/*",
		Handler: httpSwagger.Handler(
			httpSwagger.InstanceName(a.swagInstance),
			httpSwagger.URL(prefix+"/doc.json"),
		),
	})
}
