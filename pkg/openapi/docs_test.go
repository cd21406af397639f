package openapi_test

import (
	"strings"
	"testing"

	"github.com/ghuser/apidocs/pkg/openapi"
)

func TestSwaggerUIHTML(t *testing.T) {
	tests := []struct {
		name    string
		opts    openapi.SwaggerUIOptions
		want    []string
		notWant []string
	}{
		{
			name: "defaults",
			opts: openapi.SwaggerUIOptions{OpenAPIURL: "/openapi.json", Title: "Items API - Swagger UI"},
			want: []string{
				`href="/openapi.json"`,
				"<title>Items API - Swagger UI</title>",
				openapi.SwaggerUIJSURL,
				openapi.SwaggerUICSSURL,
				`"deepLinking":true`,
				"SwaggerUIStandalonePreset",
			},
			notWant: []string{"oauth2RedirectUrl", "initOAuth"},
		},
		{
			name: "oauth2",
			opts: openapi.SwaggerUIOptions{
				OpenAPIURL:        "/api/openapi.json",
				OAuth2RedirectURL: "/docs/oauth2-redirect",
				InitOAuth:         map[string]any{"clientId": "docs-client"},
			},
			want: []string{
				`href="/api/openapi.json"`,
				"oauth2RedirectUrl: window.location.origin + ",
				`ui.initOAuth({"clientId":"docs-client"})`,
			},
		},
		{
			name: "self-hosted assets",
			opts: openapi.SwaggerUIOptions{
				OpenAPIURL: "/openapi.json",
				JSURL:      "/static/swagger-ui-bundle.js",
				CSSURL:     "/static/swagger-ui.css",
				Parameters: map[string]any{"dom_id": "#swagger-ui", "tryItOutEnabled": true},
			},
			want:    []string{`src="/static/swagger-ui-bundle.js"`, `href="/static/swagger-ui.css"`, `"tryItOutEnabled":true`},
			notWant: []string{openapi.SwaggerUIJSURL, "deepLinking"},
		},
		{
			name:    "title is escaped",
			opts:    openapi.SwaggerUIOptions{OpenAPIURL: "/openapi.json", Title: "<script>alert(1)</script>"},
			want:    []string{"&lt;script&gt;alert(1)&lt;/script&gt;"},
			notWant: []string{"<script>alert(1)</script>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := openapi.SwaggerUIHTML(tt.opts)
			if err != nil {
				t.Fatalf("SwaggerUIHTML: %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(html, s) {
					t.Errorf("expected %q in page:\n%s", s, html)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(html, s) {
					t.Errorf("unexpected %q in page", s)
				}
			}
		})
	}
}

func TestSwaggerUIHTML_IsPure(t *testing.T) {
	opts := openapi.SwaggerUIOptions{OpenAPIURL: "/openapi.json", Title: "API"}
	first, err := openapi.SwaggerUIHTML(opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := openapi.SwaggerUIHTML(opts)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("same options rendered different pages")
	}
}

func TestRedocHTML(t *testing.T) {
	html, err := openapi.RedocHTML(openapi.RedocOptions{
		OpenAPIURL:      "/openapi.json",
		Title:           "Items API - ReDoc",
		WithGoogleFonts: true,
	})
	if err != nil {
		t.Fatalf("RedocHTML: %v", err)
	}
	for _, s := range []string{
		`<redoc spec-url="/openapi.json"></redoc>`,
		"<title>Items API - ReDoc</title>",
		openapi.RedocJSURL,
		"fonts.googleapis.com",
	} {
		if !strings.Contains(html, s) {
			t.Errorf("expected %q in page:\n%s", s, html)
		}
	}

	plain, err := openapi.RedocHTML(openapi.RedocOptions{OpenAPIURL: "/openapi.json"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain, "fonts.googleapis.com") {
		t.Error("google fonts linked without WithGoogleFonts")
	}
}

func TestSwaggerUIOAuth2RedirectHTML(t *testing.T) {
	html := openapi.SwaggerUIOAuth2RedirectHTML()
	for _, s := range []string{"<title>Swagger UI: OAuth2 Redirect</title>", "window.opener.swaggerUIRedirectOauth2", "window.close()"} {
		if !strings.Contains(html, s) {
			t.Errorf("expected %q in redirect page", s)
		}
	}
	if html != openapi.SwaggerUIOAuth2RedirectHTML() {
		t.Error("redirect page must be static")
	}
}
