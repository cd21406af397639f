package openapi

import (
	"bytes"
	"fmt"
	"html/template"
)

// CDN defaults for the documentation pages.
const (
	SwaggerUIJSURL    = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"
	SwaggerUICSSURL   = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css"
	SwaggerUIFavicon  = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/favicon-32x32.png"
	RedocJSURL        = "https://cdn.jsdelivr.net/npm/redoc@2/bundles/redoc.standalone.js"
	googleFontsCSSURL = "https://fonts.googleapis.com/css?family=Montserrat:300,400,700|Roboto:300,400,700"
)

// DefaultSwaggerUIParameters returns the SwaggerUIBundle settings used when
// none are configured.
func DefaultSwaggerUIParameters() map[string]any {
	return map[string]any{
		"dom_id":               "#swagger-ui",
		"layout":               "BaseLayout",
		"deepLinking":          true,
		"showExtensions":       true,
		"showCommonExtensions": true,
	}
}

// SwaggerUIOptions configures SwaggerUIHTML. Empty asset URLs fall back to
// the CDN defaults.
type SwaggerUIOptions struct {
	OpenAPIURL        string
	Title             string
	JSURL             string
	CSSURL            string
	FaviconURL        string
	OAuth2RedirectURL string
	// InitOAuth is passed to ui.initOAuth when non-empty.
	InitOAuth map[string]any
	// Parameters are merged into the SwaggerUIBundle config.
	// Nil means DefaultSwaggerUIParameters.
	Parameters map[string]any
}

var swaggerUITemplate = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<link type="text/css" rel="stylesheet" href="{{.CSSURL}}">
<link rel="shortcut icon" href="{{.FaviconURL}}">
<title>{{.Title}}</title>
</head>
<body>
<div id="swagger-ui">
</div>
<noscript>Swagger UI requires JavaScript. The raw schema is at <a href="{{.OpenAPIURL}}">{{.OpenAPIURL}}</a>.</noscript>
<script src="{{.JSURL}}"></script>
<script>
const ui = SwaggerUIBundle(Object.assign({{.Parameters}}, {
    url: {{.OpenAPIURL}},
{{- if .OAuth2RedirectURL}}
    oauth2RedirectUrl: window.location.origin + {{.OAuth2RedirectURL}},
{{- end}}
    presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
    ],
}))
{{- if .InitOAuth}}
ui.initOAuth({{.InitOAuth}})
{{- end}}
</script>
</body>
</html>
`))

// SwaggerUIHTML renders the Swagger UI page for the schema at opts.OpenAPIURL.
func SwaggerUIHTML(opts SwaggerUIOptions) (string, error) {
	if opts.JSURL == "" {
		opts.JSURL = SwaggerUIJSURL
	}
	if opts.CSSURL == "" {
		opts.CSSURL = SwaggerUICSSURL
	}
	if opts.FaviconURL == "" {
		opts.FaviconURL = SwaggerUIFavicon
	}
	if opts.Parameters == nil {
		opts.Parameters = DefaultSwaggerUIParameters()
	}
	return render(swaggerUITemplate, opts)
}

// RedocOptions configures RedocHTML.
type RedocOptions struct {
	OpenAPIURL      string
	Title           string
	JSURL           string
	FaviconURL      string
	WithGoogleFonts bool
}

var redocTemplate = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- if .WithGoogleFonts}}
<link href="{{.FontsURL}}" rel="stylesheet">
{{- end}}
<link rel="shortcut icon" href="{{.FaviconURL}}">
<style>
  body {
    margin: 0;
    padding: 0;
  }
</style>
</head>
<body>
<noscript>
  ReDoc requires Javascript to function. Please enable it to browse the documentation.
</noscript>
<redoc spec-url="{{.OpenAPIURL}}"></redoc>
<script src="{{.JSURL}}"> </script>
</body>
</html>
`))

// RedocHTML renders the ReDoc page for the schema at opts.OpenAPIURL.
func RedocHTML(opts RedocOptions) (string, error) {
	if opts.JSURL == "" {
		opts.JSURL = RedocJSURL
	}
	if opts.FaviconURL == "" {
		opts.FaviconURL = SwaggerUIFavicon
	}
	return render(redocTemplate, struct {
		RedocOptions
		FontsURL string
	}{opts, googleFontsCSSURL})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("openapi: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// SwaggerUIOAuth2RedirectHTML returns the page Swagger UI opens as the OAuth2
// redirect target. It hands the authorization response back to the opener.
func SwaggerUIOAuth2RedirectHTML() string {
	return oauth2RedirectHTML
}

const oauth2RedirectHTML = `<!doctype html>
<html lang="en-US">
<head>
    <title>Swagger UI: OAuth2 Redirect</title>
</head>
<body>
<script>
    'use strict';
    function run () {
        var oauth2 = window.opener.swaggerUIRedirectOauth2;
        var sentState = oauth2.state;
        var redirectUrl = oauth2.redirectUrl;
        var isValid, qp, arr;

        if (/code|token|error/.test(window.location.hash)) {
            qp = window.location.hash.substring(1).replace('?', '&');
        } else {
            qp = location.search.substring(1);
        }

        arr = qp.split("&");
        arr.forEach(function (v,i,_arr) { _arr[i] = '"' + v.replace('=', '":"') + '"';});
        qp = qp ? JSON.parse('{' + arr.join() + '}',
                function (key, value) {
                    return key === "" ? value : decodeURIComponent(value);
                }
        ) : {};

        isValid = qp.state === sentState;

        if ((
          oauth2.auth.schema.get("flow") === "accessCode" ||
          oauth2.auth.schema.get("flow") === "authorizationCode" ||
          oauth2.auth.schema.get("flow") === "authorization_code"
        ) && !oauth2.auth.code) {
            if (!isValid) {
                oauth2.errCb({
                    authId: oauth2.auth.name,
                    source: "auth",
                    level: "warning",
                    message: "Authorization may be unsafe, passed state was changed in server. The passed state wasn't returned from auth server."
                });
            }

            if (qp.code) {
                delete oauth2.state;
                oauth2.auth.code = qp.code;
                oauth2.callback({auth: oauth2.auth, redirectUrl: redirectUrl});
            } else {
                let oauthErrorMsg;
                if (qp.error) {
                    oauthErrorMsg = "["+qp.error+"]: " +
                        (qp.error_description ? qp.error_description+ ". " : "no accessCode received from the server. ") +
                        (qp.error_uri ? "More info: "+qp.error_uri : "");
                }

                oauth2.errCb({
                    authId: oauth2.auth.name,
                    source: "auth",
                    level: "error",
                    message: oauthErrorMsg || "[Authorization failed]: no accessCode received from the server."
                });
            }
        } else {
            oauth2.callback({auth: oauth2.auth, token: qp, isValid: isValid, redirectUrl: redirectUrl});
        }
        window.close();
    }

    if (document.readyState !== 'loading') {
        run();
    } else {
        document.addEventListener('DOMContentLoaded', function () {
            run();
        });
    }
</script>
</body>
</html>
`
