package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// DefaultContentSecurityPolicy locks every resource to the serving origin.
const DefaultContentSecurityPolicy = "default-src 'self'"

// DocsContentSecurityPolicy additionally allows the CDN-hosted Swagger UI and
// ReDoc bundles plus their inline bootstrap scripts.
const DocsContentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' data: https://cdn.jsdelivr.net https://cdn.redoc.ly; " +
	"worker-src 'self' blob:"

// ServerConfig holds the options for StandardMiddleware.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// ContentSecurityPolicy defaults to DefaultContentSecurityPolicy.
	ContentSecurityPolicy string
}

// StandardMiddleware returns the project's standard middleware stack as an
// ordered list, ready to hand to an Application. App-specific middlewares
// (logger, sentry, otel) are slotted in at their fixed positions.
//
// Middleware order (outermost → innermost):
//  1. sentryMiddleware   captures panics, re-panics (Repanic: true)
//  2. RequestID          unique X-Request-Id per request
//  3. otelMiddleware     starts trace span per request
//  4. loggerMiddleware   logs request + trace_id/span_id
//  5. RealIP             sets RemoteAddr from X-Forwarded-For
//  6. RateLimit          100 req/min per IP
//  7. CORS               cross-origin preflight and headers
//  8. BodyLimit          10 MB request body cap
//  9. Timeout            30 s handler deadline
//  10. SecurityHeaders   CSP, HSTS, X-Frame-Options, Permissions-Policy, etc.
//
// Panic recovery is not part of the list; the Application installs it
// outside every configured middleware.
func StandardMiddleware(
	cfg ServerConfig,
	loggerMiddleware func(http.Handler) http.Handler,
	sentryMiddleware func(http.Handler) http.Handler,
	otelMiddleware func(http.Handler) http.Handler,
) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		sentryMiddleware,
		middleware.RequestID,
		otelMiddleware,
		loggerMiddleware,
		middleware.RealIP,
		httprate.LimitByIP(100, time.Minute),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(10 << 20), // 10 MB
		middleware.Timeout(30 * time.Second),
		SecurityHeaders(cfg),
	}
}

// SecurityHeaders returns the unrolled/secure handler configured from cfg.
func SecurityHeaders(cfg ServerConfig) func(http.Handler) http.Handler {
	csp := cfg.ContentSecurityPolicy
	if csp == "" {
		csp = DefaultContentSecurityPolicy
	}
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: csp,
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=(), magnetometer=(), gyroscope=()",
		IsDevelopment:         cfg.IsDevelopment,
	})
	return sec.Handler
}

// CORSMiddleware returns a CORS handler restricted to the given allowed origins.
// allowedOrigins is a comma-separated list (e.g. "https://app.example.com,http://localhost:3000").
// Pass "*" to allow all origins (development only).
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// parseOrigins splits a comma-separated origins string into a slice, trimming spaces.
func parseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit returns middleware that caps the request body at maxBytes.
// When the limit is exceeded, reads on the body return an error that handlers
// should convert to a 413 response.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server with production-ready timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}
