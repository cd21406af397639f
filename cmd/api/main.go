package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/ghuser/apidocs/pkg/app"
	"github.com/ghuser/apidocs/pkg/cache"
	"github.com/ghuser/apidocs/pkg/config"
	"github.com/ghuser/apidocs/pkg/events"
	"github.com/ghuser/apidocs/pkg/httpx"
	"github.com/ghuser/apidocs/pkg/logger"
	"github.com/ghuser/apidocs/pkg/telemetry"
	itemApi "github.com/ghuser/apidocs/services/item/application/api"
	itemsvcs "github.com/ghuser/apidocs/services/item/application/services"
	itemevents "github.com/ghuser/apidocs/services/item/domain/events"
	"github.com/ghuser/apidocs/services/item/infrastructure/persistence/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Discard().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if err := config.ValidateForProduction(cfg); err != nil {
		log.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry: OTel tracing + metrics
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	schemaMetrics, err := telemetry.NewSchemaMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Error("failed to create schema metrics", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}

	eventBus := events.NewEventBus(log)
	repo := memory.NewItemRepository()
	checks := httpx.HealthChecks{"items": repo, "event_bus": eventBus}
	svcOpts := []itemsvcs.Option{itemsvcs.WithPublisher(eventBus), itemsvcs.WithLogger(log)}

	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		checks["redis"] = redisClient
		svcOpts = append(svcOpts, itemsvcs.WithCache(cache.NewItemCache(redisClient)))
		log.Info("redis connected, item cache enabled")
	}

	opts := []app.Option{
		app.WithTitle(cfg.APITitle),
		app.WithDescription(cfg.APIDescription),
		app.WithVersion(cfg.APIVersion),
		app.WithOpenAPIURL(cfg.OpenAPIURL),
		app.WithOpenAPITags(itemApi.Tag),
		app.WithDocsURL(cfg.DocsURL),
		app.WithRedocURL(cfg.RedocURL),
		app.WithSwaggerUIOAuth2RedirectURL(cfg.OAuth2RedirectURL),
		app.WithSwaggerUIInitOAuth(cfg.SwaggerInitOAuth()),
		app.WithDocsStaticURL(cfg.DocsStaticURL),
		app.WithDebug(cfg.Debug),
		app.WithLogger(log),
		app.WithSchemaObserver(schemaMetrics.Record),
		app.WithMiddleware(httpx.StandardMiddleware(
			httpx.ServerConfig{
				ServiceName:           cfg.ServiceName,
				IsDevelopment:         cfg.Environment == config.EnvDevelopment,
				CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
				ContentSecurityPolicy: httpx.DocsContentSecurityPolicy,
			},
			logger.Middleware(log),
			telemetry.SentryMiddleware(),
			otelhttp.NewMiddleware(cfg.ServiceName),
		)...),
		app.WithExceptionHandler(http.StatusInternalServerError, func(w http.ResponseWriter, r *http.Request, err error) {
			telemetry.ReportError(r, err)
			log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
			httpx.JSONError(w, http.StatusInternalServerError, httpx.SafeError(err, http.StatusInternalServerError, !cfg.Debug))
		}),
		app.WithOnStartup(func(context.Context) error {
			return subscribeAudit(ctx, eventBus, log)
		}),
		app.WithOnShutdown(func(context.Context) error {
			return eventBus.Close()
		}),
	}
	opts = append(opts, itemApi.ExceptionHandlers()...)

	a := app.New(opts...)
	itemApi.ItemRoutes(a, itemsvcs.NewItemService(repo, svcOpts...))
	a.AddRoute("/health", httpx.HealthHandler(checks), false)
	a.AddRoute("/metrics", metricsHandler.ServeHTTP, false)

	if err := a.Startup(ctx); err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	srv := httpx.NewServer(cfg.HTTPAddr, a)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "docs", cfg.DocsURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown hooks failed", "error", err)
	}
	log.Info("server stopped")
}

// subscribeAudit logs every item event at info level.
func subscribeAudit(ctx context.Context, bus *events.EventBus, log logger.Logger) error {
	for _, topic := range []string{itemevents.TopicItemCreated, itemevents.TopicItemUpdated, itemevents.TopicItemDeleted} {
		errCh, err := bus.Subscribe(ctx, topic, func(ctx context.Context, msg *message.Message) error {
			log.InfoContext(ctx, "item event", "topic", topic, "message_id", msg.UUID, "payload", string(msg.Payload))
			return nil
		})
		if err != nil {
			return err
		}
		go func() {
			for err := range errCh {
				log.ErrorContext(ctx, "audit subscriber error", "topic", topic, "error", err)
			}
		}()
	}
	return nil
}
