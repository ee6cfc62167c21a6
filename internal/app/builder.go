package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/popguide/catalog-server/internal/api"
	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/service/inmemory"
	"github.com/popguide/catalog-server/internal/sources"
	pkgsync "github.com/popguide/catalog-server/internal/sync"
	"github.com/popguide/catalog-server/internal/sync/coordinator"
	"github.com/popguide/catalog-server/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// CatalogAppOptions is a function that configures the catalog app builder
type CatalogAppOptions func(*catalogAppConfig) error

// catalogAppConfig collects builder settings. Component overrides exist for
// tests; production wiring fills in defaults.
type catalogAppConfig struct {
	config *config.Config

	sourceHandlerFactory sources.SourceHandlerFactory
	syncManager          pkgsync.Manager
	coordinatorOpts      []coordinator.Option

	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	janitorInterval time.Duration

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...CatalogAppOptions) (*catalogAppConfig, error) {
	cfg := &catalogAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewCatalogApp wires the store, sync, service, sessions and HTTP server
func NewCatalogApp(
	ctx context.Context,
	opts ...CatalogAppOptions,
) (*CatalogApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	components, err := buildComponents(ctx, cfg)
	if err != nil {
		return nil, err
	}

	httpServer, err := buildHTTPServer(ctx, cfg, components)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	return &CatalogApp{
		config:          cfg.config,
		components:      components,
		httpServer:      httpServer,
		janitorInterval: cfg.janitorInterval,
		ctx:             appCtx,
		cancelFunc:      cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithSourceHandlerFactory allows injecting a custom source handler factory (for testing)
func WithSourceHandlerFactory(f sources.SourceHandlerFactory) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.sourceHandlerFactory = f
		return nil
	}
}

// WithSyncManager allows injecting a custom sync manager (for testing)
func WithSyncManager(sm pkgsync.Manager) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.syncManager = sm
		return nil
	}
}

// WithCoordinatorOptions passes extra options to the sync coordinator
func WithCoordinatorOptions(opts ...coordinator.Option) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.coordinatorOpts = append(cfg.coordinatorOpts, opts...)
		return nil
	}
}

// WithJanitorInterval sets how often idle sessions are reaped. The default
// is half the session idle timeout.
func WithJanitorInterval(d time.Duration) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if d < 0 {
			return fmt.Errorf("janitor interval cannot be negative: %s", d)
		}
		cfg.janitorInterval = d
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for catalog, browse and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for HTTP and service spans
func WithTracerProvider(tp trace.TracerProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler serves the Prometheus scrape handler at /metrics
func WithMetricsHandler(h http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildComponents builds the store and everything that reads from it
func buildComponents(ctx context.Context, b *catalogAppConfig) (*AppComponents, error) {
	slog.Info("Initializing catalog components", "catalog", b.config.GetCatalogName())

	browseCfg := b.config.GetBrowse()
	store := catalog.NewStore()

	var classifierOpts []classify.Option
	if browseCfg.NewReleaseWindow > 0 {
		classifierOpts = append(classifierOpts, classify.WithRecencyWindow(browseCfg.NewReleaseWindow))
	}
	classifier := classify.New(classifierOpts...)
	facetCache := facets.NewCache(classifier)

	var browseMetrics *telemetry.BrowseMetrics
	if b.meterProvider != nil {
		m, err := telemetry.NewBrowseMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create browse metrics: %w", err)
		}
		browseMetrics = m
	}

	syncCoordinator, err := buildSyncComponents(ctx, b, store)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	svcOpts := []inmemory.Option{
		inmemory.WithConfig(b.config),
		inmemory.WithClassifier(classifier),
		inmemory.WithFacetCache(facetCache),
		inmemory.WithMetrics(browseMetrics),
	}
	if b.tracerProvider != nil {
		svcOpts = append(svcOpts, inmemory.WithTracer(b.tracerProvider.Tracer(inmemory.ServiceTracerName)))
	}
	catalogService, err := inmemory.New(store, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	sessions := browse.NewManager(store,
		browse.WithClassifier(classifier),
		browse.WithFacetCache(facetCache),
		browse.WithPageSize(browseCfg.PageSize),
		browse.WithScrollThreshold(browseCfg.ScrollThreshold),
		browse.WithIdleTimeout(browseCfg.GetSessionIdleTimeout()),
		browse.WithMetrics(browseMetrics),
	)

	slog.Info("Catalog components initialized successfully")
	return &AppComponents{
		Store:           store,
		Classifier:      classifier,
		SyncCoordinator: syncCoordinator,
		CatalogService:  catalogService,
		Sessions:        sessions,
	}, nil
}

// buildSyncComponents builds the sync manager and coordinator
func buildSyncComponents(
	_ context.Context,
	b *catalogAppConfig,
	store *catalog.Store,
) (coordinator.Coordinator, error) {
	slog.Info("Initializing sync components", "source_type", b.config.Source.GetType())

	if b.sourceHandlerFactory == nil {
		b.sourceHandlerFactory = sources.NewSourceHandlerFactory()
	}
	if b.syncManager == nil {
		b.syncManager = pkgsync.NewDefaultSyncManager(b.sourceHandlerFactory, store)
	}

	coordOpts := append([]coordinator.Option{}, b.coordinatorOpts...)
	if b.meterProvider != nil {
		catalogMetrics, err := telemetry.NewCatalogMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog metrics: %w", err)
		}
		if catalogMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithCatalogMetrics(catalogMetrics))
			slog.Info("Catalog metrics enabled")
		}
	}

	return coordinator.New(b.syncManager, store, b.config, coordOpts...), nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *catalogAppConfig,
	c *AppComponents,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	middlewares := b.middlewares
	if middlewares == nil {
		middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Resulting order: metrics, tracing, then the request chain
	if b.tracerProvider != nil {
		middlewares = append([]func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.tracerProvider)}, middlewares...)
	}
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, middlewares...)
			slog.Info("HTTP metrics middleware enabled")
		}
	}

	serverOpts := []api.ServerOption{
		api.WithMiddlewares(middlewares...),
		api.WithSessions(c.Sessions, c.Classifier),
	}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}
	router := api.NewServer(c.CatalogService, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
