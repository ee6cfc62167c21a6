package coordinator

import (
	"context"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/config"
	pkgsync "github.com/popguide/catalog-server/internal/sync"
	"github.com/popguide/catalog-server/internal/telemetry"
)

const (
	// DefaultMaxTries bounds the fetch attempts of a single refresh
	DefaultMaxTries = 3

	// defaultInitialInterval is the first retry delay
	defaultInitialInterval = time.Second
)

// Coordinator manages background catalog refreshes
type Coordinator interface {
	// Start performs the initial load and then refreshes on every interval.
	// Blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the coordinator
	Stop() error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager pkgsync.Manager
	store   *catalog.Store
	config  *config.Config

	newBackOff func() backoff.BackOff
	maxTries   uint

	mu         gosync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}

	catalogMetrics *telemetry.CatalogMetrics
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithCatalogMetrics sets the catalog metrics for the coordinator
func WithCatalogMetrics(metrics *telemetry.CatalogMetrics) Option {
	return func(c *defaultCoordinator) {
		c.catalogMetrics = metrics
	}
}

// WithBackOff replaces the retry delay policy. newBackOff is called once per refresh.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *defaultCoordinator) {
		c.newBackOff = newBackOff
	}
}

// WithMaxTries sets how many fetch attempts a refresh makes before failing
func WithMaxTries(n uint) Option {
	return func(c *defaultCoordinator) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// New creates a new coordinator with injected dependencies
func New(manager pkgsync.Manager, store *catalog.Store, cfg *config.Config, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		manager:    manager,
		store:      store,
		config:     cfg,
		newBackOff: defaultBackOff,
		maxTries:   DefaultMaxTries,
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialInterval
	b.MaxInterval = 30 * time.Second
	return b
}

// Start begins background sync coordination
func (c *defaultCoordinator) Start(ctx context.Context) error {
	interval := c.config.GetSyncInterval()
	slog.Info("Starting catalog sync coordinator",
		"catalog", c.config.GetCatalogName(),
		"source_type", c.config.Source.GetType(),
		"interval", interval)

	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		slog.Info("Catalog sync coordinator shut down")
	}()

	fileChanged := make(chan struct{}, 1)
	if file := c.config.Source.File; file != nil && file.Watch {
		go func() {
			if err := watchFile(coordCtx, file.Path, fileChanged); err != nil {
				slog.Error("Catalog file watch stopped, falling back to the sync interval",
					"path", file.Path,
					"error", err)
			}
		}()
	}

	c.refresh(coordCtx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.refresh(coordCtx)
		case <-fileChanged:
			c.refresh(coordCtx)
		case <-coordCtx.Done():
			slog.Info("Catalog sync coordinator stopping")
			return nil
		}
	}
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()

	if cancel != nil {
		slog.Info("Stopping catalog sync coordinator")
		cancel()
		<-c.done
	}
	return nil
}

// refresh runs one sync check and, when needed, a load with retries
func (c *defaultCoordinator) refresh(ctx context.Context) {
	catalogName := c.config.GetCatalogName()
	source := &c.config.Source

	shouldSync, reason := c.manager.ShouldSync(ctx, source, c.store.Status())
	if !shouldSync {
		slog.Debug("Catalog does not need a refresh", "catalog", catalogName, "reason", reason)
		return
	}

	slog.Info("Refreshing catalog", "catalog", catalogName, "reason", reason)
	startTime := time.Now()

	result, err := backoff.Retry(ctx, func() (*pkgsync.Result, error) {
		result, syncErr := c.manager.PerformSync(ctx, source)
		if syncErr != nil {
			if !syncErr.Retryable() {
				return nil, backoff.Permanent(syncErr)
			}
			return nil, syncErr
		}
		return result, nil
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Catalog fetch failed, retrying",
				"catalog", catalogName,
				"error", err,
				"retry_in", next)
		}),
	)

	duration := time.Since(startTime)

	if err != nil {
		if ctx.Err() != nil {
			slog.Info("Catalog refresh cancelled", "catalog", catalogName)
			return
		}
		c.store.Fail(err)
		c.catalogMetrics.RecordRefreshDuration(ctx, catalogName, duration, false)
		slog.Error("Catalog refresh failed",
			"catalog", catalogName,
			"error", err,
			"duration", duration)
		return
	}

	c.catalogMetrics.RecordRefreshDuration(ctx, catalogName, duration, true)
	c.catalogMetrics.RecordItemsTotal(ctx, catalogName, int64(result.ItemCount))

	slog.Info("Catalog refresh completed",
		"catalog", catalogName,
		"item_count", result.ItemCount,
		"rejected", result.Rejected,
		"filtered", result.Filtered,
		"generation", result.Generation,
		"changed", result.Changed,
		"duration", duration)
}
