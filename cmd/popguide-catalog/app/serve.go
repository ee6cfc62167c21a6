package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	catalogapp "github.com/popguide/catalog-server/internal/app"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog API server",
	Long: `Start the catalog API server.

The server requires a configuration file (--config) that specifies:
- The catalog source (file, REST API or PostgreSQL)
- Sync policy and browse settings
- Telemetry settings

See the examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	telemetryFlushTimeout  = 5 * time.Second
	defaultServeAddress    = ":8080"
)

func init() {
	serveCmd.Flags().String("address", defaultServeAddress, "Address to listen on")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		panic(fmt.Sprintf("failed to bind address flag: %v", err))
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		panic(fmt.Sprintf("failed to bind config flag: %v", err))
	}
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as required: %v", err))
	}
}

// loadConfig loads and validates the configuration file at path
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration",
		"path", path,
		"catalog", cfg.GetCatalogName(),
		"source_type", cfg.Source.GetType())
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := viper.GetString("address")
	cfg, err := loadConfig(viper.GetString("config"))
	if err != nil {
		return err
	}

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	opts := []catalogapp.CatalogAppOptions{
		catalogapp.WithConfig(cfg),
		catalogapp.WithAddress(address),
		catalogapp.WithMeterProvider(tel.MeterProvider()),
		catalogapp.WithTracerProvider(tel.TracerProvider()),
	}
	if h := tel.MetricsHandler(); h != nil {
		opts = append(opts, catalogapp.WithMetricsHandler(h))
	}

	catalogApp, err := catalogapp.NewCatalogApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create catalog app: %w", err)
	}

	slog.Info("Starting catalog API server", "address", address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- catalogApp.Start()
	}()

	select {
	case err := <-errCh:
		// Start only returns early when a component failed
		if stopErr := catalogApp.Stop(defaultGracefulTimeout); stopErr != nil {
			slog.Error("Failed to stop catalog app", "error", stopErr)
		}
		return err
	case <-ctx.Done():
	}

	if err := catalogApp.Stop(defaultGracefulTimeout); err != nil {
		return err
	}
	return <-errCh
}
