package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/sources"
	pkgsync "github.com/popguide/catalog-server/internal/sync"
	browseui "github.com/popguide/catalog-server/internal/ui/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog in the terminal",
	Long: `Load the configured catalog once and browse it interactively.

Typing edits the search term. F1-F7 toggle status filters, tab and ctrl+s
move the status focus and toggle it, ctrl+v cycles the vaulted filter and
ctrl+r clears every filter. Moving the cursor near the end of the list
loads the next page.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := browseCmd.MarkFlagRequired("config"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as required: %v", err))
	}
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store := catalog.NewStore()
	manager := pkgsync.NewDefaultSyncManager(sources.NewSourceHandlerFactory(), store)
	if result, syncErr := manager.PerformSync(ctx, &cfg.Source); syncErr != nil {
		// an unavailable source browses as an empty catalog
		slog.Warn("Failed to load catalog", "reason", syncErr.Reason, "error", syncErr)
		store.Fail(syncErr)
	} else {
		slog.Info("Catalog loaded", "item_count", result.ItemCount, "rejected", result.Rejected)
	}

	classifier, opts := browseOptions(cfg.GetBrowse())
	session := browse.NewSession(store, opts...)
	defer session.Close()

	return browseui.Run(ctx, session, classifier)
}

// browseOptions maps browse configuration onto session options
func browseOptions(cfg config.BrowseConfig) (*classify.Classifier, []browse.Option) {
	var classifierOpts []classify.Option
	if cfg.NewReleaseWindow > 0 {
		classifierOpts = append(classifierOpts, classify.WithRecencyWindow(cfg.NewReleaseWindow))
	}
	classifier := classify.New(classifierOpts...)

	return classifier, []browse.Option{
		browse.WithClassifier(classifier),
		browse.WithPageSize(cfg.PageSize),
		browse.WithScrollThreshold(cfg.ScrollThreshold),
	}
}
