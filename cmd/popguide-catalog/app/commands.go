// Package app provides the entry point for the PopGuide catalog application.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/popguide/catalog-server/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "popguide-catalog",
	DisableAutoGenTag: true,
	Short:             "PopGuide catalog server",
	Long: `PopGuide catalog server loads a Funko catalog snapshot and serves faceted
search, filtering and windowed browsing over it.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

var rootOnce sync.Once

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootOnce.Do(func() {
		rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
		if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
			slog.Error("Error binding debug flag", "error", err)
		}

		rootCmd.AddCommand(serveCmd)
		rootCmd.AddCommand(browseCmd)
		rootCmd.AddCommand(versionCmd)
		rootCmd.AddCommand(migrateCmd)
	})
	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format version info: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return err
		}

		slog.Info("popguide-catalog version",
			"version", info.Version,
			"commit", info.Commit,
			"built", info.BuildDate,
			"go", info.GoVersion,
			"platform", info.Platform)
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
