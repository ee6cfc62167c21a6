package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/popguide/catalog-server/database"
)

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending database migrations",
	Long: `Apply pending database migrations to create or update the catalog table.
The connection parameters are read from the database source of the config file.

Examples:
  popguide-catalog migrate up --config config.yaml --yes`,
	RunE: runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	dbCfg, m, err := setupMigration(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}
	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	if !yes {
		prompt := fmt.Sprintf("About to apply migrations to %s@%s:%d/%s. Continue?",
			dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Database)
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
			slog.Info("Migration cancelled by user")
			return nil
		}
	}

	if err := executeMigrateUp(m, numSteps); err != nil {
		return err
	}
	displayMigrationVersion(m)
	return nil
}

func executeMigrateUp(m database.Migrator, numSteps uint) error {
	steps, err := stepCount(numSteps)
	if err != nil {
		return err
	}

	if steps == 0 {
		slog.Info("Applying all pending migrations")
		err = m.Up()
	} else {
		slog.Info("Applying migrations", "steps", steps)
		err = m.Steps(steps)
	}

	if err := database.IgnoreNoChange(err); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("Migration completed successfully")
	return nil
}
