package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/popguide/catalog-server/database"
)

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert database migrations",
	Long: `Revert database migrations. Reverting every step drops the catalog table.

Examples:
  # Migrate down by 1 step
  popguide-catalog migrate down --config config.yaml --num-steps 1 --yes

  # Migrate down all the way (WARNING: destroys all data)
  popguide-catalog migrate down --config config.yaml --yes`,
	RunE: runMigrateDown,
}

func init() {
	migrateCmd.AddCommand(migrateDownCmd)
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	_, m, err := setupMigration(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	if err := confirmMigrateDown(cmd, numSteps); err != nil {
		return err
	}

	if err := executeMigrateDown(m, numSteps); err != nil {
		return err
	}
	displayMigrationVersion(m)
	return nil
}

func confirmMigrateDown(cmd *cobra.Command, numSteps uint) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}
	if yes {
		return nil
	}

	prompt := "WARNING: This will migrate down ALL steps and drop the catalog table. Continue?"
	if numSteps > 0 {
		prompt = fmt.Sprintf("WARNING: This will migrate down %d step(s) and may result in data loss. Continue?", numSteps)
	}

	if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
		slog.Info("Migration cancelled")
		return fmt.Errorf("migration cancelled by user")
	}
	return nil
}

func executeMigrateDown(m database.Migrator, numSteps uint) error {
	steps, err := stepCount(numSteps)
	if err != nil {
		return err
	}

	if steps == 0 {
		slog.Warn("Migrating down all steps, this will remove the catalog table")
		err = m.Down()
	} else {
		slog.Info("Migrating down", "steps", steps)
		err = m.Steps(-steps)
	}

	if err := database.IgnoreNoChange(err); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("Migration completed successfully")
	return nil
}
