package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/popguide/catalog-server/database"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/db/auth"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tool",
	Long:  `Database migration tool for the catalog table. Use with 'up' or 'down' subcommands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

func init() {
	migrateCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	migrateCmd.PersistentFlags().UintP("num-steps", "n", 0, "Number of steps to migrate (0 = all)")
	migrateCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := migrateCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}
}

// newMigrator is replaced in tests
var newMigrator = database.NewFromConnectionString

// setupMigration loads the configuration and opens a migrator for its database source
func setupMigration(cmd *cobra.Command) (*config.DatabaseConfig, database.Migrator, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Source.Database == nil {
		return nil, nil, fmt.Errorf("migrations require a database source")
	}
	if cfg.Source.Database.GetTable() != config.DefaultTable {
		slog.Warn("Migrations create the default catalog table",
			"table", config.DefaultTable,
			"configured_table", cfg.Source.Database.GetTable())
	}

	connString, err := migrationConnectionString(cmd, cfg.Source.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	m, err := newMigrator(connString)
	if err != nil {
		return nil, nil, err
	}
	return cfg.Source.Database, m, nil
}

// stdinIsTerminal and readTerminalPassword are replaced in tests
var (
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115 -- file descriptors fit in int
	}
	readTerminalPassword = func() ([]byte, error) {
		return term.ReadPassword(int(os.Stdin.Fd())) // #nosec G115 -- file descriptors fit in int
	}
)

// migrationConnectionString resolves credentials for the migration connection.
// golang-migrate opens its own connection, so a dynamic auth token is embedded
// in the string. Without a configured password an interactive terminal is
// prompted for one.
func migrationConnectionString(cmd *cobra.Command, dbCfg *config.DatabaseConfig) (string, error) {
	if dbCfg.UsesDynamicAuth() {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		token, err := auth.NewToken(ctx, dbCfg, dbCfg.User)
		if err != nil {
			return "", fmt.Errorf("failed to resolve auth token: %w", err)
		}
		return dbCfg.BuildConnectionString(token), nil
	}

	connString, err := dbCfg.GetConnectionString()
	if err == nil || !errors.Is(err, config.ErrNoPassword) || !stdinIsTerminal() {
		return connString, err
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s@%s: ", dbCfg.User, dbCfg.Host)
	password, err := readTerminalPassword()
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	return dbCfg.BuildConnectionString(strings.TrimSpace(string(password))), nil
}

// closeMigrator releases the migrator's source and database handles
func closeMigrator(m database.Migrator) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		slog.Error("Error closing migration source", "error", srcErr)
	}
	if dbErr != nil {
		slog.Error("Error closing database connection", "error", dbErr)
	}
}

// confirm asks a yes/no question on out and reads the answer from in
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s (yes/no): ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// stepCount validates the num-steps flag for Migrator.Steps
func stepCount(numSteps uint) (int, error) {
	const maxSteps = 1 << 20
	if numSteps > maxSteps {
		return 0, fmt.Errorf("number of steps exceeds maximum allowed value")
	}
	return int(numSteps), nil // #nosec G115 -- bounded above
}

func displayMigrationVersion(m database.Migrator) {
	version, dirty, err := m.Version()
	if err != nil {
		slog.Info("No migrations applied", "reason", err.Error())
		return
	}

	if dirty {
		slog.Warn("Database is in a dirty state, manual intervention may be required", "version", version)
	} else {
		slog.Info("Current migration version", "version", version)
	}
}
