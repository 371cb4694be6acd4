package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
	"github.com/shiva00s/ModernBillingApp-sub000/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or roll back database migrations",
	Long: `Apply all pending migrations (up, the default) or roll back the latest one (down).

Migrations are read from $MIGRATIONS_PATH and applied to $PGSQL_URL.`,
	Example: `  billing_backend migrate
  billing_backend migrate down`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE:      runMigrate,
}

func runMigrate(_ *cobra.Command, args []string) error {
	logger := newLogger()

	direction := database.MigrateUp
	if len(args) == 1 {
		direction = database.MigrationDirection(args[0])
	}
	if direction != database.MigrateUp && direction != database.MigrateDown {
		return fmt.Errorf("unknown migration direction %q", args[0])
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StorageDriver != config.StoragePostgres {
		return errors.New("migrations require STORAGE_DRIVER=postgres")
	}

	logger.Info("Running database migrations...", slog.String("direction", string(direction)), slog.String("path", cfg.MigrationsPath))
	return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger)
}
