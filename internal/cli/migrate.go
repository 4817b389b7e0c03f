package cli

import (
	"context"
	"fmt"

	"bias-assessment-service/internal/catalog"
	"bias-assessment-service/internal/config"
	"bias-assessment-service/internal/infra/postgres"
	pgmigrations "bias-assessment-service/internal/infra/postgres/migrations"
	"bias-assessment-service/internal/logging"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := commandSetup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runMigrationsWithConfig(cmd.Context(), cfg, logger)
		},
	}
}

// NewSeedCmd loads the embedded catalog (or catalog.path) into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load the question catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := commandSetup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runSeed(cmd.Context(), cfg, logger)
		},
	}
}

func commandSetup(configPath string) (config.Config, *zap.Logger, error) {
	cfg, missing, err := loadConfig(configPath)
	if err != nil {
		return cfg, nil, err
	}
	logger := logging.New(cfg)
	if missing {
		logger.Warn("config file not found, using defaults", zap.String("path", configPath))
	}
	return cfg, logger, nil
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := postgres.OpenBun(cfg.Postgres.URL)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		logger.Info("no new migrations")
		return nil
	}
	logger.Info("migrations applied", zap.String("group", group.String()))
	return nil
}

func runSeed(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	c := catalog.Seed()
	if cfg.Catalog.Path != "" {
		var err error
		if c, err = catalog.NewFileLoader(cfg.Catalog.Path).LoadCatalog(ctx); err != nil {
			return err
		}
	}

	db := postgres.OpenBun(cfg.Postgres.URL)
	defer db.Close()
	if err := postgres.SeedCatalog(ctx, db, c); err != nil {
		return err
	}
	logger.Info("catalog seeded", zap.Int("questions", len(c.Questions)), zap.Int("resources", len(c.Resources)))
	return nil
}
