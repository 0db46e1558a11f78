package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/barstock/internal/app"
	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/database"
)

// bootstrap loads configuration and opens a migrated database.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := app.NewLogger(cfg)

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("schema is up to date", slog.String("driver", cfg.DBDriver))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo suppliers and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Seed(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("demo catalog seeded")
		return nil
	},
}
