package main

import (
	"database/sql"
	"fmt"

	"dispatch/cmd"
	"dispatch/migrations"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var down bool

	command := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig(envFile)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.LogLevel).With("component", "Migrate")
			if down {
				logger.Info("rolling back the latest migration")
				return withSQLDB(cfg, migrations.Down)
			}

			logger.Info("applying migrations")
			return withSQLDB(cfg, migrations.Up)
		},
	}
	command.Flags().BoolVar(&down, "down", false, "roll back the latest migration instead")
	return command
}

// withSQLDB runs fn over a database/sql connection opened with lib/pq.
func withSQLDB(cfg cmd.Config, fn func(db *sql.DB) error) error {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return fn(db)
}
