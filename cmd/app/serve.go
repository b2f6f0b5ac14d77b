package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/migrations"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the tracking engine and the scheduled jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig(envFile)
			if err != nil {
				return err
			}

			if migrate {
				if err := withSQLDB(cfg, migrations.Up); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
	command.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return command
}

func serve(ctx context.Context, cfg cmd.Config) error {
	logger := newLogger(cfg.LogLevel)

	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(cfg, gormDB, logger)
	if err != nil {
		return fmt.Errorf("compose application: %w", err)
	}

	engine := app.TrackingEngine()
	engine.Start(ctx)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		engine.Stop()
		return fmt.Errorf("start jobs: %w", err)
	}

	e := httpadapter.NewEcho(app.CreateHTTPServer(), logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "component", "Serve", "port", cfg.HTTPPort)
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = errors.Join(err, e.Shutdown(shutdownCtx))
	jobManager.StopAll()
	engine.Stop()
	err = errors.Join(err, app.Close())

	logger.Info("shutdown complete", "component", "Serve")
	return err
}
