package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/api"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/app/auth"
	"github.com/burenotti/gym_tracker_backend/internal/app/messagebus"
	metricservice "github.com/burenotti/gym_tracker_backend/internal/app/metric"
	profileapp "github.com/burenotti/gym_tracker_backend/internal/app/profile"
	"github.com/burenotti/gym_tracker_backend/internal/config"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	telemetry "github.com/burenotti/gym_tracker_backend/internal/telemetry/metrics"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leporo/sqlf"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := initLogger(cfg)

	warnings, err := cfg.Validate()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("insecure config", "problem", w)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	registry := telemetry.SetupPrometheus()
	counters := telemetry.NewManager(cfg.Telemetry.Namespace, "metrics", registry)

	bus := messagebus.New(logger)
	defer bus.Close()
	for _, eventType := range telemetry.EventTypes {
		bus.Register(eventType, counters.HandleEvent)
	}
	bus.Register(metric.EventWorkoutsReset, func(event domain.Event) error {
		e := event.(metric.WorkoutsResetEvent)
		logger.Info("processed workouts reset event", "client_id", e.ClientID, "reset_count", e.ResetCount)
		return nil
	})

	sqlf.SetDialect(sqlf.PostgreSQL)

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)

	authorizer := &auth.Authorizer{
		Secret:         cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	}

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.Authorizer(authorizer),
		api.DBContext(&storage.DB{DB: db}),
		api.MessageBus(bus),
		api.MetricService(metricservice.New(logger, metricservice.WithLocation(loc))),
		api.ProfileService(profileapp.New(logger)),
		api.Gatherer(registry),
	)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		logger.Info("server started", "host", cfg.Server.Host, "port", cfg.Server.Port)
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server closed with unexpected error", "error", err)
			return err
		}
	}
	logger.Info("server shutdown")
	return nil
}
