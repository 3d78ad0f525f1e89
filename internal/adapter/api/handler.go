package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/app/auth"
	metricservice "github.com/burenotti/gym_tracker_backend/internal/app/metric"
	profileapp "github.com/burenotti/gym_tracker_backend/internal/app/profile"
	"github.com/burenotti/gym_tracker_backend/internal/app/unitofwork"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	slogecho "github.com/samber/slog-echo"
)

type Server struct {
	handler        *echo.Echo
	logger         *slog.Logger
	addr           string
	db             storage.DBContext
	authorizer     *auth.Authorizer
	profileService *profileapp.Service
	metricService  *metricservice.Service
	metricStorages func(db storage.DBContext) metricservice.Storages
	userStorage    func(db storage.DBContext) profileapp.UserStorage
	msgBus         unitofwork.MessageBus
	gatherer       prometheus.Gatherer
	validator      *validator.Validate
}

func NewServer(opt ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.WriteTimeout = 10 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.IdleTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.MaxHeaderBytes = 4096

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Server{
		handler:   e,
		validator: v,
		logger:    slog.Default(),
	}

	for _, opt := range opt {
		opt(s)
	}

	if s.metricStorages == nil {
		s.metricStorages = metricservice.PostgresStorages(s.logger)
	}
	if s.userStorage == nil {
		s.userStorage = profileapp.PostgresUsers(s.logger)
	}

	e.Use(slogecho.NewWithConfig(s.logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.MountProfile()
	s.MountWorkouts()
	s.MountMetrics()
	s.MountTrainer()
	s.MountTelemetry()
}

func (s *Server) Handler() *echo.Echo {
	return s.handler
}

func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

func (s *Server) getMetricsUoW() *metricservice.UnitOfWork {
	return unitofwork.New[*metricservice.AtomicContext](
		s.db,
		metricservice.NewContextFactory(s.metricStorages),
		s.msgBus,
		s.logger,
	)
}

func (s *Server) getProfileUoW() *profileapp.UnitOfWork {
	return unitofwork.New[*profileapp.AtomicContext](
		s.db,
		profileapp.NewContextFactory(s.userStorage),
		s.msgBus,
		s.logger,
	)
}

func (s *Server) bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return fmt.Errorf("bad request")
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("bad request")
		}
		return fmt.Errorf("%s: %s", errs[0].Field(), errs[0].Error())

	}
	return nil
}
