package api

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/app/auth"
	metricservice "github.com/burenotti/gym_tracker_backend/internal/app/metric"
	profileapp "github.com/burenotti/gym_tracker_backend/internal/app/profile"
	"github.com/burenotti/gym_tracker_backend/internal/app/unitofwork"
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*Server)

func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func DBContext(db storage.DBContext) Option {
	return func(s *Server) {
		s.db = db
	}
}

func Authorizer(a *auth.Authorizer) Option {
	return func(s *Server) {
		s.authorizer = a
	}
}

func MetricService(service *metricservice.Service) Option {
	return func(s *Server) {
		s.metricService = service
	}
}

func ProfileService(service *profileapp.Service) Option {
	return func(s *Server) {
		s.profileService = service
	}
}

// MetricStorages replaces the Postgres storages opened per transaction.
func MetricStorages(open func(db storage.DBContext) metricservice.Storages) Option {
	return func(s *Server) {
		s.metricStorages = open
	}
}

func UserStorage(open func(db storage.DBContext) profileapp.UserStorage) Option {
	return func(s *Server) {
		s.userStorage = open
	}
}

func MessageBus(bus unitofwork.MessageBus) Option {
	return func(s *Server) {
		s.msgBus = bus
	}
}

// Gatherer exposes the registry at /prometheus/metrics.
func Gatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}
