package metricservice

import (
	"log/slog"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/app/unitofwork"
	"github.com/google/uuid"
)

type UnitOfWork = unitofwork.UnitOfWork[*AtomicContext]

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Service keeps client metrics in step with recorded activity and answers
// progress queries. Callers are expected to have checked permissions.
type Service struct {
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

// WithLocation sets the time zone used to split activity into calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		logger: logger,
		loc:    time.UTC,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}
