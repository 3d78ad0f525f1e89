package metricservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	metricstorage "github.com/burenotti/gym_tracker_backend/internal/adapter/storage/metrics"
	sessionstorage "github.com/burenotti/gym_tracker_backend/internal/adapter/storage/sessions"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/userstorage"
	weightstorage "github.com/burenotti/gym_tracker_backend/internal/adapter/storage/weights"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
)

type UserStorage interface {
	GetByID(ctx context.Context, userID string) (*user.User, error)
	GetForUpdate(ctx context.Context, userID string) (*user.User, error)
	GetMany(ctx context.Context, userIDs []string) (map[string]*user.User, error)
	Persist(ctx context.Context, u *user.User) error
	CollectEvents() []domain.Event
	Close() error
}

type SessionStorage interface {
	AddWorkout(ctx context.Context, w *session.WorkoutSession) error
	GetWorkout(ctx context.Context, sessionID string, forUpdate bool) (*session.WorkoutSession, error)
	EndWorkout(ctx context.Context, w *session.WorkoutSession) error
	AddExerciseLog(ctx context.Context, l *session.ExerciseLog) error
	SumExerciseLogs(ctx context.Context, sessionID string) (sets, reps int, err error)
	AddCardio(ctx context.Context, c *session.CardioSession) error
	GetCardio(ctx context.Context, sessionID string) (*session.CardioSession, error)
	CountTrainingDays(ctx context.Context, userID string, loc *time.Location) (int, error)
	CountCompletedWorkouts(ctx context.Context, userID string, f session.WorkoutFilter) (int, error)
	CollectEvents() []domain.Event
	Close() error
}

type WeightStorage interface {
	Add(ctx context.Context, e *weight.Entry) error
	Last(ctx context.Context, userID string) (*weight.Entry, error)
	List(ctx context.Context, userID string, limit int) ([]*weight.Entry, error)
	AverageDaysBetweenChanges(ctx context.Context, userID string) (*float64, error)
	CollectEvents() []domain.Event
	Close() error
}

type MetricStorage interface {
	Create(ctx context.Context, m *metric.ClientMetrics) (bool, error)
	GetByClientID(ctx context.Context, clientID string, forUpdate bool) (*metric.ClientMetrics, error)
	ListByTrainer(ctx context.Context, trainerID string, limit, offset int) ([]*metric.ClientMetrics, error)
	Persist(ctx context.Context, m *metric.ClientMetrics) error
	CollectEvents() []domain.Event
	Close() error
}

// Storages is the set of storages bound to one transaction.
type Storages struct {
	Users    UserStorage
	Sessions SessionStorage
	Weights  WeightStorage
	Metrics  MetricStorage
}

type AtomicContext struct {
	Storages
	ctx context.Context
	db  storage.DBContext
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	if err := a.db.Commit(); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (a *AtomicContext) Close() (err error) {
	closers := []interface{ Close() error }{a.Users, a.Sessions, a.Weights, a.Metrics}
	for _, c := range closers {
		if closeErr := c.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}

	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}

	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	var events []domain.Event
	events = append(events, a.Users.CollectEvents()...)
	events = append(events, a.Sessions.CollectEvents()...)
	events = append(events, a.Weights.CollectEvents()...)
	events = append(events, a.Metrics.CollectEvents()...)
	return events
}

// NewContextFactory builds atomic contexts from storages opened on the
// transaction.
func NewContextFactory(
	open func(db storage.DBContext) Storages,
) func(context.Context, storage.DBContext) (*AtomicContext, error) {
	return func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{
			Storages: open(db),
			ctx:      ctx,
			db:       db,
		}, nil
	}
}

// PostgresStorages opens the Postgres storages on db.
func PostgresStorages(logger *slog.Logger) func(db storage.DBContext) Storages {
	return func(db storage.DBContext) Storages {
		return Storages{
			Users:    userstorage.NewPostgresStorage(db, logger),
			Sessions: sessionstorage.NewPostgresStorage(db),
			Weights:  weightstorage.NewPostgresStorage(db),
			Metrics:  metricstorage.NewPostgresStorage(db),
		}
	}
}
