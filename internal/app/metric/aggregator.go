package metricservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
)

// GetOrCreate returns the metrics record of a client, creating it from the
// client's profile on first use. trainerHint overrides the trainer linked in
// the profile.
func (s *Service) GetOrCreate(
	ctx context.Context,
	uow *UnitOfWork,
	clientID string,
	trainerHint *string,
) (m *metric.ClientMetrics, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		var err error
		if m, err = s.getOrCreate(a, clientID, trainerHint); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}

// getOrCreate locks the record for the rest of the transaction. Concurrent
// creators race on the unique client id and the loser reads the winner's row.
func (s *Service) getOrCreate(a *AtomicContext, clientID string, trainerHint *string) (*metric.ClientMetrics, error) {
	ctx := a.Context()

	m, err := a.Metrics.GetByClientID(ctx, clientID, true)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, metric.ErrMetricsNotFound) {
		return nil, err
	}

	client, err := a.Users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	trainerID := trainerHint
	if trainerID == nil {
		trainerID = client.PersonalTrainerID
	}

	var seed *float64
	if client.Weight > 0 {
		w := client.Weight
		seed = &w
	}

	created, err := a.Metrics.Create(ctx, metric.New(s.newID(), clientID, trainerID, seed, s.now()))
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.InfoContext(ctx, "client metrics created", slog.String("client_id", clientID))
	}

	return a.Metrics.GetByClientID(ctx, clientID, true)
}

// OnWorkoutCompleted folds a finished workout session into the metrics of
// its owner. Open sessions are ignored. It is not idempotent per session:
// a second call for the same session counts it again, so it must not be
// retried outside the unit of work. EndWorkout calls it exactly once.
func (s *Service) OnWorkoutCompleted(ctx context.Context, uow *UnitOfWork, sessionID string) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		w, err := a.Sessions.GetWorkout(a.Context(), sessionID, false)
		if err != nil {
			return err
		}
		if err := s.applyWorkout(a, w); err != nil {
			return err
		}
		return a.Commit()
	})
}

func (s *Service) applyWorkout(a *AtomicContext, w *session.WorkoutSession) error {
	ctx := a.Context()

	if !w.Completed() {
		s.logger.DebugContext(ctx, "workout still open, metrics untouched", slog.String("session_id", w.SessionID))
		return nil
	}

	m, err := s.getOrCreate(a, w.UserID, nil)
	if err != nil {
		return err
	}

	sets, reps, err := a.Sessions.SumExerciseLogs(ctx, w.SessionID)
	if err != nil {
		return err
	}

	m.RecordWorkout(w.SessionID, w.Duration(), sets, reps, *w.EndTime)

	if err := s.refreshTrainingDays(a, m); err != nil {
		return err
	}

	return a.Metrics.Persist(ctx, m)
}

// OnCardioCompleted folds a cardio session into the metrics of its owner.
func (s *Service) OnCardioCompleted(ctx context.Context, uow *UnitOfWork, sessionID string) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		c, err := a.Sessions.GetCardio(a.Context(), sessionID)
		if err != nil {
			return err
		}
		if err := s.applyCardio(a, c); err != nil {
			return err
		}
		return a.Commit()
	})
}

func (s *Service) applyCardio(a *AtomicContext, c *session.CardioSession) error {
	m, err := s.getOrCreate(a, c.UserID, nil)
	if err != nil {
		return err
	}

	m.RecordCardio(c.SessionID, c.Hours(), c.StartTime)

	if err := s.refreshTrainingDays(a, m); err != nil {
		return err
	}

	return a.Metrics.Persist(a.Context(), m)
}

// OnWeightChanged applies a new weight of the client. Weights that are not
// positive finite numbers fail with weight.ErrInvalidWeight. The weight
// history entry must already be stored in the same transaction.
func (s *Service) OnWeightChanged(ctx context.Context, uow *UnitOfWork, clientID string, newWeight float64) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		if err := s.applyWeight(a, clientID, newWeight); err != nil {
			return err
		}
		return a.Commit()
	})
}

func (s *Service) applyWeight(a *AtomicContext, clientID string, newWeight float64) error {
	ctx := a.Context()

	if err := weight.Validate(newWeight); err != nil {
		return err
	}

	m, err := s.getOrCreate(a, clientID, nil)
	if err != nil {
		return err
	}

	avgDays, err := a.Weights.AverageDaysBetweenChanges(ctx, clientID)
	if err != nil {
		return err
	}

	if err := m.RecordWeight(newWeight, avgDays, s.now()); err != nil {
		return err
	}

	return a.Metrics.Persist(ctx, m)
}

func (s *Service) refreshTrainingDays(a *AtomicContext, m *metric.ClientMetrics) error {
	days, err := a.Sessions.CountTrainingDays(a.Context(), m.ClientID, s.loc)
	if err != nil {
		return err
	}
	m.SetTrainingDays(days, s.now())
	return nil
}
