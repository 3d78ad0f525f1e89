package metricservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
)

// ResetWorkoutCount records a soft reset of the client's workout count.
// Sessions and cumulative counters are kept.
func (s *Service) ResetWorkoutCount(
	ctx context.Context,
	uow *UnitOfWork,
	clientID string,
) (res metric.ResetResult, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		m, err := s.getOrCreate(a, clientID, nil)
		if err != nil {
			return err
		}

		live, err := a.Sessions.CountCompletedWorkouts(a.Context(), clientID, session.WorkoutFilter{})
		if err != nil {
			return err
		}

		res = m.RecordReset(live, s.now())

		if err := a.Metrics.Persist(a.Context(), m); err != nil {
			return err
		}
		return a.Commit()
	})

	if outErr == nil {
		s.logger.InfoContext(ctx, "workout count reset",
			slog.String("client_id", clientID),
			slog.Int("archived", res.WorkoutsArchived),
			slog.Int("reset_count", res.ResetCount),
		)
	}
	return
}

// WorkoutsSinceReset counts completed workouts that ended at or after the
// last reset, or all of them when the client never reset.
func (s *Service) WorkoutsSinceReset(
	ctx context.Context,
	uow *UnitOfWork,
	clientID string,
) (count int, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		var filter session.WorkoutFilter

		m, err := a.Metrics.GetByClientID(a.Context(), clientID, false)
		switch {
		case err == nil:
			filter.EndedFrom = m.LastResetDate
		case !errors.Is(err, metric.ErrMetricsNotFound):
			return err
		}

		if count, err = a.Sessions.CountCompletedWorkouts(a.Context(), clientID, filter); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}
