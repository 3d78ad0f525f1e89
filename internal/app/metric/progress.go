package metricservice

import (
	"context"

	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
)

// GetMetrics returns the stored record without creating one.
func (s *Service) GetMetrics(
	ctx context.Context,
	uow *UnitOfWork,
	clientID string,
) (m *metric.ClientMetrics, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		var err error
		if m, err = a.Metrics.GetByClientID(a.Context(), clientID, false); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}

// CalculateProgress builds a progress report. Clients without a metrics
// record get metric.ErrMetricsNotFound.
func (s *Service) CalculateProgress(
	ctx context.Context,
	uow *UnitOfWork,
	clientID string,
) (p *metric.Progress, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		ctx := a.Context()
		now := s.now()

		m, err := a.Metrics.GetByClientID(ctx, clientID, false)
		if err != nil {
			return err
		}

		recentFrom, previousFrom := metric.TrendWindows(now)

		var counts metric.WorkoutCounts

		if counts.Recent, err = a.Sessions.CountCompletedWorkouts(ctx, clientID, session.WorkoutFilter{
			StartedFrom:   &recentFrom,
			StartedBefore: &now,
		}); err != nil {
			return err
		}

		if counts.Previous, err = a.Sessions.CountCompletedWorkouts(ctx, clientID, session.WorkoutFilter{
			StartedFrom:   &previousFrom,
			StartedBefore: &recentFrom,
		}); err != nil {
			return err
		}

		if counts.SinceReset, err = a.Sessions.CountCompletedWorkouts(ctx, clientID, session.WorkoutFilter{
			EndedFrom: m.LastResetDate,
		}); err != nil {
			return err
		}

		p = metric.NewProgress(m, counts, now)
		return a.Commit()
	})
	return
}
