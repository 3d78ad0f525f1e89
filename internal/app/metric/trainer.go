package metricservice

import (
	"context"

	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/samber/lo"
)

// ListTrainerClients returns the metrics of clients linked to the trainer,
// oldest clients first.
func (s *Service) ListTrainerClients(
	ctx context.Context,
	uow *UnitOfWork,
	trainerID string,
	limit, offset int,
) (all []*metric.ClientMetrics, outErr error) {
	if offset < 0 {
		offset = 0
	}

	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		var err error
		if all, err = a.Metrics.ListByTrainer(a.Context(), trainerID, limit, offset); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}

func (s *Service) TrainerDashboard(
	ctx context.Context,
	uow *UnitOfWork,
	trainerID string,
) (d metric.Dashboard, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		all, err := a.Metrics.ListByTrainer(a.Context(), trainerID, 0, 0)
		if err != nil {
			return err
		}

		d = metric.Summarize(all)

		ids := lo.Uniq(lo.FilterMap([]*metric.ClientHighlight{d.MostActive, d.MostConsistent},
			func(h *metric.ClientHighlight, _ int) (string, bool) {
				if h == nil {
					return "", false
				}
				return h.ClientID, true
			}))

		users, err := a.Users.GetMany(a.Context(), ids)
		if err != nil {
			return err
		}

		for _, h := range []*metric.ClientHighlight{d.MostActive, d.MostConsistent} {
			if h == nil {
				continue
			}
			if u, ok := users[h.ClientID]; ok {
				h.Name = u.Name
			}
		}
		return a.Commit()
	})
	return
}
