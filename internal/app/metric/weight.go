package metricservice

import (
	"context"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
)

// RecordWeightChange appends a weight history entry, updates the profile
// weight and the client metrics in one transaction.
func (s *Service) RecordWeightChange(
	ctx context.Context,
	uow *UnitOfWork,
	userID string,
	newWeight float64,
	notes *string,
) (entry *weight.Entry, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		ctx := a.Context()
		now := s.now()

		u, err := a.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		// first record is seeded with the weight before the change
		if _, err := s.getOrCreate(a, userID, nil); err != nil {
			return err
		}

		last, err := a.Weights.Last(ctx, userID)
		if err != nil {
			return err
		}

		if entry, err = weight.NewEntry(s.newID(), userID, newWeight, notes, last, now); err != nil {
			return err
		}

		if err := a.Weights.Add(ctx, entry); err != nil {
			return err
		}

		if err := u.ChangeWeight(newWeight, now); err != nil {
			return err
		}

		if err := a.Users.Persist(ctx, u); err != nil {
			return err
		}

		if err := s.applyWeight(a, userID, newWeight); err != nil {
			return err
		}

		return a.Commit()
	})

	if outErr == nil {
		s.logger.InfoContext(ctx, "weight recorded",
			slog.String("user_id", userID),
			slog.Float64("weight", newWeight),
		)
	}
	return
}

// ListWeightHistory returns the newest entries first. limit is clamped to
// [1, MaxHistoryLimit] and defaults to DefaultHistoryLimit.
func (s *Service) ListWeightHistory(
	ctx context.Context,
	uow *UnitOfWork,
	userID string,
	limit int,
) (entries []*weight.Entry, outErr error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		if _, err := a.Users.GetByID(a.Context(), userID); err != nil {
			return err
		}

		var err error
		if entries, err = a.Weights.List(a.Context(), userID, limit); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}
