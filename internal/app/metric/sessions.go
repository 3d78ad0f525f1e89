package metricservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
)

type StartWorkoutInput struct {
	PlanID    *string
	StartTime *time.Time
	Notes     *string
}

type ExerciseInput struct {
	ExerciseID string
	Sets       int
	Reps       int
	WeightUsed *float64
	Notes      *string
}

type CardioInput struct {
	ActivityType    string
	DurationMinutes int
	DistanceKm      *float64
	CaloriesBurned  *int
	Location        *string
	StartTime       *time.Time
	Notes           *string
}

func (s *Service) StartWorkout(
	ctx context.Context,
	uow *UnitOfWork,
	userID string,
	in StartWorkoutInput,
) (w *session.WorkoutSession, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		if _, err := a.Users.GetByID(a.Context(), userID); err != nil {
			return err
		}

		start := s.now()
		if in.StartTime != nil {
			start = *in.StartTime
		}

		w = session.NewWorkout(s.newID(), userID, in.PlanID, start, in.Notes)
		if err := a.Sessions.AddWorkout(a.Context(), w); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}

// LogExercise adds an exercise log to an open workout of the user.
func (s *Service) LogExercise(
	ctx context.Context,
	uow *UnitOfWork,
	userID, sessionID string,
	in ExerciseInput,
) (l *session.ExerciseLog, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		w, err := s.ownWorkout(a, userID, sessionID, false)
		if err != nil {
			return err
		}
		if w.Completed() {
			return session.ErrSessionAlreadyEnded
		}

		l, err = session.NewExerciseLog(s.newID(), sessionID, in.ExerciseID, in.Sets, in.Reps, in.WeightUsed, in.Notes, s.now())
		if err != nil {
			return err
		}

		if err := a.Sessions.AddExerciseLog(a.Context(), l); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}

// EndWorkout closes the workout and applies it to the metrics in the same
// transaction. at defaults to the current time.
func (s *Service) EndWorkout(
	ctx context.Context,
	uow *UnitOfWork,
	userID, sessionID string,
	at *time.Time,
) (w *session.WorkoutSession, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		var err error
		if w, err = s.ownWorkout(a, userID, sessionID, true); err != nil {
			return err
		}

		end := s.now()
		if at != nil {
			end = *at
		}

		if err := w.End(end); err != nil {
			return err
		}

		if err := a.Sessions.EndWorkout(a.Context(), w); err != nil {
			return err
		}

		if err := s.applyWorkout(a, w); err != nil {
			return err
		}
		return a.Commit()
	})

	if outErr == nil {
		s.logger.InfoContext(ctx, "workout completed",
			slog.String("user_id", userID),
			slog.String("session_id", sessionID),
			slog.Duration("duration", w.Duration()),
		)
	}
	return
}

// LogCardio stores a cardio session and applies it to the metrics in the
// same transaction.
func (s *Service) LogCardio(
	ctx context.Context,
	uow *UnitOfWork,
	userID string,
	in CardioInput,
) (c *session.CardioSession, outErr error) {
	outErr = uow.Atomic(ctx, func(a *AtomicContext) error {
		if _, err := a.Users.GetByID(a.Context(), userID); err != nil {
			return err
		}

		start := s.now()
		if in.StartTime != nil {
			start = *in.StartTime
		}

		var err error
		if c, err = session.NewCardio(s.newID(), userID, in.ActivityType, in.DurationMinutes, start); err != nil {
			return err
		}
		c.DistanceKm = in.DistanceKm
		c.CaloriesBurned = in.CaloriesBurned
		c.Location = in.Location
		c.Notes = in.Notes

		if err := a.Sessions.AddCardio(a.Context(), c); err != nil {
			return err
		}

		if err := s.applyCardio(a, c); err != nil {
			return err
		}
		return a.Commit()
	})
	return
}

// ownWorkout hides sessions of other users behind ErrSessionNotFound.
func (s *Service) ownWorkout(a *AtomicContext, userID, sessionID string, forUpdate bool) (*session.WorkoutSession, error) {
	w, err := a.Sessions.GetWorkout(a.Context(), sessionID, forUpdate)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, session.ErrSessionNotFound
	}
	return w, nil
}
