package sessionstorage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/leporo/sqlf"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) AddWorkout(ctx context.Context, w *session.WorkoutSession) error {
	q := sqlf.InsertInto("workout_sessions").
		Set("session_id", w.SessionID).
		Set("user_id", w.UserID).
		Set("workout_plan_id", w.WorkoutPlanID).
		Set("start_time", w.StartTime).
		Set("end_time", w.EndTime).
		Set("notes", w.Notes)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return pgutil.Wrap(err)
	}
	return nil
}

func (s *PostgresStorage) GetWorkout(ctx context.Context, sessionID string, forUpdate bool) (*session.WorkoutSession, error) {
	var w session.WorkoutSession

	q := sqlf.From("workout_sessions").
		Select("session_id").To(&w.SessionID).
		Select("user_id").To(&w.UserID).
		Select("workout_plan_id").To(&w.WorkoutPlanID).
		Select("start_time").To(&w.StartTime).
		Select("end_time").To(&w.EndTime).
		Select("notes").To(&w.Notes).
		Where("session_id = ?", sessionID)

	if forUpdate {
		q = q.Clause("FOR UPDATE")
	}

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, pgutil.Wrap(err)
	}
	return &w, nil
}

// EndWorkout stores the end time of a session that is still open.
func (s *PostgresStorage) EndWorkout(ctx context.Context, w *session.WorkoutSession) error {
	q := sqlf.Update("workout_sessions").
		Set("end_time", w.EndTime).
		Where("session_id = ?", w.SessionID).
		Where("end_time IS NULL")

	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, session.ErrSessionAlreadyEnded)
}

func (s *PostgresStorage) AddExerciseLog(ctx context.Context, l *session.ExerciseLog) error {
	q := sqlf.InsertInto("exercise_logs").
		Set("log_id", l.LogID).
		Set("session_id", l.SessionID).
		Set("exercise_id", l.ExerciseID).
		Set("sets_completed", l.SetsCompleted).
		Set("reps_completed", l.RepsCompleted).
		Set("weight_used", l.WeightUsed).
		Set("notes", l.Notes).
		Set("completed_at", l.CompletedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesForeignKey(err) {
			return session.ErrSessionNotFound
		}
		if pgutil.ViolatesConstraint(err, "exercise_logs_non_negative") {
			return session.ErrInvalidLog
		}
		return pgutil.Wrap(err)
	}
	return nil
}

// SumExerciseLogs returns the total sets and reps logged for a session.
func (s *PostgresStorage) SumExerciseLogs(ctx context.Context, sessionID string) (sets, reps int, err error) {
	q := sqlf.From("exercise_logs").
		Select("COALESCE(SUM(sets_completed), 0)").To(&sets).
		Select("COALESCE(SUM(reps_completed), 0)").To(&reps).
		Where("session_id = ?", sessionID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return 0, 0, pgutil.Wrap(err)
	}
	return sets, reps, nil
}

func (s *PostgresStorage) AddCardio(ctx context.Context, c *session.CardioSession) error {
	q := sqlf.InsertInto("cardio_sessions").
		Set("session_id", c.SessionID).
		Set("user_id", c.UserID).
		Set("activity_type", c.ActivityType).
		Set("location", c.Location).
		Set("duration_minutes", c.DurationMinutes).
		Set("distance_km", c.DistanceKm).
		Set("calories_burned", c.CaloriesBurned).
		Set("start_time", c.StartTime).
		Set("notes", c.Notes)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "cardio_duration_positive") {
			return session.ErrInvalidDuration
		}
		return pgutil.Wrap(err)
	}
	return nil
}

func (s *PostgresStorage) GetCardio(ctx context.Context, sessionID string) (*session.CardioSession, error) {
	var c session.CardioSession

	q := sqlf.From("cardio_sessions").
		Select("session_id").To(&c.SessionID).
		Select("user_id").To(&c.UserID).
		Select("activity_type").To(&c.ActivityType).
		Select("location").To(&c.Location).
		Select("duration_minutes").To(&c.DurationMinutes).
		Select("distance_km").To(&c.DistanceKm).
		Select("calories_burned").To(&c.CaloriesBurned).
		Select("start_time").To(&c.StartTime).
		Select("notes").To(&c.Notes).
		Where("session_id = ?", sessionID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, pgutil.Wrap(err)
	}
	return &c, nil
}

// CountTrainingDays counts distinct calendar days in loc on which the user
// started a completed workout or a cardio session.
func (s *PostgresStorage) CountTrainingDays(ctx context.Context, userID string, loc *time.Location) (int, error) {
	var days int

	q := sqlf.New(`SELECT COUNT(*) FROM (
		SELECT (start_time AT TIME ZONE ?)::date AS day
		FROM workout_sessions
		WHERE user_id = ? AND end_time IS NOT NULL
		UNION
		SELECT (start_time AT TIME ZONE ?)::date AS day
		FROM cardio_sessions
		WHERE user_id = ?
	) training_days`, loc.String(), userID, loc.String(), userID).To(&days)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return 0, pgutil.Wrap(err)
	}
	return days, nil
}

func (s *PostgresStorage) CountCompletedWorkouts(ctx context.Context, userID string, f session.WorkoutFilter) (int, error) {
	var count int

	q := sqlf.From("workout_sessions").
		Select("COUNT(*)").To(&count).
		Where("user_id = ?", userID).
		Where("end_time IS NOT NULL")

	if f.StartedFrom != nil {
		q = q.Where("start_time >= ?", *f.StartedFrom)
	}
	if f.StartedBefore != nil {
		q = q.Where("start_time < ?", *f.StartedBefore)
	}
	if f.EndedFrom != nil {
		q = q.Where("end_time >= ?", *f.EndedFrom)
	}

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return 0, pgutil.Wrap(err)
	}
	return count, nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}
