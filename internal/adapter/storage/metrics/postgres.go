package metricstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
)

type PostgresStorage struct {
	base   *pgutil.BasePostgresStorage
	loaded map[string]metricsRow
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base:   pgutil.NewBasePostgresStorage(db),
		loaded: make(map[string]metricsRow),
	}
}

// Create inserts m unless a record for the same client already exists.
// It reports whether a row was inserted.
func (s *PostgresStorage) Create(ctx context.Context, m *metric.ClientMetrics) (bool, error) {
	r := toRow(m)

	q := sqlf.InsertInto("client_metrics").
		Set("metrics_id", r.MetricsID).
		Set("client_id", r.ClientID).
		Set("client_since", r.ClientSince)
	for col, v := range r.values() {
		q = q.Set(col, v)
	}
	q = q.Clause("ON CONFLICT (client_id) DO NOTHING")

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err != nil {
		if pgutil.ViolatesConstraint(err, "client_metrics_pkey") {
			return false, metric.ErrMetricsExists
		}
		return false, pgutil.Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, storage.InternalError(err)
	}

	if affected == 1 {
		s.remember(m)
	}
	return affected == 1, nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) ([]*metric.ClientMetrics, error) {
	var tmp metricsRow

	q := sqlf.From("client_metrics m").
		Select("m.metrics_id").To(&tmp.MetricsID).
		Select("m.client_id").To(&tmp.ClientID).
		Select("m.personal_trainer_id").To(&tmp.PersonalTrainerID).
		Select("m.total_workouts_completed").To(&tmp.TotalWorkoutsCompleted).
		Select("m.total_cardio_sessions").To(&tmp.TotalCardioSessions).
		Select("m.total_training_hours").To(&tmp.TotalTrainingHours).
		Select("m.total_training_days").To(&tmp.TotalTrainingDays).
		Select("m.total_sets_completed").To(&tmp.TotalSetsCompleted).
		Select("m.total_reps_completed").To(&tmp.TotalRepsCompleted).
		Select("m.initial_weight").To(&tmp.InitialWeight).
		Select("m.current_weight").To(&tmp.CurrentWeight).
		Select("m.lowest_weight").To(&tmp.LowestWeight).
		Select("m.highest_weight").To(&tmp.HighestWeight).
		Select("m.total_weight_changes").To(&tmp.TotalWeightChanges).
		Select("m.average_days_between_weight_changes").To(&tmp.AverageDaysBetweenWeightChanges).
		Select("m.times_workouts_reset").To(&tmp.TimesWorkoutsReset).
		Select("m.last_reset_date").To(&tmp.LastResetDate).
		Select("m.workouts_before_last_reset").To(&tmp.WorkoutsBeforeLastReset).
		Select("m.consistency_percentage").To(&tmp.ConsistencyPercentage).
		Select("m.average_workout_duration_minutes").To(&tmp.AverageWorkoutDurationMinutes).
		Select("m.client_since").To(&tmp.ClientSince).
		Select("m.last_activity_date").To(&tmp.LastActivityDate).
		Select("m.last_updated").To(&tmp.LastUpdated)

	q = modify(q)

	var result []*metric.ClientMetrics

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, tmp.toDomain())
	})

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, pgutil.Wrap(err)
	}

	for _, m := range result {
		s.remember(m)
	}
	return result, nil
}

// GetByClientID loads the record of a client. With forUpdate the row stays
// locked until the surrounding transaction ends.
func (s *PostgresStorage) GetByClientID(ctx context.Context, clientID string, forUpdate bool) (*metric.ClientMetrics, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		stmt = stmt.Where("m.client_id = ?", clientID)
		if forUpdate {
			stmt = stmt.Clause("FOR UPDATE")
		}
		return stmt
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, metric.ErrMetricsNotFound
	}
	return result[0], nil
}

func (s *PostgresStorage) ListByTrainer(ctx context.Context, trainerID string, limit, offset int) ([]*metric.ClientMetrics, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		stmt = stmt.Where("m.personal_trainer_id = ?", trainerID).
			OrderBy("m.client_since", "m.client_id")
		if limit > 0 {
			stmt = stmt.Limit(limit).Offset(offset)
		}
		return stmt
	})
}

// Persist writes the columns that changed since the record was loaded in
// this storage. Records never loaded here are written in full.
func (s *PostgresStorage) Persist(ctx context.Context, m *metric.ClientMetrics) error {
	current := toRow(m)
	values := current.values()

	q := sqlf.Update("client_metrics").Where("client_id = ?", m.ClientID)

	if prev, ok := s.loaded[m.ClientID]; ok {
		changes, err := diff.Diff(prev, current)
		if err != nil {
			return fmt.Errorf("diff client metrics: %w", err)
		}
		if len(changes) == 0 {
			return nil
		}
		q = pgutil.MakeUpdateQuery(q, changes, values)
	} else {
		for col, v := range values {
			q = q.Set(col, v)
		}
	}

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, metric.ErrMetricsNotFound); err != nil {
		return err
	}

	s.remember(m)
	return nil
}

func (s *PostgresStorage) remember(m *metric.ClientMetrics) {
	s.loaded[m.ClientID] = toRow(m)
	s.base.MarkSeen(m.ClientID, m)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	s.loaded = make(map[string]metricsRow)
	return nil
}

type metricsRow struct {
	MetricsID   string    `diff:"-"`
	ClientID    string    `diff:"-"`
	ClientSince time.Time `diff:"-"`

	PersonalTrainerID *string `diff:"personal_trainer_id"`

	TotalWorkoutsCompleted int     `diff:"total_workouts_completed"`
	TotalCardioSessions    int     `diff:"total_cardio_sessions"`
	TotalTrainingHours     float64 `diff:"total_training_hours"`
	TotalTrainingDays      int     `diff:"total_training_days"`
	TotalSetsCompleted     int     `diff:"total_sets_completed"`
	TotalRepsCompleted     int     `diff:"total_reps_completed"`

	InitialWeight                   *float64 `diff:"initial_weight"`
	CurrentWeight                   *float64 `diff:"current_weight"`
	LowestWeight                    *float64 `diff:"lowest_weight"`
	HighestWeight                   *float64 `diff:"highest_weight"`
	TotalWeightChanges              int      `diff:"total_weight_changes"`
	AverageDaysBetweenWeightChanges *float64 `diff:"average_days_between_weight_changes"`

	TimesWorkoutsReset      int        `diff:"times_workouts_reset"`
	LastResetDate           *time.Time `diff:"last_reset_date"`
	WorkoutsBeforeLastReset int        `diff:"workouts_before_last_reset"`

	ConsistencyPercentage         float64 `diff:"consistency_percentage"`
	AverageWorkoutDurationMinutes float64 `diff:"average_workout_duration_minutes"`

	LastActivityDate *time.Time `diff:"last_activity_date"`
	LastUpdated      *time.Time `diff:"last_updated"`
}

func toRow(m *metric.ClientMetrics) metricsRow {
	return metricsRow{
		MetricsID:                       m.MetricsID,
		ClientID:                        m.ClientID,
		ClientSince:                     m.ClientSince,
		PersonalTrainerID:               m.PersonalTrainerID,
		TotalWorkoutsCompleted:          m.TotalWorkoutsCompleted,
		TotalCardioSessions:             m.TotalCardioSessions,
		TotalTrainingHours:              m.TotalTrainingHours,
		TotalTrainingDays:               m.TotalTrainingDays,
		TotalSetsCompleted:              m.TotalSetsCompleted,
		TotalRepsCompleted:              m.TotalRepsCompleted,
		InitialWeight:                   copyPtr(m.InitialWeight),
		CurrentWeight:                   copyPtr(m.CurrentWeight),
		LowestWeight:                    copyPtr(m.LowestWeight),
		HighestWeight:                   copyPtr(m.HighestWeight),
		TotalWeightChanges:              m.TotalWeightChanges,
		AverageDaysBetweenWeightChanges: copyPtr(m.AverageDaysBetweenWeightChanges),
		TimesWorkoutsReset:              m.TimesWorkoutsReset,
		LastResetDate:                   copyPtr(m.LastResetDate),
		WorkoutsBeforeLastReset:         m.WorkoutsBeforeLastReset,
		ConsistencyPercentage:           m.ConsistencyPercentage,
		AverageWorkoutDurationMinutes:   m.AverageWorkoutDurationMinutes,
		LastActivityDate:                copyPtr(m.LastActivityDate),
		LastUpdated:                     copyPtr(m.LastUpdated),
	}
}

func (r metricsRow) toDomain() *metric.ClientMetrics {
	return &metric.ClientMetrics{
		MetricsID:                       r.MetricsID,
		ClientID:                        r.ClientID,
		PersonalTrainerID:               r.PersonalTrainerID,
		TotalWorkoutsCompleted:          r.TotalWorkoutsCompleted,
		TotalCardioSessions:             r.TotalCardioSessions,
		TotalTrainingHours:              r.TotalTrainingHours,
		TotalTrainingDays:               r.TotalTrainingDays,
		TotalSetsCompleted:              r.TotalSetsCompleted,
		TotalRepsCompleted:              r.TotalRepsCompleted,
		InitialWeight:                   r.InitialWeight,
		CurrentWeight:                   r.CurrentWeight,
		LowestWeight:                    r.LowestWeight,
		HighestWeight:                   r.HighestWeight,
		TotalWeightChanges:              r.TotalWeightChanges,
		AverageDaysBetweenWeightChanges: r.AverageDaysBetweenWeightChanges,
		TimesWorkoutsReset:              r.TimesWorkoutsReset,
		LastResetDate:                   r.LastResetDate,
		WorkoutsBeforeLastReset:         r.WorkoutsBeforeLastReset,
		ConsistencyPercentage:           r.ConsistencyPercentage,
		AverageWorkoutDurationMinutes:   r.AverageWorkoutDurationMinutes,
		ClientSince:                     r.ClientSince,
		LastActivityDate:                r.LastActivityDate,
		LastUpdated:                     r.LastUpdated,
	}
}

func (r metricsRow) values() map[string]any {
	return map[string]any{
		"personal_trainer_id":                 r.PersonalTrainerID,
		"total_workouts_completed":            r.TotalWorkoutsCompleted,
		"total_cardio_sessions":               r.TotalCardioSessions,
		"total_training_hours":                r.TotalTrainingHours,
		"total_training_days":                 r.TotalTrainingDays,
		"total_sets_completed":                r.TotalSetsCompleted,
		"total_reps_completed":                r.TotalRepsCompleted,
		"initial_weight":                      r.InitialWeight,
		"current_weight":                      r.CurrentWeight,
		"lowest_weight":                       r.LowestWeight,
		"highest_weight":                      r.HighestWeight,
		"total_weight_changes":                r.TotalWeightChanges,
		"average_days_between_weight_changes": r.AverageDaysBetweenWeightChanges,
		"times_workouts_reset":                r.TimesWorkoutsReset,
		"last_reset_date":                     r.LastResetDate,
		"workouts_before_last_reset":          r.WorkoutsBeforeLastReset,
		"consistency_percentage":              r.ConsistencyPercentage,
		"average_workout_duration_minutes":    r.AverageWorkoutDurationMinutes,
		"last_activity_date":                  r.LastActivityDate,
		"last_updated":                        r.LastUpdated,
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
