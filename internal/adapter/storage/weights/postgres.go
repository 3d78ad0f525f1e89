package weightstorage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
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

func (s *PostgresStorage) Add(ctx context.Context, e *weight.Entry) error {
	q := sqlf.InsertInto("weight_history").
		Set("entry_id", e.EntryID).
		Set("user_id", e.UserID).
		Set("weight", e.Weight).
		Set("previous_weight", e.PreviousWeight).
		Set("days_since_last_change", e.DaysSinceLastChange).
		Set("recorded_at", e.RecordedAt).
		Set("notes", e.Notes)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "weight_positive") {
			return weight.ErrInvalidWeight
		}
		return pgutil.Wrap(err)
	}
	return nil
}

func (s *PostgresStorage) list(ctx context.Context, userID string, limit int) ([]*weight.Entry, error) {
	var tmp weight.Entry

	q := listQuery(&tmp, userID, limit)

	entries := make([]*weight.Entry, 0)

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		e := tmp
		entries = append(entries, &e)
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, pgutil.Wrap(err)
	}
	return entries, nil
}

// listQuery returns the newest entries first. Entries sharing a timestamp
// come back in reverse insertion order.
func listQuery(tmp *weight.Entry, userID string, limit int) *sqlf.Stmt {
	return sqlf.From("weight_history").
		Select("entry_id").To(&tmp.EntryID).
		Select("user_id").To(&tmp.UserID).
		Select("weight").To(&tmp.Weight).
		Select("previous_weight").To(&tmp.PreviousWeight).
		Select("days_since_last_change").To(&tmp.DaysSinceLastChange).
		Select("recorded_at").To(&tmp.RecordedAt).
		Select("notes").To(&tmp.Notes).
		Where("user_id = ?", userID).
		OrderBy("recorded_at DESC", "entry_seq DESC").
		Limit(limit)
}

// Last returns the most recent entry of the user or nil when the history
// is empty.
func (s *PostgresStorage) Last(ctx context.Context, userID string) (*weight.Entry, error) {
	entries, err := s.list(ctx, userID, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

// List returns up to limit entries, newest first.
func (s *PostgresStorage) List(ctx context.Context, userID string, limit int) ([]*weight.Entry, error) {
	return s.list(ctx, userID, limit)
}

// AverageDaysBetweenChanges is the mean of the known day gaps in the
// history of the user, nil when no entry has one.
func (s *PostgresStorage) AverageDaysBetweenChanges(ctx context.Context, userID string) (*float64, error) {
	var avg *float64

	q := sqlf.From("weight_history").
		Select("AVG(days_since_last_change)::float8").To(&avg).
		Where("user_id = ?", userID).
		Where("days_since_last_change IS NOT NULL")

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return nil, pgutil.Wrap(err)
	}
	return avg, nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}
