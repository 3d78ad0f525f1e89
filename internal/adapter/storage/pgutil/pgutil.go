package pgutil

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"github.com/samber/lo"
)

type EventSource interface {
	PopEvents() []domain.Event
}

type BasePostgresStorage struct {
	DB     storage.DBContext
	seenMu sync.Mutex
	seen   map[string]EventSource
}

func NewBasePostgresStorage(db storage.DBContext) *BasePostgresStorage {
	return &BasePostgresStorage{
		DB:   db,
		seen: make(map[string]EventSource),
	}
}

func (s *BasePostgresStorage) CollectEvents() []domain.Event {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	var events []domain.Event
	for _, src := range s.seen {
		events = append(events, src.PopEvents()...)
	}
	s.seen = make(map[string]EventSource)
	return events
}

func (s *BasePostgresStorage) Close() {
	s.seenMu.Lock()
	s.seen = make(map[string]EventSource)
	s.seenMu.Unlock()
}

func (s *BasePostgresStorage) MarkSeen(id string, src EventSource) {
	s.seenMu.Lock()
	s.seen[id] = src
	s.seenMu.Unlock()
}

func ViolatesConstraint(err error, constraintName string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) &&
		pgErr.ConstraintName == constraintName
}

func ViolatesForeignKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// IsConflict reports serialization failures and deadlocks.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgerrcode.IsTransactionRollback(pgErr.Code)
}

// Wrap classifies a driver error for the unit of work.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if IsConflict(err) {
		return storage.ConflictError(err)
	}
	return storage.InternalError(err)
}

func Peek[K comparable, V any](items map[K]V, defaultValue ...V) V {
	for _, item := range items {
		return item
	}

	if len(defaultValue) != 0 {
		return defaultValue[0]
	} else {
		return *new(V)
	}

}

func PeekOrErr[K comparable, V any](items map[K]V, err, notFoundErr error) (V, error) {

	if err != nil {
		return *new(V), err
	}

	if len(items) == 0 {
		return *new(V), notFoundErr
	}

	return Peek(items), nil
}

// ChangedColumns lists the top level fields touched by a changelog, in order
// of first appearance.
func ChangedColumns(changes diff.Changelog) []string {
	return lo.Uniq(lo.FilterMap(changes, func(c diff.Change, _ int) (string, bool) {
		if len(c.Path) == 0 {
			return "", false
		}
		return c.Path[0], true
	}))
}

// MakeUpdateQuery sets every changed column on stmt taking the new value from
// values. Columns missing from values are a programming error.
func MakeUpdateQuery(stmt *sqlf.Stmt, changes diff.Changelog, values map[string]any) *sqlf.Stmt {
	for _, col := range ChangedColumns(changes) {
		v, ok := values[col]
		if !ok {
			panic("no value for changed column " + col)
		}
		stmt = stmt.Set(col, v)
	}
	return stmt
}

func AssertUpdated(res sql.Result, err error, notUpdatedError error) error {
	if err != nil {
		return Wrap(err)
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return storage.InternalError(err)
	}

	if affected == 0 {
		return notUpdatedError
	}
	return nil
}
