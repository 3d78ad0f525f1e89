// Package memstorage keeps the whole data set in memory. A transaction
// holds an exclusive lock on the store and restores a snapshot on rollback,
// which makes it a stand-in for Postgres in service tests.
package memstorage

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
)

var ErrNotSupported = errors.New("memstorage: raw sql is not supported")

type data struct {
	users    map[string]*user.User
	workouts map[string]session.WorkoutSession
	logs     []session.ExerciseLog
	cardio   map[string]session.CardioSession
	weights  []weight.Entry
	metrics  map[string]*metric.ClientMetrics
}

func newData() data {
	return data{
		users:    make(map[string]*user.User),
		workouts: make(map[string]session.WorkoutSession),
		cardio:   make(map[string]session.CardioSession),
		metrics:  make(map[string]*metric.ClientMetrics),
	}
}

func (d data) clone() data {
	c := newData()
	for id, u := range d.users {
		c.users[id] = cloneUser(u)
	}
	for id, w := range d.workouts {
		c.workouts[id] = w
	}
	c.logs = append(c.logs, d.logs...)
	for id, cs := range d.cardio {
		c.cardio[id] = cs
	}
	c.weights = append(c.weights, d.weights...)
	for id, m := range d.metrics {
		c.metrics[id] = cloneMetrics(m)
	}
	return c
}

type Store struct {
	txMu sync.Mutex

	mu        sync.Mutex
	data      data
	failures  map[string]error
	commits   int
	rollbacks int
}

func New() *Store {
	return &Store{
		data:     newData(),
		failures: make(map[string]error),
	}
}

// FailOn makes the next call of op return err. Ops are named
// "<storage>.<Method>", e.g. "metrics.Persist", or "tx.Commit".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) Rollbacks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbacks
}

func (s *Store) DB() *DB {
	return &DB{store: s}
}

type DB struct {
	store *Store
}

func (d *DB) Begin(_ context.Context) (storage.DBContext, error) {
	if err := d.store.fail("db.Begin"); err != nil {
		return nil, err
	}

	d.store.txMu.Lock()

	d.store.mu.Lock()
	snapshot := d.store.data.clone()
	d.store.mu.Unlock()

	return &Tx{store: d.store, snapshot: snapshot}, nil
}

func (d *DB) Commit() error {
	return nil
}

func (d *DB) Rollback() error {
	return nil
}

func (d *DB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, ErrNotSupported
}

func (d *DB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, ErrNotSupported
}

func (d *DB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type Tx struct {
	store    *Store
	snapshot data
	done     bool
}

func (t *Tx) Begin(context.Context) (storage.DBContext, error) {
	return t, nil
}

func (t *Tx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	if err := t.store.fail("tx.Commit"); err != nil {
		return err
	}

	t.done = true
	t.store.mu.Lock()
	t.store.commits++
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

// Rollback restores the state captured by Begin. It is a no-op after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}

	t.done = true
	t.store.mu.Lock()
	t.store.data = t.snapshot
	t.store.rollbacks++
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

func (t *Tx) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, ErrNotSupported
}

func (t *Tx) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, ErrNotSupported
}

func (t *Tx) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func cloneUser(u *user.User) *user.User {
	return &user.User{
		UserID:            u.UserID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		Weight:            u.Weight,
		Height:            u.Height,
		DesiredWeight:     u.DesiredWeight,
		DateOfBirth:       u.DateOfBirth,
		PersonalTrainerID: u.PersonalTrainerID,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func cloneMetrics(m *metric.ClientMetrics) *metric.ClientMetrics {
	return &metric.ClientMetrics{
		MetricsID:                       m.MetricsID,
		ClientID:                        m.ClientID,
		PersonalTrainerID:               m.PersonalTrainerID,
		TotalWorkoutsCompleted:          m.TotalWorkoutsCompleted,
		TotalCardioSessions:             m.TotalCardioSessions,
		TotalTrainingHours:              m.TotalTrainingHours,
		TotalTrainingDays:               m.TotalTrainingDays,
		TotalSetsCompleted:              m.TotalSetsCompleted,
		TotalRepsCompleted:              m.TotalRepsCompleted,
		InitialWeight:                   m.InitialWeight,
		CurrentWeight:                   m.CurrentWeight,
		LowestWeight:                    m.LowestWeight,
		HighestWeight:                   m.HighestWeight,
		TotalWeightChanges:              m.TotalWeightChanges,
		AverageDaysBetweenWeightChanges: m.AverageDaysBetweenWeightChanges,
		TimesWorkoutsReset:              m.TimesWorkoutsReset,
		LastResetDate:                   m.LastResetDate,
		WorkoutsBeforeLastReset:         m.WorkoutsBeforeLastReset,
		ConsistencyPercentage:           m.ConsistencyPercentage,
		AverageWorkoutDurationMinutes:   m.AverageWorkoutDurationMinutes,
		ClientSince:                     m.ClientSince,
		LastActivityDate:                m.LastActivityDate,
		LastUpdated:                     m.LastUpdated,
	}
}
