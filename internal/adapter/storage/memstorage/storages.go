package memstorage

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
	"github.com/samber/lo"
)

type eventSource interface {
	PopEvents() []domain.Event
}

type seenSet map[string]eventSource

func (s seenSet) collect() []domain.Event {
	var events []domain.Event
	for id, src := range s {
		events = append(events, src.PopEvents()...)
		delete(s, id)
	}
	return events
}

// UserStorage

type UserStorage struct {
	store *Store
	seen  seenSet
}

func (s *Store) UserStorage() *UserStorage {
	return &UserStorage{store: s, seen: make(seenSet)}
}

func (s *UserStorage) GetByID(_ context.Context, userID string) (*user.User, error) {
	if err := s.store.fail("users.GetByID"); err != nil {
		return nil, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, ok := s.store.data.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	c := cloneUser(u)
	s.seen[userID] = c
	return c, nil
}

func (s *UserStorage) GetForUpdate(ctx context.Context, userID string) (*user.User, error) {
	return s.GetByID(ctx, userID)
}

func (s *UserStorage) GetMany(_ context.Context, userIDs []string) (map[string]*user.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	res := make(map[string]*user.User, len(userIDs))
	for _, id := range userIDs {
		if u, ok := s.store.data.users[id]; ok {
			res[id] = cloneUser(u)
		}
	}
	return res, nil
}

func (s *UserStorage) Persist(_ context.Context, u *user.User) error {
	if err := s.store.fail("users.Persist"); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.data.users[u.UserID]; !ok {
		return user.ErrUserNotFound
	}
	s.store.data.users[u.UserID] = cloneUser(u)
	s.seen[u.UserID] = u
	return nil
}

func (s *UserStorage) CollectEvents() []domain.Event {
	return s.seen.collect()
}

func (s *UserStorage) Close() error {
	clear(s.seen)
	return nil
}

// SessionStorage

type SessionStorage struct {
	store *Store
}

func (s *Store) SessionStorage() *SessionStorage {
	return &SessionStorage{store: s}
}

func (s *SessionStorage) AddWorkout(_ context.Context, w *session.WorkoutSession) error {
	if err := s.store.fail("sessions.AddWorkout"); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.data.workouts[w.SessionID] = *w
	return nil
}

func (s *SessionStorage) GetWorkout(_ context.Context, sessionID string, _ bool) (*session.WorkoutSession, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	w, ok := s.store.data.workouts[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &w, nil
}

func (s *SessionStorage) EndWorkout(_ context.Context, w *session.WorkoutSession) error {
	if err := s.store.fail("sessions.EndWorkout"); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	stored, ok := s.store.data.workouts[w.SessionID]
	if !ok || stored.EndTime != nil {
		return session.ErrSessionAlreadyEnded
	}
	stored.EndTime = w.EndTime
	s.store.data.workouts[w.SessionID] = stored
	return nil
}

func (s *SessionStorage) AddExerciseLog(_ context.Context, l *session.ExerciseLog) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.data.workouts[l.SessionID]; !ok {
		return session.ErrSessionNotFound
	}
	s.store.data.logs = append(s.store.data.logs, *l)
	return nil
}

func (s *SessionStorage) SumExerciseLogs(_ context.Context, sessionID string) (sets, reps int, err error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, l := range s.store.data.logs {
		if l.SessionID == sessionID {
			sets += l.SetsCompleted
			reps += l.RepsCompleted
		}
	}
	return sets, reps, nil
}

func (s *SessionStorage) AddCardio(_ context.Context, c *session.CardioSession) error {
	if err := s.store.fail("sessions.AddCardio"); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.data.cardio[c.SessionID] = *c
	return nil
}

func (s *SessionStorage) GetCardio(_ context.Context, sessionID string) (*session.CardioSession, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, ok := s.store.data.cardio[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &c, nil
}

func (s *SessionStorage) CountTrainingDays(_ context.Context, userID string, loc *time.Location) (int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	days := make(map[string]struct{})
	for _, w := range s.store.data.workouts {
		if w.UserID == userID && w.Completed() {
			days[w.StartTime.In(loc).Format(time.DateOnly)] = struct{}{}
		}
	}
	for _, c := range s.store.data.cardio {
		if c.UserID == userID {
			days[c.StartTime.In(loc).Format(time.DateOnly)] = struct{}{}
		}
	}
	return len(days), nil
}

func (s *SessionStorage) CountCompletedWorkouts(_ context.Context, userID string, f session.WorkoutFilter) (int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	count := 0
	for _, w := range s.store.data.workouts {
		switch {
		case w.UserID != userID || !w.Completed():
		case f.StartedFrom != nil && w.StartTime.Before(*f.StartedFrom):
		case f.StartedBefore != nil && !w.StartTime.Before(*f.StartedBefore):
		case f.EndedFrom != nil && w.EndTime.Before(*f.EndedFrom):
		default:
			count++
		}
	}
	return count, nil
}

func (s *SessionStorage) CollectEvents() []domain.Event {
	return nil
}

func (s *SessionStorage) Close() error {
	return nil
}

// WeightStorage

type WeightStorage struct {
	store *Store
}

func (s *Store) WeightStorage() *WeightStorage {
	return &WeightStorage{store: s}
}

func (s *WeightStorage) Add(_ context.Context, e *weight.Entry) error {
	if err := s.store.fail("weights.Add"); err != nil {
		return err
	}
	if e.Weight <= 0 {
		return weight.ErrInvalidWeight
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.data.weights = append(s.store.data.weights, *e)
	return nil
}

// newestFirst keeps insertion order for entries recorded at the same time.
func (s *WeightStorage) newestFirst(userID string) []weight.Entry {
	entries := lo.Filter(s.store.data.weights, func(e weight.Entry, _ int) bool {
		return e.UserID == userID
	})
	slices.Reverse(entries)
	slices.SortStableFunc(entries, func(a, b weight.Entry) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	return entries
}

func (s *WeightStorage) Last(_ context.Context, userID string) (*weight.Entry, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	entries := s.newestFirst(userID)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (s *WeightStorage) List(_ context.Context, userID string, limit int) ([]*weight.Entry, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	entries := s.newestFirst(userID)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return lo.Map(entries, func(e weight.Entry, _ int) *weight.Entry {
		return &e
	}), nil
}

func (s *WeightStorage) AverageDaysBetweenChanges(_ context.Context, userID string) (*float64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	days := lo.FilterMap(s.store.data.weights, func(e weight.Entry, _ int) (int, bool) {
		if e.UserID != userID || e.DaysSinceLastChange == nil {
			return 0, false
		}
		return *e.DaysSinceLastChange, true
	})
	if len(days) == 0 {
		return nil, nil
	}
	avg := float64(lo.Sum(days)) / float64(len(days))
	return &avg, nil
}

func (s *WeightStorage) CollectEvents() []domain.Event {
	return nil
}

func (s *WeightStorage) Close() error {
	return nil
}

// MetricStorage

type MetricStorage struct {
	store *Store
	seen  seenSet
}

func (s *Store) MetricStorage() *MetricStorage {
	return &MetricStorage{store: s, seen: make(seenSet)}
}

func (s *MetricStorage) Create(_ context.Context, m *metric.ClientMetrics) (bool, error) {
	if err := s.store.fail("metrics.Create"); err != nil {
		return false, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.data.metrics[m.ClientID]; ok {
		return false, nil
	}
	s.store.data.metrics[m.ClientID] = cloneMetrics(m)
	s.seen[m.ClientID] = m
	return true, nil
}

func (s *MetricStorage) GetByClientID(_ context.Context, clientID string, _ bool) (*metric.ClientMetrics, error) {
	if err := s.store.fail("metrics.GetByClientID"); err != nil {
		return nil, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	m, ok := s.store.data.metrics[clientID]
	if !ok {
		return nil, metric.ErrMetricsNotFound
	}
	c := cloneMetrics(m)
	s.seen[clientID] = c
	return c, nil
}

func (s *MetricStorage) ListByTrainer(_ context.Context, trainerID string, limit, offset int) ([]*metric.ClientMetrics, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := lo.FilterMap(lo.Values(s.store.data.metrics), func(m *metric.ClientMetrics, _ int) (*metric.ClientMetrics, bool) {
		if m.PersonalTrainerID == nil || *m.PersonalTrainerID != trainerID {
			return nil, false
		}
		return cloneMetrics(m), true
	})
	slices.SortFunc(all, func(a, b *metric.ClientMetrics) int {
		if c := a.ClientSince.Compare(b.ClientSince); c != 0 {
			return c
		}
		return cmp.Compare(a.ClientID, b.ClientID)
	})

	if limit <= 0 {
		return all, nil
	}
	if offset >= len(all) {
		return []*metric.ClientMetrics{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (s *MetricStorage) Persist(_ context.Context, m *metric.ClientMetrics) error {
	if err := s.store.fail("metrics.Persist"); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.data.metrics[m.ClientID]; !ok {
		return metric.ErrMetricsNotFound
	}
	s.store.data.metrics[m.ClientID] = cloneMetrics(m)
	s.seen[m.ClientID] = m
	return nil
}

func (s *MetricStorage) CollectEvents() []domain.Event {
	return s.seen.collect()
}

func (s *MetricStorage) Close() error {
	clear(s.seen)
	return nil
}
