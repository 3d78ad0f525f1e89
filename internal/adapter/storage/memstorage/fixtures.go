package memstorage

import (
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
	"github.com/samber/lo"
)

// Helpers below bypass transactions and are meant for seeding and
// inspecting the store between calls.

func (s *Store) PutUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.UserID] = cloneUser(u)
}

func (s *Store) PutWorkout(w session.WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.workouts[w.SessionID] = w
}

func (s *Store) PutExerciseLog(l session.ExerciseLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.logs = append(s.data.logs, l)
}

func (s *Store) PutCardio(c session.CardioSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.cardio[c.SessionID] = c
}

func (s *Store) PutMetrics(m *metric.ClientMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.metrics[m.ClientID] = cloneMetrics(m)
}

func (s *Store) User(userID string) (*user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[userID]
	if !ok {
		return nil, false
	}
	return cloneUser(u), true
}

func (s *Store) Workout(sessionID string) (session.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.data.workouts[sessionID]
	return w, ok
}

func (s *Store) ClientMetrics(clientID string) (*metric.ClientMetrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data.metrics[clientID]
	if !ok {
		return nil, false
	}
	return cloneMetrics(m), true
}

// WeightEntries returns the history of a user in insertion order.
func (s *Store) WeightEntries(userID string) []weight.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.data.weights, func(e weight.Entry, _ int) bool {
		return e.UserID == userID
	})
}
