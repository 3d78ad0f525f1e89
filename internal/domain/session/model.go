package session

import (
	"fmt"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
)

var (
	ErrSessionNotFound     = fmt.Errorf("%w: session not found", domain.ErrNotFound)
	ErrSessionAlreadyEnded = fmt.Errorf("%w: session already ended", domain.ErrInvalidInput)
	ErrInvalidDuration     = fmt.Errorf("%w: invalid session duration", domain.ErrInvalidInput)
	ErrInvalidLog          = fmt.Errorf("%w: sets and reps must not be negative", domain.ErrInvalidInput)
)

type WorkoutSession struct {
	SessionID     string
	UserID        string
	WorkoutPlanID *string
	StartTime     time.Time
	EndTime       *time.Time
	Notes         *string
}

func NewWorkout(sessionID, userID string, planID *string, start time.Time, notes *string) *WorkoutSession {
	return &WorkoutSession{
		SessionID:     sessionID,
		UserID:        userID,
		WorkoutPlanID: planID,
		StartTime:     start,
		Notes:         notes,
	}
}

func (w *WorkoutSession) Completed() bool {
	return w.EndTime != nil
}

// End closes the session. A session can be closed only once.
func (w *WorkoutSession) End(at time.Time) error {
	if w.EndTime != nil {
		return ErrSessionAlreadyEnded
	}
	if at.Before(w.StartTime) {
		return ErrInvalidDuration
	}
	w.EndTime = &at
	return nil
}

// Duration is zero for open sessions.
func (w *WorkoutSession) Duration() time.Duration {
	if w.EndTime == nil {
		return 0
	}
	return w.EndTime.Sub(w.StartTime)
}

type ExerciseLog struct {
	LogID         string
	SessionID     string
	ExerciseID    string
	SetsCompleted int
	RepsCompleted int
	WeightUsed    *float64
	Notes         *string
	CompletedAt   time.Time
}

func NewExerciseLog(logID, sessionID, exerciseID string, sets, reps int, weightUsed *float64, notes *string, at time.Time) (*ExerciseLog, error) {
	if sets < 0 || reps < 0 {
		return nil, ErrInvalidLog
	}
	return &ExerciseLog{
		LogID:         logID,
		SessionID:     sessionID,
		ExerciseID:    exerciseID,
		SetsCompleted: sets,
		RepsCompleted: reps,
		WeightUsed:    weightUsed,
		Notes:         notes,
		CompletedAt:   at,
	}, nil
}

type CardioSession struct {
	SessionID       string
	UserID          string
	ActivityType    string
	Location        *string
	DurationMinutes int
	DistanceKm      *float64
	CaloriesBurned  *int
	StartTime       time.Time
	Notes           *string
}

func NewCardio(sessionID, userID, activity string, durationMinutes int, start time.Time) (*CardioSession, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	return &CardioSession{
		SessionID:       sessionID,
		UserID:          userID,
		ActivityType:    activity,
		DurationMinutes: durationMinutes,
		StartTime:       start,
	}, nil
}

func (c *CardioSession) Hours() float64 {
	return float64(c.DurationMinutes) / 60.0
}

// WorkoutFilter narrows completed workout counts. Zero values mean unbounded.
type WorkoutFilter struct {
	StartedFrom   *time.Time
	StartedBefore *time.Time
	EndedFrom     *time.Time
}
