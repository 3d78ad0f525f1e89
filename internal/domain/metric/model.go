package metric

import (
	"fmt"
	"math"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
)

var (
	ErrMetricsNotFound = fmt.Errorf("%w: client metrics not found", domain.ErrNotFound)
	ErrMetricsExists   = fmt.Errorf("%w: client metrics already exist", domain.ErrInvalidInput)
)

const (
	EventWorkoutRecorded = "metrics.workout_recorded"
	EventCardioRecorded  = "metrics.cardio_recorded"
	EventWeightRecorded  = "metrics.weight_recorded"
	EventWorkoutsReset   = "metrics.workouts_reset"
)

// ClientMetrics holds the running statistics of one client. Counters are
// incremented when activity is recorded and are never recomputed from the
// session tables, so deleting a session does not decrement them.
type ClientMetrics struct {
	domain.Aggregate
	MetricsID         string
	ClientID          string
	PersonalTrainerID *string

	TotalWorkoutsCompleted int
	TotalCardioSessions    int
	TotalTrainingHours     float64
	TotalTrainingDays      int
	TotalSetsCompleted     int
	TotalRepsCompleted     int

	InitialWeight                   *float64
	CurrentWeight                   *float64
	LowestWeight                    *float64
	HighestWeight                   *float64
	TotalWeightChanges              int
	AverageDaysBetweenWeightChanges *float64

	TimesWorkoutsReset      int
	LastResetDate           *time.Time
	WorkoutsBeforeLastReset int

	ConsistencyPercentage         float64
	AverageWorkoutDurationMinutes float64

	ClientSince      time.Time
	LastActivityDate *time.Time
	LastUpdated      *time.Time
}

// New seeds a record for a client. seedWeight is the client's weight at
// creation time and becomes the initial, current, lowest and highest weight.
func New(metricsID, clientID string, trainerID *string, seedWeight *float64, now time.Time) *ClientMetrics {
	m := &ClientMetrics{
		MetricsID:         metricsID,
		ClientID:          clientID,
		PersonalTrainerID: trainerID,
		ClientSince:       now,
	}
	if seedWeight != nil {
		m.InitialWeight = ptr(*seedWeight)
		m.CurrentWeight = ptr(*seedWeight)
		m.LowestWeight = ptr(*seedWeight)
		m.HighestWeight = ptr(*seedWeight)
	}
	return m
}

// RecordWorkout applies one completed workout session.
func (m *ClientMetrics) RecordWorkout(sessionID string, duration time.Duration, sets, reps int, endedAt time.Time) {
	hours := duration.Hours()

	m.TotalWorkoutsCompleted++
	m.TotalTrainingHours += hours
	m.AverageWorkoutDurationMinutes = m.TotalTrainingHours * 60 / float64(m.TotalWorkoutsCompleted)
	m.TotalSetsCompleted += sets
	m.TotalRepsCompleted += reps
	m.LastActivityDate = &endedAt

	m.PushEvent(WorkoutRecordedEvent{
		At:        endedAt,
		ClientID:  m.ClientID,
		SessionID: sessionID,
		Hours:     hours,
	})
}

// RecordCardio applies one cardio session. Set and rep totals are untouched.
func (m *ClientMetrics) RecordCardio(sessionID string, hours float64, startedAt time.Time) {
	m.TotalCardioSessions++
	m.TotalTrainingHours += hours
	m.LastActivityDate = &startedAt

	m.PushEvent(CardioRecordedEvent{
		At:        startedAt,
		ClientID:  m.ClientID,
		SessionID: sessionID,
		Hours:     hours,
	})
}

// SetTrainingDays stores the recomputed number of distinct active days and
// derives the consistency percentage from it.
func (m *ClientMetrics) SetTrainingDays(days int, now time.Time) {
	m.TotalTrainingDays = days
	m.ConsistencyPercentage = Consistency(days, m.ClientSince, now)
	m.LastUpdated = &now
}

// Consistency is active days over whole days elapsed since the client
// started, in percent. It is 0 until a full day has passed.
func Consistency(trainingDays int, clientSince, now time.Time) float64 {
	if clientSince.IsZero() {
		return 0
	}
	elapsed := int(math.Floor(now.Sub(clientSince).Hours() / 24))
	if elapsed <= 0 {
		return 0
	}
	return float64(trainingDays) / float64(elapsed) * 100
}

// RecordWeight applies a new weight and fails with weight.ErrInvalidWeight
// for weights that are not positive finite numbers. avgDays is the mean of
// the known day gaps in the weight history, nil when there are none.
func (m *ClientMetrics) RecordWeight(w float64, avgDays *float64, now time.Time) error {
	if err := weight.Validate(w); err != nil {
		return err
	}

	m.CurrentWeight = ptr(w)
	if m.LowestWeight == nil || w < *m.LowestWeight {
		m.LowestWeight = ptr(w)
	}
	if m.HighestWeight == nil || w > *m.HighestWeight {
		m.HighestWeight = ptr(w)
	}
	m.TotalWeightChanges++
	if avgDays != nil {
		m.AverageDaysBetweenWeightChanges = ptr(*avgDays)
	}
	m.LastUpdated = &now

	m.PushEvent(WeightRecordedEvent{
		At:       now,
		ClientID: m.ClientID,
		Weight:   w,
	})
	return nil
}

type ResetResult struct {
	WorkoutsArchived int
	ResetCount       int
	ResetAt          time.Time
	MetricsPreserved bool
}

// RecordReset stores a soft reset boundary. liveCount is the number of
// completed workouts at reset time. Cumulative counters are not touched.
func (m *ClientMetrics) RecordReset(liveCount int, now time.Time) ResetResult {
	m.TimesWorkoutsReset++
	m.LastResetDate = &now
	m.WorkoutsBeforeLastReset = liveCount
	m.LastUpdated = &now

	m.PushEvent(WorkoutsResetEvent{
		At:               now,
		ClientID:         m.ClientID,
		WorkoutsArchived: liveCount,
		ResetCount:       m.TimesWorkoutsReset,
	})

	return ResetResult{
		WorkoutsArchived: liveCount,
		ResetCount:       m.TimesWorkoutsReset,
		ResetAt:          now,
		MetricsPreserved: true,
	}
}

func ptr[T any](v T) *T {
	return &v
}

type WorkoutRecordedEvent struct {
	At        time.Time
	ClientID  string
	SessionID string
	Hours     float64
}

func (e WorkoutRecordedEvent) Type() string {
	return EventWorkoutRecorded
}

func (e WorkoutRecordedEvent) PublishedAt() time.Time {
	return e.At
}

type CardioRecordedEvent struct {
	At        time.Time
	ClientID  string
	SessionID string
	Hours     float64
}

func (e CardioRecordedEvent) Type() string {
	return EventCardioRecorded
}

func (e CardioRecordedEvent) PublishedAt() time.Time {
	return e.At
}

type WeightRecordedEvent struct {
	At       time.Time
	ClientID string
	Weight   float64
}

func (e WeightRecordedEvent) Type() string {
	return EventWeightRecorded
}

func (e WeightRecordedEvent) PublishedAt() time.Time {
	return e.At
}

type WorkoutsResetEvent struct {
	At               time.Time
	ClientID         string
	WorkoutsArchived int
	ResetCount       int
}

func (e WorkoutsResetEvent) Type() string {
	return EventWorkoutsReset
}

func (e WorkoutsResetEvent) PublishedAt() time.Time {
	return e.At
}
