package session

import (
	"testing"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutSession_End(t *testing.T) {
	start := time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)
	w := NewWorkout("s1", "u1", nil, start, nil)

	assert.False(t, w.Completed())
	assert.Zero(t, w.Duration())

	require.NoError(t, w.End(start.Add(90*time.Minute)))
	assert.True(t, w.Completed())
	assert.Equal(t, 90*time.Minute, w.Duration())

	err := w.End(start.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrSessionAlreadyEnded)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 90*time.Minute, w.Duration())
}

func TestWorkoutSession_EndBeforeStart(t *testing.T) {
	start := time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)
	w := NewWorkout("s1", "u1", nil, start, nil)

	assert.ErrorIs(t, w.End(start.Add(-time.Minute)), ErrInvalidDuration)
	assert.False(t, w.Completed())
}

func TestNewExerciseLog(t *testing.T) {
	_, err := NewExerciseLog("l1", "s1", "squat", -1, 5, nil, nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidLog)

	l, err := NewExerciseLog("l1", "s1", "squat", 0, 0, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Zero(t, l.SetsCompleted)
}

func TestNewCardio(t *testing.T) {
	_, err := NewCardio("c1", "u1", "run", 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDuration)

	c, err := NewCardio("c1", "u1", "run", 45, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.75, c.Hours())
}
