package metric

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, TrendImproving, ClassifyTrend(5, 2))
	assert.Equal(t, TrendDeclining, ClassifyTrend(1, 3))
	assert.Equal(t, TrendStable, ClassifyTrend(4, 4))
	assert.Equal(t, TrendStable, ClassifyTrend(0, 0))
}

func TestTrendWindows(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	recent, previous := TrendWindows(now)

	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), recent)
	assert.Equal(t, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), previous)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.234, 2))
	assert.Equal(t, 1.24, Round(1.235000001, 2))
	assert.Equal(t, 33.3, Round(100.0/3, 1))
	assert.Equal(t, -2.5, Round(-2.5, 1))
}

func TestNewProgress(t *testing.T) {
	m := New("m1", "c1", nil, f64(80), start)
	m.RecordWorkout("s1", 100*time.Minute, 3, 30, start.Add(2*time.Hour))
	m.RecordWorkout("s2", 50*time.Minute, 4, 40, start.Add(26*time.Hour))
	require.NoError(t, m.RecordWeight(78.35, nil, start.Add(48*time.Hour)))
	m.RecordReset(2, start.Add(72*time.Hour))
	now := start.Add(10*24*time.Hour + 5*time.Hour)
	m.SetTrainingDays(2, now)

	p := NewProgress(m, WorkoutCounts{Recent: 5, Previous: 2, SinceReset: 0}, now)

	assert.Equal(t, "c1", p.ClientID)
	assert.Equal(t, 2, p.TotalWorkouts)
	assert.Equal(t, 2.5, p.TotalTrainingHours)
	assert.Equal(t, 75.0, p.AverageWorkoutDuration)
	assert.Equal(t, 20.0, p.ConsistencyPercentage)
	assert.Equal(t, TrendImproving, p.RecentWorkoutTrend)
	assert.Equal(t, 5, p.RecentWorkouts30Days)
	assert.Equal(t, 2, p.PreviousWorkouts30Days)
	assert.Equal(t, 7, p.TotalSets)
	assert.Equal(t, 70, p.TotalReps)
	assert.Equal(t, 1, p.TimesReset)
	assert.Equal(t, 0, p.WorkoutsSinceLastReset)
	assert.Equal(t, 10, p.DaysSinceStart)

	require.NotNil(t, p.WeightChangeKg)
	assert.Equal(t, -1.65, *p.WeightChangeKg)
	require.NotNil(t, p.WeightChangePercentage)
	assert.Equal(t, -2.06, *p.WeightChangePercentage)
}

func TestNewProgress_WithoutWeights(t *testing.T) {
	m := New("m1", "c1", nil, nil, start)

	p := NewProgress(m, WorkoutCounts{}, start)

	assert.Nil(t, p.WeightChangeKg)
	assert.Nil(t, p.WeightChangePercentage)
	assert.Equal(t, TrendStable, p.RecentWorkoutTrend)
	assert.Zero(t, p.DaysSinceStart)
}

func TestNewProgress_DoesNotMutateMetrics(t *testing.T) {
	m := New("m1", "c1", nil, nil, start)
	m.RecordWorkout("s1", 61*time.Minute, 0, 0, start.Add(2*time.Hour))
	before := m.TotalTrainingHours

	NewProgress(m, WorkoutCounts{}, start.Add(3*time.Hour))

	assert.Equal(t, before, m.TotalTrainingHours)
}
