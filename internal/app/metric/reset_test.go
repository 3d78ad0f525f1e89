package metricservice_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	metricservice "github.com/burenotti/gym_tracker_backend/internal/app/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) completeWorkouts(t *testing.T, clientID string, n int) {
	t.Helper()
	for range n {
		now := f.clock.Now()
		w, err := f.service.StartWorkout(context.Background(), f.uow, clientID, metricservice.StartWorkoutInput{})
		require.NoError(t, err)
		_, err = f.service.EndWorkout(context.Background(), f.uow, clientID, w.SessionID, ptr(now.Add(time.Hour)))
		require.NoError(t, err)
		f.clock.Advance(2 * time.Hour)
	}
}

func TestResetWorkoutCount_Twice(t *testing.T) {
	f := newFixture(t)
	f.client("c1", 80, nil)
	ctx := context.Background()
	f.completeWorkouts(t, "c1", 3)

	first, err := f.service.ResetWorkoutCount(ctx, f.uow, "c1")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	second, err := f.service.ResetWorkoutCount(ctx, f.uow, "c1")
	require.NoError(t, err)

	assert.Equal(t, 1, first.ResetCount)
	assert.Equal(t, 2, second.ResetCount)
	assert.Equal(t, 3, first.WorkoutsArchived)
	assert.Equal(t, first.WorkoutsArchived, second.WorkoutsArchived)
	assert.True(t, second.MetricsPreserved)
	assert.Equal(t, f.clock.Now(), second.ResetAt)

	m, _ := f.store.ClientMetrics("c1")
	assert.Equal(t, 2, m.TimesWorkoutsReset)
	assert.Equal(t, 3, m.WorkoutsBeforeLastReset)
	assert.Equal(t, 3, m.TotalWorkoutsCompleted, "totals survive a reset")
	assert.InDelta(t, 3.0, m.TotalTrainingHours, 1e-9)
	assert.Equal(t, f.clock.Now(), *m.LastResetDate)

	types := f.bus.Types()
	assert.Equal(t, metric.EventWorkoutsReset, types[len(types)-1])
}

func TestWorkoutsSinceReset(t *testing.T) {
	f := newFixture(t)
	f.client("c1", 80, nil)
	ctx := context.Background()

	count, err := f.service.WorkoutsSinceReset(ctx, f.uow, "c1")
	require.NoError(t, err)
	assert.Zero(t, count)

	f.completeWorkouts(t, "c1", 2)
	count, err = f.service.WorkoutsSinceReset(ctx, f.uow, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "never reset counts everything")

	_, err = f.service.ResetWorkoutCount(ctx, f.uow, "c1")
	require.NoError(t, err)
	count, err = f.service.WorkoutsSinceReset(ctx, f.uow, "c1")
	require.NoError(t, err)
	assert.Zero(t, count)

	f.clock.Advance(time.Minute)
	f.completeWorkouts(t, "c1", 1)
	count, err = f.service.WorkoutsSinceReset(ctx, f.uow, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	p, err := f.service.CalculateProgress(ctx, f.uow, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.WorkoutsSinceLastReset)
	assert.Equal(t, 1, p.TimesReset)
	assert.Equal(t, 3, p.TotalWorkouts)
}

func TestWorkoutsSinceReset_WithoutMetrics(t *testing.T) {
	f := newFixture(t)
	for i := range 2 {
		f.store.PutWorkout(session.WorkoutSession{
			SessionID: fmt.Sprintf("s%d", i),
			UserID:    "c1",
			StartTime: t0,
			EndTime:   ptr(t0.Add(time.Hour)),
		})
	}

	count, err := f.service.WorkoutsSinceReset(context.Background(), f.uow, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	_, ok := f.store.ClientMetrics("c1")
	assert.False(t, ok)
}
