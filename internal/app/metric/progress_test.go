package metricservice_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestCalculateProgress_WithoutMetrics(t *testing.T) {
	f := newFixture(t)
	f.client("c1", 80, nil)

	_, err := f.service.CalculateProgress(context.Background(), f.uow, "c1")

	assert.ErrorIs(t, err, metric.ErrMetricsNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, ok := f.store.ClientMetrics("c1")
	assert.False(t, ok, "progress must not create metrics")
}

func TestCalculateProgress_Trend(t *testing.T) {
	f := newFixture(t)
	f.client("c1", 80, nil)
	f.store.PutMetrics(metric.New("m1", "c1", nil, ptr(80.0), t0.Add(-90*day)))

	put := func(id string, start time.Time, ended bool) {
		w := session.WorkoutSession{SessionID: id, UserID: "c1", StartTime: start}
		if ended {
			w.EndTime = ptr(start.Add(time.Hour))
		}
		f.store.PutWorkout(w)
	}
	for i, offset := range []time.Duration{time.Hour, 5 * day, 10 * day, 15 * day, 20 * day} {
		put(fmt.Sprintf("recent-%d", i), t0.Add(-offset-time.Hour), true)
	}
	put("recent-open", t0.Add(-2*day), false)
	put("prev-a", t0.Add(-35*day), true)
	put("prev-b", t0.Add(-50*day), true)
	put("old", t0.Add(-70*day), true)
	f.store.PutWorkout(session.WorkoutSession{SessionID: "other", UserID: "c2", StartTime: t0.Add(-day), EndTime: ptr(t0)})

	p, err := f.service.CalculateProgress(context.Background(), f.uow, "c1")
	require.NoError(t, err)

	assert.Equal(t, 5, p.RecentWorkouts30Days)
	assert.Equal(t, 2, p.PreviousWorkouts30Days)
	assert.Equal(t, metric.TrendImproving, p.RecentWorkoutTrend)
	assert.Equal(t, 8, p.WorkoutsSinceLastReset)
	assert.Equal(t, 90, p.DaysSinceStart)
	assert.Equal(t, 0.0, *p.WeightChangeKg)
}

func TestCalculateProgress_AfterActivity(t *testing.T) {
	f := newFixture(t)
	f.client("c1", 80, nil)
	ctx := context.Background()

	f.store.PutWorkout(session.WorkoutSession{SessionID: "s1", UserID: "c1", StartTime: t0})
	_, err := f.service.EndWorkout(ctx, f.uow, "c1", "s1", ptr(t0.Add(75*time.Minute)))
	require.NoError(t, err)
	_, err = f.service.RecordWeightChange(ctx, f.uow, "c1", 78, nil)
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	p, err := f.service.CalculateProgress(ctx, f.uow, "c1")
	require.NoError(t, err)

	assert.Equal(t, 1, p.TotalWorkouts)
	assert.Equal(t, 1.25, p.TotalTrainingHours)
	assert.Equal(t, 75.0, p.AverageWorkoutDuration)
	assert.Equal(t, -2.0, *p.WeightChangeKg)
	assert.Equal(t, -2.5, *p.WeightChangePercentage)
	assert.Equal(t, metric.TrendImproving, p.RecentWorkoutTrend)
}

func TestGetMetrics(t *testing.T) {
	f := newFixture(t)
	f.client("c1", 80, nil)
	ctx := context.Background()

	_, err := f.service.GetMetrics(ctx, f.uow, "c1")
	assert.ErrorIs(t, err, metric.ErrMetricsNotFound)

	_, err = f.service.GetOrCreate(ctx, f.uow, "c1", nil)
	require.NoError(t, err)

	m, err := f.service.GetMetrics(ctx, f.uow, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", m.ClientID)
}
