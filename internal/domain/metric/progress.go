package metric

import (
	"math"
	"time"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const TrendWindow = 30 * 24 * time.Hour

// ClassifyTrend compares workout counts of two consecutive windows.
// Ties are stable.
func ClassifyTrend(recent, previous int) Trend {
	switch {
	case recent > previous:
		return TrendImproving
	case recent < previous:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// TrendWindows returns the bounds of the recent window [recentFrom, now)
// and of the previous one [previousFrom, recentFrom).
func TrendWindows(now time.Time) (recentFrom, previousFrom time.Time) {
	recentFrom = now.Add(-TrendWindow)
	previousFrom = recentFrom.Add(-TrendWindow)
	return
}

// Progress is a point-in-time report. Values are rounded for presentation
// only, the stored metrics keep full precision.
type Progress struct {
	ClientID               string
	TotalWorkouts          int
	TotalCardioSessions    int
	TotalTrainingHours     float64
	TotalTrainingDays      int
	ConsistencyPercentage  float64
	AverageWorkoutDuration float64
	WeightChangeKg         *float64
	WeightChangePercentage *float64
	RecentWorkoutTrend     Trend
	RecentWorkouts30Days   int
	PreviousWorkouts30Days int
	TotalSets              int
	TotalReps              int
	TimesReset             int
	WorkoutsSinceLastReset int
	DaysSinceStart         int
}

type WorkoutCounts struct {
	Recent     int
	Previous   int
	SinceReset int
}

func NewProgress(m *ClientMetrics, counts WorkoutCounts, now time.Time) *Progress {
	p := &Progress{
		ClientID:               m.ClientID,
		TotalWorkouts:          m.TotalWorkoutsCompleted,
		TotalCardioSessions:    m.TotalCardioSessions,
		TotalTrainingHours:     Round(m.TotalTrainingHours, 2),
		TotalTrainingDays:      m.TotalTrainingDays,
		ConsistencyPercentage:  Round(m.ConsistencyPercentage, 2),
		AverageWorkoutDuration: Round(m.AverageWorkoutDurationMinutes, 1),
		RecentWorkoutTrend:     ClassifyTrend(counts.Recent, counts.Previous),
		RecentWorkouts30Days:   counts.Recent,
		PreviousWorkouts30Days: counts.Previous,
		TotalSets:              m.TotalSetsCompleted,
		TotalReps:              m.TotalRepsCompleted,
		TimesReset:             m.TimesWorkoutsReset,
		WorkoutsSinceLastReset: counts.SinceReset,
	}

	if m.InitialWeight != nil && m.CurrentWeight != nil {
		change := *m.CurrentWeight - *m.InitialWeight
		p.WeightChangeKg = ptr(Round(change, 2))
		if *m.InitialWeight != 0 {
			p.WeightChangePercentage = ptr(Round(change / *m.InitialWeight * 100, 2))
		}
	}

	if !m.ClientSince.IsZero() {
		p.DaysSinceStart = int(math.Floor(now.Sub(m.ClientSince).Hours() / 24))
	}

	return p
}

func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
