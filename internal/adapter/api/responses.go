package api

import (
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
)

type ClientMetrics struct {
	MetricsID                       string     `json:"metrics_id"`
	ClientID                        string     `json:"client_id"`
	PersonalTrainerID               *string    `json:"personal_trainer_id"`
	TotalWorkoutsCompleted          int        `json:"total_workouts_completed"`
	TotalCardioSessions             int        `json:"total_cardio_sessions"`
	TotalTrainingHours              float64    `json:"total_training_hours"`
	TotalTrainingDays               int        `json:"total_training_days"`
	TotalSetsCompleted              int        `json:"total_sets_completed"`
	TotalRepsCompleted              int        `json:"total_reps_completed"`
	InitialWeight                   *float64   `json:"initial_weight"`
	CurrentWeight                   *float64   `json:"current_weight"`
	LowestWeight                    *float64   `json:"lowest_weight"`
	HighestWeight                   *float64   `json:"highest_weight"`
	TotalWeightChanges              int        `json:"total_weight_changes"`
	AverageDaysBetweenWeightChanges *float64   `json:"average_days_between_weight_changes"`
	TimesWorkoutsReset              int        `json:"times_workouts_reset"`
	LastResetDate                   *time.Time `json:"last_reset_date"`
	WorkoutsBeforeLastReset         int        `json:"workouts_before_last_reset"`
	ConsistencyPercentage           float64    `json:"consistency_percentage"`
	AverageWorkoutDurationMinutes   float64    `json:"average_workout_duration_minutes"`
	ClientSince                     time.Time  `json:"client_since"`
	LastActivityDate                *time.Time `json:"last_activity_date"`
	LastUpdated                     *time.Time `json:"last_updated"`
}

func toClientMetrics(m *metric.ClientMetrics) ClientMetrics {
	return ClientMetrics{
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

type Progress struct {
	ClientID               string   `json:"client_id"`
	TotalWorkouts          int      `json:"total_workouts"`
	TotalCardioSessions    int      `json:"total_cardio_sessions"`
	TotalTrainingHours     float64  `json:"total_training_hours"`
	TotalTrainingDays      int      `json:"total_training_days"`
	ConsistencyPercentage  float64  `json:"consistency_percentage"`
	AverageWorkoutDuration float64  `json:"average_workout_duration"`
	WeightChangeKg         *float64 `json:"weight_change_kg"`
	WeightChangePercentage *float64 `json:"weight_change_percentage"`
	RecentWorkoutTrend     string   `json:"recent_workout_trend"`
	RecentWorkouts30Days   int      `json:"recent_workouts_30_days"`
	PreviousWorkouts30Days int      `json:"previous_workouts_30_days"`
	TotalSets              int      `json:"total_sets"`
	TotalReps              int      `json:"total_reps"`
	TimesReset             int      `json:"times_reset"`
	WorkoutsSinceLastReset int      `json:"workouts_since_last_reset"`
	DaysSinceStart         int      `json:"days_since_start"`
}

func toProgress(p *metric.Progress) Progress {
	return Progress{
		ClientID:               p.ClientID,
		TotalWorkouts:          p.TotalWorkouts,
		TotalCardioSessions:    p.TotalCardioSessions,
		TotalTrainingHours:     p.TotalTrainingHours,
		TotalTrainingDays:      p.TotalTrainingDays,
		ConsistencyPercentage:  p.ConsistencyPercentage,
		AverageWorkoutDuration: p.AverageWorkoutDuration,
		WeightChangeKg:         p.WeightChangeKg,
		WeightChangePercentage: p.WeightChangePercentage,
		RecentWorkoutTrend:     string(p.RecentWorkoutTrend),
		RecentWorkouts30Days:   p.RecentWorkouts30Days,
		PreviousWorkouts30Days: p.PreviousWorkouts30Days,
		TotalSets:              p.TotalSets,
		TotalReps:              p.TotalReps,
		TimesReset:             p.TimesReset,
		WorkoutsSinceLastReset: p.WorkoutsSinceLastReset,
		DaysSinceStart:         p.DaysSinceStart,
	}
}

type WeightEntry struct {
	EntryID             string    `json:"entry_id"`
	UserID              string    `json:"user_id"`
	Weight              float64   `json:"weight"`
	PreviousWeight      *float64  `json:"previous_weight"`
	DaysSinceLastChange *int      `json:"days_since_last_change"`
	RecordedAt          time.Time `json:"recorded_at"`
	Notes               *string   `json:"notes"`
}

func toWeightEntry(e *weight.Entry) WeightEntry {
	return WeightEntry{
		EntryID:             e.EntryID,
		UserID:              e.UserID,
		Weight:              e.Weight,
		PreviousWeight:      e.PreviousWeight,
		DaysSinceLastChange: e.DaysSinceLastChange,
		RecordedAt:          e.RecordedAt,
		Notes:               e.Notes,
	}
}

type Workout struct {
	SessionID     string     `json:"session_id"`
	UserID        string     `json:"user_id"`
	WorkoutPlanID *string    `json:"workout_plan_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Notes         *string    `json:"notes"`
}

func toWorkout(w *session.WorkoutSession) Workout {
	return Workout{
		SessionID:     w.SessionID,
		UserID:        w.UserID,
		WorkoutPlanID: w.WorkoutPlanID,
		StartTime:     w.StartTime,
		EndTime:       w.EndTime,
		Notes:         w.Notes,
	}
}

type ExerciseLog struct {
	LogID         string    `json:"log_id"`
	SessionID     string    `json:"session_id"`
	ExerciseID    string    `json:"exercise_id"`
	SetsCompleted int       `json:"sets_completed"`
	RepsCompleted int       `json:"reps_completed"`
	WeightUsed    *float64  `json:"weight_used"`
	Notes         *string   `json:"notes"`
	CompletedAt   time.Time `json:"completed_at"`
}

func toExerciseLog(l *session.ExerciseLog) ExerciseLog {
	return ExerciseLog{
		LogID:         l.LogID,
		SessionID:     l.SessionID,
		ExerciseID:    l.ExerciseID,
		SetsCompleted: l.SetsCompleted,
		RepsCompleted: l.RepsCompleted,
		WeightUsed:    l.WeightUsed,
		Notes:         l.Notes,
		CompletedAt:   l.CompletedAt,
	}
}

type Cardio struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	ActivityType    string    `json:"activity_type"`
	Location        *string   `json:"location"`
	DurationMinutes int       `json:"duration_minutes"`
	DistanceKm      *float64  `json:"distance_km"`
	CaloriesBurned  *int      `json:"calories_burned"`
	StartTime       time.Time `json:"start_time"`
	Notes           *string   `json:"notes"`
}

func toCardio(c *session.CardioSession) Cardio {
	return Cardio{
		SessionID:       c.SessionID,
		UserID:          c.UserID,
		ActivityType:    c.ActivityType,
		Location:        c.Location,
		DurationMinutes: c.DurationMinutes,
		DistanceKm:      c.DistanceKm,
		CaloriesBurned:  c.CaloriesBurned,
		StartTime:       c.StartTime,
		Notes:           c.Notes,
	}
}
