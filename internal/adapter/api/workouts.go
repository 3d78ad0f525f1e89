package api

import (
	"net/http"
	"time"

	metricservice "github.com/burenotti/gym_tracker_backend/internal/app/metric"
	"github.com/labstack/echo/v4"
)

func (s *Server) MountWorkouts() {
	loginRequired := LoginRequired(s.authorizer)
	s.handler.POST("/workouts", s.StartWorkout, loginRequired)
	s.handler.POST("/workouts/:session_id/exercises", s.LogExercise, loginRequired)
	s.handler.POST("/workouts/:session_id/end", s.EndWorkout, loginRequired)
	s.handler.POST("/cardio", s.LogCardio, loginRequired)
}

type StartWorkoutRequest struct {
	WorkoutPlanID *string    `json:"workout_plan_id"`
	StartTime     *time.Time `json:"start_time"`
	Notes         *string    `json:"notes"`
}

func (s *Server) StartWorkout(c echo.Context) error {
	var req StartWorkoutRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	w, err := s.metricService.StartWorkout(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID,
		metricservice.StartWorkoutInput{
			PlanID:    req.WorkoutPlanID,
			StartTime: req.StartTime,
			Notes:     req.Notes,
		})
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toWorkout(w))
}

type LogExerciseRequest struct {
	SessionID  string   `param:"session_id" validate:"required"`
	ExerciseID string   `json:"exercise_id" validate:"required"`
	Sets       int      `json:"sets_completed" validate:"gte=0"`
	Reps       int      `json:"reps_completed" validate:"gte=0"`
	WeightUsed *float64 `json:"weight_used" validate:"omitempty,gte=0"`
	Notes      *string  `json:"notes"`
}

func (s *Server) LogExercise(c echo.Context) error {
	var req LogExerciseRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	l, err := s.metricService.LogExercise(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID, req.SessionID,
		metricservice.ExerciseInput{
			ExerciseID: req.ExerciseID,
			Sets:       req.Sets,
			Reps:       req.Reps,
			WeightUsed: req.WeightUsed,
			Notes:      req.Notes,
		})
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toExerciseLog(l))
}

type EndWorkoutRequest struct {
	SessionID string     `param:"session_id" validate:"required"`
	EndTime   *time.Time `json:"end_time"`
}

func (s *Server) EndWorkout(c echo.Context) error {
	var req EndWorkoutRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	w, err := s.metricService.EndWorkout(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID, req.SessionID, req.EndTime)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toWorkout(w))
}

type LogCardioRequest struct {
	ActivityType    string     `json:"activity_type" validate:"required"`
	DurationMinutes int        `json:"duration" validate:"gt=0"`
	DistanceKm      *float64   `json:"distance_km" validate:"omitempty,gte=0"`
	CaloriesBurned  *int       `json:"calories_burned" validate:"omitempty,gte=0"`
	Location        *string    `json:"location"`
	StartTime       *time.Time `json:"start_time"`
	Notes           *string    `json:"notes"`
}

func (s *Server) LogCardio(c echo.Context) error {
	var req LogCardioRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	cs, err := s.metricService.LogCardio(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID,
		metricservice.CardioInput{
			ActivityType:    req.ActivityType,
			DurationMinutes: req.DurationMinutes,
			DistanceKm:      req.DistanceKm,
			CaloriesBurned:  req.CaloriesBurned,
			Location:        req.Location,
			StartTime:       req.StartTime,
			Notes:           req.Notes,
		})
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toCardio(cs))
}
