package api

import (
	"net/http"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/burenotti/gym_tracker_backend/internal/domain/weight"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountMetrics() {
	loginRequired := LoginRequired(s.authorizer)
	g := s.handler.Group("/metrics/me", loginRequired)
	g.GET("", s.GetMyMetrics)
	g.GET("/progress", s.GetMyProgress)
	g.GET("/weight-history", s.GetMyWeightHistory)
	g.GET("/since-reset", s.GetMyWorkoutsSinceReset)

	s.handler.POST("/metrics/workouts/reset", s.ResetMyWorkouts, loginRequired, RequireRole(user.RoleClient))
}

func (s *Server) GetMyMetrics(c echo.Context) error {
	ctx := c.Request().Context()
	u := currentUser(c)

	m, err := s.metricService.GetOrCreate(ctx, s.getMetricsUoW(), u.UserID, nil)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toClientMetrics(m))
}

func (s *Server) GetMyProgress(c echo.Context) error {
	ctx := c.Request().Context()
	u := currentUser(c)

	p, err := s.metricService.CalculateProgress(ctx, s.getMetricsUoW(), u.UserID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toProgress(p))
}

type WeightHistoryRequest struct {
	ClientID string `param:"client_id"`
	Limit    int    `query:"limit" validate:"gte=0,lte=200"`
}

type WeightHistoryResponse struct {
	Entries []WeightEntry `json:"entries"`
}

func (s *Server) GetMyWeightHistory(c echo.Context) error {
	var req WeightHistoryRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	return s.weightHistory(c, currentUser(c).UserID, req.Limit)
}

func (s *Server) weightHistory(c echo.Context, userID string, limit int) error {
	entries, err := s.metricService.ListWeightHistory(c.Request().Context(), s.getMetricsUoW(), userID, limit)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, WeightHistoryResponse{
		Entries: lo.Map(entries, func(e *weight.Entry, _ int) WeightEntry {
			return toWeightEntry(e)
		}),
	})
}

type SinceResetResponse struct {
	ClientID           string `json:"client_id"`
	WorkoutsSinceReset int    `json:"workouts_since_reset"`
}

func (s *Server) GetMyWorkoutsSinceReset(c echo.Context) error {
	ctx := c.Request().Context()
	u := currentUser(c)

	n, err := s.metricService.WorkoutsSinceReset(ctx, s.getMetricsUoW(), u.UserID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SinceResetResponse{
		ClientID:           u.UserID,
		WorkoutsSinceReset: n,
	})
}

type ResetResponse struct {
	Message          string    `json:"message"`
	WorkoutsArchived int       `json:"workouts_archived"`
	ResetCount       int       `json:"reset_count"`
	ResetAt          time.Time `json:"reset_at"`
	MetricsPreserved bool      `json:"metrics_preserved"`
}

func (s *Server) ResetMyWorkouts(c echo.Context) error {
	ctx := c.Request().Context()
	u := currentUser(c)

	res, err := s.metricService.ResetWorkoutCount(ctx, s.getMetricsUoW(), u.UserID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ResetResponse{
		Message:          "Workout count reset successfully",
		WorkoutsArchived: res.WorkoutsArchived,
		ResetCount:       res.ResetCount,
		ResetAt:          res.ResetAt,
		MetricsPreserved: res.MetricsPreserved,
	})
}
