package api

import (
	"net/http"

	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountTrainer() {
	g := s.handler.Group("/metrics", LoginRequired(s.authorizer), RequireRole(user.RolePersonalTrainer))
	g.GET("/clients", s.ListClients)
	g.GET("/clients/:client_id", s.GetClientMetrics)
	g.GET("/clients/:client_id/progress", s.GetClientProgress)
	g.GET("/clients/:client_id/weight-history", s.GetClientWeightHistory)
	g.GET("/dashboard-summary", s.GetDashboardSummary)
}

type ListClientsRequest struct {
	Limit  int `query:"limit" validate:"gte=0,lte=200"`
	Offset int `query:"offset" validate:"gte=0"`
}

type ListClientsResponse struct {
	Clients []ClientMetrics `json:"clients"`
}

func (s *Server) ListClients(c echo.Context) error {
	var req ListClientsRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	all, err := s.metricService.ListTrainerClients(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID, req.Limit, req.Offset)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ListClientsResponse{
		Clients: lo.Map(all, func(m *metric.ClientMetrics, _ int) ClientMetrics {
			return toClientMetrics(m)
		}),
	})
}

type ClientRequest struct {
	ClientID string `param:"client_id" validate:"required"`
}

// checkAssigned fails unless the current trainer owns the client.
func (s *Server) checkAssigned(c echo.Context, clientID string) error {
	_, err := s.profileService.GetAssignedClient(c.Request().Context(), currentUser(c).UserID, clientID, s.getProfileUoW())
	return err
}

func (s *Server) GetClientMetrics(c echo.Context) error {
	var req ClientRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if err := s.checkAssigned(c, req.ClientID); err != nil {
		return s.ServiceError(c, err)
	}

	m, err := s.metricService.GetOrCreate(c.Request().Context(), s.getMetricsUoW(), req.ClientID, nil)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toClientMetrics(m))
}

func (s *Server) GetClientProgress(c echo.Context) error {
	var req ClientRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if err := s.checkAssigned(c, req.ClientID); err != nil {
		return s.ServiceError(c, err)
	}

	p, err := s.metricService.CalculateProgress(c.Request().Context(), s.getMetricsUoW(), req.ClientID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toProgress(p))
}

func (s *Server) GetClientWeightHistory(c echo.Context) error {
	var req WeightHistoryRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if err := s.checkAssigned(c, req.ClientID); err != nil {
		return s.ServiceError(c, err)
	}
	return s.weightHistory(c, req.ClientID, req.Limit)
}

type ClientHighlight struct {
	ClientID    string  `json:"client_id"`
	Name        string  `json:"name"`
	Workouts    int     `json:"workouts,omitempty"`
	Consistency float64 `json:"consistency,omitempty"`
}

type DashboardResponse struct {
	TotalClients       int              `json:"total_clients"`
	TotalWorkouts      int              `json:"total_workouts"`
	TotalTrainingHours float64          `json:"total_training_hours"`
	AverageConsistency float64          `json:"average_consistency"`
	MostActiveClient   *ClientHighlight `json:"most_active_client"`
	MostConsistent     *ClientHighlight `json:"most_consistent_client"`
}

func toHighlight(h *metric.ClientHighlight) *ClientHighlight {
	if h == nil {
		return nil
	}
	return &ClientHighlight{
		ClientID:    h.ClientID,
		Name:        h.Name,
		Workouts:    h.Workouts,
		Consistency: h.Consistency,
	}
}

func (s *Server) GetDashboardSummary(c echo.Context) error {
	d, err := s.metricService.TrainerDashboard(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, DashboardResponse{
		TotalClients:       d.TotalClients,
		TotalWorkouts:      d.TotalWorkouts,
		TotalTrainingHours: d.TotalTrainingHours,
		AverageConsistency: d.AverageConsistency,
		MostActiveClient:   toHighlight(d.MostActive),
		MostConsistent:     toHighlight(d.MostConsistent),
	})
}
