package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) MountProfile() {
	s.handler.PUT("/profile/weight", s.UpdateWeight, LoginRequired(s.authorizer))
}

type UpdateWeightRequest struct {
	Weight float64 `json:"weight" validate:"gt=0"`
	Notes  *string `json:"notes"`
}

func (s *Server) UpdateWeight(c echo.Context) error {
	var req UpdateWeightRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	e, err := s.metricService.RecordWeightChange(c.Request().Context(), s.getMetricsUoW(), currentUser(c).UserID, req.Weight, req.Notes)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toWeightEntry(e))
}
