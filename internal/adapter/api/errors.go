package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/burenotti/gym_tracker_backend/internal/domain/session"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

type JsonErrorModel struct {
	Message string `json:"message"`
}

func JsonError(c echo.Context, status int, content any) error {
	data := &JsonErrorModel{Message: fmt.Sprintf("%v", content)}
	return c.JSON(status, data)
}

// publicErrors are safe to show to clients as is.
var publicErrors = []error{
	user.ErrUserNotFound,
	user.ErrInvalidWeight,
	user.ErrNotATrainer,
	user.ErrNotAClient,
	user.ErrClientNotOwned,
	metric.ErrMetricsNotFound,
	session.ErrSessionNotFound,
	session.ErrSessionAlreadyEnded,
	session.ErrInvalidDuration,
	session.ErrInvalidLog,
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ServiceError writes err with the status of its root kind. Internal
// failures are logged and reported without details.
func (s *Server) ServiceError(c echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"path", c.Path(),
			"error", err,
		)
		return JsonError(c, status, http.StatusText(status))
	}

	if public, ok := lo.Find(publicErrors, func(e error) bool { return errors.Is(err, e) }); ok {
		return JsonError(c, status, public)
	}
	return JsonError(c, status, http.StatusText(status))
}
