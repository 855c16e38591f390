package http

import (
	"errors"
	"net/http"

	"tradetracker/internal/api/dto"
	"tradetracker/pkg/common"

	"github.com/labstack/echo/v4"
)

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a server fault and gets a generic body so internal
// details never leak to the client.
func writeError(c echo.Context, err error) error {
	switch {
	case common.IsValidation(err):
		return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrAccessDenied):
		return c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "access denied"})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
