package http

import (
	"net/http"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/service"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FeesHandler handles HTTP requests for fee configurations.
type FeesHandler struct {
	feesService service.FeesService
	logger      *logger.Logger
}

// NewFeesHandler creates a new FeesHandler.
func NewFeesHandler(feesService service.FeesService, logger *logger.Logger) *FeesHandler {
	return &FeesHandler{feesService: feesService, logger: logger}
}

// RegisterRoutes registers the fees-config routes to the Echo group.
func (h *FeesHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/fees-config/:user_id", h.GetFeesConfig)
	g.POST("/fees-config/:user_id", h.SaveFeesConfig)
}

func (h *FeesHandler) GetFeesConfig(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	cfg, err := h.feesService.GetFeesConfig(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.FeesConfigResponse{FeesConfig: *cfg})
}

func (h *FeesHandler) SaveFeesConfig(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	var req dto.SaveFeesConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	if err := h.feesService.SaveFeesConfig(c.Request().Context(), ident.UserID, &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Fees config saved successfully", UserID: ident.UserID})
}
