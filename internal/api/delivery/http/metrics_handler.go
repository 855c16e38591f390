package http

import (
	"net/http"

	"tradetracker/internal/api/service"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MetricsHandler handles HTTP requests for performance metrics.
type MetricsHandler struct {
	metricsService service.MetricsService
	logger         *logger.Logger
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService service.MetricsService, logger *logger.Logger) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, logger: logger}
}

// RegisterRoutes registers the metrics routes to the Echo group.
func (h *MetricsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/metrics/:user_id", h.GetMetrics)
}

func (h *MetricsHandler) GetMetrics(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	metrics, err := h.metricsService.GetMetrics(c.Request().Context(), ident.UserID,
		c.QueryParam("from_date"), c.QueryParam("to_date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, metrics)
}
