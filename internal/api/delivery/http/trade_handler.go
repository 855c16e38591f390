package http

import (
	"net/http"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/service"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradeHandler handles HTTP requests for the trade lifecycle.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logger: logger}
}

// RegisterRoutes registers the trade routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/add-trade", h.AddTrade)
	g.POST("/exit-trade/:user_id", h.ExitTrade)
	g.GET("/trades/:user_id", h.GetTrades)
	g.PUT("/trades/:trade_id", h.UpdateTrade)
	g.DELETE("/trades/:trade_id", h.DeleteTrade)
}

func (h *TradeHandler) AddTrade(c echo.Context) error {
	var req dto.AddTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	ident := identityFrom(c)
	resp, err := h.tradeService.AddTrade(c.Request().Context(), ident.UserID, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *TradeHandler) ExitTrade(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	var req dto.ExitTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.tradeService.ExitTrade(c.Request().Context(), ident.UserID, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TradeHandler) GetTrades(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	trades, err := h.tradeService.GetTrades(c.Request().Context(), ident.UserID,
		c.QueryParam("from_date"), c.QueryParam("to_date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TradesResponse{Trades: trades})
}

func (h *TradeHandler) UpdateTrade(c echo.Context) error {
	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	ident := identityFrom(c)
	tradeID := c.Param("trade_id")
	if err := h.tradeService.UpdateTrade(c.Request().Context(), ident.UserID, tradeID, &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Trade updated successfully", TradeID: tradeID})
}

func (h *TradeHandler) DeleteTrade(c echo.Context) error {
	ident := identityFrom(c)
	tradeID := c.Param("trade_id")
	if err := h.tradeService.DeleteTrade(c.Request().Context(), ident.UserID, tradeID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Trade deleted successfully", TradeID: tradeID})
}
