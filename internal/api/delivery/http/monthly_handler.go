package http

import (
	"net/http"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/service"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MonthlyHandler handles HTTP requests for monthly returns and balances.
type MonthlyHandler struct {
	monthlyService service.MonthlyService
	logger         *logger.Logger
}

// NewMonthlyHandler creates a new MonthlyHandler.
func NewMonthlyHandler(monthlyService service.MonthlyService, logger *logger.Logger) *MonthlyHandler {
	return &MonthlyHandler{monthlyService: monthlyService, logger: logger}
}

// RegisterRoutes registers the monthly-record routes to the Echo group.
func (h *MonthlyHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/monthly-returns/:user_id", h.GetMonthlyReturns)
	g.POST("/monthly-returns/:user_id", h.SaveMonthlyReturn)
	g.DELETE("/monthly-returns/:user_id/:id", h.DeleteMonthlyReturn)

	g.GET("/monthly-balances/:user_id", h.GetMonthlyBalances)
	g.POST("/monthly-balances/:user_id", h.SaveMonthlyBalance)
	g.DELETE("/monthly-balances/:user_id/:id", h.DeleteMonthlyBalance)
}

func (h *MonthlyHandler) GetMonthlyReturns(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	returns, err := h.monthlyService.GetMonthlyReturns(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MonthlyReturnsResponse{MonthlyReturns: returns})
}

func (h *MonthlyHandler) SaveMonthlyReturn(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	var req dto.SaveMonthlyReturnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.monthlyService.SaveMonthlyReturn(c.Request().Context(), ident.UserID, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MonthlyHandler) DeleteMonthlyReturn(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	if err := h.monthlyService.DeleteMonthlyReturn(c.Request().Context(), ident.UserID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Monthly return deleted successfully"})
}

func (h *MonthlyHandler) GetMonthlyBalances(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	balances, err := h.monthlyService.GetMonthlyBalances(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MonthlyBalancesResponse{MonthlyBalances: balances})
}

func (h *MonthlyHandler) SaveMonthlyBalance(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	var req dto.SaveMonthlyBalanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.monthlyService.SaveMonthlyBalance(c.Request().Context(), ident.UserID, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MonthlyHandler) DeleteMonthlyBalance(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	if err := h.monthlyService.DeleteMonthlyBalance(c.Request().Context(), ident.UserID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Monthly balance deleted successfully"})
}
