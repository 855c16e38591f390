package http

import (
	"net/http"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/service"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EmailHandler handles the per-user email trigger endpoints.
type EmailHandler struct {
	emailService service.EmailService
	logger       *logger.Logger
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(emailService service.EmailService, logger *logger.Logger) *EmailHandler {
	return &EmailHandler{emailService: emailService, logger: logger}
}

// RegisterRoutes registers the email trigger routes to the Echo group.
func (h *EmailHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/send-welcome-email", h.SendWelcome)
	g.POST("/trigger-welcome-email", h.TriggerWelcome)
	g.POST("/send-trade-reminder", h.SendTradeReminder)
	g.POST("/send-weekly-summary", h.SendWeeklySummary)
	g.POST("/resubscribe", h.Resubscribe)
}

func (h *EmailHandler) SendWelcome(c echo.Context) error {
	var req dto.EmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.emailService.SendWelcome(c.Request().Context(), identityFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) TriggerWelcome(c echo.Context) error {
	var req dto.TriggerWelcomeEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.emailService.TriggerWelcome(c.Request().Context(), identityFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) SendTradeReminder(c echo.Context) error {
	var req dto.TradeReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.emailService.SendTradeReminder(c.Request().Context(), identityFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) SendWeeklySummary(c echo.Context) error {
	var req dto.WeeklySummaryEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.emailService.SendWeeklySummary(c.Request().Context(), identityFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) Resubscribe(c echo.Context) error {
	var req dto.EmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	resp, err := h.emailService.Resubscribe(c.Request().Context(), identityFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
