package http

import (
	"net/http"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/service"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests for user profiles.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *logger.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

// RegisterRoutes registers the profile routes to the Echo group.
func (h *ProfileHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/profile/:user_id", h.GetProfile)
	g.PUT("/profile/:user_id", h.UpdateProfile)
	g.GET("/profile/:user_id/account-balance", h.GetAccountBalance)
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	profile, err := h.profileService.GetProfile(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProfileResponse{Profile: *profile})
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	if err := h.profileService.UpdateProfile(c.Request().Context(), ident.UserID, &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Profile updated successfully", UserID: ident.UserID})
}

func (h *ProfileHandler) GetAccountBalance(c echo.Context) error {
	ident := identityFrom(c)
	if err := requireOwner(c, ident); err != nil {
		return writeError(c, err)
	}

	balance, err := h.profileService.GetAccountBalance(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountBalance: balance})
}
