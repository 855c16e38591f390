package http

import (
	"net/http"
	"strings"
	"time"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/auth"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

const identityContextKey = "identity"

// AuthMiddleware verifies bearer credentials and keeps the users mirror
// table current. Every authenticated request upserts the caller's row so the
// mailer always has a fresh audience with last-seen timestamps.
func AuthMiddleware(verifier auth.Verifier, userRepo repository.UserRepository, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing bearer token"})
			}

			ident, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				log.Warn("Token verification failed", logger.ErrorField(err))
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid token"})
			}

			if err := userRepo.Upsert(c.Request().Context(), &entity.User{
				ID:          ident.UserID,
				Email:       ident.Email,
				DisplayName: ident.Name,
				LastSeenAt:  time.Now(),
			}); err != nil {
				// Mirror staleness is not worth failing the request over.
				log.Warn("Failed to upsert user", logger.ErrorField(err), logger.Field("user_id", ident.UserID))
			}

			c.Set(identityContextKey, ident)
			return next(c)
		}
	}
}

// identityFrom returns the authenticated caller set by AuthMiddleware.
func identityFrom(c echo.Context) *auth.Identity {
	ident, _ := c.Get(identityContextKey).(*auth.Identity)
	return ident
}

// requireOwner checks the path user id against the caller. Endpoints keyed
// by user id in the path are strictly self-service.
func requireOwner(c echo.Context, ident *auth.Identity) error {
	if c.Param("user_id") != ident.UserID {
		return common.ErrAccessDenied
	}
	return nil
}
