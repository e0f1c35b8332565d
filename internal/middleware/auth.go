package middleware // middleware provides reusable HTTP request processing

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/utils"
)

// UserFinder resolves a user id against the identity store. Satisfied by
// *repository.UserRepo; tests substitute a fake.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Protect returns middleware that authenticates a Bearer access token in two
// steps: a local signature/expiry check, then a live lookup confirming the
// token's subject still exists. A user deleted after issuance is rejected
// even though the token itself still verifies. Both failures are 401; the
// messages differ so clients can tell a dead session from a dead account.
// On success the subject id and role snapshot are stored in the context
// under "user_id" and "role".
func Protect(secret string, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthenticated(c, "you are not logged in")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return unauthenticated(c, "invalid or expired token")
			}

			// Live existence check. A transient store failure counts as an
			// auth failure; nothing here retries.
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			if _, err := users.GetByID(ctx, claims.UserID); err != nil {
				return unauthenticated(c, "user no longer exists")
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": msg})
}
