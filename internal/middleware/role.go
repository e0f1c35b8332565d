package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RestrictTo returns middleware enforcing that the authenticated user's role
// is one of the given values. Roles are the canonical lowercase tags from
// the model package; matching is case-sensitive. A missing or non-string
// role in the context denies with 403 — that only happens when the route is
// misconfigured and Protect did not run first.
func RestrictTo(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"status":  "error",
					"message": "you do not have permission to perform this action",
				})
			}
			return next(c)
		}
	}
}
