package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
)

const noticeForbidden = "You do not have sufficient permission to access this resource. Please log into an authorized account."

// RequireRole enforces role-based access control. It must run after CheckToken;
// a request without identity is handled like RequireLogin.
func RequireRole(jar *web.Jar, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				metrics.AuthGateRejectionsTotal.WithLabelValues("login_required").Inc()
				jar.ClearToken(c)
				jar.Flash(c, noticeLogin)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			if !roleAllowed(id.Role, allowed) {
				metrics.AuthGateRejectionsTotal.WithLabelValues("insufficient_role").Inc()
				jar.Flash(c, noticeForbidden)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}

func roleAllowed(r domain.Role, allowed map[domain.Role]struct{}) bool {
	switch r {
	case domain.RoleClient, domain.RoleEmployee, domain.RoleAdmin, domain.RoleOwner:
		_, ok := allowed[r]
		return ok
	default:
		return false
	}
}
