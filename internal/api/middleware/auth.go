package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
)

const (
	LoginPath = "/account/login"

	noticeLogin = "Please log in."
)

// TokenVerifier checks a raw token and returns the identity it carries.
type TokenVerifier interface {
	Authenticate(raw string) (domain.Identity, error)
}

// CheckToken authenticates the request from the jwt cookie.
//   - no cookie: the request continues unauthenticated.
//   - invalid or expired token: the jwt and sid cookies are cleared and the client is sent to login.
//   - valid token: the identity is attached to the request context.
func CheckToken(verifier TokenVerifier, jar *web.Jar) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := jar.Token(c)
			if !ok {
				return next(c)
			}

			id, err := verifier.Authenticate(raw)
			if err != nil {
				metrics.AuthGateRejectionsTotal.WithLabelValues("invalid_token").Inc()
				c.Logger().Debugf("token rejected: %v", err)
				jar.ClearToken(c)
				jar.ClearSession(c)
				jar.Flash(c, noticeLogin)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// RequireLogin turns away requests that carry no identity.
func RequireLogin(jar *web.Jar) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := Identity(c); !ok {
				metrics.AuthGateRejectionsTotal.WithLabelValues("login_required").Inc()
				jar.ClearToken(c)
				jar.Flash(c, noticeLogin)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), id)))
}

// Identity returns the authenticated identity of the request, if any.
func Identity(c echo.Context) (domain.Identity, bool) {
	return domain.IdentityFromContext(c.Request().Context())
}
