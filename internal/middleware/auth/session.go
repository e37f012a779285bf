package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const (
	ctxUserID   = "userID"
	ctxRole     = "role"
	ctxUsername = "username"
)

type SessionMiddleware struct {
	Secret       []byte
	SecureCookie bool
}

func NewSessionMiddleware(secret []byte, secureCookie bool) *SessionMiddleware {
	return &SessionMiddleware{Secret: secret, SecureCookie: secureCookie}
}

type ValidatorFunc func(claims *tokens.SessionClaims) error

func (m *SessionMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, nil)
}

// RequireAdmin answers 401 both for a missing session and for a session
// that does not belong to the admin.
func (m *SessionMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, func(claims *tokens.SessionClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return nil
	})
}

func (m *SessionMiddleware) requireWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(tokens.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		claims, err := tokens.SessionClaimsFromToken(cookie.Value, m.Secret)
		if err != nil {
			c.SetCookie(tokens.DeleteCookie(tokens.SessionCookieName, "/", m.SecureCookie))
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		if validator != nil {
			if verr := validator(claims); verr != nil {
				return verr
			}
		}

		userID, err := claims.UserID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxUsername, claims.Username)
		return next(c)
	}
}

func UserID(c echo.Context) (uint, bool) {
	v, ok := c.Get(ctxUserID).(uint)
	return v, ok
}

func Role(c echo.Context) string {
	v, _ := c.Get(ctxRole).(string)
	return v
}
