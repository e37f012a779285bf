package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) SetupNeeded(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_setup_needed")

	needed, err := h.Svc.SetupNeeded(ctx)
	if err != nil {
		return fail(l, "setup_needed_failed", err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"needed": needed})
}

func (h *AuthHTTP) Setup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_setup")

	var req transport.SetupRequest
	if err := bind(c, l, "setup_failed", &req); err != nil {
		return err
	}
	if _, err := h.Svc.Setup(ctx, req); err != nil {
		return fail(l, "setup_failed", err, "")
	}
	return c.JSON(http.StatusCreated, transport.OkResponse{OK: true})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.CredentialsRequest
	if err := bind(c, l, "register_failed", &req); err != nil {
		return err
	}
	sess, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_failed", err, "")
	}
	c.SetCookie(tokens.CreateCookie(tokens.SessionCookieName, sess.Token, "/", sess.ExpiresAt, h.SecureCookie))
	l.Info("register_successful", "user_id", sess.User.ID)
	return c.JSON(http.StatusCreated, sess.User)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.CredentialsRequest
	if err := bind(c, l, "login_failed", &req); err != nil {
		return err
	}
	sess, err := h.Svc.Login(ctx, req)
	if errors.Is(err, service.ErrUnauthorized) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return fail(l, "login_failed", err, "")
	}
	c.SetCookie(tokens.CreateCookie(tokens.SessionCookieName, sess.Token, "/", sess.ExpiresAt, h.SecureCookie))
	l.Info("login_successful", "user_id", sess.User.ID)
	return c.JSON(http.StatusOK, sess.User)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(tokens.DeleteCookie(tokens.SessionCookieName, "/", h.SecureCookie))
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.OkResponse{OK: true})
}

// User expects the session middleware in front of it.
func (h *AuthHTTP) User(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_user")

	id, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	u, err := h.Svc.CurrentUser(ctx, id)
	if err != nil {
		return fail(l, "user_failed", err, "")
	}
	return c.JSON(http.StatusOK, u)
}
