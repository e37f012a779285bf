package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type SlideHTTP struct {
	Svc *service.SlideService
}

func (h *SlideHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slide_list")

	slides, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_failed", err, "")
	}
	return c.JSON(http.StatusOK, slides)
}

func (h *SlideHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slide_create")

	var req transport.SlideRequest
	if err := bind(c, l, "create_failed", &req); err != nil {
		return err
	}
	s, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_failed", err, "")
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SlideHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slide_update")

	id, err := parseID(c, l, "update_failed")
	if err != nil {
		return err
	}
	var req transport.UpdateSlideRequest
	if err := bind(c, l, "update_failed", &req); err != nil {
		return err
	}
	s, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_failed", err, "Slide not found")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SlideHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slide_delete")

	id, err := parseID(c, l, "delete_failed")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_failed", err, "Slide not found")
	}
	return c.NoContent(http.StatusNoContent)
}
