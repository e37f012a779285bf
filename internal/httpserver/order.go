package httpserver

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/export"
	"github.com/Skotchmaster/storefront/internal/live"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	// Products resolves item names for the spreadsheet export.
	Products store.Products
	Hub      *live.Hub
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")

	var req transport.CheckoutRequest
	if err := bind(c, l, "checkout_failed", &req); err != nil {
		return err
	}
	o, err := h.Svc.CreateFromCart(ctx, req)
	if err != nil {
		return fail(l, "checkout_failed", err, "")
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_list")

	orders, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_failed", err, "")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_update_status")

	id, err := parseID(c, l, "update_status_failed")
	if err != nil {
		return err
	}
	var req transport.UpdateOrderStatusRequest
	if err := bind(c, l, "update_status_failed", &req); err != nil {
		return err
	}
	o, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_status_failed", err, "Order not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_export")

	orders, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "export_failed", err, "")
	}
	products, err := h.Products.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return fail(l, "export_failed", err, "")
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, orders, names); err != nil {
		return fail(l, "export_failed", err, "")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	l.Info("orders_exported", "count", len(orders))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

// Live upgrades to a websocket that receives order_created and
// order_updated messages until the client goes away.
func (h *OrderHTTP) Live(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_live")

	if err := h.Hub.ServeWS(c.Response(), c.Request()); err != nil {
		l.Warn("live_failed", "error", err)
		if !c.Response().Committed {
			return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
		}
	}
	return nil
}
