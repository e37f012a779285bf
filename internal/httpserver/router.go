package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
)

// uploadBodyLimit leaves room for several base64 images per request.
const uploadBodyLimit = "32M"

type Deps struct {
	ProductHandler  *ProductHTTP
	OrderHandler    *OrderHTTP
	SlideHandler    *SlideHTTP
	SiteHandler     *SiteHTTP
	ShippingHandler *ShippingHTTP
	UploadHandler   *UploadHTTP
	AuthHandler     *AuthHTTP

	Session    *authmw.SessionMiddleware
	UploadsDir string
	// Ready backs /health/ready; nil means always ready.
	Ready      func(ctx context.Context) error
	// CSRF enables double-submit protection on /api when set.
	CSRF       *csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = RequestValidator{}
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.UploadsDir != "" {
		e.Static("/uploads", d.UploadsDir)
	}

	api := e.Group("/api")
	if d.CSRF != nil {
		api.Use(csrf.Middleware(*d.CSRF))
	}
	admin := d.Session.RequireAdmin

	api.GET("/products", d.ProductHandler.List)
	api.GET("/products/:id", d.ProductHandler.Get)
	api.POST("/products", d.ProductHandler.Create, admin)
	api.PUT("/products/:id", d.ProductHandler.Update, admin)
	api.DELETE("/products/:id", d.ProductHandler.Delete, admin)
	api.GET("/search", d.ProductHandler.Search)

	api.POST("/orders", d.OrderHandler.Create)
	api.GET("/orders", d.OrderHandler.List, admin)
	api.GET("/orders/export", d.OrderHandler.Export, admin)
	api.GET("/orders/live", d.OrderHandler.Live, admin)
	api.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus, admin)

	api.GET("/slides", d.SlideHandler.List)
	api.POST("/slides", d.SlideHandler.Create, admin)
	api.PUT("/slides/:id", d.SlideHandler.Update, admin)
	api.DELETE("/slides/:id", d.SlideHandler.Delete, admin)

	api.GET("/site/config", d.SiteHandler.Get)
	api.PUT("/site/config", d.SiteHandler.Update, admin)

	shipping := api.Group("/shipping", admin)
	shipping.GET("/configured", d.ShippingHandler.Configured)
	shipping.GET("/config", d.ShippingHandler.Config)
	shipping.PUT("/config", d.ShippingHandler.UpdateConfig)
	shipping.POST("/dispatch", d.ShippingHandler.Dispatch)

	api.POST("/uploads", d.UploadHandler.Upload, admin, middleware.BodyLimit(uploadBodyLimit))

	api.GET("/admin/setup-needed", d.AuthHandler.SetupNeeded)
	api.POST("/admin/setup", d.AuthHandler.Setup)
	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout)
	api.GET("/user", d.AuthHandler.User, d.Session.RequireAuth)
}
