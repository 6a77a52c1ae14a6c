package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutesは全ルートを登録する。authMWはbearerトークン必須のルートに付ける
func RegisterRoutes(e *echo.Echo, h Handlers, authMW echo.MiddlewareFunc) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.Auth.RegisterRoutes(e, authMW)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, authMW)
	h.Cart.RegisterRoutes(e, authMW)
	h.Order.RegisterRoutes(e, authMW)
}
