package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires all route handlers onto the Echo instance. Only
// GET reaches the asset dispatcher; every path outside the built-in
// routes falls through to it.
func RegisterRoutes(e *echo.Echo, assets *AssetHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/status", health.Status)

	e.GET("/*", assets.Handle)
}
