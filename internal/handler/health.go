package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"asset-proxy-go/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the active dispatch mode and its source.
func (h *HealthHandler) Status(c echo.Context) error {
	body := map[string]string{
		"status":  "ok",
		"version": string(h.version),
		"mode":    h.cfg.Mode,
	}
	switch h.cfg.Mode {
	case config.ModeServe:
		body["serve_url"] = h.cfg.Serve.URL
	default:
		body["build_dir"] = h.cfg.Build.Dir
	}
	return c.JSON(http.StatusOK, body)
}
