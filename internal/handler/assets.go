package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"asset-proxy-go/internal/model"
	"asset-proxy-go/internal/service"
)

// AssetHandler dispatches asset requests to the responder selected at
// startup (build directory or development-server relay).
type AssetHandler struct {
	responder service.Responder
	logger    *slog.Logger
}

// NewAssetHandler creates an AssetHandler.
func NewAssetHandler(r service.Responder, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		responder: r,
		logger:    logger.With("component", "asset_handler"),
	}
}

// Handle runs the configured responder and writes its response: headers
// first, then status, then the body stream, closed on every path.
func (h *AssetHandler) Handle(c echo.Context) error {
	req := c.Request()

	ar := &model.AssetRequest{
		Ctx:      req.Context(),
		Method:   req.Method,
		Path:     req.URL.Path,
		Query:    req.URL.Query(),
		Fragment: req.URL.Fragment,
		User:     req.URL.User,
		Header:   req.Header,
	}

	resp, err := h.responder.Respond(ar)
	if err != nil {
		return h.mapError(c, err)
	}
	defer func() { _ = resp.Body.Close() }()

	for key, vals := range resp.Header {
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	// Static bodies stream from an open file handle; if io.Copy fails
	// mid-stream the status has already been sent, so the client gets a
	// truncated response. We log the error for observability.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("writing response body",
			"err", err,
			"path", req.URL.Path,
		)
	}

	return nil
}

// mapError is the sole translation point from a dispatch failure kind
// to an HTTP status and JSON error body. Resolved filesystem paths stay
// in the log; client-facing messages never include them.
func (h *AssetHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("dispatch error",
		"err", err,
		"path", c.Request().URL.Path,
	)

	var de *service.DispatchError
	if !errors.As(err, &de) {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}

	switch de.Kind {
	case service.KindBadRequest:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request path",
		})
	case service.KindUnsupportedRequest:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": de.Message,
		})
	case service.KindNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "asset not found",
		})
	case service.KindUpstreamUnavailable:
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": de.Message,
		})
	default: // invalid configuration: a deployment defect, not a client condition
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "server is misconfigured",
		})
	}
}
