// Package client provides the HTTP client for the development-compiler server.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"asset-proxy-go/internal/config"
	"asset-proxy-go/internal/metrics"
)

// DevServerClient sends requests to the development-compiler server.
type DevServerClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewDevServerClient creates a DevServerClient with connection pooling
// and timeouts. The metrics parameter is optional; pass nil to disable
// upstream metrics recording.
func NewDevServerClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *DevServerClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Serve.IdleConnections,
		MaxIdleConnsPerHost: cfg.Serve.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &DevServerClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Serve.TimeoutSeconds) * time.Second,
		},
		logger:  logger.With("component", "devserver_client"),
		metrics: m,
	}
}

// Get performs a single GET against the given URL with the given header
// set. A "Host" entry in the header map becomes the request's Host; the
// remaining entries go out on the wire as-is. The caller is responsible
// for closing the response body. The context controls the lifetime of
// the upstream call: when it is canceled, the call is aborted and the
// connection released.
func (c *DevServerClient) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = header
	if host := header.Get("Host"); host != "" {
		req.Host = host
	}

	c.logger.Debug("upstream request", "path", req.URL.Path)

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to the caller
	duration := time.Since(start).Seconds()

	if c.metrics != nil {
		c.metrics.UpstreamDuration.Observe(duration)
	}
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	if c.metrics != nil {
		c.metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	}

	return resp, nil
}
