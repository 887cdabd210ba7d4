package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"asset-proxy-go/internal/client"
	"asset-proxy-go/internal/config"
	"asset-proxy-go/internal/model"
)

// discardedResponseHeaders are upstream response headers never relayed
// back to the caller, by lowercase name: the legacy XSS-protection
// header plus connection-level headers that cannot be replayed after
// the body has been buffered.
var discardedResponseHeaders = map[string]bool{
	"x-xss-protection":  true,
	"connection":        true,
	"keep-alive":        true,
	"transfer-encoding": true,
}

// connectionHeaderValue forces a non-persistent upstream connection.
const connectionHeaderValue = "close"

// RelayResponder forwards asset requests to the development-compiler
// server and mirrors its response. The upstream body is fully buffered
// before anything is written back.
type RelayResponder struct {
	client   *client.DevServerClient
	logger   *slog.Logger
	upstream *url.URL
}

// NewRelayResponder creates a RelayResponder targeting the configured
// development server.
func NewRelayResponder(c *client.DevServerClient, cfg *config.Config, logger *slog.Logger) (*RelayResponder, error) {
	u, err := url.Parse(cfg.Serve.URL)
	if err != nil {
		return nil, fmt.Errorf("parse serve.url: %w", err)
	}
	return &RelayResponder{
		client:   c,
		logger:   logger.With("component", "relay_responder"),
		upstream: u,
	}, nil
}

// Respond relays one GET to the development server: same path, query,
// and userinfo on the upstream origin, headers translated per the
// forwarding rules, status and body mirrored verbatim.
func (r *RelayResponder) Respond(ar *model.AssetRequest) (*model.AssetResponse, error) {
	if r.upstream == nil || r.upstream.Host == "" {
		return nil, &DispatchError{Kind: KindInvalidConfig, Message: "development server URL is not configured"}
	}
	if ar.Method != http.MethodGet {
		return nil, &DispatchError{Kind: KindInvalidConfig, Path: ar.Path, Message: fmt.Sprintf("method %s routed to the relay responder; only GET is handled", ar.Method)}
	}

	header, err := r.forwardHeaders(ar.Header)
	if err != nil {
		return nil, err
	}

	target := r.buildTargetURL(ar)
	r.logger.Debug("relaying request", "path", ar.Path, "target_host", r.upstream.Host)

	resp, err := r.client.Get(ar.Ctx, target, header)
	if err != nil {
		return nil, r.unavailable(ar.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Single buffered fetch: the full upstream body is read before any
	// part of the response is relayed.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.unavailable(ar.Path, err)
	}

	out := make(http.Header)
	for name, vals := range resp.Header {
		if discardedResponseHeaders[strings.ToLower(name)] {
			continue
		}
		for _, v := range vals {
			out.Add(name, v)
		}
	}

	return &model.AssetResponse{
		StatusCode:    resp.StatusCode,
		Header:        out,
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(bytes.NewReader(body)),
	}, nil
}

// buildTargetURL keeps the upstream's scheme, host, and port and takes
// userinfo, path, and query from the inbound request. The fragment is
// carried over only when non-empty.
func (r *RelayResponder) buildTargetURL(ar *model.AssetRequest) string {
	u := *r.upstream
	u.User = ar.User
	u.Path = ar.Path
	u.RawQuery = ar.Query.Encode()
	if ar.Fragment != "" {
		u.Fragment = ar.Fragment
	}
	return u.String()
}

// forwardHeaders copies the inbound headers one value per name. A
// multi-valued header cannot be faithfully forwarded and fails the
// request before any upstream call. Host and Connection are always
// overwritten with the computed values, whatever the client sent.
func (r *RelayResponder) forwardHeaders(src http.Header) (http.Header, error) {
	dst := make(http.Header)
	for name, vals := range src {
		if len(vals) > 1 {
			return nil, &DispatchError{
				Kind:    KindUnsupportedRequest,
				Message: fmt.Sprintf("header %s carries %d values; multi-valued headers are not forwarded", name, len(vals)),
			}
		}
		if len(vals) == 1 {
			dst.Set(name, vals[0])
		}
	}
	dst.Set("Host", r.upstream.Host)
	dst.Set("Connection", connectionHeaderValue)
	return dst, nil
}

// unavailable wraps any relay failure as a single upstream failure. A
// recognized connection-refused condition gets a fixed short message;
// every other cause keeps its raw diagnostic text.
func (r *RelayResponder) unavailable(path string, err error) error {
	msg := err.Error()
	if errors.Is(err, syscall.ECONNREFUSED) {
		msg = fmt.Sprintf("cannot connect to development server at %s", r.upstream.Host)
	}
	r.logger.Error("relay failed", "path", path, "err", err)
	return &DispatchError{Kind: KindUpstreamUnavailable, Path: path, Message: msg, Err: err}
}
