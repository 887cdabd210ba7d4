// Package service implements the two asset responders: build-directory
// serving and development-server relay.
package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"asset-proxy-go/internal/config"
	"asset-proxy-go/internal/metrics"
	"asset-proxy-go/internal/model"
)

// Responder produces a complete response for one inbound asset request.
// Both responders are stateless across requests and safe for concurrent use.
type Responder interface {
	Respond(ar *model.AssetRequest) (*model.AssetResponse, error)
}

// BuildResponder serves precompiled assets from a local build directory.
type BuildResponder struct {
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBuildResponder creates a BuildResponder over the configured build
// directory. The metrics parameter is optional; pass nil to disable
// static-serve metrics recording.
func NewBuildResponder(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *BuildResponder {
	return &BuildResponder{
		dir:     cfg.Build.Dir,
		logger:  logger.With("component", "build_responder"),
		metrics: m,
	}
}

// Respond resolves the request path inside the build directory and
// returns the file as a streamed response. The file handle is the
// response body; the caller closes it.
func (b *BuildResponder) Respond(ar *model.AssetRequest) (*model.AssetResponse, error) {
	if b.dir == "" {
		return nil, &DispatchError{Kind: KindInvalidConfig, Message: "build directory is not configured"}
	}
	if !filepath.IsAbs(b.dir) {
		return nil, &DispatchError{Kind: KindInvalidConfig, Path: b.dir, Message: "build directory must be an absolute path"}
	}
	if ar.Method != http.MethodGet {
		return nil, &DispatchError{Kind: KindInvalidConfig, Path: ar.Path, Message: fmt.Sprintf("method %s routed to the build responder; only GET is handled", ar.Method)}
	}

	resolved, err := b.resolve(ar.Path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &DispatchError{Kind: KindNotFound, Path: resolved, Message: "no such file in build directory", Err: err}
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, &DispatchError{Kind: KindNotFound, Path: resolved, Message: "file could not be opened", Err: err}
	}

	header := make(http.Header)
	header.Set("Content-Type", contentTypeFor(resolved))
	header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	header.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	header.Set("Content-Length", strconv.FormatInt(info.Size(), 10))

	if b.metrics != nil {
		b.metrics.StaticFilesServed.Inc()
	}
	b.logger.Debug("serving build asset",
		"path", ar.Path,
		"file", resolved,
		"bytes", info.Size(),
	)

	return &model.AssetResponse{
		StatusCode:    http.StatusOK,
		Header:        header,
		ContentLength: info.Size(),
		Body:          f,
	}, nil
}

// resolve joins the request path segments onto the build directory.
// A ".." segment is rejected outright; "." segments are dropped. The
// composed path is re-checked to still lie under the build directory,
// guarding against any join behavior a segment might exploit.
func (b *BuildResponder) resolve(urlPath string) (string, error) {
	base := filepath.Clean(b.dir)
	resolved := base
	for _, seg := range strings.Split(urlPath, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", &DispatchError{Kind: KindBadRequest, Path: urlPath, Message: "path traversal segment rejected"}
		}
		resolved = filepath.Join(resolved, seg)
	}
	if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return "", &DispatchError{Kind: KindBadRequest, Path: urlPath, Message: "resolved path escapes the build directory"}
	}
	return resolved, nil
}
