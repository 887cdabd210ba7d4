// Package model defines shared types for the asset dispatcher.
package model

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// AssetRequest represents one inbound request for a client-side asset.
// The dispatcher reads it but never mutates it.
type AssetRequest struct {
	Ctx      context.Context
	Method   string
	Path     string
	Query    url.Values
	Fragment string
	User     *url.Userinfo
	Header   http.Header
}

// AssetResponse is a fully prepared response: status and headers first,
// then the body stream. The consumer must close Body on every path.
type AssetResponse struct {
	StatusCode    int
	Header        http.Header
	ContentLength int64
	Body          io.ReadCloser
}
