package service

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure. The handler layer is the only
// place a Kind is translated into an HTTP status code.
type Kind int

const (
	// KindInvalidConfig marks a caller or deployment defect: a missing
	// or relative build directory, a missing upstream URL, or a non-GET
	// request routed to a responder. Fatal at startup, 500 per-request.
	KindInvalidConfig Kind = iota
	// KindBadRequest marks a path-traversal attempt in the request path.
	KindBadRequest
	// KindNotFound marks a request path with no file in the build directory.
	KindNotFound
	// KindUnsupportedRequest marks a request that cannot be faithfully
	// relayed, such as one carrying a multi-valued header.
	KindUnsupportedRequest
	// KindUpstreamUnavailable marks a failed call to the development server.
	KindUpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidConfig:
		return "invalid configuration"
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "not found"
	case KindUnsupportedRequest:
		return "unsupported request"
	case KindUpstreamUnavailable:
		return "upstream unavailable"
	default:
		return "unknown"
	}
}

// DispatchError is the single failure type raised by both responders.
// Path carries the request path or the resolved filesystem path for
// diagnostics; it is never echoed to the client.
type DispatchError struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
