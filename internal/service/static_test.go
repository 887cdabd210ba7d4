package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asset-proxy-go/internal/model"
)

func newBuildResponderForTest(t *testing.T, dir string) *BuildResponder {
	t.Helper()
	return &BuildResponder{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newGetRequest(path string) *model.AssetRequest {
	return &model.AssetRequest{
		Ctx:    context.Background(),
		Method: http.MethodGet,
		Path:   path,
		Header: http.Header{},
	}
}

func TestBuildResponder_ServesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("body { color: red; }\n")
	if err := os.WriteFile(filepath.Join(dir, "main.css"), content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b := newBuildResponderForTest(t, dir)
	resp, err := b.Respond(newGetRequest("/main.css"))
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/css" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/css")
	}
	if cl := resp.Header.Get("Content-Length"); cl != "21" {
		t.Errorf("Content-Length = %q, want %q", cl, "21")
	}
	if resp.ContentLength != int64(len(content)) {
		t.Errorf("ContentLength = %d, want %d", resp.ContentLength, len(content))
	}

	for _, name := range []string{"Date", "Last-Modified"} {
		v := resp.Header.Get(name)
		if v == "" {
			t.Errorf("%s header missing", name)
			continue
		}
		if _, err := http.ParseTime(v); err != nil {
			t.Errorf("%s = %q is not a valid HTTP date: %v", name, v, err)
		}
		if !strings.HasSuffix(v, "GMT") {
			t.Errorf("%s = %q is not rendered in GMT", name, v)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != string(content) {
		t.Errorf("body = %q, want %q", body, content)
	}
}

func TestBuildResponder_DotSegmentsDiscarded(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b := newBuildResponderForTest(t, dir)
	resp, err := b.Respond(newGetRequest("/./sub/./app.js"))
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/javascript")
	}
}

func TestBuildResponder_TraversalRejected(t *testing.T) {
	dir := t.TempDir()
	b := newBuildResponderForTest(t, dir)

	tests := []struct {
		name string
		path string
	}{
		{"leading traversal", "/../etc/passwd"},
		{"embedded traversal", "/sub/../../etc/passwd"},
		{"traversal after valid segments", "/a/b/.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Respond(newGetRequest(tt.path))
			if err == nil {
				t.Fatal("Respond() expected error, got nil")
			}
			kind, ok := KindOf(err)
			if !ok || kind != KindBadRequest {
				t.Errorf("error kind = %v (matched=%v), want KindBadRequest", kind, ok)
			}
		})
	}
}

func TestBuildResponder_NotFound(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	b := newBuildResponderForTest(t, dir)

	tests := []struct {
		name string
		path string
	}{
		{"missing file", "/missing.js"},
		{"directory not a file", "/sub"},
		{"root path resolves to directory", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Respond(newGetRequest(tt.path))
			if err == nil {
				t.Fatal("Respond() expected error, got nil")
			}
			kind, ok := KindOf(err)
			if !ok || kind != KindNotFound {
				t.Errorf("error kind = %v (matched=%v), want KindNotFound", kind, ok)
			}
		})
	}
}

func TestBuildResponder_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		method string
	}{
		{"empty build directory", "", http.MethodGet},
		{"relative build directory", "relative/build", http.MethodGet},
		{"relative traversal directory", "../relative", http.MethodGet},
		{"non-GET method", t.TempDir(), http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuildResponderForTest(t, tt.dir)
			ar := newGetRequest("/main.css")
			ar.Method = tt.method

			_, err := b.Respond(ar)
			if err == nil {
				t.Fatal("Respond() expected error, got nil")
			}
			kind, ok := KindOf(err)
			if !ok || kind != KindInvalidConfig {
				t.Errorf("error kind = %v (matched=%v), want KindInvalidConfig", kind, ok)
			}
		})
	}
}

func TestBuildResponder_NotFoundCarriesResolvedPath(t *testing.T) {
	dir := t.TempDir()
	b := newBuildResponderForTest(t, dir)

	_, err := b.Respond(newGetRequest("/missing.js"))
	if err == nil {
		t.Fatal("Respond() expected error, got nil")
	}

	var de *DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a *DispatchError", err)
	}
	want := filepath.Join(dir, "missing.js")
	if de.Path != want {
		t.Errorf("Path = %q, want %q", de.Path, want)
	}
}
