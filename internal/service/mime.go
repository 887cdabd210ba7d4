package service

import (
	"path/filepath"
	"strings"
)

// binaryContentType is served when the extension is missing or unknown.
const binaryContentType = "application/octet-stream"

// contentTypes maps a lowercase filename extension (without the dot) to
// the Content-Type served for it. The table is fixed rather than read
// from the host's mime database so responses do not vary by platform.
var contentTypes = map[string]string{
	"html":  "text/html",
	"htm":   "text/html",
	"css":   "text/css",
	"js":    "application/javascript",
	"mjs":   "application/javascript",
	"json":  "application/json",
	"map":   "application/json",
	"wasm":  "application/wasm",
	"xml":   "application/xml",
	"txt":   "text/plain",
	"md":    "text/plain",
	"svg":   "image/svg+xml",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"webp":  "image/webp",
	"ico":   "image/x-icon",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"eot":   "application/vnd.ms-fontobject",
	"mp3":   "audio/mpeg",
	"mp4":   "video/mp4",
	"webm":  "video/webm",
	"pdf":   "application/pdf",
	"zip":   "application/zip",
	"gz":    "application/gzip",
}

// contentTypeFor infers the content type from the extension of the last
// path element, case-insensitively.
func contentTypeFor(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return binaryContentType
	}
	if ct, ok := contentTypes[strings.ToLower(base[i+1:])]; ok {
		return ct
	}
	return binaryContentType
}
