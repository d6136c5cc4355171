package lsp

import (
	"net/url"
	"path/filepath"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// pathFromURI returns the local path of a file:// URI. Other schemes and
// malformed URIs give false; uri.URI.Filename panics on them.
func pathFromURI(u protocol.DocumentURI) (string, bool) {
	parsed, err := url.ParseRequestURI(string(u))
	if err != nil || parsed.Scheme != uri.FileScheme {
		return "", false
	}
	p := u.Filename()
	if p == "" {
		return "", false
	}
	return filepath.Clean(p), true
}
