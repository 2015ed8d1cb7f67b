package openapi

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// source is the single concrete Source implementation; the kind selects the
// loader strategy and the location is interpreted accordingly (file path,
// fs.FS entry name, or URL).
type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind {
	return s.kind
}

func (s source) Location() string {
	return s.location
}

// SourceFromFile returns a Source for an on-disk document.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS returns a Source for an entry inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL returns a Source for a remote document. The URL must be
// absolute with an http or https scheme; anything else is a configuration
// mistake and fails fast.
func SourceFromURL(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("openapi: url source is empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("openapi: parse url source: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("openapi: url source %q must use http or https", trimmed)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("openapi: url source %q has no host", trimmed)
	}
	return source{kind: SourceKindURL, location: trimmed}, nil
}
