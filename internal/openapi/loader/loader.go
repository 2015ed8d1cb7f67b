package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	pkgopenapi "github.com/goliatone/go-formvalid/pkg/openapi"
)

// Loader resolves a Source into a raw Document, dispatching on the source
// kind. A nil http client means URL sources are rejected; the request timeout
// is baked into the client at construction.
type Loader struct {
	fs   fs.FS
	http *http.Client
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader from resolved options. An explicit HTTP client always
// wins; otherwise a default client is created only when the HTTP fallback was
// enabled, keeping the loader offline-first.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		client = &clone
	case options.AllowHTTPFallback:
		client = &http.Client{Timeout: options.RequestTimeout}
	}

	return &Loader{
		fs:   options.FileSystem,
		http: client,
	}
}

// Load fetches the document the source points at and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgopenapi.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkgopenapi.SourceKindURL:
		if l.http == nil {
			return pkgopenapi.Document{}, errors.New("openapi loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location())
	default:
		err = errors.New("openapi loader: unsupported source kind")
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}

	return pkgopenapi.NewDocument(src, data)
}
