package file

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// DocumentInfo describes one entry inside a provider's granted scope.
type DocumentInfo struct {
	Name    string
	Path    string // scope-relative absolute path ('/' is the scope root)
	IsDir   bool
	Size    int64
	ModTime time.Time
	Mime    string // optional; resolved from the name when empty
}

// Provider is the permission-scoped document boundary a DocumentFile
// delegates to. All paths are absolute within the granted scope; a provider
// must reject anything that would escape it with ErrOutOfScope.
type Provider interface {
	Stat(ctx context.Context, p string) (*DocumentInfo, error)
	List(ctx context.Context, p string) ([]DocumentInfo, error)
	OpenRead(ctx context.Context, p string) (io.ReadCloser, error)
	// OpenWrite opens the document for truncating write, creating it when
	// absent.
	OpenWrite(ctx context.Context, p string) (io.WriteCloser, error)
	Rename(ctx context.Context, from string, to string) error
	Delete(ctx context.Context, p string) error
}

// Registry maps provider mount names to Provider instances and resolves
// handles from identity strings. It is built once at startup and read-only
// afterwards.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(mount string, p Provider) {
	r.providers[mount] = p
}

func (r *Registry) Provider(mount string) (Provider, bool) {
	p, ok := r.providers[mount]
	return p, ok
}

// FromURI wraps an identity string into a handle. Plain absolute paths and
// file:// URIs resolve to local handles; doc://<mount>/<path> resolves
// through a registered provider.
func (r *Registry) FromURI(raw string) (File, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty file reference")
	}
	if strings.HasPrefix(raw, "/") {
		return NewLocal(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse file reference %q: %w", raw, err)
	}
	switch u.Scheme {
	case "file":
		return NewLocal(u.Path), nil
	case "doc":
		mount := u.Host
		p, ok := r.providers[mount]
		if !ok {
			return nil, fmt.Errorf("unknown document provider %q", mount)
		}
		docPath := u.Path
		if docPath == "" {
			docPath = "/"
		}
		return NewDocument(p, mount, docPath), nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
}
