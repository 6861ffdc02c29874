package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"
)

// DocumentFile implements File over a permission-scoped Provider.
//
// Name and the directory flag are memoized on first use and never
// invalidated, so a document handle assumes the underlying node is not
// renamed or retyped out-of-band during its lifetime. Existence and
// modification time are always read live.
type DocumentFile struct {
	provider Provider
	mount    string
	docPath  string

	nameOnce sync.Once
	name     string

	dirOnce sync.Once
	isDir   bool
}

// NewDocument wraps a provider document reference into a handle.
func NewDocument(p Provider, mount string, docPath string) *DocumentFile {
	docPath = path.Clean("/" + strings.TrimPrefix(docPath, "/"))
	return &DocumentFile{provider: p, mount: mount, docPath: docPath}
}

// newDocumentFromInfo pre-fills the memoized attributes from a listing
// entry so child handles need no extra stat.
func newDocumentFromInfo(p Provider, mount string, info DocumentInfo) *DocumentFile {
	d := NewDocument(p, mount, info.Path)
	d.nameOnce.Do(func() { d.name = info.Name })
	d.dirOnce.Do(func() { d.isDir = info.IsDir })
	return d
}

// Path returns the doc URI identity (doc://<mount><path>).
func (d *DocumentFile) Path() string { return "doc://" + d.mount + d.docPath }

// DocPath returns the scope-relative path inside the provider.
func (d *DocumentFile) DocPath() string { return d.docPath }

func (d *DocumentFile) Name() string {
	d.nameOnce.Do(func() {
		if info, err := d.provider.Stat(context.Background(), d.docPath); err == nil && info.Name != "" {
			d.name = info.Name
			return
		}
		d.name = path.Base(d.docPath)
	})
	return d.name
}

func (d *DocumentFile) IsDirectory() bool {
	d.dirOnce.Do(func() {
		info, err := d.provider.Stat(context.Background(), d.docPath)
		d.isDir = err == nil && info.IsDir
	})
	return d.isDir
}

func (d *DocumentFile) IsFile() bool { return !d.IsDirectory() }

func (d *DocumentFile) Exists() bool {
	_, err := d.provider.Stat(context.Background(), d.docPath)
	return err == nil
}

func (d *DocumentFile) LastModified() time.Time {
	info, err := d.provider.Stat(context.Background(), d.docPath)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime
}

func (d *DocumentFile) MimeType() string {
	if info, err := d.provider.Stat(context.Background(), d.docPath); err == nil && info.Mime != "" {
		return info.Mime
	}
	return resolveMimeType(d.Name())
}

func (d *DocumentFile) Parent() File {
	if d.docPath == "/" {
		return nil
	}
	return NewDocument(d.provider, d.mount, path.Dir(d.docPath))
}

func (d *DocumentFile) ListFiles(ctx context.Context) ([]File, error) {
	infos, err := d.provider.List(ctx, d.docPath)
	if err != nil {
		return nil, err
	}
	children := make([]File, 0, len(infos))
	for _, info := range infos {
		children = append(children, newDocumentFromInfo(d.provider, d.mount, info))
	}
	return children, nil
}

// Read buffers the document fully into memory, line by line. There is no
// partial or streaming read through this handle.
func (d *DocumentFile) Read(ctx context.Context) (string, error) {
	rc, err := d.provider.OpenRead(ctx, d.docPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	var sb strings.Builder
	br := bufio.NewReader(rc)
	for {
		line, err := br.ReadString('\n')
		sb.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Write opens the document for truncating write. A failure mid-write yields
// an error without rolling back bytes already flushed to the provider.
func (d *DocumentFile) Write(ctx context.Context, content string) error {
	wc, err := d.provider.OpenWrite(ctx, d.docPath)
	if err != nil {
		return err
	}
	_, werr := io.WriteString(wc, content)
	cerr := wc.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (d *DocumentFile) Rename(ctx context.Context, newName string) (File, error) {
	if strings.ContainsRune(newName, '/') || newName == "" || newName == "." || newName == ".." {
		return nil, fmt.Errorf("invalid name %q", newName)
	}
	target := path.Join(path.Dir(d.docPath), newName)
	if _, err := d.provider.Stat(ctx, target); err == nil {
		return nil, fmt.Errorf("rename %s to %s: %w", d.docPath, newName, ErrExists)
	}
	if err := d.provider.Rename(ctx, d.docPath, target); err != nil {
		return nil, err
	}
	return NewDocument(d.provider, d.mount, target), nil
}

func (d *DocumentFile) Delete(ctx context.Context) error {
	return d.provider.Delete(ctx, d.docPath)
}

// CreateNewFile is not supported through the document boundary.
func (d *DocumentFile) CreateNewFile(ctx context.Context, name string) (File, error) {
	_ = ctx
	return nil, fmt.Errorf("create file %q under %s: %w", name, d.Path(), ErrNotSupported)
}

// CreateNewDirectory is not supported through the document boundary.
func (d *DocumentFile) CreateNewDirectory(ctx context.Context, name string) (File, error) {
	_ = ctx
	return nil, fmt.Errorf("create directory %q under %s: %w", name, d.Path(), ErrNotSupported)
}

func (d *DocumentFile) URI(authority string) string {
	return "content://" + authority + "/document/" + url.PathEscape(d.mount+":"+d.docPath)
}

// Rebase returns a handle of the same kind bound to a different identity.
// Used by cache relocation after renames.
func (d *DocumentFile) Rebase(identity string) File {
	docPath := strings.TrimPrefix(identity, "doc://"+d.mount)
	if docPath == identity {
		// Identity from another backend; fall through to a fresh doc path.
		docPath = identity
	}
	return NewDocument(d.provider, d.mount, docPath)
}

var _ File = (*DocumentFile)(nil)
