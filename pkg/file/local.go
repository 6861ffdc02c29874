package file

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalFile implements File by delegating to the host filesystem.
//
// NOTE: This is NOT sandboxed.
type LocalFile struct {
	path string
}

// NewLocal wraps an absolute host path into a handle. Relative paths are
// resolved against the working directory.
func NewLocal(p string) *LocalFile {
	abs, err := normalizeHostAbs(p)
	if err != nil {
		abs = filepath.ToSlash(filepath.Clean(p))
	}
	return &LocalFile{path: abs}
}

func (l *LocalFile) Path() string { return l.path }

func (l *LocalFile) Name() string {
	if l.path == "/" {
		return "/"
	}
	return filepath.Base(l.path)
}

func (l *LocalFile) IsDirectory() bool {
	fi, err := os.Stat(l.path)
	return err == nil && fi.IsDir()
}

func (l *LocalFile) IsFile() bool {
	fi, err := os.Stat(l.path)
	return err == nil && fi.Mode().IsRegular()
}

func (l *LocalFile) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

func (l *LocalFile) LastModified() time.Time {
	fi, err := os.Stat(l.path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func (l *LocalFile) MimeType() string { return resolveMimeType(l.Name()) }

func (l *LocalFile) Parent() File {
	if l.path == "/" {
		return nil
	}
	return &LocalFile{path: filepath.ToSlash(filepath.Dir(l.path))}
}

func (l *LocalFile) ListFiles(ctx context.Context) ([]File, error) {
	_ = ctx
	fi, err := os.Stat(l.path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("path is not a directory")
	}

	des, err := os.ReadDir(l.path)
	if err != nil {
		return nil, err
	}

	children := make([]File, 0, len(des))
	for _, de := range des {
		name := de.Name()
		if name == "." || name == ".." {
			continue
		}
		children = append(children, &LocalFile{path: joinPath(l.path, name)})
	}
	return children, nil
}

func (l *LocalFile) Read(ctx context.Context) (string, error) {
	_ = ctx
	b, err := os.ReadFile(l.path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l *LocalFile) Write(ctx context.Context, content string) error {
	_ = ctx
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	_, werr := io.WriteString(f, content)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (l *LocalFile) Rename(ctx context.Context, newName string) (File, error) {
	_ = ctx
	if strings.ContainsRune(newName, '/') || newName == "" || newName == "." || newName == ".." {
		return nil, fmt.Errorf("invalid name %q", newName)
	}
	target := joinPath(filepath.ToSlash(filepath.Dir(l.path)), newName)
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("rename %s to %s: %w", l.path, newName, ErrExists)
	}
	if err := os.Rename(l.path, target); err != nil {
		return nil, err
	}
	return &LocalFile{path: target}, nil
}

func (l *LocalFile) Delete(ctx context.Context) error {
	_ = ctx
	return os.Remove(l.path)
}

func (l *LocalFile) CreateNewFile(ctx context.Context, name string) (File, error) {
	_ = ctx
	target := joinPath(l.path, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("create %s: %w", target, ErrExists)
		}
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &LocalFile{path: target}, nil
}

func (l *LocalFile) CreateNewDirectory(ctx context.Context, name string) (File, error) {
	_ = ctx
	target := joinPath(l.path, name)
	if err := os.Mkdir(target, 0o700); err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("mkdir %s: %w", target, ErrExists)
		}
		return nil, err
	}
	return &LocalFile{path: target}, nil
}

// URI exposes the path through the hosting application's provider boundary.
func (l *LocalFile) URI(authority string) string {
	return "content://" + authority + "/document/" + url.PathEscape(l.path)
}

// Rebase returns a handle of the same kind bound to a different identity.
// Used by cache relocation after renames.
func (l *LocalFile) Rebase(identity string) File {
	return NewLocal(identity)
}

var _ File = (*LocalFile)(nil)

func normalizeHostAbs(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		p = "."
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

// joinPath joins a directory and a base name, ensuring a single '/' separator.
func joinPath(dir string, base string) string {
	if dir == "" {
		return "/" + strings.TrimPrefix(base, "/")
	}
	if base == "" {
		return dir
	}
	if strings.HasSuffix(dir, "/") {
		return dir + strings.TrimPrefix(base, "/")
	}
	return dir + "/" + strings.TrimPrefix(base, "/")
}
