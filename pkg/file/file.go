// Package file provides the uniform handle abstraction over filesystem
// entries and document-provider entries used by the explorer.
//
// Path semantics:
//   - Paths use forward slashes (POSIX-style).
//   - All paths are absolute (start with '/').
//   - A handle's identity (path or document URI) is immutable after
//     construction; renaming produces a new handle.
package file

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"
	"time"
)

// DefaultMimeType is returned when no type can be resolved from the
// extension or provider metadata.
const DefaultMimeType = "application/octet-stream"

var (
	// ErrNotSupported is returned by operations a backend cannot perform
	// (e.g. creating children through a document provider).
	ErrNotSupported = errors.New("operation not supported by this backend")

	// ErrExists is returned when a create or rename target already exists.
	ErrExists = errors.New("target already exists")

	// ErrOutOfScope is returned by document providers for paths outside the
	// granted scope.
	ErrOutOfScope = errors.New("path is outside the granted scope")
)

// File abstracts a filesystem entry or a document-provider entry.
//
// Metadata accessors (Exists, LastModified, IsDirectory) read the backing
// store live for the local variant. The document variant memoizes Name and
// IsDirectory after the first query and never invalidates them, so it
// assumes the underlying node is not renamed or retyped out-of-band during
// the handle's lifetime.
type File interface {
	// Path returns the handle's identity: an absolute path, or a doc URI
	// for document-provider entries.
	Path() string
	Name() string
	IsDirectory() bool
	IsFile() bool
	Exists() bool
	LastModified() time.Time

	// MimeType resolves lazily from the extension (or provider metadata)
	// and falls back to DefaultMimeType.
	MimeType() string

	// Parent returns a handle for the containing directory, or nil at the
	// root. It is a lookup only; the parent is not validated.
	Parent() File

	// ListFiles returns the immediate children in backing-store order.
	// Ordering is the caller's job. Returns an error when the entry is not
	// a directory or is inaccessible.
	ListFiles(ctx context.Context) ([]File, error)

	// Read returns the full text content.
	Read(ctx context.Context) (string, error)

	// Write replaces the content (truncate-then-write). The underlying
	// stream is released on every exit path. A failure mid-write carries no
	// rollback guarantee for already-flushed bytes.
	Write(ctx context.Context, content string) error

	// Rename moves the entry to newName within its parent and returns a
	// handle bound to the new location. Fails with ErrExists on collision.
	Rename(ctx context.Context, newName string) (File, error)

	// Delete removes the entry. Directories are not deleted recursively;
	// callers must handle children first.
	Delete(ctx context.Context) error

	CreateNewFile(ctx context.Context, name string) (File, error)
	CreateNewDirectory(ctx context.Context, name string) (File, error)

	// URI builds a content URI for sharing the entry across a process
	// boundary. The authority identifies the hosting application's
	// provider surface and must be non-empty.
	URI(authority string) string
}

// Rebaser is implemented by handle kinds that can produce a handle of the
// same kind bound to a different identity without touching the backing
// store. The explorer cache uses it to relocate entries after renames.
type Rebaser interface {
	Rebase(identity string) File
}

// resolveMimeType maps a file name to a MIME type by extension, stripping
// any parameters, with DefaultMimeType as the fallback.
func resolveMimeType(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return DefaultMimeType
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return DefaultMimeType
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
