package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFile_WriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := NewLocal(filepath.Join(dir, "note.txt"))

	content := "first line\nsecond line\n"
	if err := f.Write(context.Background(), content); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := f.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != content {
		t.Fatalf("Read() = %q, want %q", got, content)
	}
}

func TestLocalFile_WriteTruncatesExisting(t *testing.T) {
	dir := t.TempDir()
	f := NewLocal(filepath.Join(dir, "note.txt"))

	if err := f.Write(context.Background(), "a much longer original body"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := f.Write(context.Background(), "short"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := f.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "short" {
		t.Fatalf("Read() = %q, want %q", got, "short")
	}
}

func TestLocalFile_Metadata(t *testing.T) {
	dir := t.TempDir()
	d := NewLocal(dir)

	child, err := d.CreateNewFile(context.Background(), "data.json")
	if err != nil {
		t.Fatalf("CreateNewFile() error = %v", err)
	}
	if !child.Exists() {
		t.Fatalf("child.Exists() = false, want true")
	}
	if child.IsDirectory() {
		t.Fatalf("child.IsDirectory() = true, want false")
	}
	if !child.IsFile() {
		t.Fatalf("child.IsFile() = false, want true")
	}
	if got := child.Name(); got != "data.json" {
		t.Fatalf("child.Name() = %q, want %q", got, "data.json")
	}
	if got := child.MimeType(); got != "application/json" {
		t.Fatalf("child.MimeType() = %q, want %q", got, "application/json")
	}
	if child.LastModified().IsZero() {
		t.Fatalf("child.LastModified() is zero")
	}
	if got := child.Parent().Path(); got != d.Path() {
		t.Fatalf("child.Parent().Path() = %q, want %q", got, d.Path())
	}
}

func TestLocalFile_MimeTypeFallback(t *testing.T) {
	f := NewLocal("/tmp/no-extension")
	if got := f.MimeType(); got != DefaultMimeType {
		t.Fatalf("MimeType() = %q, want %q", got, DefaultMimeType)
	}
}

func TestLocalFile_ListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	children, err := NewLocal(dir).ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(children) != 3 {
		t.Fatalf("len(children) = %d, want 3", len(children))
	}
	for _, c := range children {
		if c.Parent().Path() != NewLocal(dir).Path() {
			t.Fatalf("child %s has parent %s, want %s", c.Path(), c.Parent().Path(), dir)
		}
	}
}

func TestLocalFile_ListFiles_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewLocal(p).ListFiles(context.Background()); err == nil {
		t.Fatalf("expected error listing a regular file")
	}
}

func TestLocalFile_Rename(t *testing.T) {
	dir := t.TempDir()
	f := NewLocal(filepath.Join(dir, "old.txt"))
	if err := f.Write(context.Background(), "body"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	renamed, err := f.Rename(context.Background(), "new.txt")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if got := renamed.Name(); got != "new.txt" {
		t.Fatalf("renamed.Name() = %q, want %q", got, "new.txt")
	}
	if f.Exists() {
		t.Fatalf("old handle still exists after rename")
	}
	got, err := renamed.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "body" {
		t.Fatalf("Read() = %q, want %q", got, "body")
	}
}

func TestLocalFile_Rename_Collision(t *testing.T) {
	dir := t.TempDir()
	a := NewLocal(filepath.Join(dir, "a.txt"))
	b := NewLocal(filepath.Join(dir, "b.txt"))
	if err := a.Write(context.Background(), "a"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := b.Write(context.Background(), "b"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := a.Rename(context.Background(), "b.txt"); !errors.Is(err, ErrExists) {
		t.Fatalf("Rename() error = %v, want ErrExists", err)
	}
}

func TestLocalFile_Rename_InvalidName(t *testing.T) {
	f := NewLocal(filepath.Join(t.TempDir(), "a.txt"))
	for _, name := range []string{"", ".", "..", "x/y"} {
		if _, err := f.Rename(context.Background(), name); err == nil {
			t.Fatalf("Rename(%q) succeeded, want error", name)
		}
	}
}

func TestLocalFile_CreateNewFile_Collision(t *testing.T) {
	dir := t.TempDir()
	d := NewLocal(dir)
	if _, err := d.CreateNewFile(context.Background(), "x.txt"); err != nil {
		t.Fatalf("CreateNewFile() error = %v", err)
	}
	if _, err := d.CreateNewFile(context.Background(), "x.txt"); !errors.Is(err, ErrExists) {
		t.Fatalf("CreateNewFile() error = %v, want ErrExists", err)
	}
}

func TestLocalFile_CreateNewDirectory(t *testing.T) {
	dir := t.TempDir()
	d := NewLocal(dir)
	sub, err := d.CreateNewDirectory(context.Background(), "sub")
	if err != nil {
		t.Fatalf("CreateNewDirectory() error = %v", err)
	}
	if !sub.IsDirectory() {
		t.Fatalf("sub.IsDirectory() = false, want true")
	}
	if _, err := d.CreateNewDirectory(context.Background(), "sub"); !errors.Is(err, ErrExists) {
		t.Fatalf("CreateNewDirectory() error = %v, want ErrExists", err)
	}
}

func TestLocalFile_Delete(t *testing.T) {
	dir := t.TempDir()
	f := NewLocal(filepath.Join(dir, "gone.txt"))
	if err := f.Write(context.Background(), "x"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := f.Delete(context.Background()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if f.Exists() {
		t.Fatalf("file still exists after delete")
	}
}

func TestLocalFile_URI(t *testing.T) {
	f := NewLocal("/home/me/my file.txt")
	got := f.URI("com.codenest.fileprovider")
	want := "content://com.codenest.fileprovider/document/%2Fhome%2Fme%2Fmy%20file.txt"
	if got != want {
		t.Fatalf("URI() = %q, want %q", got, want)
	}
}

func TestLocalFile_Rebase(t *testing.T) {
	f := NewLocal("/a/b/c.txt")
	got := f.Rebase("/a/renamed/c.txt")
	if got.Path() != "/a/renamed/c.txt" {
		t.Fatalf("Rebase().Path() = %q, want %q", got.Path(), "/a/renamed/c.txt")
	}
	if _, ok := got.(*LocalFile); !ok {
		t.Fatalf("Rebase() returned %T, want *LocalFile", got)
	}
}

func TestLocalFile_ParentAtRoot(t *testing.T) {
	if p := NewLocal("/").Parent(); p != nil {
		t.Fatalf("Parent() of root = %v, want nil", p)
	}
}
