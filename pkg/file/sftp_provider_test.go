package file

import (
	"errors"
	"testing"

	"github.com/pkg/sftp"
)

func TestSFTPProvider_ResolveScopesUnderRoot(t *testing.T) {
	p, err := NewSFTPProvider(&sftp.Client{}, "/srv/projects")
	if err != nil {
		t.Fatalf("NewSFTPProvider() error = %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"/", "/srv/projects"},
		{"", "/srv/projects"},
		{"/src/main.go", "/srv/projects/src/main.go"},
		{"src/main.go", "/srv/projects/src/main.go"},
		{"/a/../b", "/srv/projects/b"},
	}
	for _, tt := range tests {
		got, err := p.resolve(tt.in)
		if err != nil {
			t.Fatalf("resolve(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSFTPProvider_ResolveRejectsEscapes(t *testing.T) {
	p, err := NewSFTPProvider(&sftp.Client{}, "/srv/projects")
	if err != nil {
		t.Fatalf("NewSFTPProvider() error = %v", err)
	}

	for _, in := range []string{"/..", "/../etc/passwd", "/a/../../etc"} {
		if _, err := p.resolve(in); !errors.Is(err, ErrOutOfScope) {
			t.Fatalf("resolve(%q) error = %v, want ErrOutOfScope", in, err)
		}
	}
}

func TestSFTPProvider_Relativize(t *testing.T) {
	p, err := NewSFTPProvider(&sftp.Client{}, "/srv/projects")
	if err != nil {
		t.Fatalf("NewSFTPProvider() error = %v", err)
	}

	if got := p.relativize("/srv/projects"); got != "/" {
		t.Fatalf("relativize(root) = %q, want %q", got, "/")
	}
	if got := p.relativize("/srv/projects/src/main.go"); got != "/src/main.go" {
		t.Fatalf("relativize() = %q, want %q", got, "/src/main.go")
	}
}

func TestSFTPProvider_RejectsRelativeRoot(t *testing.T) {
	if _, err := NewSFTPProvider(&sftp.Client{}, "relative"); err == nil {
		t.Fatalf("expected error for relative scope root")
	}
}
