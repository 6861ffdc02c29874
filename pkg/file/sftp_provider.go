package file

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPProvider implements Provider over an *sftp.Client, scoped to a granted
// root directory on the remote host. Scope paths ('/' = the granted root)
// are mapped under that root; anything escaping it fails with ErrOutOfScope.
//
// Client provisioning (SSH auth, reconnects) lives outside this type.
type SFTPProvider struct {
	client *sftp.Client
	root   string
}

func NewSFTPProvider(client *sftp.Client, root string) (*SFTPProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("sftp client is nil")
	}
	root = strings.TrimSpace(root)
	if !strings.HasPrefix(root, "/") {
		return nil, fmt.Errorf("scope root must be absolute, got %q", root)
	}
	return &SFTPProvider{client: client, root: path.Clean(root)}, nil
}

// resolve maps a scope path to the remote path, rejecting escapes. Cleaning
// alone clamps leading ".." to "/", so traversal depth is checked segment by
// segment first.
func (s *SFTPProvider) resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", errors.Wrapf(ErrOutOfScope, "resolve %q", p)
			}
		default:
			depth++
		}
	}
	cleaned := path.Clean("/" + strings.TrimPrefix(p, "/"))
	return path.Join(s.root, cleaned), nil
}

// relativize converts a remote path back into a scope path.
func (s *SFTPProvider) relativize(remote string) string {
	rel := strings.TrimPrefix(remote, s.root)
	if rel == "" {
		return "/"
	}
	return rel
}

func (s *SFTPProvider) Stat(ctx context.Context, p string) (*DocumentInfo, error) {
	_ = ctx
	remote, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	fi, err := s.client.Stat(remote)
	if err != nil {
		return nil, errors.Wrapf(err, "stat document %s", p)
	}
	name := path.Base(remote)
	if remote == s.root {
		name = "/"
	}
	return &DocumentInfo{
		Name:    name,
		Path:    s.relativize(remote),
		IsDir:   fi.IsDir(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

func (s *SFTPProvider) List(ctx context.Context, p string) ([]DocumentInfo, error) {
	_ = ctx
	remote, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	fis, err := s.client.ReadDir(remote)
	if err != nil {
		return nil, errors.Wrapf(err, "list documents %s", p)
	}
	infos := make([]DocumentInfo, 0, len(fis))
	for _, fi := range fis {
		name := fi.Name()
		if name == "." || name == ".." {
			continue
		}
		infos = append(infos, DocumentInfo{
			Name:    name,
			Path:    s.relativize(path.Join(remote, name)),
			IsDir:   fi.IsDir(),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return infos, nil
}

func (s *SFTPProvider) OpenRead(ctx context.Context, p string) (io.ReadCloser, error) {
	_ = ctx
	remote, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := s.client.Open(remote)
	if err != nil {
		return nil, errors.Wrapf(err, "open document %s", p)
	}
	return f, nil
}

func (s *SFTPProvider) OpenWrite(ctx context.Context, p string) (io.WriteCloser, error) {
	_ = ctx
	remote, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := s.client.OpenFile(remote, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, errors.Wrapf(err, "open document %s for write", p)
	}
	return f, nil
}

func (s *SFTPProvider) Rename(ctx context.Context, from string, to string) error {
	_ = ctx
	fromRemote, err := s.resolve(from)
	if err != nil {
		return err
	}
	toRemote, err := s.resolve(to)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.client.Rename(fromRemote, toRemote), "rename document %s", from)
}

func (s *SFTPProvider) Delete(ctx context.Context, p string) error {
	_ = ctx
	remote, err := s.resolve(p)
	if err != nil {
		return err
	}
	fi, err := s.client.Stat(remote)
	if err != nil {
		return errors.Wrapf(err, "stat document %s", p)
	}
	if fi.IsDir() {
		return errors.Wrapf(s.client.RemoveDirectory(remote), "remove directory %s", p)
	}
	return errors.Wrapf(s.client.Remove(remote), "remove document %s", p)
}

var _ Provider = (*SFTPProvider)(nil)

// SFTPMount holds the connection parameters for one provider mount.
type SFTPMount struct {
	Host           string
	Port           int
	User           string
	Password       string
	PrivateKeyPath string
	Root           string
}

// DialSFTPProvider establishes the SSH connection for a mount and wraps it
// into a scoped provider.
func DialSFTPProvider(ctx context.Context, m SFTPMount) (*SFTPProvider, error) {
	if strings.TrimSpace(m.Host) == "" {
		return nil, fmt.Errorf("sftp host not specified")
	}
	if strings.TrimSpace(m.User) == "" {
		return nil, fmt.Errorf("sftp username not specified")
	}
	port := m.Port
	if port == 0 {
		port = 22
	}

	sshConfig := &ssh.ClientConfig{
		User:            m.User,
		Auth:            []ssh.AuthMethod{},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}
	if m.Password != "" {
		sshConfig.Auth = append(sshConfig.Auth, ssh.Password(m.Password))
	}
	if m.PrivateKeyPath != "" {
		key, err := os.ReadFile(m.PrivateKeyPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read private key %s", m.PrivateKeyPath)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, errors.Wrapf(err, "parse private key %s", m.PrivateKeyPath)
		}
		sshConfig.Auth = append(sshConfig.Auth, ssh.PublicKeys(signer))
	}
	if len(sshConfig.Auth) == 0 {
		sshConfig.Auth = append(sshConfig.Auth, ssh.Password(""))
	}

	addr := net.JoinHostPort(m.Host, fmt.Sprintf("%d", port))
	dialer := &net.Dialer{Timeout: sshConfig.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "dial sftp tcp")
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ssh handshake")
	}
	client, err := sftp.NewClient(ssh.NewClient(c, chans, reqs))
	if err != nil {
		return nil, errors.Wrap(err, "create sftp client")
	}
	return NewSFTPProvider(client, m.Root)
}
