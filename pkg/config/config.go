package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is read from a YAML file under the user's home directory.
// All fields are optional; defaults are applied by the accessor methods.
//
// Example (~/.codenest/config.yaml):
//
// server:
//   host: 127.0.0.1
//   port: 8191
// explorer:
//   workspace: /home/me/projects
//   authority: com.codenest.fileprovider
// providers:
//   - name: devbox
//     host: devbox.local
//     port: 22
//     user: me
//     private_key_path: /home/me/.ssh/id_ed25519
//     root: /srv/projects
//
// Notes:
// - If the config file does not exist, Load returns defaults without error.
// - If the config file exists but cannot be parsed, Load returns an error.
// - Port must be between 1 and 65535.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Explorer  ExplorerConfig  `yaml:"explorer"`
	Providers []ProviderMount `yaml:"providers"`
}

type ServerConfig struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

type ExplorerConfig struct {
	// Workspace is the root directory the file tree opens on.
	Workspace *string `yaml:"workspace"`
	// Authority identifies this application's provider surface in shared
	// content URIs.
	Authority *string `yaml:"authority"`
}

// ProviderMount configures one document-provider mount.
type ProviderMount struct {
	Name           string `yaml:"name"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	PrivateKeyPath string `yaml:"private_key_path"`
	Root           string `yaml:"root"`
}

const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 8191
	DefaultAuthority = "com.codenest.fileprovider"
)

// DefaultPaths returns the config dir and config file path.
func DefaultPaths() (configDir string, configFile string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get user home dir: %w", err)
	}
	configDir = filepath.Join(home, ".codenest")
	configFile = filepath.Join(configDir, "config.yaml")
	return configDir, configFile, nil
}

// Load reads ~/.codenest/config.yaml.
// If the file doesn't exist, it returns a default config and nil error.
func Load() (*AppConfig, string, error) {
	_, configFile, err := DefaultPaths()
	if err != nil {
		return nil, "", err
	}

	cfg := &AppConfig{}

	b, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, configFile, nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, "", fmt.Errorf("parse yaml config %s: %w", configFile, err)
	}

	if strings.TrimSpace(cfg.Host()) == "" {
		return nil, "", fmt.Errorf("invalid server.host (empty) in %s", configFile)
	}
	if port := cfg.Port(); port < 1 || port > 65535 {
		return nil, "", fmt.Errorf("invalid server.port %d in %s", port, configFile)
	}
	for _, m := range cfg.Providers {
		if strings.TrimSpace(m.Name) == "" {
			return nil, "", fmt.Errorf("provider mount without a name in %s", configFile)
		}
		if !strings.HasPrefix(m.Root, "/") {
			return nil, "", fmt.Errorf("provider %q root must be absolute in %s", m.Name, configFile)
		}
	}

	return cfg, configFile, nil
}

// EnsureDefaultConfig writes a default config file if it doesn't already exist.
// It is safe to call on startup.
func EnsureDefaultConfig() (string, error) {
	configDir, configFile, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configFile); err == nil {
		return configFile, nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", configDir, err)
	}

	defaultCfg := AppConfig{Server: ServerConfig{Host: ptr(DefaultHost), Port: ptr(DefaultPort)}}
	b, err := yaml.Marshal(&defaultCfg)
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}

	// Write with restrictive permissions.
	if err := os.WriteFile(configFile, b, 0o600); err != nil {
		return "", fmt.Errorf("write default config file %s: %w", configFile, err)
	}

	return configFile, nil
}

func (c *AppConfig) Host() string {
	if c == nil || c.Server.Host == nil {
		return DefaultHost
	}
	v := strings.TrimSpace(*c.Server.Host)
	if v == "" {
		return DefaultHost
	}
	return v
}

func (c *AppConfig) Port() int {
	if c == nil || c.Server.Port == nil {
		return DefaultPort
	}
	return *c.Server.Port
}

// Workspace returns the configured tree root, defaulting to the user's home
// directory (or "/" when that cannot be resolved).
func (c *AppConfig) Workspace() string {
	if c != nil && c.Explorer.Workspace != nil {
		if v := strings.TrimSpace(*c.Explorer.Workspace); v != "" {
			return filepath.ToSlash(v)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "/"
	}
	return filepath.ToSlash(home)
}

func (c *AppConfig) Authority() string {
	if c == nil || c.Explorer.Authority == nil {
		return DefaultAuthority
	}
	v := strings.TrimSpace(*c.Explorer.Authority)
	if v == "" {
		return DefaultAuthority
	}
	return v
}

func ptr[T any](v T) *T { return &v }
