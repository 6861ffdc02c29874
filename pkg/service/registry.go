package service

import (
	"context"
	"log/slog"

	"github.com/codenest/codenest/pkg/config"
	"github.com/codenest/codenest/pkg/file"
)

// BuildRegistry wires the configured document-provider mounts into a handle
// registry. A mount that cannot be dialed is skipped with a warning so the
// local tree stays usable.
//
// Keeping this in the service package avoids import cycles and keeps
// connection provisioning out of pkg/file.
func BuildRegistry(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) *file.Registry {
	reg := file.NewRegistry()
	for _, m := range cfg.Providers {
		provider, err := file.DialSFTPProvider(ctx, file.SFTPMount{
			Host:           m.Host,
			Port:           m.Port,
			User:           m.User,
			Password:       m.Password,
			PrivateKeyPath: m.PrivateKeyPath,
			Root:           m.Root,
		})
		if err != nil {
			logger.Warn("Skipping document provider mount", "name", m.Name, "error", err)
			continue
		}
		reg.Register(m.Name, provider)
		logger.Info("Mounted document provider", "name", m.Name, "root", m.Root)
	}
	return reg
}
