package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/codenest/codenest/pkg/config"
	"github.com/codenest/codenest/pkg/utils"
)

func main() {
	utils.InitLogger()
	logger := utils.GetLogger()

	if _, err := config.EnsureDefaultConfig(); err != nil {
		logger.Warn("Failed to ensure default config", "error", err)
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("Loaded config", "path", cfgPath, "workspace", cfg.Workspace())

	server, err := NewServer(cfg)
	if err != nil {
		logger.Error("Failed to set up server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
	logger.Info("Server started", "host", cfg.Host(), "port", server.port)

	<-ctx.Done()
	logger.Info("Shutting down")
}
