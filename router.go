package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codenest/codenest/pkg/config"
	"github.com/codenest/codenest/pkg/event"
	"github.com/codenest/codenest/pkg/handler"
	"github.com/codenest/codenest/pkg/models"
	"github.com/codenest/codenest/pkg/service"
	"github.com/codenest/codenest/pkg/utils"
)

type Server struct {
	ginEngine *gin.Engine
	emitter   *event.Emitter
	logger    *slog.Logger
	cfg       *config.AppConfig
	port      int
}

func NewServer(cfg *config.AppConfig) (*Server, error) {
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	// CORS middleware: the UI runs on the same device; allow localhost
	// origins only.
	ginEngine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// If there's no Origin header, it's not a browser CORS request.
		if origin != "" {
			allowed := strings.HasPrefix(origin, "http://localhost") ||
				strings.HasPrefix(origin, "http://127.0.0.1") ||
				strings.HasPrefix(origin, "https://localhost") ||
				strings.HasPrefix(origin, "https://127.0.0.1")

			if allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			} else {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	server := &Server{
		ginEngine: ginEngine,
		emitter:   event.NewEmitter(),
		logger:    utils.GetLogger(),
		cfg:       cfg,
		port:      0,
	}

	if err := server.SetupRoutes(); err != nil {
		return nil, err
	}
	return server, nil
}

func (s *Server) Start(ctx context.Context) error {
	// Read port from environment variable CODENEST_PORT, falling back to
	// the configured port if unset or invalid.
	port := s.cfg.Port()
	if v := os.Getenv("CODENEST_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			port = p
		} else {
			s.logger.Warn("Invalid CODENEST_PORT value, falling back to config", "value", v)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host(), port)
	srv := &http.Server{Addr: addr, Handler: s.ginEngine}

	// Attempt to listen on port first; if occupied return error immediately
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	// Record the actual port (useful if we ever switch to :0).
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	} else {
		s.port = port
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	// Listen for context cancellation for graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// Non-blocking: if startup fails immediately return error; otherwise return nil to let main continue
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	default:
	}
	return nil
}

func (s *Server) SetupRoutes() error {
	registry := service.BuildRegistry(context.Background(), s.cfg, s.logger)
	explorerService := service.NewExplorerService(registry, s.emitter, s.logger, s.cfg.Workspace(), s.cfg.Authority())

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get user home dir: %w", err)
	}
	sessionService, err := service.NewSessionService(filepath.Join(home, ".codenest"), s.emitter, s.logger)
	if err != nil {
		return err
	}

	explorerHandler := handler.NewExplorerHandler(explorerService)
	sessionHandler := handler.NewSessionHandler(sessionService, s.logger)
	wsHandler := event.NewWSHandler(s.emitter)

	// API group
	// /api
	apiGroup := s.ginEngine.Group("/api")

	// Runtime info (for UI clients to discover correct base URLs)
	apiGroup.GET("/runtime", func(c *gin.Context) {
		host := s.cfg.Host()
		port := s.port
		if port == 0 {
			port = s.cfg.Port()
		}
		c.JSON(http.StatusOK, models.RuntimeInfo{
			HTTPBaseURL: fmt.Sprintf("http://%s:%d", host, port),
			WSBaseURL:   fmt.Sprintf("ws://%s:%d", host, port),
			Port:        port,
		})
	})

	// File tree API
	// /api/files
	filesGroup := apiGroup.Group("/files")
	filesGroup.GET("", explorerHandler.List)
	filesGroup.GET("/cached", explorerHandler.Cached)
	filesGroup.GET("/read", explorerHandler.Read)
	filesGroup.PUT("/write", explorerHandler.Write)
	filesGroup.POST("/create", explorerHandler.CreateFile)
	filesGroup.POST("/mkdir", explorerHandler.CreateDirectory)
	filesGroup.PUT("/rename", explorerHandler.Rename)
	filesGroup.DELETE("", explorerHandler.Delete)
	filesGroup.GET("/uri", explorerHandler.ShareURI)
	filesGroup.GET("/breadcrumbs", explorerHandler.Breadcrumbs)

	// Panel session API
	// /api/session
	sessionGroup := apiGroup.Group("/session")
	sessionGroup.GET("/panels", sessionHandler.GetPanels)
	sessionGroup.PUT("/panels", sessionHandler.PutPanels)

	// Event push
	// /api/events/ws
	apiGroup.GET("/events/ws", wsHandler.Handle)

	return nil
}
