package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/gymtrack/internal/config"
	"github.com/meltforce/gymtrack/internal/generator"
	"github.com/meltforce/gymtrack/internal/ingest/alpha"
	gymmcp "github.com/meltforce/gymtrack/internal/mcp"
	"github.com/meltforce/gymtrack/internal/server"
	"github.com/meltforce/gymtrack/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults and env vars when empty)")
	migrations := flag.String("migrations", "migrations", "migrations directory (postgres only)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymTrack starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo, err := storage.Open(ctx, storage.OpenOptions{
		Driver:         cfg.Storage.Driver,
		SQLitePath:     cfg.Storage.SQLitePath,
		DSN:            cfg.Database.DSN(),
		MigrationsPath: *migrations,
	}, log)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	alphaProvider := alpha.NewProvider(repo, alpha.Options{IncludeWarmups: cfg.Import.IncludeWarmups}, log)

	var gen generator.Generator = generator.Disabled{}
	if cfg.Generator.APIKey != "" {
		gen = generator.NewOpenAI(cfg.Generator.APIKey, cfg.Generator.Model, cfg.Generator.BaseURL, log)
		log.Info("routine generator enabled", "model", cfg.Generator.Model)
	}

	if cfg.Auth.APIKey == "" {
		log.Warn("auth.api_key is empty, mutating routes are unauthenticated")
	}
	srv := server.New(repo, alphaProvider, gen, cfg.Auth.APIKey, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(gymmcp.New(repo, Version, log)))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
