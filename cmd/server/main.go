package main

import (
	"context"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/mcp"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
	"github.com/honeycarbs/job-aggregator/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	resources, cleanup, err := mcp.InitializeResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize resources", "err", err)
		os.Exit(1)
	}

	srv, err := mcp.NewServer(logger, cfg, resources)
	if err != nil {
		cleanup()
		logger.Error("failed to create MCP server", "err", err)
		os.Exit(1)
	}

	release := func(context.Context) error {
		cleanup()
		return nil
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			srv,
			10*time.Second,
			logger,
			release,
		)
	}()

	logger.Info("MCP server initialized and starting",
		"addr", net.JoinHostPort(cfg.Host, cfg.Port),
		"backend", cfg.Jobs.APIURL,
		"mode", cfg.Jobs.Mode,
	)

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		shutdown.Now(srv, 10*time.Second, logger, release)
		os.Exit(1)
	}

	<-stopped
	logger.Info("MCP server stopped")
}
