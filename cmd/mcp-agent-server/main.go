// Command mcp-agent-server exposes agent creation as an MCP tool over
// stdio.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/rlamana/create-agent/internal/config"
	"github.com/rlamana/create-agent/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// stdout carries the MCP transport
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Issue coordinates may come per call; the orchestrator checks them.
	if err := cfg.ValidatePlatform(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "okteto-agent-server",
		Version: "v1.0.0",
	}, nil)

	handler := NewHandler(*cfg, &http.Client{}, logger)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_agent",
		Description: "Create an Okteto agent for a repository and optionally link it from a GitHub issue",
	}, handler.HandleCreateAgent)
	logger.Info("registered tool", zap.String("tool", "create_agent"), zap.String("context", cfg.OktetoContext))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting on stdio transport")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("server error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
