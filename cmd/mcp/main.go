package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/quillsearch/search-agent/internal/mcpadapter"
	"github.com/quillsearch/search-agent/internal/setup"
	logsetup "github.com/quillsearch/search-agent/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	log.Logger = logsetup.New(os.Getenv("LOG_LEVEL"))
	logger := log.Logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, nil, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "search-agent",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_search",
		Description: "Answer a natural-language question by running up to three web searches and synthesizing a grounded answer with sources",
	}, mcpadapter.NewSearchHandler(deps.Orchestrator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "conversation_history",
		Description: "Fetch the turns of an existing conversation in append order",
	}, mcpadapter.NewHistoryHandler(deps.Orchestrator))

	return server
}
