// Package mcp serves project mapping and full code extract as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/solution-insight/internal/config"
	"github.com/mvp-joe/solution-insight/internal/mapping"
)

// ServerName identifies the server to MCP clients.
const ServerName = "solution-insight"

// Server manages the MCP server lifecycle.
type Server struct {
	cfg   *config.Config
	cache *mapping.Cache
	mcp   *server.MCPServer
}

// NewServer creates a server with both tools registered. Mapping requests
// share one extraction cache so repeated calls skip unchanged files.
func NewServer(cfg *config.Config, version string) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	cache, err := mapping.NewCache(cfg.Mapping.CacheSize)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	s := &Server{cfg: cfg, cache: cache, mcp: mcpServer}
	AddProjectMappingTool(mcpServer, s.handleProjectMapping)
	AddFullCodeExtractTool(mcpServer, s.handleFullCodeExtract)

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
