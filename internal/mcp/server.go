// Package mcp assembles the MCP server from the tool handlers.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/tools"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	Tools   *tools.Deps
}

// CreateServer creates and configures the MCP server. Tools are registered
// only when Tools deps are provided, so tests can build a bare server.
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.Tools != nil {
		tools.RegisterAll(s, *cfg.Tools)
	}

	return s
}
