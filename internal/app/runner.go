package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/reviewflow/differential-mcp/internal/config"
	mcputil "github.com/reviewflow/differential-mcp/internal/mcp"
	"github.com/reviewflow/differential-mcp/internal/phabricator"
	"github.com/reviewflow/differential-mcp/internal/tools"
)

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	StartSSEServer    func(*mcp.Server, *config.Settings) error
	CreateServer      func(*config.Settings) (*mcp.Server, error)
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:   config.LoadSettingsWithFlags,
		ValidSettings:  config.ValidateSettings,
		StartSSEServer: StartSSEServer,
		CreateServer:   CreateMCPServer,
	}
}

// RunWithDeps executes the server with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	// Load settings
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Validate settings for conflicting configurations
	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Configure logging - always use stderr to keep stdout clean for the
	// stdio transport
	handler := slog.NewTextHandler(os.Stderr, nil)
	slog.SetDefault(slog.New(handler))

	slog.Info("Starting Differential MCP server", "version", version)
	config.Log(settings)

	mcpServer, err := params.CreateServer(settings)
	if err != nil {
		return err
	}

	// Start server
	if settings.Transport == "stdio" {
		// Use custom transport if provided (for testing), otherwise use stdio
		transport := params.CustomIOTransport
		if transport == nil {
			transport = &mcp.StdioTransport{}
		}
		return mcpServer.Run(ctx, transport)
	}

	slog.Info("Starting SSE server", "host", settings.Host, "port", settings.Port)
	return params.StartSSEServer(mcpServer, settings)
}

// CreateMCPServer creates the MCP server with registered tools
func CreateMCPServer(settings *config.Settings) (*mcp.Server, error) {
	manager := phabricator.NewManager(settings.Conduit.URL, settings.Conduit.Token, settings.Conduit.Timeout)

	deps := tools.Deps{
		Clients:          manager,
		ContextRadius:    settings.Review.ContextRadius,
		MaxSearchResults: settings.Review.MaxSearchResults,
	}

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:    "differential-mcp",
		Version: "1.0.0",
		Tools:   &deps,
	})

	return server, nil
}
