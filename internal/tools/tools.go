// Package tools implements the MCP tool surface: revision inspection, review
// feedback analysis, review actions, task operations, and diff search. Every
// handler resolves its Conduit client through a shared Manager so callers can
// override the API token per call.
package tools

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/phabricator"
)

// Deps carries what every tool handler needs.
type Deps struct {
	Clients *phabricator.Manager

	// ContextRadius is the default number of lines shown on each side of a
	// commented line when a tool does not receive an explicit override.
	ContextRadius int

	// MaxSearchResults caps search_diff hit counts.
	MaxSearchResults int
}

// textResult wraps plain text in a successful MCP tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult wraps an error message in an MCP tool error result. Tool-level
// failures are reported in-band so the client sees what went wrong instead of
// a dropped call.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

// client resolves the Conduit client for a call, honoring a per-call token
// override.
func (d Deps) client(apiToken string) (*phabricator.Client, *mcp.CallToolResult) {
	c, err := d.Clients.Get(apiToken)
	if err != nil {
		return nil, errorResult("Phabricator client unavailable: %s", err)
	}
	return c, nil
}

// RegisterAll registers every tool with the MCP server.
func RegisterAll(server *mcp.Server, deps Deps) {
	RegisterGetRevisionTool(server, deps)
	RegisterGetRevisionDetailedTool(server, deps)
	RegisterGetReviewFeedbackTool(server, deps)
	RegisterAddRevisionCommentTool(server, deps)
	RegisterAddInlineCommentTool(server, deps)
	RegisterAcceptRevisionTool(server, deps)
	RegisterRequestChangesTool(server, deps)
	RegisterSubscribeToRevisionTool(server, deps)
	RegisterGetTaskTool(server, deps)
	RegisterAddTaskCommentTool(server, deps)
	RegisterSubscribeToTaskTool(server, deps)
	RegisterSearchDiffTool(server, deps)
}
