package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/format"
	"github.com/reviewflow/differential-mcp/internal/review"
)

// RevisionArgument identifies a Differential revision.
type RevisionArgument struct {
	RevisionID int    `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	APIToken   string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// GetRevisionHandler handles the get_revision MCP tool.
type GetRevisionHandler struct {
	deps Deps
}

// NewGetRevisionHandler creates a new get_revision handler.
func NewGetRevisionHandler(deps Deps) *GetRevisionHandler {
	return &GetRevisionHandler{deps: deps}
}

// Handle fetches revision metadata and its comments.
func (h *GetRevisionHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RevisionArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	rev, err := client.GetRevision(ctx, args.RevisionID)
	if err != nil {
		return errorResult("Failed to fetch revision D%d: %s", args.RevisionID, err), nil, nil
	}

	comments, err := client.GetRevisionComments(ctx, args.RevisionID)
	if err != nil {
		return errorResult("Failed to fetch comments for D%d: %s", args.RevisionID, err), nil, nil
	}

	return textResult(format.RevisionDetails(rev, comments)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *GetRevisionHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_revision",
		Description: "Get a Differential revision's metadata and review comments",
	}
}

// RegisterGetRevisionTool registers the get_revision tool with an MCP server.
func RegisterGetRevisionTool(server *mcp.Server, deps Deps) {
	handler := NewGetRevisionHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// GetRevisionDetailedHandler handles the get_revision_detailed MCP tool.
type GetRevisionDetailedHandler struct {
	deps Deps
}

// NewGetRevisionDetailedHandler creates a new get_revision_detailed handler.
func NewGetRevisionDetailedHandler(deps Deps) *GetRevisionDetailedHandler {
	return &GetRevisionDetailedHandler{deps: deps}
}

// Handle fetches revision metadata, code changes, and comments enriched with
// code context, grouped by comment kind.
func (h *GetRevisionDetailedHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RevisionArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	rev, err := client.GetRevision(ctx, args.RevisionID)
	if err != nil {
		return errorResult("Failed to fetch revision D%d: %s", args.RevisionID, err), nil, nil
	}

	changes, err := client.GetCodeChanges(ctx, args.RevisionID)
	if err != nil {
		return errorResult("Failed to fetch code changes for D%d: %s", args.RevisionID, err), nil, nil
	}

	comments, err := client.GetRevisionComments(ctx, args.RevisionID)
	if err != nil {
		return errorResult("Failed to fetch comments for D%d: %s", args.RevisionID, err), nil, nil
	}

	results, err := review.EnrichComments(comments, changes.Files, h.deps.ContextRadius)
	if err != nil {
		return errorResult("Failed to enrich comments for D%d: %s", args.RevisionID, err), nil, nil
	}

	return textResult(format.EnhancedRevision(rev, results, changes)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *GetRevisionDetailedHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_revision_detailed",
		Description: "Get a Differential revision with code changes and comments placed in their code context",
	}
}

// RegisterGetRevisionDetailedTool registers the get_revision_detailed tool with an MCP server.
func RegisterGetRevisionDetailedTool(server *mcp.Server, deps Deps) {
	handler := NewGetRevisionDetailedHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
