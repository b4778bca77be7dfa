package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/format"
	"github.com/reviewflow/differential-mcp/internal/review"
)

// FeedbackArgument selects a revision for feedback analysis.
type FeedbackArgument struct {
	RevisionID   int    `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	ContextLines int    `json:"context_lines,omitempty" jsonschema_description:"Lines of code context on each side of a commented line (default 7)"`
	APIToken     string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// GetReviewFeedbackHandler handles the get_review_feedback MCP tool.
type GetReviewFeedbackHandler struct {
	deps Deps
}

// NewGetReviewFeedbackHandler creates a new get_review_feedback handler.
func NewGetReviewFeedbackHandler(deps Deps) *GetReviewFeedbackHandler {
	return &GetReviewFeedbackHandler{deps: deps}
}

// Handle correlates every review comment with the code it talks about and
// renders an actionable feedback report grouped by category.
func (h *GetReviewFeedbackHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FeedbackArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}
	if args.ContextLines < 0 {
		return errorResult("context_lines must be non-negative"), nil, nil
	}

	radius := args.ContextLines
	if radius == 0 {
		radius = h.deps.ContextRadius
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

	results, err := review.EnrichComments(comments, changes.Files, radius)
	if err != nil {
		return errorResult("Failed to analyze feedback for D%d: %s", args.RevisionID, err), nil, nil
	}

	return textResult(format.FeedbackReport(rev, results)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *GetReviewFeedbackHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_review_feedback",
		Description: "Analyze review feedback on a revision: correlate each comment with the code it refers to and group into actionable categories",
	}
}

// RegisterGetReviewFeedbackTool registers the get_review_feedback tool with an MCP server.
func RegisterGetReviewFeedbackTool(server *mcp.Server, deps Deps) {
	handler := NewGetReviewFeedbackHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
