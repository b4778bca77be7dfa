package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommentArgument adds a top-level comment to a revision.
type CommentArgument struct {
	RevisionID int    `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	Comment    string `json:"comment" jsonschema_description:"Comment text"`
	APIToken   string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// AddRevisionCommentHandler handles the add_revision_comment MCP tool.
type AddRevisionCommentHandler struct {
	deps Deps
}

// NewAddRevisionCommentHandler creates a new add_revision_comment handler.
func NewAddRevisionCommentHandler(deps Deps) *AddRevisionCommentHandler {
	return &AddRevisionCommentHandler{deps: deps}
}

// Handle posts a general comment on a revision.
func (h *AddRevisionCommentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args CommentArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}
	if strings.TrimSpace(args.Comment) == "" {
		return errorResult("comment cannot be empty"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if err := client.AddComment(ctx, args.RevisionID, args.Comment); err != nil {
		return errorResult("Failed to add comment on D%d: %s", args.RevisionID, err), nil, nil
	}
	return textResult(fmt.Sprintf("✅ Comment added to revision D%d", args.RevisionID)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *AddRevisionCommentHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_revision_comment",
		Description: "Add a general comment to a Differential revision",
	}
}

// RegisterAddRevisionCommentTool registers the add_revision_comment tool with an MCP server.
func RegisterAddRevisionCommentTool(server *mcp.Server, deps Deps) {
	handler := NewAddRevisionCommentHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// InlineCommentArgument adds an inline comment anchored to a diff line.
type InlineCommentArgument struct {
	RevisionID int    `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	FilePath   string `json:"file_path" jsonschema_description:"Path of the file the comment refers to"`
	Line       int    `json:"line" jsonschema_description:"Line number in the new version of the file"`
	Content    string `json:"content" jsonschema_description:"Comment text"`
	IsOldFile  bool   `json:"is_old_file,omitempty" jsonschema_description:"Anchor to the old version of the file instead of the new one"`
	APIToken   string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// AddInlineCommentHandler handles the add_inline_comment MCP tool.
type AddInlineCommentHandler struct {
	deps Deps
}

// NewAddInlineCommentHandler creates a new add_inline_comment handler.
func NewAddInlineCommentHandler(deps Deps) *AddInlineCommentHandler {
	return &AddInlineCommentHandler{deps: deps}
}

// Handle posts an inline comment anchored to a specific file and line.
func (h *AddInlineCommentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args InlineCommentArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}
	if strings.TrimSpace(args.FilePath) == "" {
		return errorResult("file_path cannot be empty"), nil, nil
	}
	if args.Line <= 0 {
		return errorResult("line must be a positive integer"), nil, nil
	}
	if strings.TrimSpace(args.Content) == "" {
		return errorResult("content cannot be empty"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if err := client.AddInlineComment(ctx, args.RevisionID, args.FilePath, args.Line, args.Content, !args.IsOldFile); err != nil {
		return errorResult("Failed to add inline comment on D%d: %s", args.RevisionID, err), nil, nil
	}
	return textResult(fmt.Sprintf("✅ Inline comment added at %s:%d", args.FilePath, args.Line)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *AddInlineCommentHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_inline_comment",
		Description: "Add an inline comment to a specific file and line of a Differential revision",
	}
}

// RegisterAddInlineCommentTool registers the add_inline_comment tool with an MCP server.
func RegisterAddInlineCommentTool(server *mcp.Server, deps Deps) {
	handler := NewAddInlineCommentHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// VerdictArgument accepts or rejects a revision with an optional comment.
type VerdictArgument struct {
	RevisionID int    `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	Comment    string `json:"comment,omitempty" jsonschema_description:"Optional comment posted together with the action"`
	APIToken   string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// AcceptRevisionHandler handles the accept_revision MCP tool.
type AcceptRevisionHandler struct {
	deps Deps
}

// NewAcceptRevisionHandler creates a new accept_revision handler.
func NewAcceptRevisionHandler(deps Deps) *AcceptRevisionHandler {
	return &AcceptRevisionHandler{deps: deps}
}

// Handle accepts a revision, optionally posting a comment first.
func (h *AcceptRevisionHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args VerdictArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if strings.TrimSpace(args.Comment) != "" {
		if err := client.AddComment(ctx, args.RevisionID, args.Comment); err != nil {
			return errorResult("Failed to add comment on D%d: %s", args.RevisionID, err), nil, nil
		}
	}
	if err := client.AcceptRevision(ctx, args.RevisionID); err != nil {
		return errorResult("Failed to accept D%d: %s", args.RevisionID, err), nil, nil
	}
	return textResult(fmt.Sprintf("✅ Revision D%d accepted", args.RevisionID)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *AcceptRevisionHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "accept_revision",
		Description: "Accept a Differential revision, optionally with a comment",
	}
}

// RegisterAcceptRevisionTool registers the accept_revision tool with an MCP server.
func RegisterAcceptRevisionTool(server *mcp.Server, deps Deps) {
	handler := NewAcceptRevisionHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// RequestChangesHandler handles the request_changes MCP tool.
type RequestChangesHandler struct {
	deps Deps
}

// NewRequestChangesHandler creates a new request_changes handler.
func NewRequestChangesHandler(deps Deps) *RequestChangesHandler {
	return &RequestChangesHandler{deps: deps}
}

// Handle requests changes on a revision with an optional explanation.
func (h *RequestChangesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args VerdictArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if err := client.RequestChanges(ctx, args.RevisionID, args.Comment); err != nil {
		return errorResult("Failed to request changes on D%d: %s", args.RevisionID, err), nil, nil
	}
	return textResult(fmt.Sprintf("❌ Changes requested on revision D%d", args.RevisionID)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *RequestChangesHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "request_changes",
		Description: "Request changes on a Differential revision, optionally with a comment explaining why",
	}
}

// RegisterRequestChangesTool registers the request_changes tool with an MCP server.
func RegisterRequestChangesTool(server *mcp.Server, deps Deps) {
	handler := NewRequestChangesHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// SubscribeArgument subscribes users to a revision.
type SubscribeArgument struct {
	RevisionID int      `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	UserPHIDs  []string `json:"user_phids,omitempty" jsonschema_description:"PHIDs of the users to subscribe; defaults to the calling user"`
	APIToken   string   `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// SubscribeToRevisionHandler handles the subscribe_to_revision MCP tool.
type SubscribeToRevisionHandler struct {
	deps Deps
}

// NewSubscribeToRevisionHandler creates a new subscribe_to_revision handler.
func NewSubscribeToRevisionHandler(deps Deps) *SubscribeToRevisionHandler {
	return &SubscribeToRevisionHandler{deps: deps}
}

// Handle subscribes users to revision updates.
func (h *SubscribeToRevisionHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SubscribeArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if err := client.SubscribeToRevision(ctx, args.RevisionID, args.UserPHIDs); err != nil {
		return errorResult("Failed to subscribe to D%d: %s", args.RevisionID, err), nil, nil
	}
	return textResult(fmt.Sprintf("✅ Subscribed to revision D%d", args.RevisionID)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *SubscribeToRevisionHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "subscribe_to_revision",
		Description: "Subscribe to updates on a Differential revision",
	}
}

// RegisterSubscribeToRevisionTool registers the subscribe_to_revision tool with an MCP server.
func RegisterSubscribeToRevisionTool(server *mcp.Server, deps Deps) {
	handler := NewSubscribeToRevisionHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
