package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/format"
)

// TaskArgument identifies a Maniphest task.
type TaskArgument struct {
	TaskID   int    `json:"task_id" jsonschema_description:"Maniphest task ID (the numeric part of T123)"`
	APIToken string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// GetTaskHandler handles the get_task MCP tool.
type GetTaskHandler struct {
	deps Deps
}

// NewGetTaskHandler creates a new get_task handler.
func NewGetTaskHandler(deps Deps) *GetTaskHandler {
	return &GetTaskHandler{deps: deps}
}

// Handle fetches task metadata and its comment history.
func (h *GetTaskHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TaskArgument) (*mcp.CallToolResult, any, error) {
	if args.TaskID <= 0 {
		return errorResult("task_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	task, err := client.GetTask(ctx, args.TaskID)
	if err != nil {
		return errorResult("Failed to fetch task T%d: %s", args.TaskID, err), nil, nil
	}

	comments, err := client.GetTaskComments(ctx, args.TaskID)
	if err != nil {
		return errorResult("Failed to fetch comments for T%d: %s", args.TaskID, err), nil, nil
	}

	return textResult(format.TaskDetails(task, comments)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *GetTaskHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_task",
		Description: "Get a Maniphest task's metadata and comments",
	}
}

// RegisterGetTaskTool registers the get_task tool with an MCP server.
func RegisterGetTaskTool(server *mcp.Server, deps Deps) {
	handler := NewGetTaskHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// TaskCommentArgument adds a comment to a task.
type TaskCommentArgument struct {
	TaskID   int    `json:"task_id" jsonschema_description:"Maniphest task ID (the numeric part of T123)"`
	Comment  string `json:"comment" jsonschema_description:"Comment text"`
	APIToken string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// AddTaskCommentHandler handles the add_task_comment MCP tool.
type AddTaskCommentHandler struct {
	deps Deps
}

// NewAddTaskCommentHandler creates a new add_task_comment handler.
func NewAddTaskCommentHandler(deps Deps) *AddTaskCommentHandler {
	return &AddTaskCommentHandler{deps: deps}
}

// Handle posts a comment on a task.
func (h *AddTaskCommentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TaskCommentArgument) (*mcp.CallToolResult, any, error) {
	if args.TaskID <= 0 {
		return errorResult("task_id must be a positive integer"), nil, nil
	}
	if strings.TrimSpace(args.Comment) == "" {
		return errorResult("comment cannot be empty"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if err := client.AddTaskComment(ctx, args.TaskID, args.Comment); err != nil {
		return errorResult("Failed to add comment on T%d: %s", args.TaskID, err), nil, nil
	}
	return textResult(fmt.Sprintf("✅ Comment added to task T%d", args.TaskID)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *AddTaskCommentHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_task_comment",
		Description: "Add a comment to a Maniphest task",
	}
}

// RegisterAddTaskCommentTool registers the add_task_comment tool with an MCP server.
func RegisterAddTaskCommentTool(server *mcp.Server, deps Deps) {
	handler := NewAddTaskCommentHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// TaskSubscribeArgument subscribes users to a task.
type TaskSubscribeArgument struct {
	TaskID    int      `json:"task_id" jsonschema_description:"Maniphest task ID (the numeric part of T123)"`
	UserPHIDs []string `json:"user_phids,omitempty" jsonschema_description:"PHIDs of the users to subscribe; defaults to the calling user"`
	APIToken  string   `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// SubscribeToTaskHandler handles the subscribe_to_task MCP tool.
type SubscribeToTaskHandler struct {
	deps Deps
}

// NewSubscribeToTaskHandler creates a new subscribe_to_task handler.
func NewSubscribeToTaskHandler(deps Deps) *SubscribeToTaskHandler {
	return &SubscribeToTaskHandler{deps: deps}
}

// Handle subscribes users to task updates.
func (h *SubscribeToTaskHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TaskSubscribeArgument) (*mcp.CallToolResult, any, error) {
	if args.TaskID <= 0 {
		return errorResult("task_id must be a positive integer"), nil, nil
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	if err := client.SubscribeToTask(ctx, args.TaskID, args.UserPHIDs); err != nil {
		return errorResult("Failed to subscribe to T%d: %s", args.TaskID, err), nil, nil
	}
	return textResult(fmt.Sprintf("✅ Subscribed to task T%d", args.TaskID)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *SubscribeToTaskHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "subscribe_to_task",
		Description: "Subscribe to updates on a Maniphest task",
	}
}

// RegisterSubscribeToTaskTool registers the subscribe_to_task tool with an MCP server.
func RegisterSubscribeToTaskTool(server *mcp.Server, deps Deps) {
	handler := NewSubscribeToTaskHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
