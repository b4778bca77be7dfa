package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reviewflow/differential-mcp/internal/search"
)

// SearchDiffArgument defines diff search parameters.
type SearchDiffArgument struct {
	RevisionID int    `json:"revision_id" jsonschema_description:"Differential revision ID (the numeric part of D123)"`
	Query      string `json:"query" jsonschema_description:"Full-text query run against the revision's diff lines"`
	FilePath   string `json:"file_path,omitempty" jsonschema_description:"Restrict the search to one file path"`
	Limit      int    `json:"limit,omitempty" jsonschema_description:"Maximum number of hits to return"`
	APIToken   string `json:"api_token,omitempty" jsonschema_description:"Optional Conduit API token overriding the server default"`
}

// SearchDiffHandler handles the search_diff MCP tool.
type SearchDiffHandler struct {
	deps Deps
}

// NewSearchDiffHandler creates a new search_diff handler.
func NewSearchDiffHandler(deps Deps) *SearchDiffHandler {
	return &SearchDiffHandler{deps: deps}
}

// Handle indexes the revision's diff lines in memory and runs the query
// against them. The index lives only for the duration of the call.
func (h *SearchDiffHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchDiffArgument) (*mcp.CallToolResult, any, error) {
	if args.RevisionID <= 0 {
		return errorResult("revision_id must be a positive integer"), nil, nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("query cannot be empty"), nil, nil
	}

	limit := args.Limit
	if limit <= 0 || limit > h.deps.MaxSearchResults {
		limit = h.deps.MaxSearchResults
	}

	client, errRes := h.deps.client(args.APIToken)
	if errRes != nil {
		return errRes, nil, nil
	}

	changes, err := client.GetCodeChanges(ctx, args.RevisionID)
	if err != nil {
		return errorResult("Failed to fetch code changes for D%d: %s", args.RevisionID, err), nil, nil
	}

	idx, err := search.NewIndex(changes.Files)
	if err != nil {
		return errorResult("Failed to index diff for D%d: %s", args.RevisionID, err), nil, nil
	}
	defer func() { _ = idx.Close() }()

	hits, err := idx.Search(args.Query, args.FilePath, limit)
	if err != nil {
		return errorResult("Search failed: %s", err), nil, nil
	}

	return textResult(formatHits(hits, args.Query, args.RevisionID)), nil, nil
}

// formatHits renders search hits for the MCP response.
func formatHits(hits []search.Hit, queryStr string, revisionID int) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No matches for '%s' in D%d's diff", queryStr, revisionID)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d matching diff lines for '%s' in D%d:\n\n", len(hits), queryStr, revisionID))
	for _, hit := range hits {
		marker := " "
		switch hit.Role {
		case "added":
			marker = "+"
		case "removed":
			marker = "-"
		}
		sb.WriteString(fmt.Sprintf("%s:%d  %s %s\n", hit.FilePath, hit.Line, marker, strings.TrimSpace(hit.Content)))
	}
	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchDiffHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_diff",
		Description: "Full-text search over the diff lines of a Differential revision",
	}
}

// RegisterSearchDiffTool registers the search_diff tool with an MCP server.
func RegisterSearchDiffTool(server *mcp.Server, deps Deps) {
	handler := NewSearchDiffHandler(deps)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
