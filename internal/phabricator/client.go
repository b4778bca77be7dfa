// Package phabricator is the data-fetch layer: a Conduit API client, the
// version-fallback comment retrieval chain, and mapping from raw Conduit
// payloads to the domain model. The correlation engine never sees any of
// this; it receives finished domain values.
package phabricator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client talks to a Phabricator instance over the Conduit API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	fetchers   []commentFetcher
}

// NewClient creates a Conduit client for the given API base URL and token.
func NewClient(baseURL, token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("conduit token is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("conduit URL is required")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		fetchers:   defaultCommentFetchers(),
	}, nil
}

// SetTimeout overrides the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// call executes a Conduit method. Params are JSON-encoded into the form body
// the way the official clients do, with the token embedded as __conduit__.
func (c *Client) call(ctx context.Context, method string, params map[string]any, result any) error {
	if params == nil {
		params = map[string]any{}
	}
	params["__conduit__"] = map[string]string{"token": c.token}

	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}

	form := url.Values{}
	form.Set("params", string(encoded))
	form.Set("output", "json")

	endpoint := c.baseURL + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("conduit %s request failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("conduit %s returned HTTP %d", method, resp.StatusCode)
	}

	var envelope struct {
		Result    json.RawMessage `json:"result"`
		ErrorCode string          `json:"error_code"`
		ErrorInfo string          `json:"error_info"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if envelope.ErrorCode != "" {
		return &ConduitError{Method: method, Code: envelope.ErrorCode, Info: envelope.ErrorInfo}
	}

	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// Revision is the subset of revision metadata the tools present.
type Revision struct {
	ID      int
	Title   string
	Summary string
	Status  string
	Author  string
}

// GetRevision fetches revision metadata, falling back to the legacy query
// endpoint when the modern search endpoint is unavailable.
func (c *Client) GetRevision(ctx context.Context, revisionID int) (*Revision, error) {
	var searchResult struct {
		Data []map[string]any `json:"data"`
	}
	err := c.call(ctx, "differential.revision.search", map[string]any{
		"constraints": map[string]any{"ids": []int{revisionID}},
	}, &searchResult)
	if err == nil && len(searchResult.Data) > 0 {
		return mapRevisionSearch(searchResult.Data[0]), nil
	}
	if err != nil {
		slog.Debug("differential.revision.search failed, trying legacy query", "error", err)
	}

	var queryResult []map[string]any
	if err := c.call(ctx, "differential.query", map[string]any{
		"ids": []int{revisionID},
	}, &queryResult); err != nil {
		return nil, fmt.Errorf("failed to get revision D%d: %w", revisionID, err)
	}
	if len(queryResult) == 0 {
		return nil, fmt.Errorf("revision D%d not found", revisionID)
	}
	return mapRevisionQuery(queryResult[0]), nil
}

// CodeChanges is a revision's latest diff mapped into the domain model.
type CodeChanges struct {
	DiffID      string
	Author      string
	Description string
	Files       []domain.DiffFile
}

// GetCodeChanges fetches the newest diff of a revision and maps its changes
// into domain diff files.
func (c *Client) GetCodeChanges(ctx context.Context, revisionID int) (*CodeChanges, error) {
	var diffs map[string]rawDiff
	if err := c.call(ctx, "differential.querydiffs", map[string]any{
		"revisionIDs": []int{revisionID},
	}, &diffs); err != nil {
		return nil, fmt.Errorf("failed to get code changes for D%d: %w", revisionID, err)
	}
	if len(diffs) == 0 {
		return &CodeChanges{}, nil
	}

	latestID, latest := latestDiff(diffs)
	return &CodeChanges{
		DiffID:      latestID,
		Author:      latest.AuthorName,
		Description: latest.Description,
		Files:       mapChanges(latest.Changes),
	}, nil
}

// GetRevisionComments retrieves review comments using the fallback chain of
// comment fetchers. An empty result is normal for revisions without feedback;
// strategy failures are logged and skipped, never surfaced.
func (c *Client) GetRevisionComments(ctx context.Context, revisionID int) ([]domain.Comment, error) {
	for _, f := range c.fetchers {
		comments, err := f.fetch(ctx, c, revisionID)
		if err != nil {
			slog.Debug("comment fetch strategy failed", "strategy", f.name(), "revision", revisionID, "error", err)
			continue
		}
		if len(comments) > 0 {
			return comments, nil
		}
	}
	return nil, nil
}

// AddComment posts a general comment on a revision.
func (c *Client) AddComment(ctx context.Context, revisionID int, comment string) error {
	return c.editRevision(ctx, revisionID, []map[string]any{
		{"type": "comment", "value": comment},
	})
}

// AddInlineComment attaches a comment to a specific line of a file in the
// revision. isNewFile selects the post-change side of the diff.
func (c *Client) AddInlineComment(ctx context.Context, revisionID int, filePath string, line int, content string, isNewFile bool) error {
	return c.editRevision(ctx, revisionID, []map[string]any{
		{
			"type": "inline",
			"value": map[string]any{
				"content":   content,
				"path":      filePath,
				"line":      line,
				"isNewFile": isNewFile,
			},
		},
	})
}

// AcceptRevision accepts a revision.
func (c *Client) AcceptRevision(ctx context.Context, revisionID int) error {
	return c.editRevision(ctx, revisionID, []map[string]any{
		{"type": "accept", "value": true},
	})
}

// RequestChanges rejects a revision, optionally with an explanatory comment.
func (c *Client) RequestChanges(ctx context.Context, revisionID int, comment string) error {
	transactions := []map[string]any{{"type": "reject", "value": true}}
	if comment != "" {
		transactions = append(transactions, map[string]any{"type": "comment", "value": comment})
	}
	return c.editRevision(ctx, revisionID, transactions)
}

// SubscribeToRevision adds subscribers to a revision.
func (c *Client) SubscribeToRevision(ctx context.Context, revisionID int, userPHIDs []string) error {
	return c.editRevision(ctx, revisionID, []map[string]any{
		{"type": "subscribers.add", "value": userPHIDs},
	})
}

func (c *Client) editRevision(ctx context.Context, revisionID int, transactions []map[string]any) error {
	err := c.call(ctx, "differential.revision.edit", map[string]any{
		"transactions":     transactions,
		"objectIdentifier": fmt.Sprintf("D%d", revisionID),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to edit revision D%d: %w", revisionID, err)
	}
	return nil
}

// Task is the subset of task metadata the tools present.
type Task struct {
	ID          int
	Title       string
	Description string
	Status      string
	Priority    string
}

// GetTask fetches a task by ID.
func (c *Client) GetTask(ctx context.Context, taskID int) (*Task, error) {
	var result struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.call(ctx, "maniphest.search", map[string]any{
		"constraints": map[string]any{"ids": []int{taskID}},
	}, &result); err != nil {
		return nil, fmt.Errorf("failed to get task T%d: %w", taskID, err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("task T%d not found", taskID)
	}
	return mapTask(result.Data[0]), nil
}

// GetTaskComments returns the comment transactions of a task. Failures
// degrade to an empty list so task display still works without comments.
func (c *Client) GetTaskComments(ctx context.Context, taskID int) ([]domain.Comment, error) {
	var result map[string][]map[string]any
	if err := c.call(ctx, "maniphest.gettasktransactions", map[string]any{
		"ids": []int{taskID},
	}, &result); err != nil {
		slog.Warn("could not get task comments", "task", taskID, "error", err)
		return nil, nil
	}

	transactions := result[strconv.Itoa(taskID)]
	var comments []domain.Comment
	for _, t := range transactions {
		if stringField(t, "transactionType", "type") != "core:comment" &&
			stringField(t, "transactionType", "type") != "comment" {
			continue
		}
		comments = append(comments, domain.Comment{
			Author:  stringField(t, "authorPHID"),
			Content: commentContent(t),
			Kind:    domain.CommentGeneral,
		})
	}
	return comments, nil
}

// AddTaskComment posts a comment on a task.
func (c *Client) AddTaskComment(ctx context.Context, taskID int, comment string) error {
	return c.editTask(ctx, taskID, []map[string]any{
		{"type": "comment", "value": comment},
	})
}

// SubscribeToTask adds subscribers to a task.
func (c *Client) SubscribeToTask(ctx context.Context, taskID int, userPHIDs []string) error {
	return c.editTask(ctx, taskID, []map[string]any{
		{"type": "subscribers.add", "value": userPHIDs},
	})
}

func (c *Client) editTask(ctx context.Context, taskID int, transactions []map[string]any) error {
	err := c.call(ctx, "maniphest.edit", map[string]any{
		"transactions":     transactions,
		"objectIdentifier": fmt.Sprintf("T%d", taskID),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to edit task T%d: %w", taskID, err)
	}
	return nil
}
