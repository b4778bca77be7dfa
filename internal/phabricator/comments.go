package phabricator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

// commentFetcher is one strategy for retrieving a revision's comments.
// Phabricator instances differ in which endpoints they expose; fetchers are
// tried in order and the first one that yields comments wins.
type commentFetcher interface {
	name() string
	fetch(ctx context.Context, c *Client, revisionID int) ([]domain.Comment, error)
}

// defaultCommentFetchers returns the fallback chain, newest API first.
func defaultCommentFetchers() []commentFetcher {
	return []commentFetcher{
		revisionSearchFetcher{},
		transactionSearchFetcher{},
		legacyCommentsFetcher{},
	}
}

// revisionSearchFetcher uses differential.revision.search with the
// transactions attachment (modern instances).
type revisionSearchFetcher struct{}

func (revisionSearchFetcher) name() string { return "differential.revision.search" }

func (revisionSearchFetcher) fetch(ctx context.Context, c *Client, revisionID int) ([]domain.Comment, error) {
	var result struct {
		Data []map[string]any `json:"data"`
	}
	err := c.call(ctx, "differential.revision.search", map[string]any{
		"constraints": map[string]any{"ids": []int{revisionID}},
		"attachments": map[string]any{"transactions": true},
	}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("revision D%d not found", revisionID)
	}

	attachments := mapField(result.Data[0], "attachments")
	container := mapField(attachments, "transactions")
	transactions := listField(container, "transactions")
	return mapTransactionList(transactions), nil
}

// transactionSearchFetcher uses the generic transaction.search endpoint.
type transactionSearchFetcher struct{}

func (transactionSearchFetcher) name() string { return "transaction.search" }

func (transactionSearchFetcher) fetch(ctx context.Context, c *Client, revisionID int) ([]domain.Comment, error) {
	var result struct {
		Data []map[string]any `json:"data"`
	}
	err := c.call(ctx, "transaction.search", map[string]any{
		"objectIdentifier": fmt.Sprintf("D%d", revisionID),
	}, &result)
	if err != nil {
		return nil, err
	}

	var comments []domain.Comment
	for _, t := range result.Data {
		if comment, ok := mapTransaction(t); ok {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

// legacyCommentsFetcher uses differential.getrevisioncomments, the oldest
// comment endpoint still deployed on long-lived instances.
type legacyCommentsFetcher struct{}

func (legacyCommentsFetcher) name() string { return "differential.getrevisioncomments" }

func (legacyCommentsFetcher) fetch(ctx context.Context, c *Client, revisionID int) ([]domain.Comment, error) {
	var result map[string][]map[string]any
	err := c.call(ctx, "differential.getrevisioncomments", map[string]any{
		"ids": []int{revisionID},
	}, &result)
	if err != nil {
		return nil, err
	}

	var comments []domain.Comment
	for _, t := range result[strconv.Itoa(revisionID)] {
		if comment, ok := mapTransaction(t); ok {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func mapTransactionList(transactions []any) []domain.Comment {
	var comments []domain.Comment
	for _, entry := range transactions {
		t, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if comment, ok := mapTransaction(t); ok {
			comments = append(comments, comment)
		}
	}
	return comments
}
