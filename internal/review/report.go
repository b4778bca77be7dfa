package review

import (
	"strings"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

// Category buckets a piece of review feedback for report ordering.
type Category string

// Categories in display priority order.
const (
	CategoryIssue      Category = "issue"
	CategorySuggestion Category = "suggestion"
	CategoryNit        Category = "nit"
	CategoryOther      Category = "other"
)

var (
	issueWords      = []string{"error", "bug", "issue", "problem"}
	suggestionWords = []string{"suggest", "recommend", "consider"}
)

// Categorize buckets comment text by simple keyword matching. Nits win over
// everything so "nit: fix this bug" stays a nit.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "nit") {
		return CategoryNit
	}
	for _, w := range issueWords {
		if strings.Contains(lower, w) {
			return CategoryIssue
		}
	}
	for _, w := range suggestionWords {
		if strings.Contains(lower, w) {
			return CategorySuggestion
		}
	}
	return CategoryOther
}

// EnrichComments produces one CorrelationResult per comment. Comments with an
// explicit anchor get a context window extracted at the anchored position;
// unanchored comments with content are correlated lexically against the diff.
// Review actions and empty comments pass through unenriched.
func EnrichComments(comments []domain.Comment, files []domain.DiffFile, radius int) ([]domain.CorrelationResult, error) {
	if radius < 0 {
		return nil, ErrNegativeRadius
	}

	results := make([]domain.CorrelationResult, 0, len(comments))
	for _, c := range comments {
		result := domain.CorrelationResult{Comment: c}

		switch {
		case c.Anchored():
			ctx, err := ExtractContext(c.Anchor.FilePath, c.Anchor.Line, files, radius)
			if err != nil {
				return nil, err
			}
			result.Best = &domain.Location{FilePath: c.Anchor.FilePath, Line: c.Anchor.Line}
			result.Context = ctx

		case strings.TrimSpace(c.Content) != "" && !c.Kind.IsReviewAction():
			corr, err := Correlate(c.Content, files, radius)
			if err != nil {
				return nil, err
			}
			result.Best = corr.Best
			result.Context = corr.Context
			result.Alternates = corr.Alternates
		}

		results = append(results, result)
	}
	return results, nil
}

// GroupByCategory splits enriched results into category buckets, preserving
// input order within each bucket.
func GroupByCategory(results []domain.CorrelationResult) map[Category][]domain.CorrelationResult {
	grouped := make(map[Category][]domain.CorrelationResult)
	for _, r := range results {
		cat := Categorize(r.Comment.Content)
		grouped[cat] = append(grouped[cat], r)
	}
	return grouped
}
