package review

import (
	"sort"
	"strings"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

// Per-keyword match weights and fixed bonus values. All contributions are
// additive; the only multiplicative rule is the comment-syntax demotion.
const (
	verbatimMatchScore    = 2.0
	caseFoldMatchScore    = 1.0
	resultBonus           = 1.5
	assignmentBonus       = 1.0
	changedLineBonus      = 0.5
	commentSyntaxDemotion = 0.1
)

// maxAlternates caps how many runner-up locations a correlation reports.
const maxAlternates = 2

// Correlation is the outcome of correlating one comment against a diff set.
// Best and Context are nil when no line scored above zero.
type Correlation struct {
	Best       *domain.Location
	Context    *domain.ContextWindow
	Alternates []domain.Location
}

// Correlate infers the most plausible code locations for a free-text comment
// by scoring every diff line against keywords extracted from the comment.
// The top-scoring line becomes the best location and receives a context
// window of the given radius; up to two strictly lower-scoring runner-ups are
// reported as alternates with a snippet only. Ties keep discovery order
// (file, then hunk, then line), so identical inputs always produce an
// identical ranking.
//
// An empty result is a normal outcome: no keywords, no files, or no line
// with a positive score.
func Correlate(commentText string, files []domain.DiffFile, radius int) (Correlation, error) {
	if radius < 0 {
		return Correlation{}, ErrNegativeRadius
	}

	candidates := rankLocations(commentText, files)
	if len(candidates) == 0 {
		return Correlation{}, nil
	}

	best := candidates[0]
	ctx, err := ExtractContext(best.FilePath, best.Line, files, radius)
	if err != nil {
		return Correlation{}, err
	}

	var alternates []domain.Location
	for _, c := range candidates[1:] {
		if len(alternates) == maxAlternates {
			break
		}
		if c.Score < best.Score {
			alternates = append(alternates, c)
		}
	}

	return Correlation{Best: &best, Context: ctx, Alternates: alternates}, nil
}

// rankLocations scores every line of every hunk and returns all positive
// candidates sorted by descending score, stable in discovery order.
func rankLocations(commentText string, files []domain.DiffFile) []domain.Location {
	keywords := ExtractKeywords(commentText)
	commentLower := strings.ToLower(commentText)

	var candidates []domain.Location
	for _, file := range files {
		for _, hunk := range file.Hunks {
			for i, raw := range hunk.Corpus {
				score := scoreLine(raw, keywords, commentLower)
				if score <= 0 {
					continue
				}
				content, _ := SplitMarker(raw)
				candidates = append(candidates, domain.Location{
					FilePath: file.NewPath,
					Line:     hunk.NewOffset + i,
					Score:    score,
					Snippet:  strings.TrimSpace(content),
				})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
	return candidates
}

// scoreLine computes the relevance of a single raw corpus line. raw is the
// line including its diff-role marker; keyword matching and the bonus rules
// operate on the stripped content, except for the changed-line bonus which
// inspects the marker itself.
func scoreLine(raw string, keywords []string, commentLower string) float64 {
	content, _ := SplitMarker(raw)
	if strings.TrimSpace(content) == "" {
		return 0
	}

	contentLower := strings.ToLower(content)

	var score float64
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			score += verbatimMatchScore
		} else if strings.Contains(contentLower, strings.ToLower(kw)) {
			score += caseFoldMatchScore
		}
	}

	if strings.Contains(commentLower, "result") && strings.Contains(contentLower, "result") {
		score += resultBonus
	}
	if strings.Contains(commentLower, "variable") && strings.Contains(content, "=") {
		score += assignmentBonus
	}
	if strings.Contains(commentLower, "assignment") && strings.Contains(content, "=") {
		score += assignmentBonus
	}
	if strings.Contains(commentLower, "unnecessary") &&
		(strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-")) {
		score += changedLineBonus
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
		score *= commentSyntaxDemotion
	}

	return score
}
