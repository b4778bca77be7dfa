package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reviewflow/differential-mcp/internal/domain"
	"github.com/reviewflow/differential-mcp/internal/phabricator"
	"github.com/reviewflow/differential-mcp/internal/review"
)

const maxSnippetLen = 60

// Section order for the feedback report, highest priority first.
var feedbackSections = []struct {
	title    string
	category review.Category
}{
	{"🚨 ISSUES TO FIX", review.CategoryIssue},
	{"💡 SUGGESTIONS", review.CategorySuggestion},
	{"🔧 NITS & STYLE", review.CategoryNit},
	{"📝 OTHER FEEDBACK", review.CategoryOther},
}

// FeedbackReport renders the correlation engine's output as a prioritized,
// actionable review report: feedback grouped by category, each item with its
// code context and alternate-location hints, then a flat action-item list.
func FeedbackReport(rev *phabricator.Revision, results []domain.CorrelationResult) string {
	actionable := actionableResults(results)

	rule := strings.Repeat("=", 80)
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Review Feedback Analysis for D%d\n", rev.ID)
	fmt.Fprintf(&sb, "Title: %s\n", orUnknown(rev.Title, "No title"))
	fmt.Fprintf(&sb, "Status: %s\n", orUnknown(rev.Status, "Unknown status"))
	sb.WriteString(rule + "\n\n")
	fmt.Fprintf(&sb, "%d comments, %d with code context\n\n", len(actionable), withContextCount(actionable))
	sb.WriteString(rule)

	if len(actionable) == 0 {
		sb.WriteString("\n✅ No actionable review feedback found!")
		return sb.String()
	}

	grouped := review.GroupByCategory(actionable)
	for _, section := range feedbackSections {
		items := grouped[section.category]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n\n%s (%d items)\n%s", section.title, len(items),
			strings.Repeat("=", len(section.title)))
		for i, item := range items {
			fmt.Fprintf(&sb, "\n\n%d. %s", i+1, feedbackItem(item))
		}
	}

	sb.WriteString("\n\n" + rule + "\n📋 ACTION ITEMS:\n")
	sb.WriteString(actionItems(actionable))
	return sb.String()
}

// actionableResults drops review actions and empty comments; what remains is
// feedback somebody has to address.
func actionableResults(results []domain.CorrelationResult) []domain.CorrelationResult {
	var actionable []domain.CorrelationResult
	for _, r := range results {
		if r.Comment.Kind.IsReviewAction() && r.Comment.Content == "" {
			continue
		}
		if strings.TrimSpace(r.Comment.Content) == "" {
			continue
		}
		actionable = append(actionable, r)
	}
	return actionable
}

func withContextCount(results []domain.CorrelationResult) int {
	n := 0
	for _, r := range results {
		if r.Context != nil {
			n++
		}
	}
	return n
}

func feedbackItem(r domain.CorrelationResult) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("💬 %s: %s",
		orUnknown(r.Comment.Author, "unknown"), r.Comment.Content))

	if r.Context != nil {
		rule := "   " + strings.Repeat("-", 50)
		parts = append(parts, fmt.Sprintf("\n   📍 Location: %s:%d", r.Context.FilePath, r.Context.TargetLine))
		parts = append(parts, "   "+r.Context.HunkHeader, rule)
		for _, line := range r.Context.Lines {
			if line.IsTarget {
				parts = append(parts, fmt.Sprintf("   >>> %4d | %s  ⟵ COMMENTED LINE", line.Number, line.Content))
				continue
			}
			marker := "    "
			switch line.Role {
			case domain.RoleAdded:
				marker = "+   "
			case domain.RoleRemoved:
				marker = "-   "
			}
			parts = append(parts, fmt.Sprintf("   %s%4d | %s", marker, line.Number, line.Content))
		}
		parts = append(parts, rule)
	}

	if len(r.Alternates) > 0 {
		parts = append(parts, "   💡 Also check similar code at:")
		for _, alt := range r.Alternates {
			parts = append(parts, fmt.Sprintf("      • %s:%d - %s", alt.FilePath, alt.Line, clip(alt.Snippet)))
		}
	}

	return strings.Join(parts, "\n")
}

func actionItems(results []domain.CorrelationResult) string {
	var items []string
	for _, r := range results {
		if r.Context != nil {
			items = append(items, fmt.Sprintf("• %s:%d - %s",
				r.Context.FilePath, r.Context.TargetLine, clip(r.Comment.Content)))
		} else {
			items = append(items, "• General: "+clip(r.Comment.Content))
		}
	}
	if len(items) == 0 {
		return "• Review feedback received but no specific action items identified"
	}
	return strings.Join(items, "\n")
}

func clip(s string) string {
	if len(s) <= maxSnippetLen {
		return s
	}
	cut := maxSnippetLen
	// Back off to a rune boundary so the cut never splits a multi-byte rune.
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
