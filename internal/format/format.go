// Package format renders revision, task and feedback data as display text
// for MCP tool responses. It is a pure presentation layer over the domain
// model; nothing here mutates its inputs.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reviewflow/differential-mcp/internal/domain"
	"github.com/reviewflow/differential-mcp/internal/phabricator"
)

const (
	maxDisplayedHunks     = 3
	maxDisplayedHunkLines = 10
)

// RevisionDetails renders revision metadata with an optional comment list.
func RevisionDetails(rev *phabricator.Revision, comments []domain.Comment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Revision D%d: %s\n", rev.ID, orUnknown(rev.Title, "No title"))
	fmt.Fprintf(&sb, "Status: %s\n", orUnknown(rev.Status, "Unknown status"))
	fmt.Fprintf(&sb, "Author: %s\n\n", orUnknown(rev.Author, "Unknown author"))
	fmt.Fprintf(&sb, "Summary:\n%s", orUnknown(rev.Summary, "No summary"))

	if comments != nil {
		fmt.Fprintf(&sb, "\n\nComments:\n%s", Comments(comments))
	}
	return sb.String()
}

// TaskDetails renders task metadata with an optional comment list.
func TaskDetails(task *phabricator.Task, comments []domain.Comment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task T%d: %s\n", task.ID, orUnknown(task.Title, "No title"))
	fmt.Fprintf(&sb, "Status: %s\n", orUnknown(task.Status, "Unknown status"))
	fmt.Fprintf(&sb, "Priority: %s\n\n", orUnknown(task.Priority, "Unknown priority"))
	fmt.Fprintf(&sb, "Description:\n%s", orUnknown(task.Description, "No description"))

	if comments != nil {
		fmt.Fprintf(&sb, "\n\nComments:\n%s", Comments(comments))
	}
	return sb.String()
}

// Comments renders a flat comment list. System actions without content are
// dropped here rather than at fetch time.
func Comments(comments []domain.Comment) string {
	var parts []string
	for _, c := range comments {
		author := orUnknown(c.Author, "Unknown author")
		switch c.Kind {
		case domain.CommentAccept:
			parts = append(parts, fmt.Sprintf("✅ %s: ACCEPTED", author))
		case domain.CommentReject, domain.CommentRequestChanges:
			line := fmt.Sprintf("❌ %s: REQUESTED CHANGES", author)
			if c.Content != "" {
				line += fmt.Sprintf("\n   Comment: %s", c.Content)
			}
			parts = append(parts, line)
		case domain.CommentInline:
			loc := "unknown location"
			if c.Anchor != nil {
				loc = fmt.Sprintf("%s:%d", c.Anchor.FilePath, c.Anchor.Line)
			}
			parts = append(parts, fmt.Sprintf("💬 %s (inline %s): %s", author, loc, c.Content))
		default:
			if c.Content != "" {
				parts = append(parts, fmt.Sprintf("💬 %s: %s", author, c.Content))
			}
		}
	}
	if len(parts) == 0 {
		return "No comments"
	}
	return strings.Join(parts, "\n\n")
}

// CodeChanges renders a diff summary: one header per file with change-kind
// marker, then capped hunks and lines.
func CodeChanges(files []domain.DiffFile) string {
	if len(files) == 0 {
		return "No code changes"
	}

	var lines []string
	for _, f := range files {
		lines = append(lines, fileHeader(f))

		hunks := f.Hunks
		truncatedHunks := false
		if len(hunks) > maxDisplayedHunks {
			hunks = hunks[:maxDisplayedHunks]
			truncatedHunks = true
		}

		for _, h := range hunks {
			lines = append(lines, "  "+h.Header())
			corpus := h.Corpus
			truncatedLines := false
			if len(corpus) > maxDisplayedHunkLines {
				corpus = corpus[:maxDisplayedHunkLines]
				truncatedLines = true
			}
			for _, raw := range corpus {
				if strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-") {
					lines = append(lines, "  "+raw)
				} else if strings.TrimSpace(raw) != "" {
					lines = append(lines, "   "+raw)
				}
			}
			if truncatedLines {
				lines = append(lines, "  ... (truncated)")
			}
		}
		if truncatedHunks {
			lines = append(lines, fmt.Sprintf("  ... and %d more hunks", len(f.Hunks)-maxDisplayedHunks))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func fileHeader(f domain.DiffFile) string {
	switch f.Kind {
	case domain.ChangeAdd:
		return "📁 NEW: " + f.NewPath
	case domain.ChangeDelete:
		return "🗑️ DELETED: " + f.OldPath
	case domain.ChangeMove:
		return fmt.Sprintf("📂 MOVED: %s → %s", f.OldPath, f.NewPath)
	default:
		return "📝 MODIFIED: " + f.NewPath
	}
}

// EnhancedRevision renders the full detailed view: revision metadata, grouped
// review feedback with context windows, and the code-change summary.
func EnhancedRevision(rev *phabricator.Revision, results []domain.CorrelationResult, changes *phabricator.CodeChanges) string {
	var sb strings.Builder
	sb.WriteString(RevisionDetails(rev, nil))

	sb.WriteString("\n\nREVIEW FEEDBACK:\n===============\n")
	sb.WriteString(GroupedComments(results))

	if changes != nil && len(changes.Files) > 0 {
		sb.WriteString("\n\nCODE CHANGES:\n============\n")
		fmt.Fprintf(&sb, "Diff ID: %s\n", orUnknown(changes.DiffID, "Unknown"))
		fmt.Fprintf(&sb, "Author: %s\n\n", orUnknown(changes.Author, "Unknown"))
		sb.WriteString(CodeChanges(changes.Files))
	}
	return sb.String()
}

// GroupedComments renders enriched comments in sections: review actions
// first, then general comments, then inline comments grouped by file and
// sorted by line.
func GroupedComments(results []domain.CorrelationResult) string {
	var actions, general, inline []domain.CorrelationResult
	for _, r := range results {
		c := r.Comment
		if c.Content == "" && !c.Kind.IsReviewAction() {
			continue
		}
		switch {
		case c.Kind.IsReviewAction():
			actions = append(actions, r)
		case c.Kind == domain.CommentInline:
			inline = append(inline, r)
		default:
			general = append(general, r)
		}
	}

	if len(actions)+len(general)+len(inline) == 0 {
		return "No comments"
	}

	var sections []string
	rule := strings.Repeat("=", 50)

	if len(actions) > 0 {
		sections = append(sections, "REVIEW ACTIONS:", rule)
		for _, r := range actions {
			sections = append(sections, Comments([]domain.Comment{r.Comment}))
		}
		sections = append(sections, "")
	}

	if len(general) > 0 {
		sections = append(sections, "GENERAL COMMENTS:", rule)
		for _, r := range general {
			sections = append(sections, fmt.Sprintf("💬 %s:\n   %s",
				orUnknown(r.Comment.Author, "Unknown author"), r.Comment.Content))
		}
		sections = append(sections, "")
	}

	if len(inline) > 0 {
		sections = append(sections, "INLINE COMMENTS:", rule)
		sections = append(sections, inlineByFile(inline)...)
	}

	return strings.Join(sections, "\n")
}

func inlineByFile(results []domain.CorrelationResult) []string {
	byFile := map[string][]domain.CorrelationResult{}
	for _, r := range results {
		byFile[inlineFile(r)] = append(byFile[inlineFile(r)], r)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []string
	for _, f := range files {
		out = append(out, "\n📁 "+f, strings.Repeat("-", len(f)+4))

		fileResults := byFile[f]
		sort.SliceStable(fileResults, func(a, b int) bool {
			return inlineLine(fileResults[a]) < inlineLine(fileResults[b])
		})
		for _, r := range fileResults {
			out = append(out, inlineWithContext(r))
		}
	}
	return out
}

func inlineFile(r domain.CorrelationResult) string {
	if r.Comment.Anchor != nil && r.Comment.Anchor.FilePath != "" {
		return r.Comment.Anchor.FilePath
	}
	if r.Best != nil {
		return r.Best.FilePath
	}
	return "Unknown file"
}

func inlineLine(r domain.CorrelationResult) int {
	if r.Comment.Anchor != nil {
		return r.Comment.Anchor.Line
	}
	if r.Best != nil {
		return r.Best.Line
	}
	return 0
}

func inlineWithContext(r domain.CorrelationResult) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("\n  Line %d - %s:",
		inlineLine(r), orUnknown(r.Comment.Author, "Unknown author")))

	if r.Context != nil {
		rule := "  " + strings.Repeat("-", 60)
		parts = append(parts, "  "+r.Context.HunkHeader, rule)
		for _, line := range r.Context.Lines {
			marker := "   "
			if line.IsTarget {
				marker = ">>>"
			}
			parts = append(parts, fmt.Sprintf("  %s %4d | %s", marker, line.Number, line.Content))
		}
		parts = append(parts, rule)
	}

	parts = append(parts, "  💬 "+r.Comment.Content)
	return strings.Join(parts, "\n")
}

func orUnknown(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
