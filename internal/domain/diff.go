package domain

import "fmt"

// ChangeKind classifies how a file was affected by a revision.
type ChangeKind string

// Change kind constants matching the values reported by the review service.
const (
	ChangeAdd    ChangeKind = "add"
	ChangeDelete ChangeKind = "delete"
	ChangeModify ChangeKind = "modify"
	ChangeMove   ChangeKind = "move"
)

// Hunk is a contiguous block of a unified diff. Corpus holds the raw text
// lines of the block, each optionally prefixed with a diff-role marker
// ('+' added, '-' removed, ' ' context). Corpus length is not guaranteed to
// agree with NewLength; offsets are taken at face value.
type Hunk struct {
	OldOffset int      `json:"old_offset"`
	OldLength int      `json:"old_length"`
	NewOffset int      `json:"new_offset"`
	NewLength int      `json:"new_length"`
	Corpus    []string `json:"corpus"`
}

// Header renders the hunk's coordinates in unified-diff header form.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldOffset, h.OldLength, h.NewOffset, h.NewLength)
}

// ContainsNewLine reports whether line falls within the hunk's new-file range.
func (h Hunk) ContainsNewLine(line int) bool {
	return line >= h.NewOffset && line < h.NewOffset+h.NewLength
}

// DiffFile is one file's worth of changes in a revision snapshot. Files are
// looked up by NewPath; a snapshot carries at most one DiffFile per path.
type DiffFile struct {
	OldPath string     `json:"old_path"`
	NewPath string     `json:"new_path"`
	Kind    ChangeKind `json:"change_kind"`
	Hunks   []Hunk     `json:"hunks"`
}

// LineRole is the diff role of a single context line.
type LineRole string

// Line role constants derived from the corpus line's leading marker.
const (
	RoleAdded   LineRole = "added"
	RoleRemoved LineRole = "removed"
	RoleContext LineRole = "context"
)

// ContextLine is one line of a context window. Content carries the corpus
// text with its diff-role marker stripped; Number is in new-file coordinates.
type ContextLine struct {
	Number   int      `json:"line_number"`
	Content  string   `json:"content"`
	Role     LineRole `json:"role"`
	IsTarget bool     `json:"is_target"`
}

// ContextWindow is a bounded slice of source lines surrounding a target line,
// ordered by ascending line number. At most one line is marked as the target.
type ContextWindow struct {
	FilePath   string        `json:"file"`
	TargetLine int           `json:"target_line"`
	HunkHeader string        `json:"hunk_header"`
	Lines      []ContextLine `json:"lines"`
}

// Location is a scored candidate position for a comment. Snippet holds the
// trimmed line content for display alongside alternate locations.
type Location struct {
	FilePath string  `json:"file"`
	Line     int     `json:"line"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// CorrelationResult is the enriched record produced for a single comment.
// Best and Context are nil when no location could be established; Alternates
// holds up to two runner-up locations with strictly lower scores.
type CorrelationResult struct {
	Comment    Comment        `json:"comment"`
	Best       *Location      `json:"best_location,omitempty"`
	Context    *ContextWindow `json:"context,omitempty"`
	Alternates []Location     `json:"alternate_locations,omitempty"`
}
