package domain

// CommentKind classifies a review comment or action.
type CommentKind string

// Comment kind constants matching the transaction types of the review service.
const (
	CommentGeneral        CommentKind = "comment"
	CommentInline         CommentKind = "inline"
	CommentAccept         CommentKind = "accept"
	CommentReject         CommentKind = "reject"
	CommentRequestChanges CommentKind = "request-changes"
)

// IsReviewAction reports whether the kind is an accept/reject style action
// rather than textual feedback.
func (k CommentKind) IsReviewAction() bool {
	switch k {
	case CommentAccept, CommentReject, CommentRequestChanges:
		return true
	}
	return false
}

// Anchor is an explicit (file, line) location attached to a comment by the
// originating review system. IsNewFile selects the post-change side.
type Anchor struct {
	FilePath  string `json:"path"`
	Line      int    `json:"line"`
	IsNewFile bool   `json:"is_new_file"`
}

// Comment is a single review comment or action. Comments are read-only inputs
// to the correlation engine; enrichment produces derived records and never
// mutates the source comment.
type Comment struct {
	Author  string      `json:"author"`
	Content string      `json:"content"`
	Kind    CommentKind `json:"kind"`
	Anchor  *Anchor     `json:"anchor,omitempty"`
}

// Anchored reports whether the comment carries a usable explicit anchor.
func (c Comment) Anchored() bool {
	return c.Anchor != nil && c.Anchor.FilePath != "" && c.Anchor.Line > 0
}
