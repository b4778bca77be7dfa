package phabricator

import (
	"strings"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

// rawDiff is the differential.querydiffs entry shape. Numeric fields arrive
// as strings on most instances.
type rawDiff struct {
	DateCreated flexInt     `json:"dateCreated"`
	AuthorName  string      `json:"authorName"`
	Description string      `json:"description"`
	Changes     []rawChange `json:"changes"`
}

type rawChange struct {
	OldPath     string    `json:"oldPath"`
	CurrentPath string    `json:"currentPath"`
	Type        string    `json:"type"`
	Hunks       []rawHunk `json:"hunks"`
}

type rawHunk struct {
	OldOffset flexInt `json:"oldOffset"`
	OldLength flexInt `json:"oldLength"`
	NewOffset flexInt `json:"newOffset"`
	NewLength flexInt `json:"newLength"`
	Corpus    string  `json:"corpus"`
}

// latestDiff picks the newest diff from a querydiffs result by creation time.
func latestDiff(diffs map[string]rawDiff) (string, rawDiff) {
	var latestID string
	var latest rawDiff
	for id, d := range diffs {
		if latestID == "" || int(d.DateCreated) > int(latest.DateCreated) ||
			(int(d.DateCreated) == int(latest.DateCreated) && id > latestID) {
			latestID = id
			latest = d
		}
	}
	return latestID, latest
}

// mapChanges converts raw diff changes into domain diff files.
func mapChanges(changes []rawChange) []domain.DiffFile {
	files := make([]domain.DiffFile, 0, len(changes))
	for _, ch := range changes {
		files = append(files, domain.DiffFile{
			OldPath: ch.OldPath,
			NewPath: ch.CurrentPath,
			Kind:    mapChangeKind(ch.Type),
			Hunks:   mapHunks(ch.Hunks),
		})
	}
	return files
}

func mapHunks(hunks []rawHunk) []domain.Hunk {
	mapped := make([]domain.Hunk, 0, len(hunks))
	for _, h := range hunks {
		mapped = append(mapped, domain.Hunk{
			OldOffset: int(h.OldOffset),
			OldLength: int(h.OldLength),
			NewOffset: int(h.NewOffset),
			NewLength: int(h.NewLength),
			Corpus:    strings.Split(h.Corpus, "\n"),
		})
	}
	return mapped
}

func mapChangeKind(t string) domain.ChangeKind {
	switch t {
	case "add", "1":
		return domain.ChangeAdd
	case "delete", "3":
		return domain.ChangeDelete
	case "move", "move_here", "6":
		return domain.ChangeMove
	default:
		return domain.ChangeModify
	}
}

// mapRevisionSearch maps a differential.revision.search entry (nested fields
// object) into a Revision.
func mapRevisionSearch(data map[string]any) *Revision {
	fields := mapField(data, "fields")
	if fields == nil {
		fields = map[string]any{}
	}
	status := mapField(fields, "status")
	return &Revision{
		ID:      intField(data, "id"),
		Title:   stringField(fields, "title"),
		Summary: stringField(fields, "summary"),
		Status:  stringField(status, "name"),
		Author:  stringField(fields, "authorPHID"),
	}
}

// mapRevisionQuery maps a legacy differential.query entry (flat fields).
func mapRevisionQuery(data map[string]any) *Revision {
	return &Revision{
		ID:      intField(data, "id"),
		Title:   stringField(data, "title"),
		Summary: stringField(data, "summary"),
		Status:  stringField(data, "statusName"),
		Author:  stringField(data, "authorPHID"),
	}
}

// mapTask maps a maniphest.search entry.
func mapTask(data map[string]any) *Task {
	fields := mapField(data, "fields")
	if fields == nil {
		fields = map[string]any{}
	}
	status := mapField(fields, "status")
	priority := mapField(fields, "priority")
	description := mapField(fields, "description")
	return &Task{
		ID:          intField(data, "id"),
		Title:       stringField(fields, "name", "title"),
		Description: stringField(description, "raw"),
		Status:      stringField(status, "name"),
		Priority:    stringField(priority, "name"),
	}
}

// commentKind normalizes a transaction type/action string to a domain kind.
func commentKind(t string) (domain.CommentKind, bool) {
	switch t {
	case "comment", "core:comment":
		return domain.CommentGeneral, true
	case "inline":
		return domain.CommentInline, true
	case "accept":
		return domain.CommentAccept, true
	case "reject":
		return domain.CommentReject, true
	case "request-changes":
		return domain.CommentRequestChanges, true
	}
	return "", false
}

// commentContent digs comment text out of the several shapes Conduit uses:
// a plain string under content/comments/comment, or a list of comment objects
// each carrying content.raw.
func commentContent(m map[string]any) string {
	for _, key := range []string{"content", "comments", "comment"} {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			for _, entry := range v {
				obj, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				content := mapField(obj, "content")
				if raw := stringField(content, "raw"); raw != "" {
					return raw
				}
			}
		case map[string]any:
			if raw := stringField(v, "raw"); raw != "" {
				return raw
			}
		}
	}
	return ""
}

// commentAnchor extracts an inline comment's file/line anchor, checking the
// nested fields object first and falling back to top-level keys. The exact
// field names vary between Phabricator versions.
func commentAnchor(m map[string]any) *domain.Anchor {
	fields := mapField(m, "fields")

	path := ""
	line := 0
	isNew := true
	if fields != nil {
		path = stringField(fields, "path", "file")
		line = intField(fields, "line", "lineNumber")
		if v, ok := fields["isNewFile"].(bool); ok {
			isNew = v
		}
	}
	if path == "" {
		path = stringField(m, "path", "file")
	}
	if line == 0 {
		line = intField(m, "line", "lineNumber")
	}

	if path == "" || line == 0 {
		return nil
	}
	return &domain.Anchor{FilePath: path, Line: line, IsNewFile: isNew}
}

// mapTransaction converts one raw transaction into a domain comment. The
// second return is false for transaction types that are not review feedback.
func mapTransaction(m map[string]any) (domain.Comment, bool) {
	kind, ok := commentKind(stringField(m, "type", "action", "transactionType"))
	if !ok {
		return domain.Comment{}, false
	}

	comment := domain.Comment{
		Author:  stringField(m, "authorPHID"),
		Content: commentContent(m),
		Kind:    kind,
	}
	if kind == domain.CommentInline {
		comment.Anchor = commentAnchor(m)
	}
	return comment, true
}
