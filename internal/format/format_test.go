package format

import (
	"strings"
	"testing"

	"github.com/reviewflow/differential-mcp/internal/domain"
	"github.com/reviewflow/differential-mcp/internal/phabricator"
)

func TestRevisionDetails(t *testing.T) {
	rev := &phabricator.Revision{ID: 12, Title: "Add cache", Status: "Needs Review", Author: "PHID-USER-1", Summary: "caches things"}

	out := RevisionDetails(rev, nil)
	for _, want := range []string{"Revision D12: Add cache", "Status: Needs Review", "Summary:\ncaches things"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Comments:") {
		t.Error("Nil comments must not render a comments section")
	}
}

func TestComments_KindsAndEmptyFiltering(t *testing.T) {
	comments := []domain.Comment{
		{Author: "a", Kind: domain.CommentAccept},
		{Author: "b", Kind: domain.CommentRequestChanges, Content: "add tests"},
		{Author: "c", Kind: domain.CommentInline, Content: "rename", Anchor: &domain.Anchor{FilePath: "x.go", Line: 4}},
		{Author: "d", Kind: domain.CommentGeneral, Content: ""},
		{Author: "e", Kind: domain.CommentGeneral, Content: "nice"},
	}

	out := Comments(comments)
	for _, want := range []string{"✅ a: ACCEPTED", "❌ b: REQUESTED CHANGES", "Comment: add tests", "(inline x.go:4)", "💬 e: nice"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "💬 d") {
		t.Error("Empty general comment must be dropped")
	}
}

func TestComments_Empty(t *testing.T) {
	if got := Comments(nil); got != "No comments" {
		t.Errorf("Expected 'No comments', got %q", got)
	}
}

func TestCodeChanges_MarkersAndTruncation(t *testing.T) {
	long := make([]string, 15)
	for i := range long {
		long[i] = "+line"
	}
	files := []domain.DiffFile{
		{NewPath: "new.go", Kind: domain.ChangeAdd, Hunks: []domain.Hunk{{NewOffset: 1, NewLength: 15, Corpus: long}}},
		{OldPath: "gone.go", Kind: domain.ChangeDelete},
		{OldPath: "a.go", NewPath: "b.go", Kind: domain.ChangeMove},
		{NewPath: "m.go", Kind: domain.ChangeModify, Hunks: []domain.Hunk{{}, {}, {}, {}, {}}},
	}

	out := CodeChanges(files)
	for _, want := range []string{"📁 NEW: new.go", "🗑️ DELETED: gone.go", "📂 MOVED: a.go → b.go", "📝 MODIFIED: m.go", "... (truncated)", "... and 2 more hunks"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestGroupedComments_SectionsAndFileOrder(t *testing.T) {
	results := []domain.CorrelationResult{
		{Comment: domain.Comment{Author: "z", Kind: domain.CommentInline, Content: "later file",
			Anchor: &domain.Anchor{FilePath: "zz.go", Line: 9}}},
		{Comment: domain.Comment{Author: "a", Kind: domain.CommentInline, Content: "earlier file",
			Anchor: &domain.Anchor{FilePath: "aa.go", Line: 2}}},
		{Comment: domain.Comment{Author: "r", Kind: domain.CommentAccept}},
		{Comment: domain.Comment{Author: "g", Kind: domain.CommentGeneral, Content: "overall fine"}},
	}

	out := GroupedComments(results)
	actionsIdx := strings.Index(out, "REVIEW ACTIONS:")
	generalIdx := strings.Index(out, "GENERAL COMMENTS:")
	inlineIdx := strings.Index(out, "INLINE COMMENTS:")
	if actionsIdx == -1 || generalIdx == -1 || inlineIdx == -1 {
		t.Fatalf("Missing section headers:\n%s", out)
	}
	if !(actionsIdx < generalIdx && generalIdx < inlineIdx) {
		t.Errorf("Sections out of order:\n%s", out)
	}
	if strings.Index(out, "📁 aa.go") > strings.Index(out, "📁 zz.go") {
		t.Errorf("Files not sorted:\n%s", out)
	}
}

func TestInlineWithContext_TargetMarker(t *testing.T) {
	results := []domain.CorrelationResult{{
		Comment: domain.Comment{Author: "a", Kind: domain.CommentInline, Content: "here",
			Anchor: &domain.Anchor{FilePath: "x.go", Line: 12}},
		Context: &domain.ContextWindow{
			FilePath: "x.go", TargetLine: 12, HunkHeader: "@@ -10,4 +10,5 @@",
			Lines: []domain.ContextLine{
				{Number: 11, Content: "foo", Role: domain.RoleContext},
				{Number: 12, Content: "bar", Role: domain.RoleAdded, IsTarget: true},
			},
		},
	}}

	out := GroupedComments(results)
	if !strings.Contains(out, "@@ -10,4 +10,5 @@") {
		t.Errorf("Missing hunk header:\n%s", out)
	}
	if !strings.Contains(out, ">>>   12 | bar") {
		t.Errorf("Missing target marker:\n%s", out)
	}
}
