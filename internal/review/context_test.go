package review

import (
	"errors"
	"testing"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

func sampleFiles() []domain.DiffFile {
	return []domain.DiffFile{
		{
			OldPath: "src/util.go",
			NewPath: "src/util.go",
			Kind:    domain.ChangeModify,
			Hunks: []domain.Hunk{
				{
					OldOffset: 10, OldLength: 4,
					NewOffset: 10, NewLength: 5,
					Corpus: []string{"no", " foo", "+bar", "-baz", " qux"},
				},
				{
					OldOffset: 40, OldLength: 2,
					NewOffset: 42, NewLength: 3,
					Corpus: []string{" a", "+b", " c"},
				},
			},
		},
		{
			OldPath: "",
			NewPath: "src/new.go",
			Kind:    domain.ChangeAdd,
			Hunks: []domain.Hunk{
				{NewOffset: 1, NewLength: 2, Corpus: []string{"+x := 1", "+y := 2"}},
			},
		},
	}
}

func TestExtractContext_WindowAroundTarget(t *testing.T) {
	window, err := ExtractContext("src/util.go", 12, sampleFiles(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if window == nil {
		t.Fatal("Expected a window, got nil")
	}

	if window.HunkHeader != "@@ -10,4 +10,5 @@" {
		t.Errorf("Unexpected hunk header: %q", window.HunkHeader)
	}
	if len(window.Lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(window.Lines))
	}

	expected := []struct {
		number  int
		content string
		role    domain.LineRole
		target  bool
	}{
		{11, "foo", domain.RoleContext, false},
		{12, "bar", domain.RoleAdded, true},
		{13, "baz", domain.RoleRemoved, false},
	}
	for i, want := range expected {
		got := window.Lines[i]
		if got.Number != want.number {
			t.Errorf("Line %d: expected number %d, got %d", i, want.number, got.Number)
		}
		if got.Content != want.content {
			t.Errorf("Line %d: expected content %q, got %q", i, want.content, got.Content)
		}
		if got.Role != want.role {
			t.Errorf("Line %d: expected role %s, got %s", i, want.role, got.Role)
		}
		if got.IsTarget != want.target {
			t.Errorf("Line %d: expected target=%v, got %v", i, want.target, got.IsTarget)
		}
	}
}

func TestExtractContext_ExactlyOneTarget(t *testing.T) {
	files := sampleFiles()
	for line := 10; line < 15; line++ {
		window, err := ExtractContext("src/util.go", line, files, 3)
		if err != nil {
			t.Fatalf("Line %d: unexpected error: %v", line, err)
		}
		if window == nil {
			t.Fatalf("Line %d: expected a window", line)
		}

		targets := 0
		for _, l := range window.Lines {
			if l.IsTarget {
				targets++
				if l.Number != line {
					t.Errorf("Line %d: target has number %d", line, l.Number)
				}
			}
		}
		if targets != 1 {
			t.Errorf("Line %d: expected exactly 1 target, got %d", line, targets)
		}
	}
}

func TestExtractContext_LineOutsideEveryHunk(t *testing.T) {
	tests := []struct {
		name string
		line int
	}{
		{"before first hunk", 9},
		{"between hunks", 20},
		{"at new range end", 15},
		{"after last hunk", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := ExtractContext("src/util.go", tt.line, sampleFiles(), 2)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if window != nil {
				t.Errorf("Expected absent window for line %d, got %+v", tt.line, window)
			}
		})
	}
}

func TestExtractContext_UnknownFile(t *testing.T) {
	window, err := ExtractContext("src/missing.go", 12, sampleFiles(), 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if window != nil {
		t.Error("Expected absent window for unknown file")
	}
}

func TestExtractContext_WindowSizeBound(t *testing.T) {
	files := sampleFiles()
	for radius := 0; radius <= 4; radius++ {
		window, err := ExtractContext("src/util.go", 12, files, radius)
		if err != nil {
			t.Fatalf("Radius %d: unexpected error: %v", radius, err)
		}
		if window == nil {
			t.Fatalf("Radius %d: expected a window", radius)
		}
		if max := 2*radius + 1; len(window.Lines) > max {
			t.Errorf("Radius %d: window has %d lines, max %d", radius, len(window.Lines), max)
		}
	}
}

func TestExtractContext_ZeroRadiusSingleLine(t *testing.T) {
	window, err := ExtractContext("src/util.go", 12, sampleFiles(), 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(window.Lines) != 1 {
		t.Fatalf("Expected single-line window, got %d lines", len(window.Lines))
	}
	if !window.Lines[0].IsTarget || window.Lines[0].Number != 12 {
		t.Errorf("Unexpected single line: %+v", window.Lines[0])
	}
}

func TestExtractContext_NegativeRadius(t *testing.T) {
	_, err := ExtractContext("src/util.go", 12, sampleFiles(), -1)
	if !errors.Is(err, ErrNegativeRadius) {
		t.Fatalf("Expected ErrNegativeRadius, got %v", err)
	}
}

func TestExtractContext_CorpusShorterThanRange(t *testing.T) {
	// NewLength claims 10 lines but the corpus only has 2; line 8 is inside
	// the declared range but past the corpus, so the clipped window is empty.
	files := []domain.DiffFile{{
		NewPath: "a.go",
		Hunks:   []domain.Hunk{{NewOffset: 1, NewLength: 10, Corpus: []string{" x", " y"}}},
	}}

	window, err := ExtractContext("a.go", 8, files, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if window == nil {
		t.Fatal("Expected a window for an in-range line")
	}
	if len(window.Lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(window.Lines))
	}
}

func TestExtractContext_ZeroValuedHunkFields(t *testing.T) {
	// Malformed hunk metadata decodes to zero values; extraction proceeds
	// rather than failing, and simply never matches a positive line number.
	files := []domain.DiffFile{{
		NewPath: "a.go",
		Hunks:   []domain.Hunk{{Corpus: []string{" x"}}},
	}}

	window, err := ExtractContext("a.go", 1, files, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("Expected absent window, got %+v", window)
	}
}

func TestHunkHeaderFormat(t *testing.T) {
	h := domain.Hunk{OldOffset: 3, OldLength: 7, NewOffset: 4, NewLength: 8}
	if got := h.Header(); got != "@@ -3,7 +4,8 @@" {
		t.Errorf("Unexpected header: %q", got)
	}
}
