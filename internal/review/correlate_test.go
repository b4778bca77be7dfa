package review

import (
	"errors"
	"reflect"
	"testing"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

func singleFile(path string, hunks ...domain.Hunk) []domain.DiffFile {
	return []domain.DiffFile{{NewPath: path, Kind: domain.ChangeModify, Hunks: hunks}}
}

func TestCorrelate_ResultVariableScenario(t *testing.T) {
	files := singleFile("calc.py", domain.Hunk{
		NewOffset: 5, NewLength: 3,
		Corpus: []string{" import os", "+result = compute()", " print(done)"},
	})

	corr, err := Correlate("the result variable is unused", files, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if corr.Best == nil {
		t.Fatal("Expected a best location")
	}
	if corr.Best.FilePath != "calc.py" || corr.Best.Line != 6 {
		t.Errorf("Unexpected best location: %+v", corr.Best)
	}
	// "result" bonus (+1.5) and "variable" + '=' bonus (+1.0) apply on top of
	// any keyword matches, so the score must clear 2.0.
	if corr.Best.Score < 2.0 {
		t.Errorf("Expected score >= 2.0, got %f", corr.Best.Score)
	}
	if corr.Best.Snippet != "result = compute()" {
		t.Errorf("Unexpected snippet: %q", corr.Best.Snippet)
	}
	if corr.Context == nil {
		t.Fatal("Expected a context window for the best location")
	}
	if corr.Context.TargetLine != 6 {
		t.Errorf("Expected context target 6, got %d", corr.Context.TargetLine)
	}
}

func TestCorrelate_NoSignalNoCandidates(t *testing.T) {
	files := singleFile("doc.go", domain.Hunk{
		NewOffset: 1, NewLength: 3,
		Corpus: []string{"+// overview", "+# notes", "+// more prose"},
	})

	corr, err := Correlate("fine by me", files, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if corr.Best != nil {
		t.Errorf("Expected no best location, got %+v", corr.Best)
	}
	if corr.Context != nil {
		t.Error("Expected no context")
	}
	if len(corr.Alternates) != 0 {
		t.Errorf("Expected no alternates, got %v", corr.Alternates)
	}
}

func TestCorrelate_EmptyFileSet(t *testing.T) {
	corr, err := Correlate("anything about parseInput", nil, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if corr.Best != nil || corr.Context != nil || len(corr.Alternates) != 0 {
		t.Errorf("Expected empty correlation, got %+v", corr)
	}
}

func TestCorrelate_TieKeepsDiscoveryOrder(t *testing.T) {
	// Identical lines in two files tie; the first-discovered file wins.
	hunk := domain.Hunk{
		NewOffset: 1, NewLength: 1,
		Corpus: []string{" x = parseInput(raw)"},
	}
	files := []domain.DiffFile{
		{NewPath: "a.go", Hunks: []domain.Hunk{hunk}},
		{NewPath: "b.go", Hunks: []domain.Hunk{hunk}},
	}

	corr, err := Correlate("parseInput mishandles raw bytes", files, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if corr.Best == nil || corr.Best.FilePath != "a.go" {
		t.Fatalf("Expected best in a.go, got %+v", corr.Best)
	}
	// The tied line in b.go does not qualify as an alternate: alternates must
	// score strictly below the best.
	for _, alt := range corr.Alternates {
		if alt.Score >= corr.Best.Score {
			t.Errorf("Alternate %+v does not score below best %f", alt, corr.Best.Score)
		}
	}
}

func TestCorrelate_Deterministic(t *testing.T) {
	files := singleFile("m.go",
		domain.Hunk{NewOffset: 1, NewLength: 2, Corpus: []string{"+total := sumValues(a)", " other"}},
		domain.Hunk{NewOffset: 10, NewLength: 2, Corpus: []string{" sumValues(b)", "+x := sumValues(c)"}},
	)

	first, err := Correlate("sumValues drops the last element", files, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := Correlate("sumValues drops the last element", files, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Correlation is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCorrelate_Alternates(t *testing.T) {
	files := singleFile("m.go", domain.Hunk{
		NewOffset: 1, NewLength: 4,
		Corpus: []string{
			"+fetchItems(db, query, limit)", // both keywords hit
			" fetchItems(db)",               // one keyword hit
			"+count := limit - 1",           // one keyword hit
			" unrelated line",
		},
	})

	corr, err := Correlate("fetchItems ignores the 'limit' argument", files, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if corr.Best == nil || corr.Best.Line != 1 {
		t.Fatalf("Expected best at line 1, got %+v", corr.Best)
	}
	if len(corr.Alternates) != 2 {
		t.Fatalf("Expected 2 alternates, got %d: %v", len(corr.Alternates), corr.Alternates)
	}
	if corr.Alternates[0].Line != 2 || corr.Alternates[0].Snippet != "fetchItems(db)" {
		t.Errorf("Unexpected first alternate: %+v", corr.Alternates[0])
	}
	if corr.Alternates[1].Line != 3 || corr.Alternates[1].Snippet != "count := limit - 1" {
		t.Errorf("Unexpected second alternate: %+v", corr.Alternates[1])
	}
	for _, alt := range corr.Alternates {
		if alt.Score >= corr.Best.Score {
			t.Errorf("Alternate score %f not below best %f", alt.Score, corr.Best.Score)
		}
	}
}

func TestCorrelate_NegativeRadius(t *testing.T) {
	_, err := Correlate("text", nil, -2)
	if !errors.Is(err, ErrNegativeRadius) {
		t.Fatalf("Expected ErrNegativeRadius, got %v", err)
	}
}

func TestScoreLine_VerbatimBeatsCaseFold(t *testing.T) {
	keywords := []string{"parseInput"}
	verbatim := scoreLine("+v := parseInput(raw)", keywords, "")
	folded := scoreLine("+v := parseinput(raw)", keywords, "")

	if verbatim != verbatimMatchScore {
		t.Errorf("Expected verbatim score %f, got %f", verbatimMatchScore, verbatim)
	}
	if folded != caseFoldMatchScore {
		t.Errorf("Expected case-fold score %f, got %f", caseFoldMatchScore, folded)
	}
}

func TestScoreLine_Monotonicity(t *testing.T) {
	// Adding another verbatim keyword occurrence never lowers the score.
	keywords := []string{"alpha_one", "beta_two"}
	base := scoreLine(" alpha_one", keywords, "")
	more := scoreLine(" alpha_one beta_two", keywords, "")
	if more < base {
		t.Errorf("Score decreased after adding a keyword: %f -> %f", base, more)
	}
}

func TestScoreLine_BonusRules(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		comment  string
		expected float64
	}{
		{
			name:     "result bonus",
			raw:      " res := result",
			comment:  "check the Result here",
			expected: resultBonus,
		},
		{
			name:     "variable bonus needs equals sign",
			raw:      " x = 1",
			comment:  "rename this variable",
			expected: assignmentBonus,
		},
		{
			name:     "variable bonus absent without equals",
			raw:      " x",
			comment:  "rename this variable",
			expected: 0,
		},
		{
			name:     "assignment bonus",
			raw:      "+count = count + 1",
			comment:  "assignment is redundant",
			expected: assignmentBonus,
		},
		{
			name:     "unnecessary bonus on changed line",
			raw:      "+whatever",
			comment:  "unnecessary",
			expected: changedLineBonus,
		},
		{
			name:     "unnecessary bonus skips context line",
			raw:      " whatever",
			comment:  "unnecessary",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreLine(tt.raw, nil, toLower(tt.comment))
			if got != tt.expected {
				t.Errorf("scoreLine(%q) = %f, expected %f", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestScoreLine_CommentSyntaxDemotion(t *testing.T) {
	keywords := []string{"parse_csv"}
	code := scoreLine("+parse_csv(path)", keywords, "")
	slashes := scoreLine("+// parse_csv is slow", keywords, "")
	hash := scoreLine("+# parse_csv is slow", keywords, "")

	if code != verbatimMatchScore {
		t.Fatalf("Expected code line score %f, got %f", verbatimMatchScore, code)
	}
	want := verbatimMatchScore * commentSyntaxDemotion
	if slashes != want {
		t.Errorf("Expected demoted score %f for // line, got %f", want, slashes)
	}
	if hash != want {
		t.Errorf("Expected demoted score %f for # line, got %f", want, hash)
	}
}

func TestScoreLine_BlankLineScoresZero(t *testing.T) {
	if got := scoreLine("+   ", []string{"anything"}, "anything"); got != 0 {
		t.Errorf("Expected 0 for blank line, got %f", got)
	}
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
