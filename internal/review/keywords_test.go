package review

import (
	"reflect"
	"sort"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "snake case identifier kept",
			text:     "the retry_count is wrong",
			expected: []string{"retry_count"},
		},
		{
			name:     "camel case identifier kept",
			text:     "maxRetries should be configurable",
			expected: []string{"maxRetries"},
		},
		{
			name:     "prose words dropped",
			text:     "please fix this before landing",
			expected: nil,
		},
		{
			name:     "short tokens dropped",
			text:     "ab is of no use",
			expected: nil,
		},
		{
			name:     "all caps treated as constant and dropped",
			text:     "MAX_SIZE looks too BIG",
			expected: nil,
		},
		{
			name:     "quoted fragment kept unconditionally",
			text:     `rename "foo bar" here`,
			expected: []string{"foo bar"},
		},
		{
			name:     "single quoted and backtick fragments",
			text:     "compare 'abc' with `def`",
			expected: []string{"abc", "def"},
		},
		{
			name:     "call prefix kept unconditionally",
			text:     "compute() returns the wrong thing",
			expected: []string{"compute"},
		},
		{
			name:     "stop word review vocabulary dropped",
			text:     "this Function_comment on the codeLine",
			expected: []string{"Function_comment", "codeLine"},
		},
		{
			name:     "duplicates collapsed",
			text:     "parseInput and parseInput and parseInput(x)",
			expected: []string{"parseInput"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractKeywords(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractKeywords_AllThreePasses(t *testing.T) {
	got := ExtractKeywords(`the old_value from getValue( is now "total sum"`)
	sort.Strings(got)

	expected := []string{"getValue", "old_value", "total sum"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
