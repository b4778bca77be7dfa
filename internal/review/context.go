// Package review implements the comment-to-code correlation engine: context
// window extraction around anchored comments, and lexical correlation for
// comments that carry no explicit anchor. Everything in this package is a
// pure function over caller-supplied diff and comment data.
package review

import (
	"errors"
	"strings"

	"github.com/reviewflow/differential-mcp/internal/domain"
)

// ErrNegativeRadius is returned when a caller asks for a negative context
// radius. Radius is a line count and must be >= 0.
var ErrNegativeRadius = errors.New("context radius must be non-negative")

// ExtractContext locates line within the hunks of the file named by filePath
// and returns a window of up to 2*radius+1 surrounding lines, each tagged
// with its new-file line number and diff role. The target line is marked when
// it maps onto the hunk corpus.
//
// A nil window with a nil error means the file is absent from the diff set or
// the line falls outside every hunk's new-file range; not-found is a valid
// outcome, not a failure.
func ExtractContext(filePath string, line int, files []domain.DiffFile, radius int) (*domain.ContextWindow, error) {
	if radius < 0 {
		return nil, ErrNegativeRadius
	}

	file, ok := findFile(files, filePath)
	if !ok {
		return nil, nil
	}

	for _, hunk := range file.Hunks {
		if !hunk.ContainsNewLine(line) {
			continue
		}

		idx := line - hunk.NewOffset
		return &domain.ContextWindow{
			FilePath:   filePath,
			TargetLine: line,
			HunkHeader: hunk.Header(),
			Lines:      windowLines(hunk, idx, radius),
		}, nil
	}

	return nil, nil
}

// findFile returns the diff file whose post-change path equals filePath.
func findFile(files []domain.DiffFile, filePath string) (domain.DiffFile, bool) {
	for _, f := range files {
		if f.NewPath == filePath {
			return f, true
		}
	}
	return domain.DiffFile{}, false
}

// windowLines slices a symmetric window out of the hunk corpus around the
// given corpus index. The index may point past the end of a short corpus, in
// which case the clipped window contains no target line.
func windowLines(hunk domain.Hunk, idx, radius int) []domain.ContextLine {
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + radius + 1
	if end > len(hunk.Corpus) {
		end = len(hunk.Corpus)
	}

	var lines []domain.ContextLine
	for i := start; i < end; i++ {
		content, role := SplitMarker(hunk.Corpus[i])
		lines = append(lines, domain.ContextLine{
			Number:   hunk.NewOffset + i,
			Content:  content,
			Role:     role,
			IsTarget: i == idx,
		})
	}
	return lines
}

// SplitMarker strips the leading diff-role marker from a corpus line and
// derives the line's role. Unprefixed lines are treated as context.
func SplitMarker(raw string) (string, domain.LineRole) {
	switch {
	case strings.HasPrefix(raw, "+"):
		return raw[1:], domain.RoleAdded
	case strings.HasPrefix(raw, "-"):
		return raw[1:], domain.RoleRemoved
	case strings.HasPrefix(raw, " "):
		return raw[1:], domain.RoleContext
	default:
		return raw, domain.RoleContext
	}
}
