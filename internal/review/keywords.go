package review

import (
	"regexp"
	"strings"
)

// The three scans are deliberately independent passes so each can be tuned
// on its own: identifier-like tokens (filtered), quoted fragments and
// call-style prefixes (both taken unconditionally).
var (
	identPattern  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	quotedPattern = regexp.MustCompile("\"([^\"]+)\"|'([^']+)'|`([^`]+)`")
	callPattern   = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(`)
)

// stopWords are common English function words plus generic review vocabulary
// that carries no signal about a code location.
var stopWords = map[string]bool{
	"the": true, "this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "have": true, "has": true, "had": true,
	"should": true, "would": true, "could": true, "will": true, "can": true,
	"please": true, "here": true, "there": true, "where": true, "when": true,
	"what": true, "which": true, "why": true, "how": true,
	"and": true, "but": true, "not": true, "are": true, "was": true,
	"for": true, "you": true, "your": true, "they": true, "them": true,
	"than": true, "then": true, "into": true, "also": true, "just": true,
	"more": true, "some": true, "same": true, "other": true, "about": true,
	"because": true, "instead": true, "rather": true, "maybe": true,
	"comment": true, "comments": true, "line": true, "lines": true,
	"function": true, "method": true, "file": true, "code": true,
	"change": true, "changes": true, "review": true, "nit": true,
	"use": true, "used": true, "using": true, "need": true, "needs": true,
	"make": true, "makes": true, "like": true, "looks": true, "seems": true,
	"consider": true, "suggest": true, "check": true, "think": true,
}

// ExtractKeywords scans free-text comment content for fragments likely to
// identify a code location. Identifier-like tokens are kept only when they
// look like real identifiers rather than prose: longer than two characters,
// not a stop word, not an all-caps constant, and exhibiting multi-word casing
// (an underscore or an internal upper-case letter). Quoted fragments and
// identifier( call prefixes are always kept. The result is deduplicated,
// preserving first-seen order.
func ExtractKeywords(text string) []string {
	var keywords []string
	seen := map[string]bool{}

	add := func(kw string) {
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	for _, tok := range identPattern.FindAllString(text, -1) {
		if keepIdentifier(tok) {
			add(tok)
		}
	}

	for _, m := range quotedPattern.FindAllStringSubmatch(text, -1) {
		// One capture group per quote style; exactly one is non-empty.
		for _, group := range m[1:] {
			add(group)
		}
	}

	for _, m := range callPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	return keywords
}

// keepIdentifier applies the filter rules for bare tokens.
func keepIdentifier(tok string) bool {
	if len(tok) <= 2 {
		return false
	}
	if stopWords[strings.ToLower(tok)] {
		return false
	}
	if tok == strings.ToUpper(tok) {
		// All-caps tokens are presumed constants or shouting, low signal.
		return false
	}
	return multiWordCased(tok)
}

// multiWordCased reports whether the token contains an underscore or an
// upper-case letter past the first character, i.e. looks like snake_case or
// camelCase rather than a prose word.
func multiWordCased(tok string) bool {
	if strings.Contains(tok, "_") {
		return true
	}
	for _, r := range tok[1:] {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}
