package filter

import (
	"strings"
	"unicode"
)

// DefaultExitKeywords end an interview from any state.
var DefaultExitKeywords = []string{"exit", "quit", "end", "stop", "bye", "goodbye"}

// MatchMode selects how exit keywords are compared against an utterance.
type MatchMode string

const (
	// MatchSubstring matches a keyword anywhere in the text, so "weekend"
	// contains "end".
	MatchSubstring MatchMode = "substring"
	// MatchWord matches only whole words.
	MatchWord MatchMode = "word"
)

// ExitFilter decides whether an utterance asks to leave the conversation.
// Matching is case-insensitive. An empty keyword list never matches.
type ExitFilter struct {
	keywords []string
	mode     MatchMode
}

// NewExitFilter returns a filter over keywords. A nil list selects
// DefaultExitKeywords; an unknown mode falls back to MatchSubstring.
func NewExitFilter(keywords []string, mode MatchMode) *ExitFilter {
	if keywords == nil {
		keywords = DefaultExitKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	if mode != MatchWord {
		mode = MatchSubstring
	}
	return &ExitFilter{keywords: lowered, mode: mode}
}

// Match reports whether text contains any exit keyword.
func (f *ExitFilter) Match(text string) bool {
	lower := strings.ToLower(text)

	if f.mode == MatchWord {
		words := strings.FieldsFunc(lower, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			for _, kw := range f.keywords {
				if w == kw {
					return true
				}
			}
		}
		return false
	}

	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Mode returns the active match mode.
func (f *ExitFilter) Mode() MatchMode {
	return f.mode
}
