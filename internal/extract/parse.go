package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxQuestions caps how many technical questions one interview asks.
const DefaultMaxQuestions = 5

// minQuestionLen is the length a line must exceed, after its marker is
// removed, to count as a question.
const minQuestionLen = 5

var questionMarker = regexp.MustCompile(`^[\d.)\-]+\s*`)

// ParseQuestions pulls numbered or bulleted lines out of a model response.
// A line qualifies when, after trimming, it starts with digits, dots,
// parentheses or hyphens and more than five characters follow that marker.
// The marker is stripped from the stored text. At most limit questions are
// returned; limit <= 0 means no cap.
func ParseQuestions(raw string, limit int) []string {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		loc := questionMarker.FindStringIndex(line)
		if loc == nil {
			continue
		}
		q := strings.TrimSpace(line[loc[1]:])
		if utf8.RuneCountInString(q) <= minQuestionLen {
			continue
		}
		questions = append(questions, q)
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	return questions
}
