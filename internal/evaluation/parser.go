// Package evaluation extracts a score/feedback pair from free-form model
// output. The model is instructed to answer in a two-line
// "Score: N\nFeedback: ..." format but small models drift, so extraction is
// tolerant of casing, whitespace, and surrounding noise. The raw text is
// treated strictly as text and is never executed or evaluated.
package evaluation

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinels returned when the model output cannot be parsed. The session
// continues with these instead of propagating a malformed value.
const (
	SentinelScore      = 0
	NoFeedbackSentinel = "No feedback found."
)

const (
	MinScore = 0
	MaxScore = 10
)

// Result is the outcome of parsing one evaluation response.
type Result struct {
	Score    int
	Feedback string
}

var (
	scoreRe = regexp.MustCompile(`(?i)score\s*[:\-]?\s*\**\s*(-?\d+)`)
	// Feedback runs to the end of the text: models often wrap it over
	// several lines despite the single-line instruction.
	feedbackRe = regexp.MustCompile(`(?is)feedback\s*[:\-]?\s*\**\s*(.+)`)
)

// Parse extracts the score and feedback from raw model output. It never
// fails: a missing or unparseable score yields the sentinel score with a
// diagnostic feedback string, a missing feedback marker yields the feedback
// sentinel while the score is still honored.
func Parse(text string) Result {
	score, scoreErr := extractScore(text)
	feedback, found := extractFeedback(text)

	if scoreErr != "" {
		return Result{Score: SentinelScore, Feedback: scoreErr}
	}
	if !found {
		return Result{Score: score, Feedback: NoFeedbackSentinel}
	}
	return Result{Score: score, Feedback: feedback}
}

// extractScore returns the parsed score, or a non-empty diagnostic when no
// usable score is present.
func extractScore(text string) (int, string) {
	m := scoreRe.FindStringSubmatch(text)
	if m == nil {
		return 0, "Evaluation response contained no score marker."
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "Evaluation response score was not a valid integer."
	}
	if n < MinScore || n > MaxScore {
		return 0, "Evaluation response score was outside the 0-10 range."
	}
	return n, ""
}

func extractFeedback(text string) (string, bool) {
	m := feedbackRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	feedback := strings.TrimSpace(m[1])
	if feedback == "" {
		return "", false
	}
	return feedback, true
}
