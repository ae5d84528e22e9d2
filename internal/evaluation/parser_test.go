package evaluation_test

import (
	"strings"
	"testing"

	"github.com/kairos-interview/backend/internal/evaluation"
)

func TestParse_WellFormed(t *testing.T) {
	cases := []struct {
		name         string
		input        string
		wantScore    int
		wantFeedback string
	}{
		{
			name:         "canonical two lines",
			input:        "Score: 7\nFeedback: Good grasp of basics, expand on edge cases.",
			wantScore:    7,
			wantFeedback: "Good grasp of basics, expand on edge cases.",
		},
		{
			name:         "surrounding whitespace",
			input:        "  \n Score: 10 \n Feedback:  Excellent answer. \n ",
			wantScore:    10,
			wantFeedback: "Excellent answer.",
		},
		{
			name:         "extra lines before and after",
			input:        "Sure, here is my evaluation:\nScore: 4\nFeedback: Several gaps in understanding.\nLet me know if you need more.",
			wantScore:    4,
			wantFeedback: "Several gaps in understanding.\nLet me know if you need more.",
		},
		{
			name:         "lowercase markers",
			input:        "score: 8\nfeedback: solid reasoning throughout",
			wantScore:    8,
			wantFeedback: "solid reasoning throughout",
		},
		{
			name:         "markdown bold markers",
			input:        "**Score:** 6\n**Feedback:** Decent but shallow.",
			wantScore:    6,
			wantFeedback: "Decent but shallow.",
		},
		{
			name:         "score zero",
			input:        "Score: 0\nFeedback: No relevant content in the answer.",
			wantScore:    0,
			wantFeedback: "No relevant content in the answer.",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := evaluation.Parse(c.input)
			if got.Score != c.wantScore {
				t.Errorf("score = %d, want %d", got.Score, c.wantScore)
			}
			if got.Feedback != c.wantFeedback {
				t.Errorf("feedback = %q, want %q", got.Feedback, c.wantFeedback)
			}
		})
	}
}

func TestParse_MissingScore(t *testing.T) {
	inputs := []string{
		"The candidate did reasonably well overall.",
		"",
		"Feedback: good effort but no rating was produced",
	}

	for _, in := range inputs {
		got := evaluation.Parse(in)
		if got.Score != evaluation.SentinelScore {
			t.Errorf("Parse(%q) score = %d, want sentinel %d", in, got.Score, evaluation.SentinelScore)
		}
		if !strings.Contains(got.Feedback, "score") {
			t.Errorf("Parse(%q) feedback %q is not a score diagnostic", in, got.Feedback)
		}
	}
}

func TestParse_ScoreOutOfRange(t *testing.T) {
	for _, in := range []string{"Score: 11\nFeedback: too generous", "Score: -3\nFeedback: impossible", "Score: 100"} {
		got := evaluation.Parse(in)
		if got.Score != evaluation.SentinelScore {
			t.Errorf("Parse(%q) score = %d, want sentinel", in, got.Score)
		}
	}
}

func TestParse_MissingFeedback(t *testing.T) {
	got := evaluation.Parse("Score: 9")
	if got.Score != 9 {
		t.Errorf("score = %d, want 9 (score honored despite missing feedback)", got.Score)
	}
	if got.Feedback != evaluation.NoFeedbackSentinel {
		t.Errorf("feedback = %q, want %q", got.Feedback, evaluation.NoFeedbackSentinel)
	}
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"Score:",
		"Score: Feedback:",
		"Feedback:",
		strings.Repeat("Score: 5 ", 1000),
		"Score: 999999999999999999999999",
		"{\"score\": 5}",
	}

	for _, in := range inputs {
		// Parse must recover internally; any panic fails the test.
		_ = evaluation.Parse(in)
	}
}
