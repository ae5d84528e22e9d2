package prompt_test

import (
	"strings"
	"testing"

	"github.com/kairos-interview/backend/internal/domain/interview"
	"github.com/kairos-interview/backend/internal/prompt"
)

func finalizedTurn(t *testing.T, score int) *interview.Turn {
	t.Helper()
	s := interview.NewSession("Python", interview.ModeMedium)
	turn, _ := s.AppendTurn("What is a list comprehension?")
	if err := turn.Finalize("an answer", score, "feedback"); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return turn
}

func skippedTurn(t *testing.T) *interview.Turn {
	t.Helper()
	s := interview.NewSession("Python", interview.ModeMedium)
	turn, _ := s.AppendTurn("What is a list comprehension?")
	if err := turn.FinalizeSkipped(); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	return turn
}

func TestNextCategory_PolicyTable(t *testing.T) {
	b := prompt.NewBuilder("Python")

	if got := b.NextCategory(nil); got != prompt.Opening {
		t.Errorf("nil turn: got %q, want opening", got)
	}
	if got := b.NextCategory(skippedTurn(t)); got != prompt.DifferentSubtopic {
		t.Errorf("skipped turn: got %q, want different_subtopic", got)
	}

	// The policy must be a pure function of the score.
	for score := 0; score <= 10; score++ {
		var want prompt.Category
		switch {
		case score > 8:
			want = prompt.DeeperSameSubtopic
		case score > 5:
			want = prompt.DifferentSubtopic
		default:
			want = prompt.Foundational
		}

		got := b.NextCategory(finalizedTurn(t, score))
		if got != want {
			t.Errorf("score %d: got %q, want %q", score, got, want)
		}
	}
}

func TestNextCategory_Deterministic(t *testing.T) {
	b := prompt.NewBuilder("Python")
	turn := finalizedTurn(t, 7)

	first := b.NextCategory(turn)
	for i := 0; i < 5; i++ {
		if got := b.NextCategory(turn); got != first {
			t.Fatalf("category changed across calls: %q != %q", got, first)
		}
	}
}

func TestBuildQuestionPrompt_QuestionOnlyInstruction(t *testing.T) {
	b := prompt.NewBuilder("Go")

	lasts := []*interview.Turn{nil, skippedTurn(t), finalizedTurn(t, 9), finalizedTurn(t, 6), finalizedTurn(t, 2)}
	for _, last := range lasts {
		_, user := b.BuildQuestionPrompt(interview.ModeMedium, last)
		if !strings.Contains(user, "Return only the question") {
			t.Errorf("prompt missing question-only instruction: %q", user)
		}
	}
}

func TestBuildQuestionPrompt_EmbedsTopicAndDifficulty(t *testing.T) {
	b := prompt.NewBuilder("Kubernetes")
	_, user := b.BuildQuestionPrompt(interview.ModeHard, nil)

	if !strings.Contains(user, "Kubernetes") {
		t.Error("prompt does not mention the topic")
	}
	if !strings.Contains(user, "hard") {
		t.Error("prompt does not mention the difficulty")
	}
}

func TestBuildQuestionPrompt_ResumeVariant(t *testing.T) {
	b := prompt.NewResumeBuilder("Skills:\n- Go\n- Postgres")
	_, user := b.BuildQuestionPrompt(interview.ModeMedium, nil)

	if !strings.Contains(user, "- Postgres") {
		t.Error("prompt does not embed the resume context")
	}
	if !strings.Contains(user, "Return only the question") {
		t.Error("resume prompt missing question-only instruction")
	}
}

func TestBuildEvaluationPrompt_Format(t *testing.T) {
	b := prompt.NewBuilder("Go")
	_, user := b.BuildEvaluationPrompt("What is a mutex?", "A lock.")

	for _, fragment := range []string{"0 to 10", "Score: <integer>", "Feedback: <your feedback>", "What is a mutex?", "A lock."} {
		if !strings.Contains(user, fragment) {
			t.Errorf("evaluation prompt missing %q", fragment)
		}
	}
}

func TestBuildSummaryPrompt_SkipsOpenTurns(t *testing.T) {
	b := prompt.NewBuilder("Go")
	s := interview.NewSession("Go", interview.ModeMedium)
	first, _ := s.AppendTurn("Q1")
	first.Finalize("A1", 6, "ok")
	s.AppendTurn("Q2 still open")

	_, user := b.BuildSummaryPrompt(s.Turns)
	if !strings.Contains(user, "Q1") {
		t.Error("summary prompt missing finalized turn")
	}
	if strings.Contains(user, "Q2 still open") {
		t.Error("summary prompt must not include the open turn")
	}
}
