// Package prompt constructs the instructions sent to the model gateway and
// encodes the adaptive-difficulty policy. The policy is a pure function of
// the most recently finalized turn, so identical histories always produce
// identical prompt categories.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kairos-interview/backend/internal/domain/interview"
)

// Category classifies the next question relative to the previous turn.
type Category string

const (
	Opening            Category = "opening"
	DeeperSameSubtopic Category = "deeper_same_subtopic"
	DifferentSubtopic  Category = "different_subtopic"
	Foundational       Category = "foundational"
)

// Score thresholds for the adaptive policy.
const (
	deepenAbove = 8 // score > 8  → deeper follow-up on the same subtopic
	simplifyAt  = 5 // score <= 5 → foundational question
)

const interviewerSystem = "You are an expert technical interviewer conducting an adaptive interview."

const evaluatorSystem = "You are an expert interviewer evaluating candidate answers strictly and fairly."

// questionOnly is appended to every question prompt. Returning anything but
// the bare question is the most common drift mode of small models.
const questionOnly = "Return only the question itself. Do not add explanations, commentary, or repeat any previous question."

// Builder constructs prompts for one session. Topic-based sessions embed the
// topic; resume-based sessions embed the resume context instead.
type Builder struct {
	topic         string
	resumeContext string
}

// NewBuilder creates a prompt builder for a topic-based interview.
func NewBuilder(topic string) *Builder {
	return &Builder{topic: topic}
}

// NewResumeBuilder creates a prompt builder for the resume-based variant.
// Every prompt embeds the resume context string as an opaque block.
func NewResumeBuilder(resumeContext string) *Builder {
	return &Builder{topic: "resume-based", resumeContext: resumeContext}
}

// NextCategory applies the adaptive policy to the most recently finalized
// turn. A nil turn means the interview is opening.
//
// Low scores drop down to foundational questions rather than continuing at
// unchanged difficulty.
func (b *Builder) NextCategory(last *interview.Turn) Category {
	switch {
	case last == nil:
		return Opening
	case last.Skipped:
		return DifferentSubtopic
	case last.Score != nil && *last.Score > deepenAbove:
		return DeeperSameSubtopic
	case last.Score != nil && *last.Score > simplifyAt:
		return DifferentSubtopic
	default:
		return Foundational
	}
}

// BuildQuestionPrompt builds the system instruction and user prompt for the
// next question given the last finalized turn.
func (b *Builder) BuildQuestionPrompt(mode interview.DifficultyMode, last *interview.Turn) (system, user string) {
	var sb strings.Builder

	if b.resumeContext != "" {
		fmt.Fprintf(&sb, "You are interviewing a candidate based on their resume.\nResume:\n%s\n\n", b.resumeContext)
	} else {
		fmt.Fprintf(&sb, "The interview topic is %q.\n", b.topic)
	}

	switch b.NextCategory(last) {
	case Opening:
		fmt.Fprintf(&sb, "Ask an opening, standalone interview question at %s difficulty.\n", mode)
	case DeeperSameSubtopic:
		fmt.Fprintf(&sb, "The previous question was: %q. The candidate answered it very well.\n", last.Question)
		sb.WriteString("Ask a deeper, more advanced follow-up question on the same subtopic.\n")
	case DifferentSubtopic:
		fmt.Fprintf(&sb, "The previous question was: %q.\n", last.Question)
		fmt.Fprintf(&sb, "Ask a question on a different subtopic of the same area, at %s difficulty.\n", mode)
	case Foundational:
		fmt.Fprintf(&sb, "The previous question was: %q. The candidate struggled with it.\n", last.Question)
		sb.WriteString("Ask a simpler, foundational question to rebuild from the basics.\n")
	}

	sb.WriteString(questionOnly)
	return interviewerSystem, sb.String()
}

// BuildEvaluationPrompt builds the prompts for scoring an answer. The model
// is instructed to respond in the exact two-line format the evaluation
// parser consumes.
func (b *Builder) BuildEvaluationPrompt(question, answer string) (system, user string) {
	user = fmt.Sprintf(`Evaluate the candidate's answer to the interview question below.
Provide exactly two outputs:
1. A single integer score from 0 to 10.
2. A feedback string of about 20 words covering expertise shown and improvements required.

Question: %s
Answer: %s

Respond in exactly this format and nothing else:
Score: <integer>
Feedback: <your feedback>`, question, answer)
	return evaluatorSystem, user
}

// BuildSummaryPrompt builds the prompt for an end-of-interview performance
// summary over the finalized turns.
func (b *Builder) BuildSummaryPrompt(turns []*interview.Turn) (system, user string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The interview on %q has ended. Summarize the candidate's performance in a short paragraph, naming strengths and areas to improve.\n\n", b.topic)
	for _, t := range turns {
		if t.Open() {
			continue
		}
		fmt.Fprintf(&sb, "Q%d: %s\n", t.Seq, t.Question)
		if t.Skipped {
			sb.WriteString("A: (skipped)\n")
			continue
		}
		fmt.Fprintf(&sb, "A: %s\nScore: %d\n", *t.Answer, *t.Score)
	}
	return interviewerSystem, sb.String()
}

// BuildStructurePrompt builds the prompt used to structure raw resume text
// into named sections.
func BuildStructurePrompt(rawResume string) (system, user string) {
	system = "You are a helpful assistant who extracts structured information from resumes."
	user = fmt.Sprintf(`Extract the following from this resume:
- Skills (technical and soft skills)
- Experience (company, role, duration)
- Education (degree, institution, year)
- Certifications (name, issuer, year)
- Projects (name, description, technologies used)

Return the information as plain text with those exact section headings, one item per line prefixed with "- ".

Resume Text:
%s`, rawResume)
	return system, user
}
