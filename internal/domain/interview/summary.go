package interview

import "time"

// Summary aggregates a finished session. Skipped turns count toward
// QuestionsAttempted but are excluded from the numeric average.
type Summary struct {
	SessionKey         string
	Topic              string
	Mode               DifficultyMode
	QuestionsAttempted int
	QuestionsSkipped   int
	AverageScore       float64
	Feedback           string
	EndedAt            time.Time
}

// Summarize computes the score aggregate over a session's finalized turns.
func Summarize(s *Session) *Summary {
	sum := &Summary{
		SessionKey: s.Key,
		Topic:      s.Topic,
		Mode:       s.Mode,
		EndedAt:    time.Now().UTC(),
	}

	total := 0
	scored := 0
	for _, t := range s.Turns {
		if t.Open() {
			continue
		}
		sum.QuestionsAttempted++
		if t.Skipped {
			sum.QuestionsSkipped++
			continue
		}
		total += *t.Score
		scored++
	}
	if scored > 0 {
		sum.AverageScore = float64(total) / float64(scored)
	}
	return sum
}
