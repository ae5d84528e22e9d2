// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kairos-interview/backend/internal/domain/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_key TEXT NOT NULL,
    seq INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT,
    score INTEGER,
    feedback TEXT,
    skipped INTEGER NOT NULL DEFAULT 0,
    topic TEXT NOT NULL,
    mode TEXT NOT NULL,
    asked_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_key, id);

CREATE TABLE IF NOT EXISTS summaries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_key TEXT NOT NULL,
    topic TEXT NOT NULL,
    mode TEXT NOT NULL,
    questions_attempted INTEGER NOT NULL,
    questions_skipped INTEGER NOT NULL,
    average_score REAL NOT NULL,
    feedback TEXT NOT NULL,
    ended_at TEXT NOT NULL
);
`

// SQLiteStore is the file-backed TranscriptStore.
type SQLiteStore struct {
	db *sql.DB
}

var _ TranscriptStore = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, sessionKey string, t *interview.Turn) (string, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_key, seq, question, answer, score, feedback, skipped, topic, mode, asked_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionKey, t.Seq, t.Question, t.Answer, t.Score, t.Feedback,
		boolToInt(t.Skipped), t.Topic, string(t.Mode), t.AskedAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("append turn: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *SQLiteStore) Update(ctx context.Context, sessionKey, turnID string, t *interview.Turn) error {
	id, err := strconv.ParseInt(turnID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid turn id %q: %w", turnID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE turns SET answer = ?, score = ?, feedback = ?, skipped = ?
         WHERE id = ? AND session_key = ?`,
		t.Answer, t.Score, t.Feedback, boolToInt(t.Skipped), id, sessionKey)
	if err != nil {
		return fmt.Errorf("update turn: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) LatestTurn(ctx context.Context, sessionKey string) (*interview.Turn, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT seq, question, answer, score, feedback, skipped, topic, mode, asked_at
         FROM turns WHERE session_key = ? ORDER BY id DESC LIMIT 1`, sessionKey)

	t, err := scanTurn(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) ListTurns(ctx context.Context, sessionKey string) ([]*interview.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, question, answer, score, feedback, skipped, topic, mode, asked_at
         FROM turns WHERE session_key = ? ORDER BY id ASC`, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*interview.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, sessionKey string, sum *interview.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (session_key, topic, mode, questions_attempted, questions_skipped, average_score, feedback, ended_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionKey, sum.Topic, string(sum.Mode), sum.QuestionsAttempted,
		sum.QuestionsSkipped, sum.AverageScore, sum.Feedback, sum.EndedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

const timeLayout = time.RFC3339Nano

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTurn(row rowScanner) (*interview.Turn, error) {
	var (
		t       interview.Turn
		skipped int
		mode    string
		askedAt string
	)
	err := row.Scan(&t.Seq, &t.Question, &t.Answer, &t.Score, &t.Feedback, &skipped, &t.Topic, &mode, &askedAt)
	if err != nil {
		return nil, err
	}
	t.Skipped = skipped != 0
	t.Mode = interview.DifficultyMode(mode)
	if parsed, perr := time.Parse(timeLayout, askedAt); perr == nil {
		t.AskedAt = parsed
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
