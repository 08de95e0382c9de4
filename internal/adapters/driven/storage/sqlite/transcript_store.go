package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// transcriptStore implements driven.TranscriptStore.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptStore = (*transcriptStore)(nil)

// AppendTurn stores a turn at the end of a session's transcript.
func (s *transcriptStore) AppendTurn(ctx context.Context, sessionID string, turn domain.ChatTurn) error {
	if sessionID == "" || turn.ID == "" {
		return domain.ErrInvalidInput
	}

	metrics, err := nullableJSON(turn.Metrics, turn.Metrics == nil)
	if err != nil {
		return fmt.Errorf("marshalling metrics: %w", err)
	}
	texts, err := nullableJSON(turn.RetrievedTexts, len(turn.RetrievedTexts) == 0)
	if err != nil {
		return fmt.Errorf("marshalling retrieved texts: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chat_turns (session_id, turn_id, role, content, created_at, metrics, retrieved_texts, is_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, turn.ID, string(turn.Role), turn.Content, formatTime(turn.Timestamp), metrics, texts, boolToInt(turn.IsError))
	if err != nil {
		return fmt.Errorf("inserting chat turn: %w", err)
	}
	return nil
}

// GetTurns returns a session's turns in append order.
func (s *transcriptStore) GetTurns(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT turn_id, role, content, created_at, metrics, retrieved_texts, is_error
		FROM chat_turns WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying chat turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ChatTurn //nolint:prealloc // size unknown from query
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat turns: %w", err)
	}

	if len(turns) == 0 {
		return nil, domain.ErrNotFound
	}
	return turns, nil
}

// ListSessions returns a summary per session, most recently appended first.
func (s *transcriptStore) ListSessions(ctx context.Context) ([]domain.ChatSessionSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT t.session_id, COUNT(*), MIN(t.created_at), MAX(t.created_at),
			COALESCE((
				SELECT f.content FROM chat_turns f
				WHERE f.session_id = t.session_id AND f.role = 'user'
				ORDER BY f.seq LIMIT 1
			), '')
		FROM chat_turns t
		GROUP BY t.session_id
		ORDER BY MAX(t.seq) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSessionSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			summary       domain.ChatSessionSummary
			started, last string
		)
		if err := rows.Scan(&summary.ID, &summary.Turns, &started, &last, &summary.FirstQuestion); err != nil {
			return nil, fmt.Errorf("scanning chat session: %w", err)
		}
		if summary.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if summary.LastAt, err = parseTime(last); err != nil {
			return nil, err
		}
		sessions = append(sessions, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session's turns.
func (s *transcriptStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM chat_turns WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("deleting chat session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTurn(rows *sql.Rows) (domain.ChatTurn, error) {
	var (
		turn           domain.ChatTurn
		role, created  string
		metrics, texts sql.NullString
		isError        int
	)
	if err := rows.Scan(&turn.ID, &role, &turn.Content, &created, &metrics, &texts, &isError); err != nil {
		return turn, fmt.Errorf("scanning chat turn: %w", err)
	}

	turn.Role = domain.Role(role)
	turn.IsError = isError != 0

	ts, err := parseTime(created)
	if err != nil {
		return turn, err
	}
	turn.Timestamp = ts

	if metrics.Valid {
		var m domain.QueryMetrics
		if err := json.Unmarshal([]byte(metrics.String), &m); err != nil {
			return turn, fmt.Errorf("unmarshalling metrics: %w", err)
		}
		turn.Metrics = &m
	}
	if texts.Valid {
		if err := json.Unmarshal([]byte(texts.String), &turn.RetrievedTexts); err != nil {
			return turn, fmt.Errorf("unmarshalling retrieved texts: %w", err)
		}
	}
	return turn, nil
}

func nullableJSON(v any, empty bool) (sql.NullString, error) {
	if empty {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
