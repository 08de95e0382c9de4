package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
)

// Ensure TranscriptStore implements the interface.
var _ driven.TranscriptStore = (*TranscriptStore)(nil)

// TranscriptStore is an in-memory implementation of driven.TranscriptStore.
type TranscriptStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.ChatTurn
	order    map[string]int
	seq      int
}

// NewTranscriptStore creates a new in-memory transcript store.
func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		sessions: make(map[string][]domain.ChatTurn),
		order:    make(map[string]int),
	}
}

// AppendTurn stores a turn at the end of a session's transcript.
func (s *TranscriptStore) AppendTurn(_ context.Context, sessionID string, turn domain.ChatTurn) error {
	if sessionID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.order[sessionID] = s.seq
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}

// GetTurns returns a session's turns in append order.
func (s *TranscriptStore) GetTurns(_ context.Context, sessionID string) ([]domain.ChatTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.ChatTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// ListSessions returns a summary per session, most recently appended first.
func (s *TranscriptStore) ListSessions(_ context.Context) ([]domain.ChatSessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.order[ids[i]] > s.order[ids[j]]
	})

	summaries := make([]domain.ChatSessionSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, summarise(id, s.sessions[id]))
	}
	return summaries, nil
}

// DeleteSession removes a session's turns.
func (s *TranscriptStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.order, sessionID)
	return nil
}

func summarise(id string, turns []domain.ChatTurn) domain.ChatSessionSummary {
	summary := domain.ChatSessionSummary{ID: id, Turns: len(turns)}
	for i, t := range turns {
		if i == 0 || t.Timestamp.Before(summary.StartedAt) {
			summary.StartedAt = t.Timestamp
		}
		if t.Timestamp.After(summary.LastAt) {
			summary.LastAt = t.Timestamp
		}
		if summary.FirstQuestion == "" && t.Role == domain.RoleUser {
			summary.FirstQuestion = t.Content
		}
	}
	return summary
}
