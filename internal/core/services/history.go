package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads stored chat transcripts.
type HistoryService struct {
	store driven.TranscriptStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.TranscriptStore) *HistoryService {
	return &HistoryService{store: store}
}

// Sessions lists stored sessions, most recent first.
func (s *HistoryService) Sessions(ctx context.Context) ([]domain.ChatSessionSummary, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	return sessions, nil
}

// Transcript returns a session's turns.
func (s *HistoryService) Transcript(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	turns, err := s.store.GetTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	return turns, nil
}

// Delete removes a stored session.
func (s *HistoryService) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	return nil
}
