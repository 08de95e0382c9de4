package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// Ensure ChatSession implements the interface.
var (
	_ driving.ChatSession  = (*ChatSession)(nil)
	_ driving.PendingQuery = (*pendingQuery)(nil)
)

// ChatSession runs one question at a time against the backend query
// endpoint and keeps the resulting turns in order.
type ChatSession struct {
	id      string
	backend driven.Backend
	limit   int
	store   driven.TranscriptStore
	now     func() time.Time

	mu       sync.Mutex
	turns    []domain.ChatTurn
	inFlight bool
	closed   bool
}

// NewChatSession creates a session. A non-positive limit uses
// domain.DefaultQueryLimit. The transcript store is optional.
func NewChatSession(backend driven.Backend, limit int, store driven.TranscriptStore) *ChatSession {
	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}
	return &ChatSession{
		id:      newID(),
		backend: backend,
		limit:   limit,
		store:   store,
		now:     time.Now,
	}
}

// ID identifies the session in transcript storage.
func (s *ChatSession) ID() string {
	return s.id
}

// Ask appends the user turn and returns the query to resolve.
func (s *ChatSession) Ask(question string) (driving.PendingQuery, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, domain.ErrQueryInFlight
	}
	s.inFlight = true
	turn := domain.ChatTurn{
		ID:        newID(),
		Role:      domain.RoleUser,
		Content:   question,
		Timestamp: s.now(),
	}
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	s.persist(turn)
	return &pendingQuery{session: s, question: question}, nil
}

// Submit asks a question and waits for the assistant turn.
func (s *ChatSession) Submit(ctx context.Context, question string) (domain.ChatTurn, error) {
	pending, err := s.Ask(question)
	if err != nil {
		return domain.ChatTurn{}, err
	}
	return pending.Resolve(ctx), nil
}

// Clear discards all turns. An in-flight query still appends its answer.
func (s *ChatSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Close marks the session's owner as gone. Later results are not appended.
func (s *ChatSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Turns returns a copy of the turn sequence.
func (s *ChatSession) Turns() []domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// InFlight reports whether a query is outstanding.
func (s *ChatSession) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// answer performs the query and builds the assistant turn.
func (s *ChatSession) answer(ctx context.Context, question string) domain.ChatTurn {
	turn := domain.ChatTurn{
		ID:   newID(),
		Role: domain.RoleAssistant,
	}

	res, err := s.backend.Query(ctx, question, s.limit)
	switch {
	case err != nil:
		logger.Warn("query failed (%s): %v", domain.Classify(err), err)
		turn.Content = domain.ChatErrorMessage
		turn.IsError = true
	case strings.TrimSpace(res.Value.Text) == "":
		logger.Warn("query returned an empty answer")
		turn.Content = domain.ChatErrorMessage
		turn.IsError = true
	default:
		metrics := res.Value.Metrics
		turn.Content = res.Value.Text
		turn.Metrics = &metrics
		turn.RetrievedTexts = res.Value.RetrievedTexts
	}

	turn.Timestamp = s.now()
	return turn
}

// finish appends the assistant turn unless the owner has gone.
func (s *ChatSession) finish(turn domain.ChatTurn) {
	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		logger.Debug("chat session %s closed, dropping answer", s.id)
		return
	}
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	s.persist(turn)
}

// persist records a turn. Storage failures do not affect the conversation.
func (s *ChatSession) persist(turn domain.ChatTurn) {
	if s.store == nil {
		return
	}
	if err := s.store.AppendTurn(context.Background(), s.id, turn); err != nil {
		logger.Warn("saving chat turn: %v", err)
	}
}

// pendingQuery resolves at most once.
type pendingQuery struct {
	session  *ChatSession
	question string

	once sync.Once
	turn domain.ChatTurn
}

// Question returns the submitted text.
func (q *pendingQuery) Question() string {
	return q.question
}

// Resolve performs the query and appends one assistant turn.
// Later calls return the same turn without querying again.
func (q *pendingQuery) Resolve(ctx context.Context) domain.ChatTurn {
	q.once.Do(func() {
		q.turn = q.session.answer(ctx, q.question)
		q.session.finish(q.turn)
	})
	return q.turn
}

// newID returns a time-ordered UUID.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
