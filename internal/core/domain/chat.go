package domain

import "time"

// ChatErrorMessage is the content of the turn appended when a query fails.
const ChatErrorMessage = "Sorry, I encountered an error processing your request."

// Role identifies who authored a chat turn.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatTurn is one entry in an assistant conversation.
// Turns are immutable once appended to a session.
type ChatTurn struct {
	// ID is unique within the session and sorts in append order.
	ID string `json:"id" yaml:"id"`

	// Role is the author.
	Role Role `json:"role" yaml:"role"`

	// Content is the question, answer, or error text.
	Content string `json:"content" yaml:"content"`

	// Timestamp is when the turn was appended.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Metrics are set on successful assistant turns only.
	Metrics *QueryMetrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// RetrievedTexts are set on successful assistant turns only.
	RetrievedTexts []RetrievedText `json:"retrieved_texts,omitempty" yaml:"retrieved_texts,omitempty"`

	// IsError marks an assistant turn that reports a failed query.
	IsError bool `json:"is_error,omitempty" yaml:"is_error,omitempty"`
}

// ChatSessionSummary describes a stored conversation.
type ChatSessionSummary struct {
	// ID is the session identifier.
	ID string `json:"id" yaml:"id"`

	// Turns is the number of stored turns.
	Turns int `json:"turns" yaml:"turns"`

	// StartedAt is the timestamp of the first turn.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// LastAt is the timestamp of the latest turn.
	LastAt time.Time `json:"last_at" yaml:"last_at"`

	// FirstQuestion is the content of the first user turn.
	FirstQuestion string `json:"first_question" yaml:"first_question"`
}
