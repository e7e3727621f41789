// internal/models/session.go
package models

import "time"

// Interaction is one user/assistant exchange, kept as LLM fallback context.
type Interaction struct {
	UserMessage string    `json:"user_message"`
	AIMessage   string    `json:"ai_message"`
	At          time.Time `json:"at"`
}

// SessionRecord holds the per-conversation state for one caller.
type SessionRecord struct {
	SessionID    string
	CurrentState ConversationState
	Application  *ApplicationRecord
	RetryCount   int
	Introduced   bool
	History      []Interaction
	CreatedAt    time.Time
	LastActivity time.Time
}

// IdleSince reports whether the session has been inactive longer than timeout.
func (s *SessionRecord) IdleSince(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}
