// internal/session/store.go
package session

import (
	"sync"
	"time"

	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

const defaultHistoryCap = 10

// Store maps session identifiers to their SessionRecord. All operations are
// safe for concurrent use; an unknown session ID always means "new session",
// never an error.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*models.SessionRecord
	historyCap int
	log        logger.Logger
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryCap bounds the rolling per-session history kept for LLM context.
func WithHistoryCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyCap = n
		}
	}
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(log logger.Logger, opts ...Option) *Store {
	s := &Store{
		sessions:   make(map[string]*models.SessionRecord),
		historyCap: defaultHistoryCap,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the record for sessionID, lazily creating a fresh one in
// general chat. Touches the activity timestamp.
func (s *Store) GetOrCreate(sessionID string) *models.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID)
}

func (s *Store) getOrCreateLocked(sessionID string) *models.SessionRecord {
	rec, ok := s.sessions[sessionID]
	if !ok {
		now := s.now()
		rec = &models.SessionRecord{
			SessionID:    sessionID,
			CurrentState: models.StateGeneralChat,
			Application:  models.NewApplicationRecord(now),
			CreatedAt:    now,
			LastActivity: now,
		}
		s.sessions[sessionID] = rec
		s.log.Debug("session created", map[string]interface{}{"sessionId": sessionID})
	}
	rec.LastActivity = s.now()
	return rec
}

// SetState overwrites the current state. Moving to a different state resets
// the retry counter; re-entering the same state keeps it, so a re-prompt does
// not grant extra attempts.
func (s *Store) SetState(sessionID string, next models.ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getOrCreateLocked(sessionID)
	if rec.CurrentState != next {
		rec.RetryCount = 0
	}
	rec.CurrentState = next
}

// State returns the current conversation state for sessionID.
func (s *Store) State(sessionID string) models.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID).CurrentState
}

// IncrementRetry bumps the retry counter for the current state and returns the
// post-increment count.
func (s *Store) IncrementRetry(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getOrCreateLocked(sessionID)
	rec.RetryCount++
	return rec.RetryCount
}

// Application returns the session's application record.
func (s *Store) Application(sessionID string) *models.ApplicationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID).Application
}

// StartApplication discards any previously accumulated answers, installs a
// fresh ApplicationRecord with a new generated ID, and moves the session to
// the first interview state. No field survives a prior aborted attempt.
func (s *Store) StartApplication(sessionID string) *models.ApplicationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getOrCreateLocked(sessionID)
	rec.Application = models.NewApplicationRecord(s.now())
	rec.CurrentState = models.StateAskEligibilityPermission
	rec.RetryCount = 0
	s.log.Info("application flow started", map[string]interface{}{
		"sessionId":     sessionID,
		"applicationId": rec.Application.ApplicationID,
	})
	return rec.Application
}

// MarkIntroduced records that the one-time greeting has played. Idempotent.
func (s *Store) MarkIntroduced(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(sessionID).Introduced = true
}

// WasIntroduced reports whether the greeting has already played.
func (s *Store) WasIntroduced(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID).Introduced
}

// AppendHistory records one exchange in the rolling in-process history.
func (s *Store) AppendHistory(sessionID, userText, aiText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getOrCreateLocked(sessionID)
	rec.History = append(rec.History, models.Interaction{
		UserMessage: userText,
		AIMessage:   aiText,
		At:          s.now(),
	})
	if len(rec.History) > s.historyCap {
		rec.History = rec.History[len(rec.History)-s.historyCap:]
	}
}

// RecentHistory returns up to limit interactions, oldest first.
func (s *Store) RecentHistory(sessionID string, limit int) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok || limit <= 0 {
		return nil
	}
	h := rec.History
	if len(h) > limit {
		h = h[len(h)-limit:]
	}
	out := make([]models.Interaction, len(h))
	copy(out, h)
	return out
}

// EvictIdle removes sessions inactive longer than timeout and returns how many
// were dropped. Called opportunistically, not from a background timer.
func (s *Store) EvictIdle(now time.Time, timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, rec := range s.sessions {
		if rec.IdleSince(now, timeout) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Info("idle sessions evicted", map[string]interface{}{"count": evicted})
	}
	return evicted
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns a debugging view of one session without creating it.
func (s *Store) Snapshot(sessionID string) (map[string]interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return map[string]interface{}{
		"sessionId":     rec.SessionID,
		"currentState":  string(rec.CurrentState),
		"retryCount":    rec.RetryCount,
		"introduced":    rec.Introduced,
		"applicationId": rec.Application.ApplicationID,
		"lastActivity":  rec.LastActivity.Format(time.RFC3339),
	}, true
}
