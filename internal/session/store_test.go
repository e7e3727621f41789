// internal/session/store_test.go
package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

func TestGetOrCreateStartsInGeneralChat(t *testing.T) {
	store := NewStore(logger.NewTestLogger(t))

	rec := store.GetOrCreate("s1")
	assert.Equal(t, models.StateGeneralChat, rec.CurrentState)
	assert.NotEmpty(t, rec.Application.ApplicationID)
	assert.Equal(t, 1, store.Len())

	again := store.GetOrCreate("s1")
	assert.Same(t, rec, again)
	assert.Equal(t, 1, store.Len())
}

func TestSetStateResetsRetriesOnlyOnChange(t *testing.T) {
	store := NewStore(logger.NewTestLogger(t))

	store.SetState("s1", models.StateAskMinimumAge)
	store.IncrementRetry("s1")

	// Re-entering the same state keeps the counter: a re-prompt must not
	// grant extra attempts.
	store.SetState("s1", models.StateAskMinimumAge)
	assert.Equal(t, 2, store.IncrementRetry("s1"))

	store.SetState("s1", models.StateAskResidency)
	assert.Equal(t, 1, store.IncrementRetry("s1"))
}

func TestStartApplicationReplacesRecord(t *testing.T) {
	store := NewStore(logger.NewTestLogger(t))

	first := store.StartApplication("s1")
	first.FullName = "Juan Pérez García"
	first.LoanAmount = 50000
	store.IncrementRetry("s1")

	second := store.StartApplication("s1")
	assert.NotEqual(t, first.ApplicationID, second.ApplicationID)
	assert.Empty(t, second.FullName, "no field survives a prior attempt")
	assert.Zero(t, second.LoanAmount)
	assert.Equal(t, models.StateAskEligibilityPermission, store.State("s1"))
	assert.Equal(t, 1, store.IncrementRetry("s1"), "retries start clean")
}

func TestMarkIntroducedIsIdempotent(t *testing.T) {
	store := NewStore(logger.NewTestLogger(t))

	assert.False(t, store.WasIntroduced("s1"))
	store.MarkIntroduced("s1")
	assert.True(t, store.WasIntroduced("s1"))
	store.MarkIntroduced("s1")
	assert.True(t, store.WasIntroduced("s1"))
}

func TestHistoryCapAndOrder(t *testing.T) {
	store := NewStore(logger.NewTestLogger(t), WithHistoryCap(3))

	for _, msg := range []string{"uno", "dos", "tres", "cuatro"} {
		store.AppendHistory("s1", msg, "respuesta")
	}

	history := store.RecentHistory("s1", 10)
	require.Len(t, history, 3)
	assert.Equal(t, "dos", history[0].UserMessage, "oldest first")
	assert.Equal(t, "cuatro", history[2].UserMessage)

	assert.Len(t, store.RecentHistory("s1", 2), 2)
	assert.Nil(t, store.RecentHistory("unknown", 5))
}

func TestEvictIdle(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	current := base
	store := NewStore(logger.NewTestLogger(t), WithClock(func() time.Time { return current }))

	store.GetOrCreate("old")
	current = base.Add(10 * time.Minute)
	store.GetOrCreate("fresh")

	evicted := store.EvictIdle(base.Add(35*time.Minute), 30*time.Minute)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Snapshot("old")
	assert.False(t, ok)
	_, ok = store.Snapshot("fresh")
	assert.True(t, ok)
}

func TestSnapshotDoesNotCreateSessions(t *testing.T) {
	store := NewStore(logger.NewTestLogger(t))

	_, ok := store.Snapshot("ghost")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}
