// internal/memory/redis_test.go
package memory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ana-voicebot/internal/common/logger"
)

func newTestStore(t *testing.T, historyCap int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, historyCap, logger.NewTestLogger(t)), mr
}

func TestSaveAndLoadInteractions(t *testing.T) {
	store, _ := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.SaveInteraction(ctx, "s1", "hola", "¡Hola! Soy Ana."))
	require.NoError(t, store.SaveInteraction(ctx, "s1", "qué préstamos tienen", "Ofrecemos varios tipos."))

	history, err := store.RecentInteractions(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hola", history[0].UserMessage, "oldest first")
	assert.Equal(t, "qué préstamos tienen", history[1].UserMessage)
}

func TestHistoryTrimmedToCap(t *testing.T) {
	store, _ := newTestStore(t, 3)
	ctx := context.Background()

	for _, msg := range []string{"uno", "dos", "tres", "cuatro", "cinco"} {
		require.NoError(t, store.SaveInteraction(ctx, "s1", msg, "ok"))
	}

	history, err := store.RecentInteractions(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "tres", history[0].UserMessage)
	assert.Equal(t, "cinco", history[2].UserMessage)
}

func TestSessionsIsolated(t *testing.T) {
	store, _ := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.SaveInteraction(ctx, "s1", "hola", "hola s1"))
	require.NoError(t, store.SaveInteraction(ctx, "s2", "buenas", "hola s2"))

	history, err := store.RecentInteractions(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hola", history[0].UserMessage)
}

func TestEmptyHistory(t *testing.T) {
	store, _ := newTestStore(t, 10)

	history, err := store.RecentInteractions(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryExpires(t *testing.T) {
	store, mr := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.SaveInteraction(ctx, "s1", "hola", "hola"))
	mr.FastForward(defaultTTL + 1)

	history, err := store.RecentInteractions(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSaveFailsWhenRedisDown(t *testing.T) {
	store, mr := newTestStore(t, 10)
	mr.Close()

	err := store.SaveInteraction(context.Background(), "s1", "hola", "hola")
	assert.Error(t, err)
}
