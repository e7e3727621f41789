// internal/memory/redis.go

// Package memory persists conversation history in Redis so the chat model can
// see recent exchanges. Memory is best-effort: when Redis is down the bot
// keeps talking, it just remembers less.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

const (
	keyPrefix  = "ana:history:"
	defaultTTL = 24 * time.Hour
)

// Store is the conversation memory used by the dispatcher.
type Store interface {
	SaveInteraction(ctx context.Context, sessionID, userText, aiText string) error
	RecentInteractions(ctx context.Context, sessionID string, limit int) ([]models.Interaction, error)
}

// RedisStore keeps one capped Redis list per session, newest first, expiring
// a day after the last exchange.
type RedisStore struct {
	client *redis.Client
	cap    int
	ttl    time.Duration
	log    logger.Logger
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, historyCap int, log logger.Logger) *RedisStore {
	if historyCap <= 0 {
		historyCap = 10
	}
	return &RedisStore{
		client: client,
		cap:    historyCap,
		ttl:    defaultTTL,
		log:    log,
		now:    time.Now,
	}
}

// SaveInteraction pushes one exchange and trims the list to the cap.
func (s *RedisStore) SaveInteraction(ctx context.Context, sessionID, userText, aiText string) error {
	entry := models.Interaction{
		UserMessage: userText,
		AIMessage:   aiText,
		At:          s.now(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode interaction: %w", err)
	}

	key := keyPrefix + sessionID
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(s.cap-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns up to limit exchanges, oldest first, ready to
// replay as chat context. Entries that fail to decode are skipped.
func (s *RedisStore) RecentInteractions(ctx context.Context, sessionID string, limit int) ([]models.Interaction, error) {
	if limit <= 0 || limit > s.cap {
		limit = s.cap
	}
	raw, err := s.client.LRange(ctx, keyPrefix+sessionID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	// Stored newest first, replayed oldest first.
	out := make([]models.Interaction, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var entry models.Interaction
		if err := json.Unmarshal([]byte(raw[i]), &entry); err != nil {
			s.log.Warn("dropping undecodable history entry", map[string]interface{}{
				"sessionId": sessionID,
			})
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}
