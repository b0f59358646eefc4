// File: services/intelligence/contextStore.go
package ai

import (
	"context"
	"encoding/json"
	"time"

	"tripmate/models"

	"github.com/go-redis/redis/v8"
)

const chatContextPrefix = "chat:ctx:"

// maxCachedTurns bounds how much transcript is kept hot per session.
const maxCachedTurns = 20

// ConversationStore keeps the recent-turn window of a chat session that is
// fed to the capability as conversational context on each turn.
type ConversationStore interface {
	Get(ctx context.Context, sessionID string) ([]models.ChatTurn, error)
	Append(ctx context.Context, sessionID string, turns ...models.ChatTurn) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisConversationStore caches the most recent turns of a chat session so
// assembling the capability's conversational context doesn't need a
// database round trip.
type RedisConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ConversationStore = (*RedisConversationStore)(nil)

func NewRedisConversationStore(client *redis.Client, ttl time.Duration) *RedisConversationStore {
	return &RedisConversationStore{client: client, ttl: ttl}
}

func (s *RedisConversationStore) Get(ctx context.Context, sessionID string) ([]models.ChatTurn, error) {
	key := chatContextPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var turns []models.ChatTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// Append adds turns to the cached window, truncating to the most recent
// maxCachedTurns entries.
func (s *RedisConversationStore) Append(ctx context.Context, sessionID string, turns ...models.ChatTurn) error {
	existing, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	existing = append(existing, turns...)
	if len(existing) > maxCachedTurns {
		existing = existing[len(existing)-maxCachedTurns:]
	}

	b, err := json.Marshal(existing)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, chatContextPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisConversationStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, chatContextPrefix+sessionID).Err()
}
