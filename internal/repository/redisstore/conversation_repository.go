package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/store"

	"github.com/redis/go-redis/v9"
)

// Dialogues are long-lived: an owner can stall at the website question for
// weeks before their scheduled call.
const conversationTTL = 30 * 24 * time.Hour

// commands is the slice of redis.Cmdable this store needs.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type ConversationRepository struct {
	client commands
}

// NewConversationRepository keeps onboarding dialogues in redis so an
// in-flight onboarding survives a bot restart.
func NewConversationRepository(client *redis.Client) contract.ConversationRepository {
	return &ConversationRepository{client: client}
}

func key(guildID string) string { return "adbot:conversation:" + guildID }

func (r *ConversationRepository) Get(ctx context.Context, guildID string) (*store.Conversation, bool, error) {
	raw, err := r.client.Get(ctx, key(guildID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var conv store.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, false, err
	}
	return &conv, true, nil
}

func (r *ConversationRepository) Save(ctx context.Context, conv *store.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(conv.GuildID), raw, conversationTTL).Err()
}

func (r *ConversationRepository) Delete(ctx context.Context, guildID string) error {
	return r.client.Del(ctx, key(guildID)).Err()
}
