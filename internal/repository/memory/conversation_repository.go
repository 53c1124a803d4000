package memory

import (
	"context"
	"time"

	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/store"

	"github.com/patrickmn/go-cache"
)

type ConversationRepository struct {
	cache *cache.Cache
}

// NewConversationRepository keeps onboarding dialogues for 24 hours. A guild
// that goes quiet mid-onboarding starts over on its next message.
func NewConversationRepository() contract.ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(24*time.Hour, 30*time.Minute),
	}
}

func (r *ConversationRepository) Get(_ context.Context, guildID string) (*store.Conversation, bool, error) {
	if x, found := r.cache.Get(guildID); found {
		return x.(*store.Conversation), true, nil
	}
	return nil, false, nil
}

func (r *ConversationRepository) Save(_ context.Context, conv *store.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()
	r.cache.Set(conv.GuildID, conv, cache.DefaultExpiration)
	return nil
}

func (r *ConversationRepository) Delete(_ context.Context, guildID string) error {
	r.cache.Delete(guildID)
	return nil
}
