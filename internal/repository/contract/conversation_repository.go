package contract

import (
	"context"

	"adalchemy-bot/pkg/store"
)

// ConversationRepository keeps onboarding dialogue state per guild. Backed by
// either the in-process cache or redis, selected at startup.
type ConversationRepository interface {
	Get(ctx context.Context, guildID string) (*store.Conversation, bool, error)
	Save(ctx context.Context, conv *store.Conversation) error
	Delete(ctx context.Context, guildID string) error
}
