package contract

import (
	"context"

	"adalchemy-bot/internal/entity"
)

// MappingRepository manages the guild-to-business mapping records that gate
// every command behind a completed onboarding.
type MappingRepository interface {
	FindByOwner(ctx context.Context, ownerID string) (*entity.BusinessMapping, error)
	FindByBusiness(ctx context.Context, businessName string) (*entity.BusinessMapping, error)
	Insert(ctx context.Context, mapping *entity.BusinessMapping) error
	// AttachOwner adds ownerID to the mapping's owner set and records the
	// guild's notification webhook. Adding an existing owner is a no-op.
	AttachOwner(ctx context.Context, businessName, ownerID, webhookURL string) error
	SetBusinessName(ctx context.Context, ownerID, businessName string) error
	SetWebsiteLink(ctx context.Context, businessName, websiteLink string) error
	SetOnboarded(ctx context.Context, businessName string, onboarded bool) error
}
