package contract

import "context"

// CredentialsRepository stores the ads-platform OAuth credentials uploaded
// per business. Secrets never leave this store except toward the ads API.
type CredentialsRepository interface {
	Get(ctx context.Context, businessName string) (map[string]interface{}, error)
	Upsert(ctx context.Context, businessName string, credentials map[string]interface{}) error
	SetRefreshToken(ctx context.Context, businessName, refreshToken string) error
}
