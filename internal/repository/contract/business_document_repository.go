package contract

import (
	"context"

	"adalchemy-bot/internal/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessDocumentRepository reads and writes the per-business marketing
// documents. Each business has its own collection; the canonical state is the
// most recent document in it.
//
// Mutating operations that rewrite whole arrays take the document id and the
// revision observed at read time and return ErrRevisionConflict when the
// document has since moved on.
type BusinessDocumentRepository interface {
	// Latest returns the most recent document for the business, ordered by
	// last_update descending with insertion order as the tiebreak.
	Latest(ctx context.Context, businessName string) (*entity.BusinessDocument, error)

	ReplaceSelectedKeywords(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, selected []entity.Keyword) error
	InsertWithSelectedKeywords(ctx context.Context, businessName string, selected []entity.Keyword) error

	ReplaceFinalizedAds(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, finalized []entity.FinalizedAd) error
	InsertWithFinalizedAds(ctx context.Context, businessName string, finalized []entity.FinalizedAd) error

	// DeleteVariation removes the ad variation at index and installs the
	// rekeyed finalized list in the same write.
	DeleteVariation(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, variations []entity.AdVariation, finalized []entity.FinalizedAd) error

	// SetBusinessInfo upserts the business name and website link fields on
	// the latest document, creating one when the collection is empty.
	SetBusinessInfo(ctx context.Context, businessName, websiteLink string) error

	// SetBusinessText replaces the free-text business description.
	SetBusinessText(ctx context.Context, businessName string, id primitive.ObjectID, text string) error

	PushPath(ctx context.Context, businessName string, id primitive.ObjectID, path string) error

	PushPersona(ctx context.Context, businessName string, id primitive.ObjectID, persona entity.Persona) error
	SetPersona(ctx context.Context, businessName string, id primitive.ObjectID, index int, persona entity.Persona) error
	PullPersona(ctx context.Context, businessName string, id primitive.ObjectID, persona entity.Persona) error
}
