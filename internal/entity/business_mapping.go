package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessMapping links one or more Discord owner IDs to a business.
// The lower-cased business name is the join key into every other collection.
type BusinessMapping struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerIDs     []string           `bson:"owner_ids" json:"owner_ids"`
	BusinessName string             `bson:"business_name" json:"business_name"`
	WebsiteLink  string             `bson:"website_link" json:"website_link"`
	Onboarded    bool               `bson:"onboarded" json:"onboarded"`
	WebhookURL   string             `bson:"webhook_url" json:"webhook_url"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
