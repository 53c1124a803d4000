package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdsCredentials wraps the Google Ads API credential blob a business uploaded.
// The blob keeps whatever shape the user's JSON file had; the campaign service
// validates required fields and injects developer_token and customer_id before
// it is stored.
type AdsCredentials struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	BusinessName string                 `bson:"business_name,omitempty" json:"business_name,omitempty"`
	Credentials  map[string]interface{} `bson:"credentials" json:"credentials"`
}
