package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessDocument is the bson-facing shape of a research snapshot. Several
// fields have been written with different types over the pipeline's lifetime
// (keywords as strings, records or maps; personas as a bare string or a list;
// last_update as a string or a datetime), so they decode loosely here and the
// mapper produces the canonical entity exactly once.
type BusinessDocument struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Business         string               `bson:"business,omitempty"`
	SelectedKeywords interface{}          `bson:"selected_keywords,omitempty"`
	Keywords         interface{}          `bson:"keywords,omitempty"`
	AdVariations     []AdVariation        `bson:"ad_variations,omitempty"`
	FinalizedAdText  []FinalizedAd        `bson:"finalized_ad_text,omitempty"`
	PathsTaken       []string             `bson:"list_of_paths_taken,omitempty"`
	UserPersonas     interface{}          `bson:"user_personas,omitempty"`
	LastUpdate       interface{}          `bson:"last_update,omitempty"`
	Revision         int64                `bson:"revision,omitempty"`
}

type AdVariation struct {
	Headlines    []string `bson:"headlines"`
	Descriptions []string `bson:"descriptions"`
	Keywords     []string `bson:"keywords"`
}

type FinalizedAd struct {
	Index       int    `bson:"index"`
	Headline    string `bson:"headline"`
	Description string `bson:"description"`
}
