// FILE: internal/entity/business_document.go
package entity

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Keyword is the canonical keyword record. The research pipeline has written
// keywords as plain strings, records and text->attributes maps over time; the
// mapper normalizes all of them into this shape at the store boundary.
type Keyword struct {
	Text               string `bson:"text" json:"text"`
	AvgMonthlySearches string `bson:"avg_monthly_searches" json:"avg_monthly_searches"`
	Competition        string `bson:"competition" json:"competition"`
}

// AdVariation is one generated ad copy candidate.
type AdVariation struct {
	Headlines    []string `bson:"headlines" json:"headlines"`
	Descriptions []string `bson:"descriptions" json:"descriptions"`
	Keywords     []string `bson:"keywords" json:"keywords"`
}

// FinalizedAd is a user override for the ad variation at Index.
type FinalizedAd struct {
	Index       int    `bson:"index" json:"index"`
	Headline    string `bson:"headline" json:"headline"`
	Description string `bson:"description" json:"description"`
}

// Persona is a structured user persona record.
type Persona struct {
	Title        string `bson:"title" json:"title"`
	Demographics string `bson:"demographics" json:"demographics"`
	Motivation   string `bson:"motivation" json:"motivation"`
	PainPoints   string `bson:"pain_points" json:"pain_points"`
	Goals        string `bson:"goals" json:"goals"`
	Preferences  string `bson:"preferences" json:"preferences"`
}

// BusinessDocument is the latest research/keyword/ad snapshot for a business.
// Documents are appended by the research pipeline; only the latest one is ever
// shown or mutated. Revision guards replaces of the keyword and ad fields
// against concurrent sessions.
type BusinessDocument struct {
	ID               primitive.ObjectID
	Business         string
	SelectedKeywords []Keyword
	Keywords         []Keyword
	AdVariations     []AdVariation
	FinalizedAdText  []FinalizedAd
	PathsTaken       []string
	UserPersonas     []Persona
	LastUpdate       string
	Revision         int64
}
