package store

import "time"

// Conversation is the onboarding dialogue state for one guild. It is created
// on first contact and frozen once the stage reaches StageComplete or
// StageEnded.
type Conversation struct {
	GuildID      string    `json:"guild_id"`
	Stage        string    `json:"stage"`
	SecondChance bool      `json:"second_chance"` // set after the first "No" at the consent stage
	BusinessName string    `json:"business_name"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	StageAwaitingBusinessName = "awaiting_business_name"
	StageAwaitingWebsite      = "awaiting_website"
	StageAwaitingConsent      = "awaiting_consent"
	StageComplete             = "complete"
	StageEnded                = "ended"
)

// Terminal reports whether the dialogue accepts any further input.
func (c *Conversation) Terminal() bool {
	return c.Stage == StageComplete || c.Stage == StageEnded
}
