package view

import (
	"adalchemy-bot/internal/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies which interactive view a session drives.
type Kind string

const (
	KindBusiness Kind = "business"
	KindPaths    Kind = "paths"
	KindPersonas Kind = "personas"
	KindKeywords Kind = "keywords"
	KindAdText   Kind = "adtext"
	KindAdReview Kind = "adreview"
	KindHelp     Kind = "help"
)

// Keyword categories shown by the keyword view.
const (
	CategorySelected = "selected"
	CategoryNew      = "new"
)

// Ad text categories shown by the ad text view.
const (
	CategoryGenerated = "new"
	CategoryFinalized = "finalized"
)

// Session is the in-memory state of one open interactive view: the pagination
// cursor, the live selection or overlay, and a snapshot of the document lists
// it was opened against. Sessions live in the view-session store under a TTL
// matching the platform's view expiry; only terminal actions persist anything.
type Session struct {
	ID       string
	GuildID  string
	UserID   string
	Kind     Kind
	Business string
	Category string

	// CAS anchor of the document the view was built from.
	DocID    primitive.ObjectID
	Revision int64

	Pager     *Pager
	Selection *Selection
	Overlay   *Overlay

	// Snapshots by view kind.
	Pages            []string // business info / help, pre-chunked
	Paths            []string
	Personas         []entity.Persona
	SelectedKeywords []entity.Keyword
	NewKeywords      []entity.Keyword
	AdVariations     []entity.AdVariation
	LastUpdate       string

	// Ad review / campaign flow state.
	Website      string
	SelectedAds  map[int]bool
	CustomerID   string
	Credentials  map[string]interface{}
	CampaignName string
	AuthURL      string
	AuthState    string
}

// ActiveKeywords returns the keyword pool for the current category.
func (s *Session) ActiveKeywords() []entity.Keyword {
	if s.Category == CategorySelected {
		return s.SelectedKeywords
	}
	return s.NewKeywords
}

// SwitchCategory changes the visible list and resets the cursor, so the window
// never indexes past the other list's end.
func (s *Session) SwitchCategory(category string) {
	if category == s.Category {
		return
	}
	s.Category = category
	if s.Pager != nil {
		s.Pager.Reset()
		switch s.Kind {
		case KindKeywords:
			s.Pager.Retarget(len(s.ActiveKeywords()))
		case KindAdText:
			s.Pager.Retarget(len(s.AdVariations))
		}
	}
}
