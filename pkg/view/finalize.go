// FILE: pkg/view/finalize.go
package view

import (
	"fmt"
	"strings"

	"adalchemy-bot/internal/entity"
)

// Google Ads hard limits for responsive search ad text.
const (
	MaxHeadlineLen    = 30
	MaxDescriptionLen = 90
)

// ValidationError carries the enumerated limit violations of a rejected edit.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "cannot save ad text: " + strings.Join(e.Violations, "; ")
}

// ValidateAdText checks the platform character limits. The modal labels frame
// them as advisory, but a commit with oversized text is rejected outright.
func ValidateAdText(headline, description string) error {
	var violations []string
	if n := len(headline); n > MaxHeadlineLen {
		violations = append(violations, fmt.Sprintf("headline exceeds %d characters (current: %d)", MaxHeadlineLen, n))
	}
	if n := len(description); n > MaxDescriptionLen {
		violations = append(violations, fmt.Sprintf("description exceeds %d characters (current: %d)", MaxDescriptionLen, n))
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// ValidateAdVariation checks every headline and description of a whole
// variation edit, enumerating all violations at once.
func ValidateAdVariation(headlines, descriptions []string) error {
	var violations []string
	for i, h := range headlines {
		if n := len(h); n > MaxHeadlineLen {
			violations = append(violations, fmt.Sprintf("headline %d exceeds %d characters (current: %d)", i+1, MaxHeadlineLen, n))
		}
	}
	for i, d := range descriptions {
		if n := len(d); n > MaxDescriptionLen {
			violations = append(violations, fmt.Sprintf("description %d exceeds %d characters (current: %d)", i+1, MaxDescriptionLen, n))
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Overlay is the sparse, index-addressed layer of finalized ad edits sitting
// over the generated ad variations. At most one entry exists per index.
type Overlay struct {
	entries []entity.FinalizedAd
}

func NewOverlay(entries []entity.FinalizedAd) *Overlay {
	o := &Overlay{}
	for _, e := range entries {
		o.put(e)
	}
	return o
}

func (o *Overlay) put(e entity.FinalizedAd) {
	o.remove(e.Index)
	o.entries = append(o.entries, e)
}

func (o *Overlay) remove(index int) {
	kept := o.entries[:0]
	for _, e := range o.entries {
		if e.Index != index {
			kept = append(kept, e)
		}
	}
	o.entries = kept
}

// At returns the finalized entry for index, if any.
func (o *Overlay) At(index int) (entity.FinalizedAd, bool) {
	for _, e := range o.entries {
		if e.Index == index {
			return e, true
		}
	}
	return entity.FinalizedAd{}, false
}

// Set validates and stages an override for index, replacing any prior entry at
// that index. On a validation failure the overlay is left untouched.
func (o *Overlay) Set(index int, headline, description string) error {
	if err := ValidateAdText(headline, description); err != nil {
		return err
	}
	o.put(entity.FinalizedAd{Index: index, Headline: headline, Description: description})
	return nil
}

// Remove drops the entry at index, if present.
func (o *Overlay) Remove(index int) { o.remove(index) }

// Rekey removes the entry at the deleted variation index and shifts every
// entry above it down by one, keeping overlay positions aligned with the
// now-shorter variation list.
func (o *Overlay) Rekey(deleted int) {
	kept := o.entries[:0]
	for _, e := range o.entries {
		switch {
		case e.Index == deleted:
			continue
		case e.Index > deleted:
			e.Index--
			kept = append(kept, e)
		default:
			kept = append(kept, e)
		}
	}
	o.entries = kept
}

// Entries returns the overlay as the list committed to finalized_ad_text.
func (o *Overlay) Entries() []entity.FinalizedAd {
	out := make([]entity.FinalizedAd, len(o.entries))
	copy(out, o.entries)
	return out
}

// Resolve returns the display text for the variation at index: the finalized
// override when one exists, otherwise the first generated headline and
// description.
func (o *Overlay) Resolve(index int, generated entity.AdVariation) (headline, description string, finalized bool) {
	if e, ok := o.At(index); ok {
		return e.Headline, e.Description, true
	}
	if len(generated.Headlines) > 0 {
		headline = generated.Headlines[0]
	}
	if len(generated.Descriptions) > 0 {
		description = generated.Descriptions[0]
	}
	return headline, description, false
}
