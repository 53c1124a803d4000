// FILE: pkg/view/selection.go
package view

import (
	"errors"

	"adalchemy-bot/internal/entity"
)

// ErrSessionClosed is returned when a view receives input after its terminal
// action already committed.
var ErrSessionClosed = errors.New("view session already submitted")

// Selection tracks the mutable keyword subset of one open keyword view. It is
// seeded from the persisted selection and mutated by toggles; Values feeds the
// replace write on submit.
type Selection struct {
	selected  map[string]entity.Keyword
	order     []string // persisted order first, then toggle insertion order
	submitted bool
}

// NewSelection seeds the live selection from the persisted records. Duplicate
// texts collapse onto the last occurrence.
func NewSelection(persisted []entity.Keyword) *Selection {
	s := &Selection{selected: make(map[string]entity.Keyword, len(persisted))}
	for _, kw := range persisted {
		if _, ok := s.selected[kw.Text]; !ok {
			s.order = append(s.order, kw.Text)
		}
		s.selected[kw.Text] = kw
	}
	return s
}

// Toggle removes the keyword if its text is selected and inserts it otherwise.
// Membership is decided by text alone, regardless of which pool the keyword
// came from.
func (s *Selection) Toggle(kw entity.Keyword) error {
	if s.submitted {
		return ErrSessionClosed
	}
	if _, ok := s.selected[kw.Text]; ok {
		delete(s.selected, kw.Text)
		for i, text := range s.order {
			if text == kw.Text {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return nil
	}
	s.selected[kw.Text] = kw
	s.order = append(s.order, kw.Text)
	return nil
}

// Has reports membership by text key.
func (s *Selection) Has(text string) bool {
	_, ok := s.selected[text]
	return ok
}

// Values returns the current selection in insertion order. This is the exact
// list committed to selected_keywords on submit.
func (s *Selection) Values() []entity.Keyword {
	out := make([]entity.Keyword, 0, len(s.order))
	for _, text := range s.order {
		out = append(out, s.selected[text])
	}
	return out
}

func (s *Selection) Len() int { return len(s.selected) }

// Close marks the selection terminal after a successful submit.
func (s *Selection) Close() { s.submitted = true }

func (s *Selection) Closed() bool { return s.submitted }
