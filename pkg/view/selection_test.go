package view

import (
	"testing"

	"adalchemy-bot/internal/entity"
)

func kw(text string) entity.Keyword {
	return entity.Keyword{Text: text, AvgMonthlySearches: "100", Competition: "LOW"}
}

func TestSelectionToggleIdempotentPairs(t *testing.T) {
	s := NewSelection([]entity.Keyword{kw("alpha"), kw("beta")})

	before := make(map[string]bool)
	for _, v := range s.Values() {
		before[v.Text] = true
	}

	// Toggling the same item twice restores the prior state.
	if err := s.Toggle(kw("gamma")); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(kw("gamma")); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(kw("alpha")); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(kw("alpha")); err != nil {
		t.Fatal(err)
	}

	after := make(map[string]bool)
	for _, v := range s.Values() {
		after[v.Text] = true
	}
	if len(after) != len(before) {
		t.Fatalf("selection size changed: %d -> %d", len(before), len(after))
	}
	for text := range before {
		if !after[text] {
			t.Errorf("keyword %q lost after paired toggles", text)
		}
	}
}

func TestSelectionSymmetricDifference(t *testing.T) {
	// persisted = {a, b}; toggles = {b, c}; expect {a, c}.
	s := NewSelection([]entity.Keyword{kw("a"), kw("b")})
	if err := s.Toggle(kw("b")); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(kw("c")); err != nil {
		t.Fatal(err)
	}

	values := s.Values()
	if len(values) != 2 {
		t.Fatalf("Values() = %d entries, want 2", len(values))
	}
	if values[0].Text != "a" || values[1].Text != "c" {
		t.Errorf("Values() order = [%s %s], want [a c]", values[0].Text, values[1].Text)
	}
	if s.Has("b") {
		t.Error("deselected keyword still reported as selected")
	}
}

func TestSelectionAttributesFromLastToucher(t *testing.T) {
	persisted := entity.Keyword{Text: "x", AvgMonthlySearches: "N/A", Competition: "N/A"}
	s := NewSelection([]entity.Keyword{persisted})

	// Deselect then reselect with fresh attributes from the new pool.
	fresh := entity.Keyword{Text: "x", AvgMonthlySearches: "4400", Competition: "HIGH"}
	if err := s.Toggle(persisted); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(fresh); err != nil {
		t.Fatal(err)
	}

	values := s.Values()
	if len(values) != 1 {
		t.Fatalf("Values() = %d entries, want 1", len(values))
	}
	if values[0].AvgMonthlySearches != "4400" || values[0].Competition != "HIGH" {
		t.Errorf("attributes not taken from last toucher: %+v", values[0])
	}
}

func TestSelectionClosedRejectsToggles(t *testing.T) {
	s := NewSelection(nil)
	s.Close()
	if err := s.Toggle(kw("late")); err != ErrSessionClosed {
		t.Errorf("Toggle() after Close = %v, want ErrSessionClosed", err)
	}
}

func TestSelectionMembershipIgnoresPool(t *testing.T) {
	// The same text in both pools is one membership decision.
	s := NewSelection([]entity.Keyword{kw("shared")})
	if err := s.Toggle(entity.Keyword{Text: "shared", AvgMonthlySearches: "10", Competition: "LOW"}); err != nil {
		t.Fatal(err)
	}
	if s.Has("shared") {
		t.Error("toggle from the other pool did not deselect by text key")
	}
}
