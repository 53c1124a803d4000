package mapper

import (
	"reflect"
	"testing"
	"time"

	"adalchemy-bot/internal/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeKeywords(t *testing.T) {
	m := NewDocumentMapper()

	tests := []struct {
		name string
		raw  interface{}
		want []entity.Keyword
	}{
		{
			name: "plain string list",
			raw:  primitive.A{"emergency plumber", "boiler repair"},
			want: []entity.Keyword{
				{Text: "emergency plumber", AvgMonthlySearches: "N/A", Competition: "N/A"},
				{Text: "boiler repair", AvgMonthlySearches: "N/A", Competition: "N/A"},
			},
		},
		{
			name: "record list",
			raw: primitive.A{
				primitive.M{"text": "drain cleaning", "avg_monthly_searches": "1200", "competition": "HIGH"},
				primitive.M{"no_text_field": true},
			},
			want: []entity.Keyword{
				{Text: "drain cleaning", AvgMonthlySearches: "1200", Competition: "HIGH"},
			},
		},
		{
			name: "text to attributes map",
			raw: primitive.M{
				"leak detection": primitive.M{"avg_monthly_searches": int32(480), "competition": "LOW"},
			},
			want: []entity.Keyword{
				{Text: "leak detection", AvgMonthlySearches: "480", Competition: "LOW"},
			},
		},
		{
			name: "mixed list keeps strings and records",
			raw: primitive.A{
				"water heater",
				primitive.M{"text": "sump pump", "competition": "MEDIUM"},
			},
			want: []entity.Keyword{
				{Text: "water heater", AvgMonthlySearches: "N/A", Competition: "N/A"},
				{Text: "sump pump", AvgMonthlySearches: "N/A", Competition: "MEDIUM"},
			},
		},
		{name: "nil", raw: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.NormalizeKeywords(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizePersonas(t *testing.T) {
	m := NewDocumentMapper()

	got := m.NormalizePersonas(primitive.A{
		"Busy homeowner",
		primitive.M{
			"title":       "Property manager",
			"motivation":  "minimize downtime",
			"pain_points": "slow response times",
		},
	})
	want := []entity.Persona{
		{Title: "Busy homeowner"},
		{Title: "Property manager", Motivation: "minimize downtime", PainPoints: "slow response times"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	single := m.NormalizePersonas(primitive.M{"title": "Landlord"})
	if len(single) != 1 || single[0].Title != "Landlord" {
		t.Errorf("single record: %+v", single)
	}
}

func TestNormalizeLastUpdate(t *testing.T) {
	m := NewDocumentMapper()

	stamp := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := m.normalizeLastUpdate(primitive.NewDateTimeFromTime(stamp)); got != "2025-03-14T09:26:53Z" {
		t.Errorf("datetime: %q", got)
	}
	if got := m.normalizeLastUpdate("2025-03-14 09:26:53"); got != "2025-03-14 09:26:53" {
		t.Errorf("string passthrough: %q", got)
	}
	if got := m.normalizeLastUpdate(nil); got != "N/A" {
		t.Errorf("missing: %q", got)
	}
}
