// FILE: internal/mapper/document_mapper.go
package mapper

import (
	"fmt"
	"time"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const attrMissing = "N/A"

// DocumentMapper converts the loose bson model into the canonical entity.
// All shape-sniffing of legacy field formats happens here and nowhere else;
// downstream code only ever sees the canonical records.
type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(doc *model.BusinessDocument) *entity.BusinessDocument {
	if doc == nil {
		return nil
	}

	variations := make([]entity.AdVariation, 0, len(doc.AdVariations))
	for _, v := range doc.AdVariations {
		variations = append(variations, entity.AdVariation{
			Headlines:    v.Headlines,
			Descriptions: v.Descriptions,
			Keywords:     v.Keywords,
		})
	}

	finalized := make([]entity.FinalizedAd, 0, len(doc.FinalizedAdText))
	for _, f := range doc.FinalizedAdText {
		finalized = append(finalized, entity.FinalizedAd{
			Index:       f.Index,
			Headline:    f.Headline,
			Description: f.Description,
		})
	}

	return &entity.BusinessDocument{
		ID:               doc.ID,
		Business:         doc.Business,
		SelectedKeywords: m.NormalizeKeywords(doc.SelectedKeywords),
		Keywords:         m.NormalizeKeywords(doc.Keywords),
		AdVariations:     variations,
		FinalizedAdText:  finalized,
		PathsTaken:       doc.PathsTaken,
		UserPersonas:     m.NormalizePersonas(doc.UserPersonas),
		LastUpdate:       m.normalizeLastUpdate(doc.LastUpdate),
		Revision:         doc.Revision,
	}
}

// NormalizeKeywords accepts the three historical keyword encodings (a list of
// plain strings, a list of records with a "text" field, or a text->attributes
// map) and produces the canonical record list. Unknown items are skipped.
func (m *DocumentMapper) NormalizeKeywords(raw interface{}) []entity.Keyword {
	switch v := raw.(type) {
	case nil:
		return nil
	case []entity.Keyword:
		return v
	case primitive.A:
		return m.keywordsFromList(v)
	case []interface{}:
		return m.keywordsFromList(v)
	case []string:
		out := make([]entity.Keyword, 0, len(v))
		for _, text := range v {
			out = append(out, entity.Keyword{Text: text, AvgMonthlySearches: attrMissing, Competition: attrMissing})
		}
		return out
	default:
		if attrs, ok := asMap(raw); ok {
			out := make([]entity.Keyword, 0, len(attrs))
			for text, kv := range attrs {
				kw := entity.Keyword{Text: text, AvgMonthlySearches: attrMissing, Competition: attrMissing}
				if fields, ok := asMap(kv); ok {
					kw.AvgMonthlySearches = attrString(fields["avg_monthly_searches"])
					kw.Competition = attrString(fields["competition"])
				}
				out = append(out, kw)
			}
			return out
		}
		return nil
	}
}

func (m *DocumentMapper) keywordsFromList(items []interface{}) []entity.Keyword {
	out := make([]entity.Keyword, 0, len(items))
	for _, item := range items {
		switch kw := item.(type) {
		case string:
			out = append(out, entity.Keyword{Text: kw, AvgMonthlySearches: attrMissing, Competition: attrMissing})
		default:
			fields, ok := asMap(item)
			if !ok {
				continue
			}
			text, _ := fields["text"].(string)
			if text == "" {
				continue
			}
			out = append(out, entity.Keyword{
				Text:               text,
				AvgMonthlySearches: attrString(fields["avg_monthly_searches"]),
				Competition:        attrString(fields["competition"]),
			})
		}
	}
	return out
}

// NormalizePersonas accepts a list of persona records, a single record, or a
// bare description string (all seen in stored data).
func (m *DocumentMapper) NormalizePersonas(raw interface{}) []entity.Persona {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []entity.Persona{{Title: v}}
	case primitive.A:
		return m.personasFromList(v)
	case []interface{}:
		return m.personasFromList(v)
	default:
		if fields, ok := asMap(raw); ok {
			return []entity.Persona{personaFromMap(fields)}
		}
		return nil
	}
}

func (m *DocumentMapper) personasFromList(items []interface{}) []entity.Persona {
	out := make([]entity.Persona, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, entity.Persona{Title: s})
			continue
		}
		if fields, ok := asMap(item); ok {
			out = append(out, personaFromMap(fields))
		}
	}
	return out
}

func personaFromMap(fields map[string]interface{}) entity.Persona {
	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	return entity.Persona{
		Title:        str("title"),
		Demographics: str("demographics"),
		Motivation:   str("motivation"),
		PainPoints:   str("pain_points"),
		Goals:        str("goals"),
		Preferences:  str("preferences"),
	}
}

func (m *DocumentMapper) normalizeLastUpdate(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return attrMissing
	case string:
		return v
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return attrMissing
	}
}

// asMap unwraps the document shapes the driver can hand back for an
// interface{} field.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch doc := v.(type) {
	case map[string]interface{}:
		return doc, true
	case primitive.M:
		return doc, true
	case primitive.D:
		return doc.Map(), true
	default:
		return nil, false
	}
}

func attrString(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return attrMissing
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}
