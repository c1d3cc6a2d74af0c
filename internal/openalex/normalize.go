// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pdiddy/collab-finder/pkg/types"
)

// The OpenAlex payloads are duck-typed: optional fields, year fields that
// arrive as numbers or numeric strings, plural/singular institution
// variants. The raw types below capture that shape explicitly; a
// dedicated normalization pass maps absent or malformed fields to nil or
// skips them so the graph and profile builders never see the ambiguity.

// flexYear is a publication year that may arrive as a JSON number, a
// numeric string, or null. Anything unparsable normalizes to absent.
type flexYear struct {
	value *int
}

func (y *flexYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	text := string(data)
	if len(text) >= 2 && text[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = s
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Malformed year: record as absent rather than failing the work.
		return nil
	}
	v := int(parsed)
	y.value = &v
	return nil
}

type rawAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type rawAuthorship struct {
	Author rawAuthor `json:"author"`
}

type rawConcept struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	Score          *float64 `json:"score"`
	RelevanceScore *float64 `json:"relevance_score"`
}

// weight resolves the concept weight: score when present, else relevance
// score, else 1.0.
func (c rawConcept) weight() float64 {
	if c.Score != nil {
		return *c.Score
	}
	if c.RelevanceScore != nil {
		return *c.RelevanceScore
	}
	return 1.0
}

type rawWork struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	DisplayName     string          `json:"display_name"`
	PublicationYear flexYear        `json:"publication_year"`
	CitedByCount    int             `json:"cited_by_count"`
	Authorships     []rawAuthorship `json:"authorships"`
	Concepts        []rawConcept    `json:"concepts"`
}

type rawInstitution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	CountryCode string `json:"country_code"`
}

type rawAuthorRecord struct {
	ID                    string           `json:"id"`
	DisplayName           string           `json:"display_name"`
	WorksCount            int              `json:"works_count"`
	CitedByCount          int              `json:"cited_by_count"`
	LastKnownInstitutions []rawInstitution `json:"last_known_institutions"`
	LastKnownInstitution  *rawInstitution  `json:"last_known_institution"`
}

type rawConceptRecord struct {
	ID          string `json:"id"`
	Wikidata    string `json:"wikidata"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	WorksCount  int    `json:"works_count"`
}

type rawGeo struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	CountryCode string   `json:"country_code"`
}

type rawInstitutionRecord struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"display_name"`
	WorksCount   int     `json:"works_count"`
	CitedByCount int     `json:"cited_by_count"`
	Geo          *rawGeo `json:"geo"`
}

type rawGroup struct {
	Key            string `json:"key"`
	KeyDisplayName string `json:"key_display_name"`
	Count          int    `json:"count"`
}

type rawListResponse[T any] struct {
	Results []T        `json:"results"`
	GroupBy []rawGroup `json:"group_by"`
}

// normalizeWork maps a raw work record to the normalized form.
// Authorships without an author identifier are dropped here so downstream
// builders can rely on every author having an id.
func normalizeWork(rw rawWork) types.Work {
	title := rw.Title
	if title == "" {
		title = rw.DisplayName
	}

	w := types.Work{
		ID:           rw.ID,
		Title:        title,
		Year:         rw.PublicationYear.value,
		CitedByCount: rw.CitedByCount,
		Concepts:     make([]types.WorkConcept, 0, len(rw.Concepts)),
		Authors:      make([]types.WorkAuthor, 0, len(rw.Authorships)),
	}
	for _, c := range rw.Concepts {
		if c.ID == "" {
			continue
		}
		w.Concepts = append(w.Concepts, types.WorkConcept{
			ID:          c.ID,
			DisplayName: c.DisplayName,
			Weight:      c.weight(),
		})
	}
	for _, a := range rw.Authorships {
		if a.Author.ID == "" {
			continue
		}
		w.Authors = append(w.Authors, types.WorkAuthor{
			ID:          a.Author.ID,
			DisplayName: a.Author.DisplayName,
		})
	}
	return w
}

func normalizeWorks(raws []rawWork) []types.Work {
	works := make([]types.Work, 0, len(raws))
	for _, rw := range raws {
		works = append(works, normalizeWork(rw))
	}
	return works
}

// normalizeInstitution flattens the plural/singular institution variants:
// the first entry of last_known_institutions wins, then the singular
// field, then nil.
func (r rawAuthorRecord) institution() *types.Institution {
	var raw *rawInstitution
	if len(r.LastKnownInstitutions) > 0 {
		raw = &r.LastKnownInstitutions[0]
	} else if r.LastKnownInstitution != nil {
		raw = r.LastKnownInstitution
	}
	if raw == nil || (raw.ID == "" && raw.DisplayName == "") {
		return nil
	}
	return &types.Institution{
		ID:          raw.ID,
		DisplayName: raw.DisplayName,
		Type:        raw.Type,
		CountryCode: raw.CountryCode,
	}
}

func normalizeAuthorBrief(r rawAuthorRecord) types.AuthorBrief {
	return types.AuthorBrief{
		ID:           r.ID,
		DisplayName:  r.DisplayName,
		WorksCount:   r.WorksCount,
		CitedByCount: r.CitedByCount,
		Institution:  r.institution(),
	}
}

func normalizeConceptBrief(r rawConceptRecord) types.ConceptBrief {
	return types.ConceptBrief{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Description: r.Description,
		WorksCount:  r.WorksCount,
	}
}

func normalizeInstitutionSummary(r rawInstitutionRecord) types.InstitutionSummary {
	s := types.InstitutionSummary{
		ID:           r.ID,
		DisplayName:  r.DisplayName,
		WorksCount:   r.WorksCount,
		CitedByCount: r.CitedByCount,
	}
	if r.Geo != nil {
		s.Latitude = r.Geo.Latitude
		s.Longitude = r.Geo.Longitude
		s.City = r.Geo.City
		s.Region = r.Geo.Region
		s.CountryCode = r.Geo.CountryCode
	}
	return s
}
