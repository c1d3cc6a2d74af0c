// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"encoding/json"
	"testing"
)

// --- flexYear ---

func TestFlexYear(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *int
	}{
		{"number", `2021`, intp(2021)},
		{"numeric string", `"2019"`, intp(2019)},
		{"float number", `2020.0`, intp(2020)},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"word", `"unknown"`, nil},
		{"boolean", `true`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var y flexYear
			if err := json.Unmarshal([]byte(tt.in), &y); err != nil {
				t.Fatalf("unmarshal(%s): %v", tt.in, err)
			}
			switch {
			case y.value == nil && tt.want != nil:
				t.Errorf("year = nil, want %d", *tt.want)
			case y.value != nil && tt.want == nil:
				t.Errorf("year = %d, want nil", *y.value)
			case y.value != nil && tt.want != nil && *y.value != *tt.want:
				t.Errorf("year = %d, want %d", *y.value, *tt.want)
			}
		})
	}
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

// --- concept weight resolution ---

func TestRawConceptWeight(t *testing.T) {
	tests := []struct {
		name    string
		concept rawConcept
		want    float64
	}{
		{"score wins", rawConcept{Score: floatp(0.7), RelevanceScore: floatp(0.2)}, 0.7},
		{"zero score still wins", rawConcept{Score: floatp(0), RelevanceScore: floatp(0.2)}, 0},
		{"relevance fallback", rawConcept{RelevanceScore: floatp(0.4)}, 0.4},
		{"default", rawConcept{}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.concept.weight(); got != tt.want {
				t.Errorf("weight() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- work normalization ---

func TestNormalizeWork(t *testing.T) {
	raw := rawWork{
		ID:           "W1",
		DisplayName:  "Displayed Title",
		CitedByCount: 12,
		Authorships: []rawAuthorship{
			{Author: rawAuthor{ID: "A1", DisplayName: "Alice"}},
			{Author: rawAuthor{DisplayName: "No ID"}},
			{Author: rawAuthor{ID: "A2", DisplayName: "Bob"}},
		},
		Concepts: []rawConcept{
			{ID: "C1", DisplayName: "ML", Score: floatp(0.9)},
			{DisplayName: "idless concept"},
		},
	}

	got := normalizeWork(raw)

	if got.Title != "Displayed Title" {
		t.Errorf("title = %q, want display_name fallback", got.Title)
	}
	if got.Year != nil {
		t.Errorf("year = %v, want nil", *got.Year)
	}
	if len(got.Authors) != 2 {
		t.Errorf("authors = %v, want the two with ids", got.Authors)
	}
	if len(got.Concepts) != 1 || got.Concepts[0].Weight != 0.9 {
		t.Errorf("concepts = %v", got.Concepts)
	}
}

func TestNormalizeWork_YearFromJSON(t *testing.T) {
	var raw rawWork
	payload := `{"id":"W1","title":"T","publication_year":"2018"}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatal(err)
	}
	got := normalizeWork(raw)
	if got.Year == nil || *got.Year != 2018 {
		t.Errorf("year = %v, want 2018 parsed from string", got.Year)
	}
}

// --- author institution flattening ---

func TestRawAuthorRecordInstitution(t *testing.T) {
	plural := rawInstitution{ID: "I1", DisplayName: "Stanford", Type: "education", CountryCode: "US"}
	singular := rawInstitution{ID: "I2", DisplayName: "Toronto", Type: "education", CountryCode: "CA"}

	tests := []struct {
		name   string
		record rawAuthorRecord
		wantID string
	}{
		{"plural preferred", rawAuthorRecord{
			LastKnownInstitutions: []rawInstitution{plural},
			LastKnownInstitution:  &singular,
		}, "I1"},
		{"singular fallback", rawAuthorRecord{LastKnownInstitution: &singular}, "I2"},
		{"none", rawAuthorRecord{}, ""},
		{"empty entry treated as unknown", rawAuthorRecord{
			LastKnownInstitution: &rawInstitution{},
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := tt.record.institution()
			switch {
			case tt.wantID == "" && inst != nil:
				t.Errorf("institution = %+v, want nil", inst)
			case tt.wantID != "" && (inst == nil || inst.ID != tt.wantID):
				t.Errorf("institution = %+v, want id %s", inst, tt.wantID)
			}
		})
	}
}
