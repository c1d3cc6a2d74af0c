// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the value objects shared across collab-finder
// components: normalized bibliographic records, co-authorship graphs,
// research profiles, trend entries, and compatibility results. All of
// them are produced per request and never retained across requests.
package types

// Institution identifies a research institution attached to an author.
type Institution struct {
	// ID is the OpenAlex institution identifier (e.g. "https://openalex.org/I4200000001").
	ID string `json:"id" yaml:"id"`

	// DisplayName is the institution name.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// Type is the institution category (e.g. "education", "business").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// CountryCode is the ISO country code (e.g. "US").
	CountryCode string `json:"country_code,omitempty" yaml:"country_code,omitempty"`
}

// AuthorBrief holds the compact author metadata returned by author lookups.
type AuthorBrief struct {
	ID           string       `json:"id" yaml:"id"`
	DisplayName  string       `json:"display_name" yaml:"display_name"`
	WorksCount   int          `json:"works_count" yaml:"works_count"`
	CitedByCount int          `json:"cited_by_count" yaml:"cited_by_count"`

	// Institution is the author's last known institution, nil when unknown.
	Institution *Institution `json:"last_known_institution" yaml:"last_known_institution"`
}

// ConceptBrief holds the compact topic metadata returned by concept lookups.
type ConceptBrief struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	WorksCount  int    `json:"works_count" yaml:"works_count"`
}

// WorkAuthor is one author entry on a work. Authorships without an
// identifier are dropped during normalization, so ID is always set.
type WorkAuthor struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// WorkConcept is one topic tag on a work. Weight is the resolved concept
// weight: the provider's score when present, else its relevance score,
// else 1.0.
type WorkConcept struct {
	ID          string  `json:"id" yaml:"id"`
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Weight      float64 `json:"weight" yaml:"weight"`
}

// Work is a normalized published work record.
type Work struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`

	// Year is the publication year, nil when absent or unparsable.
	Year *int `json:"year" yaml:"year"`

	Concepts     []WorkConcept `json:"concepts" yaml:"concepts"`
	Authors      []WorkAuthor  `json:"authors" yaml:"authors"`
	CitedByCount int           `json:"cited_by_count" yaml:"cited_by_count"`
}

// GroupCount is one bucket of a grouped aggregate query.
type GroupCount struct {
	Count       int    `json:"count" yaml:"count"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// TopicSummary is a topic search result.
type TopicSummary struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	WorksCount  int    `json:"works_count" yaml:"works_count"`
}

// InstitutionSummary is an institution listing entry with location data
// for map display.
type InstitutionSummary struct {
	ID           string   `json:"id" yaml:"id"`
	DisplayName  string   `json:"display_name" yaml:"display_name"`
	WorksCount   int      `json:"works_count" yaml:"works_count"`
	CitedByCount int      `json:"cited_by_count" yaml:"cited_by_count"`
	Latitude     *float64 `json:"latitude" yaml:"latitude"`
	Longitude    *float64 `json:"longitude" yaml:"longitude"`
	City         string   `json:"city,omitempty" yaml:"city,omitempty"`
	Region       string   `json:"region,omitempty" yaml:"region,omitempty"`
	CountryCode  string   `json:"country_code,omitempty" yaml:"country_code,omitempty"`
}
