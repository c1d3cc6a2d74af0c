// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResearchProfile is the derived per-author summary used for
// compatibility scoring: topic-weight vector, local co-author adjacency,
// and publication recency. A profile is built once from a snapshot of an
// author's works and is immutable afterward.
type ResearchProfile struct {
	ID           string       `json:"id" yaml:"id"`
	DisplayName  string       `json:"display_name" yaml:"display_name"`
	WorksCount   int          `json:"works_count" yaml:"works_count"`
	CitedByCount int          `json:"cited_by_count" yaml:"cited_by_count"`
	Institution  *Institution `json:"last_known_institution" yaml:"last_known_institution"`

	// ConceptWeights maps concept id to the weight accumulated additively
	// across all of the author's works.
	ConceptWeights map[string]float64 `json:"concept_weights" yaml:"concept_weights"`

	// ConceptNames maps concept id to its display name.
	ConceptNames map[string]string `json:"concept_names" yaml:"concept_names"`

	// Works is the snapshot of works the profile was built from.
	Works []Work `json:"works" yaml:"works"`

	// DirectCoauthors maps co-author id to display name, excluding the
	// profile owner.
	DirectCoauthors map[string]string `json:"direct_coauthors" yaml:"direct_coauthors"`

	// CoauthorAdjacency is the symmetric local co-authorship adjacency.
	// The owner's id is always present as a key, possibly with an empty
	// set.
	CoauthorAdjacency map[string]map[string]bool `json:"coauthor_adjacency" yaml:"coauthor_adjacency"`

	// MedianPublicationYear is the median of the parsed publication
	// years, rounded half away from zero, or nil when no years parsed.
	MedianPublicationYear *int `json:"median_publication_year" yaml:"median_publication_year"`
}
