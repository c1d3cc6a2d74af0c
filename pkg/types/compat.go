// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CompatibilityBreakdown holds the numeric compatibility sub-scores.
// Every sub-score is an integer in [0,100]; Overall is the fixed weighted
// combination of the four factors and is never set independently.
type CompatibilityBreakdown struct {
	Overall              int `json:"overall" yaml:"overall"`
	TopicSimilarity      int `json:"topic_similarity" yaml:"topic_similarity"`
	CoauthorDistance     int `json:"coauthor_distance" yaml:"coauthor_distance"`
	InstitutionProximity int `json:"institution_proximity" yaml:"institution_proximity"`
	RecencyAlignment     int `json:"recency_alignment" yaml:"recency_alignment"`

	// CoauthorPathLength is the BFS hop count between the two authors in
	// the merged adjacency, nil when no path exists within the search
	// depth.
	CoauthorPathLength *int `json:"coauthor_path_length" yaml:"coauthor_path_length"`
}

// ConceptOverlap is one concept shared by both profiles, rendered with
// both sides' weights.
type ConceptOverlap struct {
	ID           string  `json:"id" yaml:"id"`
	DisplayName  string  `json:"display_name" yaml:"display_name"`
	UserWeight   float64 `json:"user_weight" yaml:"user_weight"`
	TargetWeight float64 `json:"target_weight" yaml:"target_weight"`
}

// SharedCoauthor is a co-author present in both profiles' direct
// co-author sets.
type SharedCoauthor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MedianYears reports both profiles' median publication years.
type MedianYears struct {
	User   *int `json:"user" yaml:"user"`
	Target *int `json:"target" yaml:"target"`
}

// CompatibilityEvidence carries the supporting material behind a score.
type CompatibilityEvidence struct {
	OverlappingConcepts    []ConceptOverlap `json:"overlapping_concepts" yaml:"overlapping_concepts"`
	SharedCoauthors        []SharedCoauthor `json:"shared_coauthors" yaml:"shared_coauthors"`
	AlignedPublications    []Work           `json:"aligned_publications" yaml:"aligned_publications"`
	MedianPublicationYears MedianYears      `json:"median_publication_years" yaml:"median_publication_years"`
}

// CompatibilityResult is the full output of a compatibility computation.
type CompatibilityResult struct {
	Breakdown CompatibilityBreakdown `json:"breakdown" yaml:"breakdown"`
	Evidence  CompatibilityEvidence  `json:"evidence" yaml:"evidence"`
}
