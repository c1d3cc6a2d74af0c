// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TrendEntry is an aggregate key (topic or author) ranked by
// recent-vs-previous window growth. Growth is the raw count delta;
// GrowthRate divides by the previous count when positive, else by
// max(recent, 1), so a brand-new entry rates as growth/recent. The
// two-window delta is a deliberate proxy for "trending", not a
// statistical significance test.
type TrendEntry struct {
	ID            string  `json:"id" yaml:"id"`
	DisplayName   string  `json:"display_name" yaml:"display_name"`
	RecentCount   int     `json:"recent_count" yaml:"recent_count"`
	PreviousCount int     `json:"previous_count" yaml:"previous_count"`
	Growth        int     `json:"growth" yaml:"growth"`
	GrowthRate    float64 `json:"growth_rate" yaml:"growth_rate"`

	// Enrichment fields, populated when a brief lookup for the entry
	// succeeded. Absent fields mean the entry degraded to aggregate-only
	// data.
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	WorksCount   int          `json:"works_count,omitempty" yaml:"works_count,omitempty"`
	CitedByCount int          `json:"cited_by_count,omitempty" yaml:"cited_by_count,omitempty"`
	Institution  *Institution `json:"last_known_institution,omitempty" yaml:"last_known_institution,omitempty"`
}
