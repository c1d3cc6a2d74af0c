// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile derives per-author research profiles from brief author
// metadata and a snapshot of works.
package profile

import (
	"math"
	"sort"

	"github.com/pdiddy/collab-finder/pkg/types"
)

// Build constructs a research profile for the author described by brief
// from the given works. Concept weights accumulate additively across
// works, adjacency edges are recorded in both directions for every
// co-author pair, and the direct co-author registry excludes the owner.
// The owner's id is always present as an adjacency key. Build never fails
// on well-formed input; malformed entries are skipped.
func Build(brief types.AuthorBrief, works []types.Work) types.ResearchProfile {
	p := types.ResearchProfile{
		ID:                brief.ID,
		DisplayName:       brief.DisplayName,
		WorksCount:        brief.WorksCount,
		CitedByCount:      brief.CitedByCount,
		Institution:       brief.Institution,
		ConceptWeights:    make(map[string]float64),
		ConceptNames:      make(map[string]string),
		Works:             works,
		DirectCoauthors:   make(map[string]string),
		CoauthorAdjacency: map[string]map[string]bool{},
	}
	if p.Works == nil {
		p.Works = []types.Work{}
	}
	if brief.ID != "" {
		p.CoauthorAdjacency[brief.ID] = map[string]bool{}
	}

	var years []int
	for _, w := range works {
		if w.Year != nil {
			years = append(years, *w.Year)
		}

		for _, c := range w.Concepts {
			if c.ID == "" {
				continue
			}
			p.ConceptWeights[c.ID] += c.Weight
			if c.DisplayName != "" {
				p.ConceptNames[c.ID] = c.DisplayName
			}
		}

		var coauthors []types.WorkAuthor
		for _, a := range w.Authors {
			if a.ID == "" {
				continue
			}
			coauthors = append(coauthors, a)
			if a.ID != brief.ID {
				name := a.DisplayName
				if name == "" {
					name = a.ID
				}
				p.DirectCoauthors[a.ID] = name
			}
		}

		for i := 0; i < len(coauthors); i++ {
			for j := i + 1; j < len(coauthors); j++ {
				addAdjacency(p.CoauthorAdjacency, coauthors[i].ID, coauthors[j].ID)
				addAdjacency(p.CoauthorAdjacency, coauthors[j].ID, coauthors[i].ID)
			}
		}
	}

	p.MedianPublicationYear = medianYear(years)
	return p
}

func addAdjacency(adj map[string]map[string]bool, from, to string) {
	set, ok := adj[from]
	if !ok {
		set = map[string]bool{}
		adj[from] = set
	}
	set[to] = true
}

// medianYear returns the statistical median of years rounded to the
// nearest integer, halves away from zero, or nil for an empty slice.
func medianYear(years []int) *int {
	if len(years) == 0 {
		return nil
	}
	sorted := make([]int, len(years))
	copy(sorted, years)
	sort.Ints(sorted)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = float64(sorted[mid])
	} else {
		median = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	}

	rounded := int(math.Round(median))
	return &rounded
}
