// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends ranks aggregate keys (topics or authors) by growth
// between two time-windowed grouped counts.
package trends

import (
	"sort"

	"github.com/pdiddy/collab-finder/pkg/types"
)

// Rank compares the recent and previous grouped counts and returns up to
// 2*limit candidates ordered by (growth, growthRate, recentCount)
// descending. Entries with a non-positive recent count are discarded.
// Shrinking entries stay in the ranking: growth dominates the composite
// key, so anything that grew leads and the result is never empty just
// because nothing grew. Callers enrich the candidates and then truncate
// to limit.
func Rank(recent, previous map[string]types.GroupCount, limit int) []types.TrendEntry {
	if limit <= 0 {
		return nil
	}

	entries := make([]types.TrendEntry, 0, len(recent))
	for key, rc := range recent {
		if rc.Count <= 0 {
			continue
		}
		pc := previous[key].Count
		growth := rc.Count - pc

		var rate float64
		if pc > 0 {
			rate = float64(growth) / float64(pc)
		} else {
			// Pinned formula: brand-new entries rate as growth/recent.
			denom := rc.Count
			if denom < 1 {
				denom = 1
			}
			rate = float64(growth) / float64(denom)
		}

		display := rc.DisplayName
		if display == "" {
			display = key
		}

		entries = append(entries, types.TrendEntry{
			ID:            key,
			DisplayName:   display,
			RecentCount:   rc.Count,
			PreviousCount: pc,
			Growth:        growth,
			GrowthRate:    rate,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Growth != b.Growth {
			return a.Growth > b.Growth
		}
		if a.GrowthRate != b.GrowthRate {
			return a.GrowthRate > b.GrowthRate
		}
		if a.RecentCount != b.RecentCount {
			return a.RecentCount > b.RecentCount
		}
		// Deterministic order for exact ties.
		return a.ID < b.ID
	})

	if max := 2 * limit; len(entries) > max {
		entries = entries[:max]
	}
	return entries
}
