// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"testing"

	"github.com/pdiddy/collab-finder/pkg/types"
)

func counts(pairs map[string]int) map[string]types.GroupCount {
	out := make(map[string]types.GroupCount, len(pairs))
	for k, v := range pairs {
		out[k] = types.GroupCount{Count: v, DisplayName: "name:" + k}
	}
	return out
}

func TestRank_PositiveGrowthRanksFirst(t *testing.T) {
	recent := counts(map[string]int{"X": 10, "Y": 5})
	previous := counts(map[string]int{"X": 2, "Y": 8})

	got := Rank(recent, previous, 2)

	// Shrinking entries are ranked, not dropped: X leads on growth and Y
	// follows with its negative delta intact.
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2: [X growth 8, Y growth -3]", len(got))
	}
	if got[0].ID != "X" || got[0].Growth != 8 {
		t.Errorf("top = %s growth %d, want X growth 8", got[0].ID, got[0].Growth)
	}
	if got[0].GrowthRate != 4.0 {
		t.Errorf("rate(X) = %v, want 4.0 (8/2)", got[0].GrowthRate)
	}
	if got[1].ID != "Y" || got[1].Growth != -3 {
		t.Errorf("second = %s growth %d, want Y growth -3", got[1].ID, got[1].Growth)
	}
}

func TestRank_NothingGrewStillRanked(t *testing.T) {
	recent := counts(map[string]int{"X": 3, "Y": 5})
	previous := counts(map[string]int{"X": 7, "Y": 5})

	got := Rank(recent, previous, 5)

	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2 (ranker never returns empty just because nothing grew)", len(got))
	}
	// Y (growth 0) beats X (growth -4).
	if got[0].ID != "Y" || got[1].ID != "X" {
		t.Errorf("order = [%s %s], want [Y X]", got[0].ID, got[1].ID)
	}
}

func TestRank_DiscardsNonPositiveRecent(t *testing.T) {
	recent := counts(map[string]int{"X": 0, "Y": 2})
	got := Rank(recent, nil, 5)

	if len(got) != 1 || got[0].ID != "Y" {
		t.Errorf("entries = %v, want only Y", got)
	}
}

func TestRank_BrandNewEntryRate(t *testing.T) {
	recent := counts(map[string]int{"X": 4})
	got := Rank(recent, nil, 5)

	// No previous count: rate = growth / max(recent, 1) = 4/4.
	if got[0].GrowthRate != 1.0 {
		t.Errorf("rate = %v, want 1.0", got[0].GrowthRate)
	}
}

func TestRank_CompositeTieBreaks(t *testing.T) {
	// A and B share growth 4; A's rate (4/1=4.0) beats B's (4/4=1.0).
	// B and C share growth and rate; C's recent volume is higher.
	recent := counts(map[string]int{"A": 5, "B": 8, "C": 16})
	previous := counts(map[string]int{"A": 1, "B": 4, "C": 8})
	// Re-shape C so rate matches B: growth 8, rate 1.0? Use explicit values.
	recent["C"] = types.GroupCount{Count: 8, DisplayName: "name:C"}
	previous["C"] = types.GroupCount{Count: 4, DisplayName: "name:C"}

	got := Rank(recent, previous, 5)

	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[0].ID != "A" {
		t.Errorf("top = %s, want A (growth rate breaks the growth tie)", got[0].ID)
	}
	// B and C now tie on growth (4) and rate (1.0); identical recent
	// counts too, so the id tie-break applies: B before C.
	if got[1].ID != "B" || got[2].ID != "C" {
		t.Errorf("order = [%s %s %s]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestRank_RecentVolumeBreaksTies(t *testing.T) {
	// Both entries have growth 4 and rate 1.0: "New" is brand-new
	// (4/max(4,1)), "Steady" doubled from 4 (4/4). The raw recent volume
	// then decides: Steady's 8 beats New's 4.
	recent := map[string]types.GroupCount{
		"New":    {Count: 4},
		"Steady": {Count: 8},
	}
	previous := map[string]types.GroupCount{
		"Steady": {Count: 4},
	}

	got := Rank(recent, previous, 5)
	if got[0].ID != "Steady" || got[1].ID != "New" {
		t.Errorf("order = [%s %s], want [Steady New]", got[0].ID, got[1].ID)
	}
}

func TestRank_CandidateCapIsTwiceLimit(t *testing.T) {
	recent := make(map[string]types.GroupCount)
	previous := make(map[string]types.GroupCount)
	for i := 0; i < 26; i++ {
		key := string(rune('a' + i))
		recent[key] = types.GroupCount{Count: 10 + i}
		previous[key] = types.GroupCount{Count: 1}
	}

	got := Rank(recent, previous, 5)
	if len(got) != 10 {
		t.Errorf("candidates = %d, want 10 (2*limit for enrichment)", len(got))
	}
}

func TestRank_DisplayNameFallsBackToKey(t *testing.T) {
	recent := map[string]types.GroupCount{"K1": {Count: 3}}
	got := Rank(recent, nil, 1)
	if got[0].DisplayName != "K1" {
		t.Errorf("display = %q, want raw key fallback", got[0].DisplayName)
	}
}

func TestRank_ZeroLimit(t *testing.T) {
	if got := Rank(counts(map[string]int{"X": 1}), nil, 0); got != nil {
		t.Errorf("Rank with limit 0 = %v, want nil", got)
	}
}
