// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compat scores the research compatibility of two author
// profiles. Scoring is total: any pair of well-formed profiles produces a
// result, with empty vectors or missing data degrading the affected
// sub-score to 0 rather than failing.
package compat

import (
	"math"
	"sort"

	"github.com/pdiddy/collab-finder/pkg/types"
)

// Fixed weights of the overall score. Pinned by tests.
const (
	weightTopic       = 0.40
	weightCoauthor    = 0.30
	weightInstitution = 0.20
	weightRecency     = 0.10
)

// maxSearchDepth bounds the co-author BFS; paths longer than this count
// as unreachable.
const maxSearchDepth = 6

const evidenceCap = 5

// Compute combines two research profiles into a compatibility score with
// supporting evidence.
func Compute(user, target types.ResearchProfile) types.CompatibilityResult {
	topic := scoreTopicSimilarity(user.ConceptWeights, target.ConceptWeights)

	pathLength := coauthorPathLength(user, target)
	coauthor := scorePathLength(pathLength)

	institution := scoreInstitutionProximity(user.Institution, target.Institution)
	recency := scoreRecencyAlignment(user.MedianPublicationYear, target.MedianPublicationYear)

	overall := overallScore(topic, coauthor, institution, recency)

	overlaps := overlappingConcepts(user, target)

	return types.CompatibilityResult{
		Breakdown: types.CompatibilityBreakdown{
			Overall:              overall,
			TopicSimilarity:      topic,
			CoauthorDistance:     coauthor,
			InstitutionProximity: institution,
			RecencyAlignment:     recency,
			CoauthorPathLength:   pathLength,
		},
		Evidence: types.CompatibilityEvidence{
			OverlappingConcepts: capOverlaps(overlaps),
			SharedCoauthors:     sharedCoauthors(user, target),
			AlignedPublications: alignedPublications(target, overlaps),
			MedianPublicationYears: types.MedianYears{
				User:   user.MedianPublicationYear,
				Target: target.MedianPublicationYear,
			},
		},
	}
}

// Zeroed returns the defined fallback payload used when either profile
// could not be built: all sub-scores 0, no path length, empty evidence.
func Zeroed() types.CompatibilityResult {
	return types.CompatibilityResult{
		Evidence: types.CompatibilityEvidence{
			OverlappingConcepts: []types.ConceptOverlap{},
			SharedCoauthors:     []types.SharedCoauthor{},
			AlignedPublications: []types.Work{},
		},
	}
}

// overallScore is the fixed weighted combination of the four sub-scores.
// The weights are a design choice, not derived.
func overallScore(topic, coauthor, institution, recency int) int {
	return clampScore(weightTopic*float64(topic) +
		weightCoauthor*float64(coauthor) +
		weightInstitution*float64(institution) +
		weightRecency*float64(recency))
}

// scoreTopicSimilarity is the cosine similarity of the two concept-weight
// vectors scaled to [0,100]. The dot product runs over the key
// intersection only; similarity is 0 when either vector is empty or
// nothing overlaps.
func scoreTopicSimilarity(a, b map[string]float64) int {
	return clampScore(cosine(a, b) * 100)
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}

	var na, nb float64
	for _, v := range a {
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// coauthorPathLength merges both profiles' adjacency maps into one
// undirected graph and runs a breadth-first search from the user toward
// the target, capped at maxSearchDepth hops. It returns nil when no path
// exists within the cap; 0 means the two identifiers are the same.
func coauthorPathLength(user, target types.ResearchProfile) *int {
	if user.ID == "" || target.ID == "" {
		return nil
	}
	if user.ID == target.ID {
		zero := 0
		return &zero
	}

	adjacency := make(map[string]map[string]bool)
	merge := func(src map[string]map[string]bool) {
		for from, set := range src {
			for to := range set {
				if adjacency[from] == nil {
					adjacency[from] = map[string]bool{}
				}
				adjacency[from][to] = true
				if adjacency[to] == nil {
					adjacency[to] = map[string]bool{}
				}
				adjacency[to][from] = true
			}
		}
	}
	merge(user.CoauthorAdjacency)
	merge(target.CoauthorAdjacency)

	visited := map[string]bool{user.ID: true}
	frontier := []string{user.ID}

	for depth := 1; depth <= maxSearchDepth; depth++ {
		var next []string
		for _, id := range frontier {
			for neighbor := range adjacency[id] {
				if visited[neighbor] {
					continue
				}
				if neighbor == target.ID {
					d := depth
					return &d
				}
				visited[neighbor] = true
				next = append(next, neighbor)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return nil
}

// scorePathLength maps a BFS hop count to a score. Direct or near-direct
// ties matter far more than distant ones, so the mapping is a step
// function rather than linear.
func scorePathLength(length *int) int {
	if length == nil {
		return 15
	}
	switch {
	case *length <= 1:
		return 100
	case *length == 2:
		return 80
	case *length == 3:
		return 55
	case *length == 4:
		return 35
	default:
		return 15
	}
}

// scoreInstitutionProximity compares two institutions. Rules apply in
// priority order; the first match wins.
func scoreInstitutionProximity(user, target *types.Institution) int {
	if user == nil || target == nil {
		return 0
	}
	switch {
	case user.ID != "" && user.ID == target.ID:
		return 100
	case user.CountryCode != "" && user.CountryCode == target.CountryCode:
		return 80
	case user.Type != "" && user.Type == target.Type:
		return 60
	case user.CountryCode != "" && target.CountryCode != "":
		return 40
	default:
		return 20
	}
}

// scoreRecencyAlignment compares median publication years. The score
// falls 12.5 points per year of gap, reaching 0 at eight years.
func scoreRecencyAlignment(user, target *int) int {
	if user == nil || target == nil {
		return 0
	}
	gap := math.Abs(float64(*user - *target))
	return clampScore(100 - 12.5*gap)
}

func clampScore(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return int(math.Round(v))
}

// overlappingConcepts lists concepts present in both weight vectors,
// sorted descending by summed weight (ties by id for determinism).
func overlappingConcepts(user, target types.ResearchProfile) []types.ConceptOverlap {
	overlaps := make([]types.ConceptOverlap, 0)
	for id, uw := range user.ConceptWeights {
		tw, ok := target.ConceptWeights[id]
		if !ok {
			continue
		}
		name := user.ConceptNames[id]
		if name == "" {
			name = target.ConceptNames[id]
		}
		if name == "" {
			name = id
		}
		overlaps = append(overlaps, types.ConceptOverlap{
			ID:           id,
			DisplayName:  name,
			UserWeight:   uw,
			TargetWeight: tw,
		})
	}
	sort.Slice(overlaps, func(i, j int) bool {
		si := overlaps[i].UserWeight + overlaps[i].TargetWeight
		sj := overlaps[j].UserWeight + overlaps[j].TargetWeight
		if si != sj {
			return si > sj
		}
		return overlaps[i].ID < overlaps[j].ID
	})
	return overlaps
}

func capOverlaps(overlaps []types.ConceptOverlap) []types.ConceptOverlap {
	if len(overlaps) > evidenceCap {
		return overlaps[:evidenceCap]
	}
	return overlaps
}

// sharedCoauthors intersects the two direct co-author sets, preferring
// the user's naming, alphabetically sorted and capped.
func sharedCoauthors(user, target types.ResearchProfile) []types.SharedCoauthor {
	shared := make([]types.SharedCoauthor, 0)
	for id, userName := range user.DirectCoauthors {
		if _, ok := target.DirectCoauthors[id]; !ok {
			continue
		}
		name := userName
		if name == "" {
			name = target.DirectCoauthors[id]
		}
		shared = append(shared, types.SharedCoauthor{ID: id, Name: name})
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].Name != shared[j].Name {
			return shared[i].Name < shared[j].Name
		}
		return shared[i].ID < shared[j].ID
	})
	if len(shared) > evidenceCap {
		shared = shared[:evidenceCap]
	}
	return shared
}

// alignedPublications picks the target's works whose concepts intersect
// the top overlapping concept ids, newest first.
func alignedPublications(target types.ResearchProfile, overlaps []types.ConceptOverlap) []types.Work {
	topIDs := make(map[string]bool)
	for i, o := range overlaps {
		if i >= 10 {
			break
		}
		topIDs[o.ID] = true
	}

	aligned := make([]types.Work, 0)
	for _, w := range target.Works {
		for _, c := range w.Concepts {
			if topIDs[c.ID] {
				aligned = append(aligned, w)
				break
			}
		}
	}
	sort.SliceStable(aligned, func(i, j int) bool {
		yi, yj := aligned[i].Year, aligned[j].Year
		switch {
		case yi == nil:
			return false
		case yj == nil:
			return true
		default:
			return *yi > *yj
		}
	})
	if len(aligned) > evidenceCap {
		aligned = aligned[:evidenceCap]
	}
	return aligned
}
