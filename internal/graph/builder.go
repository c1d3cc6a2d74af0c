// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph builds weighted co-authorship graphs from batches of
// normalized work records.
package graph

import (
	"sort"

	"github.com/pdiddy/collab-finder/pkg/types"
)

// pairKey is the canonical (sorted) identifier pair for an undirected edge.
type pairKey struct {
	a, b string
}

// canonical orders the pair so that a < b.
func canonical(x, y string) pairKey {
	if x < y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

// Build constructs a co-authorship graph from works, scanned in input
// order. Nodes are registered in first-seen order; an edge's weight counts
// the works in which both endpoints co-authored, incremented once per work
// per unordered pair. Authorships without an identifier are skipped.
// Isolated authors keep degree 0 but still appear as nodes. All
// accumulators are local to the call; the returned graph is final.
func Build(works []types.Work, focusAuthorID string) types.CoauthorGraph {
	nodeIndex := make(map[string]int)
	var nodes []types.AuthorNode

	weights := make(map[pairKey]int)
	var pairOrder []pairKey
	degrees := make(map[string]int)

	for _, work := range works {
		authorIDs := make([]string, 0, len(work.Authors))
		for _, author := range work.Authors {
			if author.ID == "" {
				continue
			}
			if _, seen := nodeIndex[author.ID]; !seen {
				nodeIndex[author.ID] = len(nodes)
				name := author.DisplayName
				if name == "" {
					name = author.ID
				}
				nodes = append(nodes, types.AuthorNode{
					ID:      author.ID,
					Name:    name,
					IsFocus: author.ID == focusAuthorID,
				})
			}
			authorIDs = append(authorIDs, author.ID)
		}

		for i := 0; i < len(authorIDs); i++ {
			for j := i + 1; j < len(authorIDs); j++ {
				key := canonical(authorIDs[i], authorIDs[j])
				if _, seen := weights[key]; !seen {
					pairOrder = append(pairOrder, key)
				}
				weights[key]++
				degrees[key.a]++
				degrees[key.b]++
			}
		}
	}

	for i := range nodes {
		nodes[i].Degree = degrees[nodes[i].ID]
	}

	links := make([]types.CoauthorEdge, 0, len(pairOrder))
	for _, key := range pairOrder {
		links = append(links, types.CoauthorEdge{
			Source: key.a,
			Target: key.b,
			Weight: weights[key],
		})
	}

	return types.CoauthorGraph{
		Nodes: nodes,
		Links: links,
		Stats: types.GraphStats{
			NodeCount:  len(nodes),
			LinkCount:  len(links),
			TopAuthors: topByDegree(nodes, 10),
		},
	}
}

// topByDegree ranks nodes descending by degree. The sort is stable so
// ties resolve by discovery order.
func topByDegree(nodes []types.AuthorNode, limit int) []types.TopAuthor {
	ranked := make([]types.AuthorNode, len(nodes))
	copy(ranked, nodes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	top := make([]types.TopAuthor, 0, len(ranked))
	for _, node := range ranked {
		top = append(top, types.TopAuthor{ID: node.ID, Name: node.Name, Degree: node.Degree})
	}
	return top
}
