// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AuthorNode is one author in a co-authorship graph. Nodes are registered
// in the order their identifier is first observed while scanning works;
// Degree is attached after all edges are known and never mutated afterward.
type AuthorNode struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	IsFocus bool   `json:"is_focus,omitempty" yaml:"is_focus,omitempty"`
	Degree  int    `json:"degree" yaml:"degree"`
}

// CoauthorEdge is an undirected weighted edge. Source sorts before Target
// so an (a,b) pair and a (b,a) pair canonicalize to the same edge. Weight
// counts the distinct works in which both authors appear together.
type CoauthorEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Weight int    `json:"weight" yaml:"weight"`
}

// TopAuthor is one entry of the degree ranking included in graph stats.
type TopAuthor struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Degree int    `json:"degree" yaml:"degree"`
}

// GraphStats summarizes a co-authorship graph.
type GraphStats struct {
	NodeCount int `json:"node_count" yaml:"node_count"`
	LinkCount int `json:"link_count" yaml:"link_count"`

	// TopAuthors ranks nodes descending by degree, ties broken by
	// discovery order, capped at 10.
	TopAuthors []TopAuthor `json:"top_authors" yaml:"top_authors"`
}

// CoauthorGraph is the weighted co-authorship graph built from a batch of
// works. Every edge endpoint is guaranteed to exist in Nodes.
type CoauthorGraph struct {
	Nodes []AuthorNode   `json:"nodes" yaml:"nodes"`
	Links []CoauthorEdge `json:"links" yaml:"links"`
	Stats GraphStats     `json:"stats" yaml:"stats"`
}
