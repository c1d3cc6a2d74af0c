// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package offline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pdiddy/collab-finder/pkg/types"
)

const (
	feiFeiID  = "https://openalex.org/A1969205032"
	oveID     = "https://openalex.org/A2112779243"
	terryID   = "https://openalex.org/A2112743840"
	mlTopic   = "https://openalex.org/T101"
	reefTopic = "https://openalex.org/T202"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.OfflineConfig{Path: filepath.Join(t.TempDir(), "offline.db")})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaultUserID(t *testing.T) {
	s := newTestStore(t)
	id, err := s.DefaultUserID()
	if err != nil {
		t.Fatalf("DefaultUserID: %v", err)
	}
	if id != feiFeiID {
		t.Errorf("default user = %q", id)
	}
}

func TestSearchTopics(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name   string
		query  string
		wantID string
	}{
		{"name match", "machine", mlTopic},
		{"case insensitive", "CORAL", reefTopic},
		{"description match", "climate stressors", reefTopic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topics, err := s.SearchTopics(tt.query, 10)
			if err != nil {
				t.Fatalf("SearchTopics: %v", err)
			}
			if len(topics) != 1 || topics[0].ID != tt.wantID {
				t.Errorf("topics = %+v, want single %s", topics, tt.wantID)
			}
		})
	}

	none, err := s.SearchTopics("quantum chromodynamics", 10)
	if err != nil {
		t.Fatalf("SearchTopics: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unmatched query returned %+v", none)
	}
}

func TestSearchAuthors(t *testing.T) {
	s := newTestStore(t)
	authors, err := s.SearchAuthors("hughes", 10)
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}
	if len(authors) != 1 || authors[0].ID != terryID {
		t.Fatalf("authors = %+v", authors)
	}
	if authors[0].Institution == nil || authors[0].Institution.CountryCode != "AU" {
		t.Errorf("institution = %+v", authors[0].Institution)
	}
}

func TestAuthorsByTopic(t *testing.T) {
	s := newTestStore(t)

	authors, err := s.AuthorsByTopic(reefTopic, 10)
	if err != nil {
		t.Fatalf("AuthorsByTopic: %v", err)
	}
	if len(authors) != 4 {
		t.Fatalf("authors = %d, want 4", len(authors))
	}
	if authors[0].ID != oveID {
		t.Errorf("first author = %s, want snapshot order preserved", authors[0].ID)
	}

	limited, err := s.AuthorsByTopic(reefTopic, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited authors = %d, want 2", len(limited))
	}

	unknown, err := s.AuthorsByTopic("https://openalex.org/T999", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown topic returned %+v", unknown)
	}
}

func TestAuthorProfile(t *testing.T) {
	s := newTestStore(t)

	brief, err := s.AuthorProfile(feiFeiID)
	if err != nil {
		t.Fatalf("AuthorProfile: %v", err)
	}
	if brief.DisplayName != "Fei-Fei Li" || brief.CitedByCount != 98000 {
		t.Errorf("brief = %+v", brief)
	}
	if brief.Institution == nil || brief.Institution.DisplayName != "Stanford University" {
		t.Errorf("institution = %+v", brief.Institution)
	}

	if _, err := s.AuthorProfile("https://openalex.org/A999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown author error = %v, want ErrNotFound", err)
	}
}

func TestAuthorWorks(t *testing.T) {
	s := newTestStore(t)

	works, err := s.AuthorWorks(feiFeiID)
	if err != nil {
		t.Fatalf("AuthorWorks: %v", err)
	}
	if len(works) != 5 {
		t.Fatalf("works = %d, want 5", len(works))
	}
	if works[0].ID != "https://openalex.org/W101" {
		t.Errorf("first work = %s, want snapshot order preserved", works[0].ID)
	}
	if works[0].Year == nil || *works[0].Year != 2009 {
		t.Errorf("work year = %v", works[0].Year)
	}
	if len(works[0].Concepts) != 2 || works[0].Concepts[0].Weight != 0.92 {
		t.Errorf("concepts = %+v", works[0].Concepts)
	}

	none, err := s.AuthorWorks("https://openalex.org/A999")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unknown author works = %+v", none)
	}
}

func TestInstitutionsByTopic(t *testing.T) {
	s := newTestStore(t)

	institutions, err := s.InstitutionsByTopic(mlTopic, 10)
	if err != nil {
		t.Fatalf("InstitutionsByTopic: %v", err)
	}
	if len(institutions) != 3 {
		t.Fatalf("institutions = %d, want 3", len(institutions))
	}
	first := institutions[0]
	if first.DisplayName != "Stanford University" {
		t.Errorf("first institution = %q, want snapshot order preserved", first.DisplayName)
	}
	if first.Latitude == nil || *first.Latitude != 37.4275 {
		t.Errorf("latitude = %v", first.Latitude)
	}
}

func TestTopicNetwork(t *testing.T) {
	s := newTestStore(t)

	g, err := s.TopicNetwork(reefTopic)
	if err != nil {
		t.Fatalf("TopicNetwork: %v", err)
	}
	if g.Stats.NodeCount != 4 || g.Stats.LinkCount != 4 {
		t.Fatalf("stats = %+v", g.Stats)
	}

	// Hoegh-Guldberg and Hughes co-author two snapshot works.
	var found bool
	for _, link := range g.Links {
		pair := link.Source == terryID && link.Target == oveID ||
			link.Source == oveID && link.Target == terryID
		if pair {
			found = true
			if link.Weight != 2 {
				t.Errorf("pair weight = %d, want 2", link.Weight)
			}
		}
	}
	if !found {
		t.Error("missing Hoegh-Guldberg/Hughes edge")
	}

	empty, err := s.TopicNetwork("https://openalex.org/T999")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Stats.NodeCount != 0 || len(empty.Links) != 0 {
		t.Errorf("unknown topic graph = %+v", empty)
	}
}

func TestAuthorNetwork(t *testing.T) {
	s := newTestStore(t)

	g, err := s.AuthorNetwork(feiFeiID)
	if err != nil {
		t.Fatalf("AuthorNetwork: %v", err)
	}

	var focus *types.AuthorNode
	hasJiaDeng := false
	for i := range g.Nodes {
		if g.Nodes[i].ID == feiFeiID {
			focus = &g.Nodes[i]
		}
		if g.Nodes[i].Name == "Jia Deng" {
			hasJiaDeng = true
		}
	}
	if focus == nil || !focus.IsFocus {
		t.Errorf("focus node = %+v", focus)
	}
	if !hasJiaDeng {
		t.Error("co-authors present only in works should still appear as nodes")
	}
}

func TestAuthorNetwork_KnownAuthorWithoutWorks(t *testing.T) {
	s := newTestStore(t)

	const lonerID = "https://openalex.org/A777"
	if _, err := s.db.Exec(
		`INSERT INTO authors (id, display_name) VALUES (?, 'Solo Author')`, lonerID,
	); err != nil {
		t.Fatal(err)
	}

	g, err := s.AuthorNetwork(lonerID)
	if err != nil {
		t.Fatalf("AuthorNetwork: %v", err)
	}
	if g.Stats.NodeCount != 1 || g.Stats.LinkCount != 0 {
		t.Fatalf("stats = %+v, want single-node graph", g.Stats)
	}
	if len(g.Nodes) != 1 || !g.Nodes[0].IsFocus || g.Nodes[0].Name != "Solo Author" {
		t.Errorf("nodes = %+v", g.Nodes)
	}
	if len(g.Stats.TopAuthors) != 1 {
		t.Errorf("top authors = %+v", g.Stats.TopAuthors)
	}
}

func TestAuthorNetwork_Unknown(t *testing.T) {
	s := newTestStore(t)
	g, err := s.AuthorNetwork("https://openalex.org/A999")
	if err != nil {
		t.Fatal(err)
	}
	if g.Stats.NodeCount != 0 || len(g.Nodes) != 0 {
		t.Errorf("unknown author graph = %+v", g)
	}
}

func TestTrending(t *testing.T) {
	s := newTestStore(t)

	topics, err := s.TrendingTopics(10)
	if err != nil {
		t.Fatalf("TrendingTopics: %v", err)
	}
	if len(topics) != 2 || topics[0].ID != mlTopic {
		t.Errorf("trending topics = %+v", topics)
	}
	if topics[0].Growth != 34000 {
		t.Errorf("growth = %d", topics[0].Growth)
	}

	scientists, err := s.TrendingScientists(1)
	if err != nil {
		t.Fatalf("TrendingScientists: %v", err)
	}
	if len(scientists) != 1 || scientists[0].ID != feiFeiID {
		t.Errorf("trending scientists = %+v", scientists)
	}
	if scientists[0].Institution == nil {
		t.Error("trending scientist should carry institution enrichment")
	}
}

func TestReopenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offline.db")

	s, err := NewStore(types.OfflineConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewStore(types.OfflineConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	var topics, works int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM topics`).Scan(&topics); err != nil {
		t.Fatal(err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM works`).Scan(&works); err != nil {
		t.Fatal(err)
	}
	if topics != 2 {
		t.Errorf("topics = %d after reopen, want 2", topics)
	}
	if works != 13 {
		t.Errorf("works = %d after reopen, want 13", works)
	}
}
