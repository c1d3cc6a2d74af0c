// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/collab-finder/pkg/types"
)

func testClient(ts *httptest.Server) *Client {
	return NewClient(types.ProviderConfig{
		BaseURL:    ts.URL,
		Mailto:     "collab-finder@example.com",
		UserAgent:  "collab-finder-test/0.1",
		MaxRetries: 1,
	}, zerolog.Nop())
}

const sampleWorksJSON = `{
  "meta": {"count": 2, "per_page": 25, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W1",
      "title": "Deep Residual Learning",
      "publication_year": 2016,
      "cited_by_count": 90000,
      "authorships": [
        {"author": {"id": "https://openalex.org/A1", "display_name": "Kaiming He"}},
        {"author": {"id": "https://openalex.org/A2", "display_name": "Xiangyu Zhang"}}
      ],
      "concepts": [
        {"id": "https://openalex.org/C1", "display_name": "Computer Vision", "score": 0.8}
      ]
    },
    {
      "id": "https://openalex.org/W2",
      "display_name": "Untitled Preprint",
      "publication_year": "2023",
      "authorships": [
        {"author": {"display_name": "Anonymous"}},
        {"author": {"id": "https://openalex.org/A1", "display_name": "Kaiming He"}}
      ],
      "concepts": []
    }
  ]
}`

func TestFetchWorks(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(sampleWorksJSON))
	}))
	defer ts.Close()

	works, err := testClient(ts).FetchWorks(context.Background(), "authorships.author.id:A1", 25, "")
	if err != nil {
		t.Fatalf("FetchWorks: %v", err)
	}

	if gotQuery.Get("filter") != "authorships.author.id:A1" {
		t.Errorf("filter = %q", gotQuery.Get("filter"))
	}
	if gotQuery.Get("per_page") != "25" {
		t.Errorf("per_page = %q", gotQuery.Get("per_page"))
	}
	if gotQuery.Get("mailto") != "collab-finder@example.com" {
		t.Errorf("mailto = %q", gotQuery.Get("mailto"))
	}

	if len(works) != 2 {
		t.Fatalf("works = %d, want 2", len(works))
	}
	if works[0].Year == nil || *works[0].Year != 2016 {
		t.Errorf("work[0].Year = %v", works[0].Year)
	}
	if works[1].Year == nil || *works[1].Year != 2023 {
		t.Errorf("work[1].Year = %v, want string year parsed", works[1].Year)
	}
	if works[1].Title != "Untitled Preprint" {
		t.Errorf("work[1].Title = %q", works[1].Title)
	}
	if len(works[1].Authors) != 1 {
		t.Errorf("work[1].Authors = %v, want id-less authorship dropped", works[1].Authors)
	}
}

func TestFetchWorks_DegradesSelectThenPageSize(t *testing.T) {
	var queries []url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		queries = append(queries, q)
		if q.Get("select") != "" {
			http.Error(w, "invalid select", http.StatusForbidden)
			return
		}
		if q.Get("per_page") != "50" {
			http.Error(w, "page too large", http.StatusForbidden)
			return
		}
		w.Write([]byte(sampleWorksJSON))
	}))
	defer ts.Close()

	works, err := testClient(ts).FetchWorks(context.Background(), "concepts.id:C1", 200, "")
	if err != nil {
		t.Fatalf("FetchWorks after degradation: %v", err)
	}
	if len(works) != 2 {
		t.Errorf("works = %d, want 2", len(works))
	}

	if len(queries) != 3 {
		t.Fatalf("requests = %d, want 3 (full, no select, smaller page)", len(queries))
	}
	if queries[1].Get("select") != "" {
		t.Error("second attempt should drop select")
	}
	if queries[2].Get("per_page") != "50" {
		t.Errorf("third attempt per_page = %q, want 50", queries[2].Get("per_page"))
	}
}

func TestFetchAuthorBrief(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
		  "id": "https://openalex.org/A1",
		  "display_name": "Fei-Fei Li",
		  "works_count": 420,
		  "cited_by_count": 98000,
		  "last_known_institutions": [
		    {"id": "https://openalex.org/I1", "display_name": "Stanford University",
		     "type": "education", "country_code": "US"}
		  ]
		}`))
	}))
	defer ts.Close()

	brief, err := testClient(ts).FetchAuthorBrief(context.Background(), "https://openalex.org/A1")
	if err != nil {
		t.Fatalf("FetchAuthorBrief: %v", err)
	}
	if brief.DisplayName != "Fei-Fei Li" || brief.WorksCount != 420 {
		t.Errorf("brief = %+v", brief)
	}
	if brief.Institution == nil || brief.Institution.DisplayName != "Stanford University" {
		t.Errorf("institution = %+v, want plural field flattened", brief.Institution)
	}
}

func TestSearchAuthors_SelectDegradation(t *testing.T) {
	const authorJSON = `{
	  "id": "https://openalex.org/A1",
	  "display_name": "Kaiming He",
	  "works_count": 120,
	  "cited_by_count": 300000,
	  "last_known_institution": {
	    "id": "https://openalex.org/I1", "display_name": "MIT",
	    "type": "education", "country_code": "US"
	  }
	}`

	var selects []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sel := r.URL.Query().Get("select")
		selects = append(selects, sel)
		if sel != "" {
			http.Error(w, "deprecated field", http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"results": [` + authorJSON + `]}`))
	}))
	defer ts.Close()

	authors, err := testClient(ts).SearchAuthors(context.Background(), "he", 10)
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}
	if len(authors) != 1 || authors[0].Institution == nil || authors[0].Institution.CountryCode != "US" {
		t.Errorf("authors = %+v", authors)
	}

	if len(selects) != 3 {
		t.Fatalf("attempts = %d, want 3 (plural, singular, none)", len(selects))
	}
	if selects[0] == selects[1] {
		t.Error("second attempt should swap the plural institution field")
	}
	if selects[2] != "" {
		t.Errorf("final attempt select = %q, want empty", selects[2])
	}
}

func TestFetchGroupedCounts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("group_by"); got != "concepts.id" {
			t.Errorf("group_by = %q", got)
		}
		w.Write([]byte(`{
		  "group_by": [
		    {"key": "https://openalex.org/C1", "key_display_name": "Machine Learning", "count": 120},
		    {"key": "https://openalex.org/C2", "key_display_name": "Vision", "count": 45},
		    {"key": "", "key_display_name": "junk", "count": 3}
		  ]
		}`))
	}))
	defer ts.Close()

	grouped, err := testClient(ts).FetchGroupedCounts(context.Background(), "from_publication_date:2025-01-01", "concepts.id", 200)
	if err != nil {
		t.Fatalf("FetchGroupedCounts: %v", err)
	}
	if len(grouped) != 2 {
		t.Errorf("groups = %d, want 2 (empty key dropped)", len(grouped))
	}
	if g := grouped["https://openalex.org/C1"]; g.Count != 120 || g.DisplayName != "Machine Learning" {
		t.Errorf("group C1 = %+v", g)
	}
}

func TestClient_UnavailableSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := testClient(ts)

	if _, err := c.FetchConceptBrief(context.Background(), "https://openalex.org/C1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("FetchConceptBrief error = %v, want ErrUnavailable", err)
	}
	if _, err := c.FetchWorks(context.Background(), "x", 10, ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("FetchWorks error = %v, want ErrUnavailable", err)
	}
}

func TestReplaceSelectField(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		want string
	}{
		{"swaps plural", "id,last_known_institutions,works_count", "id,last_known_institution,works_count"},
		{"dedupes existing singular", "last_known_institutions,last_known_institution", "last_known_institution"},
		{"untouched without plural", "id,works_count", "id,works_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := replaceSelectField(tt.sel, "last_known_institutions", "last_known_institution")
			if got != tt.want {
				t.Errorf("replaceSelectField(%q) = %q, want %q", tt.sel, got, tt.want)
			}
		})
	}
}
