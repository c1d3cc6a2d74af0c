// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package offline

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/collab-finder/internal/graph"
	"github.com/pdiddy/collab-finder/pkg/types"
)

// DefaultUserID returns the snapshot's default user identity.
func (s *Store) DefaultUserID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'default_user_id'`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading default user: %w", err)
	}
	return id, nil
}

// SearchTopics returns snapshot topics whose name or description contains
// the query, case-insensitively. An empty query matches everything.
func (s *Store) SearchTopics(query string, limit int) ([]types.TopicSummary, error) {
	pattern := likePattern(query)
	rows, err := s.db.Query(
		`SELECT id, display_name, COALESCE(description, ''), works_count
		 FROM topics
		 WHERE lower(display_name) LIKE ? OR lower(COALESCE(description, '')) LIKE ?
		 ORDER BY works_count DESC
		 LIMIT ?`,
		pattern, pattern, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("searching topics: %w", err)
	}
	defer rows.Close()

	topics := []types.TopicSummary{}
	for rows.Next() {
		var t types.TopicSummary
		if err := rows.Scan(&t.ID, &t.DisplayName, &t.Description, &t.WorksCount); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// SearchAuthors returns snapshot authors whose name contains the query,
// case-insensitively.
func (s *Store) SearchAuthors(query string, limit int) ([]types.AuthorBrief, error) {
	rows, err := s.db.Query(
		`SELECT id, display_name, works_count, cited_by_count, institution
		 FROM authors
		 WHERE lower(display_name) LIKE ?
		 ORDER BY cited_by_count DESC
		 LIMIT ?`,
		likePattern(query), clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("searching authors: %w", err)
	}
	defer rows.Close()
	return scanAuthors(rows)
}

// AuthorsByTopic returns the canned author list for a topic, in snapshot
// order. Unknown topics return an empty list.
func (s *Store) AuthorsByTopic(topicID string, limit int) ([]types.AuthorBrief, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.display_name, a.works_count, a.cited_by_count, a.institution
		 FROM topic_authors ta
		 JOIN authors a ON a.id = ta.author_id
		 WHERE ta.topic_id = ?
		 ORDER BY ta.position
		 LIMIT ?`,
		topicID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("listing topic authors: %w", err)
	}
	defer rows.Close()
	return scanAuthors(rows)
}

// AuthorProfile returns the snapshot record for one author, or ErrNotFound.
func (s *Store) AuthorProfile(authorID string) (types.AuthorBrief, error) {
	row := s.db.QueryRow(
		`SELECT id, display_name, works_count, cited_by_count, institution
		 FROM authors WHERE id = ?`,
		authorID,
	)
	brief, err := scanAuthor(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return types.AuthorBrief{}, ErrNotFound
	}
	if err != nil {
		return types.AuthorBrief{}, fmt.Errorf("reading author profile: %w", err)
	}
	return brief, nil
}

// AuthorWorks returns the snapshot works authored by the given author, in
// snapshot order. Unknown authors return an empty list.
func (s *Store) AuthorWorks(authorID string) ([]types.Work, error) {
	rows, err := s.db.Query(
		`SELECT w.payload
		 FROM author_works aw
		 JOIN works w ON w.id = aw.work_id
		 WHERE aw.author_id = ?
		 ORDER BY aw.position`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing author works: %w", err)
	}
	defer rows.Close()
	return scanWorks(rows)
}

// InstitutionsByTopic returns the canned institution listing for a topic.
func (s *Store) InstitutionsByTopic(topicID string, limit int) ([]types.InstitutionSummary, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM topic_institutions
		 WHERE topic_id = ?
		 ORDER BY position
		 LIMIT ?`,
		topicID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("listing topic institutions: %w", err)
	}
	defer rows.Close()

	institutions := []types.InstitutionSummary{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var inst types.InstitutionSummary
		if err := json.Unmarshal([]byte(payload), &inst); err != nil {
			return nil, fmt.Errorf("decoding institution payload: %w", err)
		}
		institutions = append(institutions, inst)
	}
	return institutions, rows.Err()
}

// TopicNetwork builds the co-authorship graph over the snapshot works
// filed under a topic. Unknown topics yield an empty graph.
func (s *Store) TopicNetwork(topicID string) (types.CoauthorGraph, error) {
	rows, err := s.db.Query(
		`SELECT w.payload
		 FROM topic_works tw
		 JOIN works w ON w.id = tw.work_id
		 WHERE tw.topic_id = ?
		 ORDER BY tw.position`,
		topicID,
	)
	if err != nil {
		return types.CoauthorGraph{}, fmt.Errorf("listing topic works: %w", err)
	}
	defer rows.Close()

	works, err := scanWorks(rows)
	if err != nil {
		return types.CoauthorGraph{}, err
	}
	return graph.Build(works, ""), nil
}

// AuthorNetwork builds the co-authorship graph around one snapshot author.
// An author with no recorded works still appears as a single focus node.
func (s *Store) AuthorNetwork(authorID string) (types.CoauthorGraph, error) {
	works, err := s.AuthorWorks(authorID)
	if err != nil {
		return types.CoauthorGraph{}, err
	}
	if len(works) > 0 {
		return graph.Build(works, authorID), nil
	}

	brief, err := s.AuthorProfile(authorID)
	if errors.Is(err, ErrNotFound) {
		return graph.Build(nil, authorID), nil
	}
	if err != nil {
		return types.CoauthorGraph{}, err
	}
	g := graph.Build(nil, authorID)
	g.Nodes = []types.AuthorNode{{ID: brief.ID, Name: brief.DisplayName, IsFocus: true}}
	g.Stats.NodeCount = 1
	g.Stats.TopAuthors = []types.TopAuthor{{ID: brief.ID, Name: brief.DisplayName}}
	return g, nil
}

// TrendingTopics returns the canned trending-topic list.
func (s *Store) TrendingTopics(limit int) ([]types.TrendEntry, error) {
	return s.trending("topics", limit)
}

// TrendingScientists returns the canned trending-author list.
func (s *Store) TrendingScientists(limit int) ([]types.TrendEntry, error) {
	return s.trending("scientists", limit)
}

func (s *Store) trending(kind string, limit int) ([]types.TrendEntry, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM trending
		 WHERE kind = ?
		 ORDER BY position
		 LIMIT ?`,
		kind, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("listing trending %s: %w", kind, err)
	}
	defer rows.Close()

	entries := []types.TrendEntry{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var entry types.TrendEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("decoding trend payload: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanAuthor(scan func(dest ...any) error) (types.AuthorBrief, error) {
	var (
		brief       types.AuthorBrief
		institution sql.NullString
	)
	if err := scan(&brief.ID, &brief.DisplayName, &brief.WorksCount, &brief.CitedByCount, &institution); err != nil {
		return types.AuthorBrief{}, err
	}
	if institution.Valid {
		var inst types.Institution
		if err := json.Unmarshal([]byte(institution.String), &inst); err != nil {
			return types.AuthorBrief{}, fmt.Errorf("decoding institution payload: %w", err)
		}
		brief.Institution = &inst
	}
	return brief, nil
}

func scanAuthors(rows *sql.Rows) ([]types.AuthorBrief, error) {
	authors := []types.AuthorBrief{}
	for rows.Next() {
		brief, err := scanAuthor(rows.Scan)
		if err != nil {
			return nil, err
		}
		authors = append(authors, brief)
	}
	return authors, rows.Err()
}

func scanWorks(rows *sql.Rows) ([]types.Work, error) {
	works := []types.Work{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var w types.Work
		if err := json.Unmarshal([]byte(payload), &w); err != nil {
			return nil, fmt.Errorf("decoding work payload: %w", err)
		}
		works = append(works, w)
	}
	return works, rows.Err()
}

func likePattern(query string) string {
	return "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 200
	}
	return limit
}
