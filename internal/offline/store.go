// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package offline provides the canned substitute dataset used when the
// live provider is unavailable. The dataset lives in a small SQLite
// database seeded from an embedded YAML snapshot on first open; payloads
// are shaped identically to their live equivalents. The store is
// read-only after seeding and is injected into whatever layer needs a
// fallback rather than accessed as a global.
package offline

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/collab-finder/pkg/types"
)

// ErrNotFound reports that the snapshot has no payload for the requested
// identifier.
var ErrNotFound = errors.New("not in offline snapshot")

//go:embed seed.yaml
var seedYAML []byte

// Store serves the offline snapshot.
type Store struct {
	db *sql.DB
}

// snapshot is the YAML shape of the embedded seed.
type snapshot struct {
	DefaultUserID      string                                `yaml:"default_user_id"`
	Topics             []types.TopicSummary                  `yaml:"topics"`
	Authors            []types.AuthorBrief                   `yaml:"authors"`
	TopicAuthors       map[string][]string                   `yaml:"topic_authors"`
	TopicInstitutions  map[string][]types.InstitutionSummary `yaml:"topic_institutions"`
	Works              []types.Work                          `yaml:"works"`
	TopicWorks         map[string][]string                   `yaml:"topic_works"`
	TrendingTopics     []types.TrendEntry                    `yaml:"trending_topics"`
	TrendingScientists []types.TrendEntry                    `yaml:"trending_scientists"`
}

// NewStore opens or creates the snapshot database at cfg.Path, creating
// the schema and seeding it from the embedded snapshot when empty.
func NewStore(cfg types.OfflineConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating offline directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening offline database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating offline schema: %w", err)
	}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding offline snapshot: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			description TEXT,
			works_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			works_count INTEGER NOT NULL DEFAULT 0,
			cited_by_count INTEGER NOT NULL DEFAULT 0,
			institution TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS topic_authors (
			topic_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (topic_id, author_id)
		)`,
		`CREATE TABLE IF NOT EXISTS topic_institutions (
			topic_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (topic_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS works (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS author_works (
			author_id TEXT NOT NULL,
			work_id TEXT NOT NULL REFERENCES works(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (author_id, work_id)
		)`,
		`CREATE TABLE IF NOT EXISTS topic_works (
			topic_id TEXT NOT NULL,
			work_id TEXT NOT NULL REFERENCES works(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (topic_id, work_id)
		)`,
		`CREATE TABLE IF NOT EXISTS trending (
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (kind, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM topics`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var snap snapshot
	if err := yaml.Unmarshal(seedYAML, &snap); err != nil {
		return fmt.Errorf("parsing embedded snapshot: %w", err)
	}
	return s.seed(snap)
}

func (s *Store) seed(snap snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if snap.DefaultUserID != "" {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('default_user_id', ?)`, snap.DefaultUserID); err != nil {
			return err
		}
	}

	for _, topic := range snap.Topics {
		if _, err := tx.Exec(
			`INSERT INTO topics (id, display_name, description, works_count) VALUES (?, ?, ?, ?)`,
			topic.ID, topic.DisplayName, topic.Description, topic.WorksCount,
		); err != nil {
			return err
		}
	}

	for _, author := range snap.Authors {
		institution, err := marshalNullable(author.Institution)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO authors (id, display_name, works_count, cited_by_count, institution) VALUES (?, ?, ?, ?, ?)`,
			author.ID, author.DisplayName, author.WorksCount, author.CitedByCount, institution,
		); err != nil {
			return err
		}
	}

	for topicID, authorIDs := range snap.TopicAuthors {
		for i, authorID := range authorIDs {
			if _, err := tx.Exec(
				`INSERT INTO topic_authors (topic_id, author_id, position) VALUES (?, ?, ?)`,
				topicID, authorID, i,
			); err != nil {
				return err
			}
		}
	}

	for topicID, institutions := range snap.TopicInstitutions {
		for i, inst := range institutions {
			payload, err := json.Marshal(inst)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(
				`INSERT INTO topic_institutions (topic_id, position, payload) VALUES (?, ?, ?)`,
				topicID, i, string(payload),
			); err != nil {
				return err
			}
		}
	}

	for i, work := range snap.Works {
		payload, err := json.Marshal(work)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO works (id, position, payload) VALUES (?, ?, ?)`,
			work.ID, i, string(payload),
		); err != nil {
			return err
		}
		// The author-to-work index derives from each work's authorships.
		for _, author := range work.Authors {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO author_works (author_id, work_id, position) VALUES (?, ?, ?)`,
				author.ID, work.ID, i,
			); err != nil {
				return err
			}
		}
	}

	for topicID, workIDs := range snap.TopicWorks {
		for i, workID := range workIDs {
			if _, err := tx.Exec(
				`INSERT INTO topic_works (topic_id, work_id, position) VALUES (?, ?, ?)`,
				topicID, workID, i,
			); err != nil {
				return err
			}
		}
	}

	if err := seedTrending(tx, "topics", snap.TrendingTopics); err != nil {
		return err
	}
	if err := seedTrending(tx, "scientists", snap.TrendingScientists); err != nil {
		return err
	}

	return tx.Commit()
}

func seedTrending(tx *sql.Tx, kind string, entries []types.TrendEntry) error {
	for i, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO trending (kind, position, payload) VALUES (?, ?, ?)`,
			kind, i, string(payload),
		); err != nil {
			return err
		}
	}
	return nil
}

func marshalNullable(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(payload) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(payload), Valid: true}, nil
}
