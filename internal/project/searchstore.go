package project

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// searchStore is an in-memory SQLite mirror of sections_by_id, rebuilt from
// scratch inside every refresh's exclusive-lock critical section. It never
// becomes a second source of truth: sections_by_id stays authoritative, and
// no file is ever created on disk for it, preserving spec.md's
// non-persistence requirement. Its only job is giving search_content a fast
// substring prefilter instead of a hand-rolled linear scan over every
// section's content.
type searchStore struct {
	db *sql.DB
}

func newSearchStore() (*searchStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory search store: %w", err)
	}
	const schema = `CREATE TABLE sections (
		id TEXT PRIMARY KEY,
		title TEXT COLLATE NOCASE,
		content TEXT COLLATE NOCASE,
		level INTEGER,
		source_file TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create search store schema: %w", err)
	}
	return &searchStore{db: db}, nil
}

// rebuild replaces the entire mirror with sections. Caller must already
// hold the Index's exclusive lock.
func (s *searchStore) rebuild(sections map[string]Section) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sections`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO sections (id, title, content, level, source_file) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, sec := range sections {
		if _, err := stmt.Exec(id, sec.Title, sec.Content, sec.Level, sec.SourceFile); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// candidates returns every section id whose title or content contains query
// as a case-insensitive substring, per the mirror's NOCASE collation. Final
// ranking (title-before-content, match position, level) happens in Go,
// since LIKE cannot report a match's position.
func (s *searchStore) candidates(query string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT id FROM sections WHERE title LIKE '%' || ? || '%' OR content LIKE '%' || ? || '%'`,
		query, query,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *searchStore) close() error {
	return s.db.Close()
}
