// Package index stores parsed documents in a SQLite database and
// serves substring search over their chunk text.
package index

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/docquill/quill/chunk"
	"github.com/docquill/quill/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT '',
	creator TEXT NOT NULL DEFAULT '',
	indexed_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	document_id INTEGER NOT NULL REFERENCES documents(id),
	chunk_index INTEGER NOT NULL,
	section TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS chunks_document ON chunks(document_id);
`

// Store is a SQLite backed document index.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Document summarizes one indexed document.
type Document struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	Title     string    `json:"title,omitempty"`
	Creator   string    `json:"creator,omitempty"`
	IndexedAt time.Time `json:"indexed_at"`
	Chunks    int       `json:"chunks"`
}

// Add indexes a document's chunks under the given path, replacing any
// earlier index entry for the same path.
func (s *Store) Add(path string, meta model.Metadata, chunks []*chunk.Chunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRow("SELECT id FROM documents WHERE path = ?", path).Scan(&oldID)
	switch {
	case err == nil:
		if _, err := tx.Exec("DELETE FROM chunks WHERE document_id = ?", oldID); err != nil {
			return fmt.Errorf("failed to clear old chunks: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM documents WHERE id = ?", oldID); err != nil {
			return fmt.Errorf("failed to clear old document: %w", err)
		}
	case err != sql.ErrNoRows:
		return fmt.Errorf("failed to look up document: %w", err)
	}

	res, err := tx.Exec(
		"INSERT INTO documents (path, title, creator, indexed_at) VALUES (?, ?, ?, ?)",
		path, meta.Title, meta.Creator, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read document id: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO chunks (id, document_id, chunk_index, section, content) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range chunks {
		if _, err := stmt.Exec(c.ID, docID, c.Metadata.ChunkIndex, c.SectionPathString(), c.Text); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Documents lists the indexed documents in path order.
func (s *Store) Documents() ([]Document, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.path, d.title, d.creator, d.indexed_at, COUNT(c.id)
		FROM documents d LEFT JOIN chunks c ON c.document_id = d.id
		GROUP BY d.id ORDER BY d.path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Path, &d.Title, &d.Creator, &d.IndexedAt, &d.Chunks); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Hit is one search result.
type Hit struct {
	DocumentPath  string `json:"document_path"`
	DocumentTitle string `json:"document_title,omitempty"`
	Section       string `json:"section,omitempty"`
	ChunkID       string `json:"chunk_id"`
	ChunkIndex    int    `json:"chunk_index"`
	Snippet       string `json:"snippet"`
}

// Search returns chunks whose text contains the query, case
// insensitively for ASCII. A non-positive limit defaults to 10.
func (s *Store) Search(query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.Query(`
		SELECT d.path, d.title, c.section, c.id, c.chunk_index, c.content
		FROM chunks c JOIN documents d ON d.id = c.document_id
		WHERE c.content LIKE ? ESCAPE '\'
		ORDER BY d.path, c.chunk_index LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var content string
		if err := rows.Scan(&h.DocumentPath, &h.DocumentTitle, &h.Section, &h.ChunkID, &h.ChunkIndex, &content); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		h.Snippet = snippet(content, query, 60)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// escapeLike escapes the LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// snippet cuts a window of text around the first match, newlines
// collapsed. radius is the number of bytes kept on each side, widened
// to rune boundaries.
func snippet(text, query string, radius int) string {
	flat := strings.Join(strings.Fields(text), " ")
	idx := strings.Index(strings.ToLower(flat), strings.ToLower(query))
	if idx < 0 {
		if len(flat) <= 2*radius {
			return flat
		}
		return flat[:runeFloor(flat, 2*radius)] + "…"
	}
	start := runeFloor(flat, idx-radius)
	end := runeCeil(flat, idx+len(query)+radius)
	out := flat[start:end]
	if start > 0 {
		out = "…" + out
	}
	if end < len(flat) {
		out += "…"
	}
	return out
}

// runeFloor steps i back to the nearest rune boundary.
func runeFloor(s string, i int) int {
	if i < 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil steps i forward to the nearest rune boundary.
func runeCeil(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
