package folio

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SearchIndex wraps a SQLite database holding a searchable copy of the
// listed posts. The collection stays the source of truth; the index is
// rebuilt whenever content reloads.
type SearchIndex struct {
	db *sql.DB
}

// NewSearchIndex opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema. ":memory:" keeps the index
// in a single in-memory connection.
func NewSearchIndex(path string) (*SearchIndex, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if memory {
		// every new connection would open a separate empty database
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
		`); err != nil {
			db.Close()
			return nil, err
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &SearchIndex{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SearchIndex) Close() error {
	return s.db.Close()
}

const searchSchema = `
CREATE TABLE IF NOT EXISTS search_posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    tags TEXT NOT NULL,
    body TEXT NOT NULL,
    title_folded TEXT NOT NULL,
    search_text TEXT NOT NULL,
    pub_unix INTEGER NOT NULL
);
`

// ensureSchema creates the table. The index is derived data, so a table
// from an older layout is dropped rather than migrated.
func (s *SearchIndex) ensureSchema() error {
	if _, err := s.db.Exec(searchSchema); err != nil {
		return err
	}
	if _, err := s.db.Exec(`SELECT search_text, title_folded FROM search_posts LIMIT 0`); err == nil {
		return nil
	}
	if _, err := s.db.Exec(`DROP TABLE search_posts`); err != nil {
		return err
	}
	_, err := s.db.Exec(searchSchema)
	return err
}

// Index replaces the index contents with posts in a single transaction.
func (s *SearchIndex) Index(posts []BlogPost) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM search_posts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO search_posts (slug, title, description, tags, body, title_folded, search_text, pub_unix) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		tagString := "," + strings.Join(p.Tags, ",") + ","
		text := strings.Join([]string{p.Title, p.Description, tagString, p.Body}, " ")
		if _, err := stmt.Exec(p.Slug, p.Title, p.Description, tagString, p.Body,
			foldCase(p.Title), foldCase(text), p.PubDatetime.Unix()); err != nil {
			return fmt.Errorf("index %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

func (s *SearchIndex) count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM search_posts`).Scan(&n)
	return n, err
}

// Search returns posts where every whitespace-separated term of query occurs
// in the title, description, tags or body, case-insensitively. Posts whose
// title contains the first term rank first, then newest first.
func (s *SearchIndex) Search(query string, limit int) ([]SearchHit, error) {
	terms := strings.Fields(foldCase(query))
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var where []string
	var args []any
	for _, t := range terms {
		where = append(where, `search_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(t)+"%")
	}
	args = append(args, "%"+escapeLike(terms[0])+"%", limit)

	q := `SELECT slug, title, description, pub_unix FROM search_posts WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY (title_folded LIKE ? ESCAPE '\') DESC, pub_unix DESC, slug ASC LIMIT ?`
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		var pub int64
		if err := rows.Scan(&h.Slug, &h.Title, &h.Description, &pub); err != nil {
			return nil, err
		}
		h.PubDatetime = time.Unix(pub, 0).UTC()
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// foldCase lowercases in Go; SQLite's lower() and LIKE only fold ASCII.
func foldCase(s string) string {
	return strings.ToLower(s)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
