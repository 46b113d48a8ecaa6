// Package search maintains a full-text index over note titles and content.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/irisnotes/iris-notes/pkg/models"
)

// Index manages the search index. It shares the storage database: the plain
// notes table is always authoritative, the FTS table is derived state that
// can be rebuilt at any time.
type Index struct {
	db     *sql.DB
	useFTS bool
}

// Result is one search hit.
type Result struct {
	ID      string
	Title   string
	Snippet string
}

// NewIndex prepares the index schema on the given database handle. FTS5 is
// probed at open; if the build of sqlite lacks it, searches silently fall
// back to LIKE matching.
func NewIndex(db *sql.DB) (*Index, error) {
	idx := &Index{db: db, useFTS: checkFTS5Support(db)}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			id UNINDEXED,
			title,
			content,
			tokenize = 'porter unicode61'
		);
		`
		if _, err := db.Exec(ftsSchema); err != nil {
			// Fall back rather than fail: search still works via LIKE.
			idx.useFTS = false
		}
	}
	return idx, nil
}

func checkFTS5Support(db *sql.DB) bool {
	_, err := db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}
	_, _ = db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// IndexNote indexes or reindexes a note.
func (idx *Index) IndexNote(note *models.Note) error {
	if !idx.useFTS {
		return nil
	}
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM notes_fts WHERE id = ?", note.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO notes_fts (id, title, content) VALUES (?, ?, ?)",
		note.ID, note.Title, note.Content); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveNote drops a note from the index.
func (idx *Index) RemoveNote(id string) error {
	if !idx.useFTS {
		return nil
	}
	_, err := idx.db.Exec("DELETE FROM notes_fts WHERE id = ?", id)
	return err
}

// Reindex rebuilds the FTS table from the live notes.
func (idx *Index) Reindex() error {
	if !idx.useFTS {
		return nil
	}
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM notes_fts"); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO notes_fts (id, title, content)
		SELECT id, title, content FROM notes WHERE deleted_at IS NULL`); err != nil {
		return err
	}
	return tx.Commit()
}

// Search performs a full-text search over live notes. limit <= 0 means the
// default of 50.
func (idx *Index) Search(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	if idx.useFTS {
		return idx.searchWithFTS(query, limit)
	}
	return idx.searchWithLike(query, limit)
}

func (idx *Index) searchWithFTS(query string, limit int) ([]Result, error) {
	rows, err := idx.db.Query(`
		SELECT f.id, f.title,
			snippet(notes_fts, 2, '<match>', '</match>', '...', 32) AS snippet
		FROM notes_fts f
		JOIN notes n ON n.id = f.id
		WHERE n.deleted_at IS NULL AND notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (idx *Index) searchWithLike(query string, limit int) ([]Result, error) {
	pattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	rows, err := idx.db.Query(`
		SELECT id, title
		FROM notes
		WHERE deleted_at IS NULL AND (title LIKE ? OR content LIKE ?)
		ORDER BY updated_at DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("like search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
