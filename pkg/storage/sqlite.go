package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/irisnotes/iris-notes/pkg/models"
	"github.com/irisnotes/iris-notes/pkg/tree"
)

// SQLite is the SQL-backed Adapter. Deletes are soft: rows keep a deleted_at
// timestamp and all read paths filter on it.
type SQLite struct {
	db *sql.DB
}

var _ Adapter = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category_id TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		content TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT 'markdown',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id);
	CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category_id);
	CREATE INDEX IF NOT EXISTS idx_notes_deleted ON notes(deleted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// DB exposes the underlying handle so the search index and the legacy
// migrator can share one database file.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, parent_id, sort_order, created_at, updated_at
		FROM categories WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) Notes(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	query := `
		SELECT id, title, category_id, sort_order, content, content_type, created_at, updated_at
		FROM notes`
	var conds []string
	var args []any
	if !filter.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.CategoryID, &n.SortOrder, &n.Content, &n.ContentType, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLite) CreateCategory(ctx context.Context, name string, parentID *string) (models.Category, error) {
	if parentID != nil {
		cats, err := s.Categories(ctx)
		if err != nil {
			return models.Category{}, err
		}
		depth := tree.Depth(cats, *parentID)
		if depth == 0 {
			return models.Category{}, fmt.Errorf("parent category %q not found", *parentID)
		}
		if depth >= tree.MaxDepth {
			return models.Category{}, tree.ErrMaxDepthExceeded
		}
	}

	now := time.Now().UTC()
	c := models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		SortOrder: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next, err := s.nextSortOrder(ctx, "categories", "parent_id", parentID)
	if err != nil {
		return models.Category{}, err
	}
	c.SortOrder = next

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, parent_id, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.ParentID, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *SQLite) CreateNote(ctx context.Context, title string, categoryID *string, content, contentType string) (models.Note, error) {
	if categoryID != nil {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM categories WHERE id = ? AND deleted_at IS NULL)",
			*categoryID).Scan(&exists)
		if err != nil {
			return models.Note{}, fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return models.Note{}, fmt.Errorf("category %q not found", *categoryID)
		}
	}
	if contentType == "" {
		contentType = "markdown"
	}

	now := time.Now().UTC()
	n := models.Note{
		ID:          uuid.NewString(),
		Title:       title,
		CategoryID:  categoryID,
		Content:     content,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	next, err := s.nextSortOrder(ctx, "notes", "category_id", categoryID)
	if err != nil {
		return models.Note{}, err
	}
	n.SortOrder = next

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, category_id, sort_order, content, content_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.CategoryID, n.SortOrder, n.Content, n.ContentType, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (s *SQLite) UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (models.Category, error) {
	sets := "updated_at = ?"
	args := []any{time.Now().UTC()}
	if upd.Name != nil {
		sets += ", name = ?"
		args = append(args, *upd.Name)
	}
	if upd.SortOrder != nil {
		sets += ", sort_order = ?"
		args = append(args, *upd.SortOrder)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET "+sets+" WHERE id = ? AND deleted_at IS NULL", args...)
	if err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Category{}, fmt.Errorf("category %q not found", id)
	}
	return s.getCategory(ctx, id)
}

func (s *SQLite) UpdateNote(ctx context.Context, id string, upd NoteUpdate) (models.Note, error) {
	sets := "updated_at = ?"
	args := []any{time.Now().UTC()}
	if upd.Title != nil {
		sets += ", title = ?"
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets += ", content = ?"
		args = append(args, *upd.Content)
	}
	if upd.ContentType != nil {
		sets += ", content_type = ?"
		args = append(args, *upd.ContentType)
	}
	if upd.SortOrder != nil {
		sets += ", sort_order = ?"
		args = append(args, *upd.SortOrder)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET "+sets+" WHERE id = ? AND deleted_at IS NULL", args...)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Note{}, fmt.Errorf("note %q not found", id)
	}
	return s.getNote(ctx, id)
}

// Move re-parents a row and renumbers the destination siblings when a
// position is requested. The whole operation runs in one transaction.
func (s *SQLite) Move(ctx context.Context, id string, kind models.NodeKind, newParentID *string, position *int) error {
	table, parentCol := "notes", "category_id"
	if kind == models.KindCategory {
		table, parentCol = "categories", "parent_id"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ? AND deleted_at IS NULL)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check node: %w", err)
	}
	if !exists {
		return fmt.Errorf("%s %q not found", kind, id)
	}

	// Sibling ids at the destination, in current order, excluding the moved
	// node itself in case this is a reorder within the same parent.
	nameCol := "title"
	if table == "categories" {
		nameCol = "name"
	}
	siblingQuery := "SELECT id FROM " + table + " WHERE deleted_at IS NULL AND id != ? AND "
	args := []any{id}
	if newParentID == nil {
		siblingQuery += parentCol + " IS NULL"
	} else {
		siblingQuery += parentCol + " = ?"
		args = append(args, *newParentID)
	}
	siblingQuery += " ORDER BY sort_order, " + nameCol

	rows, err := tx.QueryContext(ctx, siblingQuery, args...)
	if err != nil {
		return fmt.Errorf("query siblings: %w", err)
	}
	var siblings []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			rows.Close()
			return fmt.Errorf("scan sibling: %w", err)
		}
		siblings = append(siblings, sid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	idx := len(siblings)
	if position != nil {
		idx = *position
		if idx < 0 {
			idx = 0
		}
		if idx > len(siblings) {
			idx = len(siblings)
		}
	}
	ordered := make([]string, 0, len(siblings)+1)
	ordered = append(ordered, siblings[:idx]...)
	ordered = append(ordered, id)
	ordered = append(ordered, siblings[idx:]...)

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE "+table+" SET "+parentCol+" = ?, updated_at = ? WHERE id = ?",
		newParentID, now, id); err != nil {
		return fmt.Errorf("reparent: %w", err)
	}
	for i, sid := range ordered {
		if _, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET sort_order = ? WHERE id = ?", i, sid); err != nil {
			return fmt.Errorf("renumber siblings: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) DeleteCategory(ctx context.Context, id string) error {
	return s.softDelete(ctx, "categories", id)
}

func (s *SQLite) DeleteNote(ctx context.Context, id string) error {
	return s.softDelete(ctx, "notes", id)
}

func (s *SQLite) softDelete(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+table+" SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %q not found", table, id)
	}
	return nil
}

func (s *SQLite) getCategory(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id, sort_order, created_at, updated_at
		FROM categories WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&c.ID, &c.Name, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *SQLite) getNote(ctx context.Context, id string) (models.Note, error) {
	var n models.Note
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, category_id, sort_order, content, content_type, created_at, updated_at
		FROM notes WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&n.ID, &n.Title, &n.CategoryID, &n.SortOrder, &n.Content, &n.ContentType, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (s *SQLite) nextSortOrder(ctx context.Context, table, parentCol string, parentID *string) (int, error) {
	query := "SELECT COALESCE(MAX(sort_order), -1) + 1 FROM " + table + " WHERE deleted_at IS NULL AND "
	var args []any
	if parentID == nil {
		query += parentCol + " IS NULL"
	} else {
		query += parentCol + " = ?"
		args = append(args, *parentID)
	}
	var next int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return next, nil
}
