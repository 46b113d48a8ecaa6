// Package migration converts databases using the legacy many-to-many
// note/category join table to the direct parent-pointer model.
//
// Early builds stored note membership in note_categories(note_id,
// category_id), allowing a note to sit in several categories at once. The
// current model gives a note exactly one parent. The migrator picks a single
// winning category per note and parks the join table out of the way; it runs
// once at open and is a no-op on already-converted databases.
package migration

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Report summarizes one migration run.
type Report struct {
	NotesConverted  int
	JoinRowsDropped int
	Ran             bool
}

// Migrator performs the legacy join-table conversion on one database.
type Migrator struct {
	db     *sql.DB
	logger *logrus.Entry
}

func NewMigrator(db *sql.DB, logger *logrus.Entry) *Migrator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Migrator{db: db, logger: logger}
}

// Run detects the legacy schema and converts it. For each note with join
// rows, the winning category is the joined category with the lowest
// (sort_order, name, id); that is deterministic across runs and matches the
// sibling ordering the tree uses everywhere else. Remaining memberships are
// dropped (and logged). The join table is renamed rather than deleted so the
// data survives for manual recovery.
func (m *Migrator) Run() (*Report, error) {
	report := &Report{}

	legacy, err := m.hasTable("note_categories")
	if err != nil {
		return report, err
	}
	if !legacy {
		return report, nil
	}
	report.Ran = true
	m.logger.Info("legacy note_categories table found, migrating to direct parent pointers")

	tx, err := m.db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin migration: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Winner per note: first category by the canonical ordering.
	rows, err := tx.Query(`
		SELECT nc.note_id, nc.category_id
		FROM note_categories nc
		JOIN categories c ON c.id = nc.category_id
		ORDER BY nc.note_id, c.sort_order, c.name, c.id`)
	if err != nil {
		return report, fmt.Errorf("read join table: %w", err)
	}

	winners := make(map[string]string)
	extras := 0
	for rows.Next() {
		var noteID, categoryID string
		if err := rows.Scan(&noteID, &categoryID); err != nil {
			rows.Close()
			return report, fmt.Errorf("scan join row: %w", err)
		}
		if _, ok := winners[noteID]; ok {
			extras++
			m.logger.WithFields(logrus.Fields{
				"note":     noteID,
				"category": categoryID,
			}).Warn("dropping extra category membership")
			continue
		}
		winners[noteID] = categoryID
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return report, err
	}

	for noteID, categoryID := range winners {
		if _, err := tx.Exec(
			"UPDATE notes SET category_id = ? WHERE id = ?", categoryID, noteID); err != nil {
			return report, fmt.Errorf("set parent for note %s: %w", noteID, err)
		}
	}

	if _, err := tx.Exec(
		"ALTER TABLE note_categories RENAME TO note_categories_migrated"); err != nil {
		return report, fmt.Errorf("park join table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit migration: %w", err)
	}

	report.NotesConverted = len(winners)
	report.JoinRowsDropped = extras
	m.logger.WithFields(logrus.Fields{
		"notes":   report.NotesConverted,
		"dropped": report.JoinRowsDropped,
	}).Info("migration complete")
	return report, nil
}

func (m *Migrator) hasTable(name string) (bool, error) {
	var found string
	err := m.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return true, nil
}
