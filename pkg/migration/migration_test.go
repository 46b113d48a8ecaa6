package migration

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisnotes/iris-notes/pkg/storage"
)

func quietEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestRunNoLegacyTable(t *testing.T) {
	s, err := storage.NewSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	defer s.Close()

	report, err := NewMigrator(s.DB(), quietEntry()).Run()
	require.NoError(t, err)
	assert.False(t, report.Ran)
}

func TestRunConvertsJoinTable(t *testing.T) {
	s, err := storage.NewSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	first, err := s.CreateCategory(ctx, "Alpha", nil)
	require.NoError(t, err)
	second, err := s.CreateCategory(ctx, "Beta", nil)
	require.NoError(t, err)
	note, err := s.CreateNote(ctx, "Shared", nil, "", "")
	require.NoError(t, err)

	// Recreate the legacy schema: the note belongs to both categories.
	db := s.DB()
	_, err = db.Exec("CREATE TABLE note_categories (note_id TEXT, category_id TEXT)")
	require.NoError(t, err)
	for _, catID := range []string{second.ID, first.ID} {
		_, err = db.Exec("INSERT INTO note_categories (note_id, category_id) VALUES (?, ?)", note.ID, catID)
		require.NoError(t, err)
	}

	report, err := NewMigrator(db, quietEntry()).Run()
	require.NoError(t, err)
	assert.True(t, report.Ran)
	assert.Equal(t, 1, report.NotesConverted)
	assert.Equal(t, 1, report.JoinRowsDropped)

	// Alpha wins: lowest (sort_order, name) among the memberships.
	notes, err := s.Notes(ctx, storage.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.NotNil(t, notes[0].CategoryID)
	assert.Equal(t, first.ID, *notes[0].CategoryID)

	// The join table is parked, not dropped.
	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'note_categories_migrated'").Scan(&name)
	require.NoError(t, err)

	// A second run is a no-op.
	report, err = NewMigrator(db, quietEntry()).Run()
	require.NoError(t, err)
	assert.False(t, report.Ran)
}
