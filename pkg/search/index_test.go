package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisnotes/iris-notes/pkg/storage"
)

func setup(t *testing.T) (*storage.SQLite, *Index) {
	t.Helper()
	s, err := storage.NewSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	idx, err := NewIndex(s.DB())
	require.NoError(t, err)
	return s, idx
}

func TestSearchFindsIndexedNote(t *testing.T) {
	s, idx := setup(t)
	ctx := context.Background()

	n, err := s.CreateNote(ctx, "Meeting minutes", nil, "discussed the quarterly roadmap", "")
	require.NoError(t, err)
	require.NoError(t, idx.IndexNote(&n))

	results, err := idx.Search("roadmap", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, n.ID, results[0].ID)
	assert.Equal(t, "Meeting minutes", results[0].Title)
}

func TestSearchExcludesDeletedNotes(t *testing.T) {
	s, idx := setup(t)
	ctx := context.Background()

	n, err := s.CreateNote(ctx, "Gone", nil, "ephemeral content", "")
	require.NoError(t, err)
	require.NoError(t, idx.IndexNote(&n))
	require.NoError(t, s.DeleteNote(ctx, n.ID))

	results, err := idx.Search("ephemeral", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReindex(t *testing.T) {
	s, idx := setup(t)
	ctx := context.Background()

	_, err := s.CreateNote(ctx, "Alpha", nil, "first body", "")
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, "Beta", nil, "second body", "")
	require.NoError(t, err)

	require.NoError(t, idx.Reindex())

	results, err := idx.Search("body", 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRemoveNote(t *testing.T) {
	s, idx := setup(t)
	if !idx.useFTS {
		// The LIKE fallback reads the live notes table directly, so
		// removal from the index is only observable with FTS.
		t.Skip("FTS5 not available in this build")
	}
	ctx := context.Background()

	n, err := s.CreateNote(ctx, "Temp", nil, "searchable text", "")
	require.NoError(t, err)
	require.NoError(t, idx.IndexNote(&n))
	require.NoError(t, idx.RemoveNote(n.ID))

	results, err := idx.Search("searchable", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
