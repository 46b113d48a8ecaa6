package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisnotes/iris-notes/pkg/models"
	"github.com/irisnotes/iris-notes/pkg/tree"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndFetch(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	work, err := s.CreateCategory(ctx, "Work", nil)
	require.NoError(t, err)
	require.NotEmpty(t, work.ID)

	sub, err := s.CreateCategory(ctx, "Projects", &work.ID)
	require.NoError(t, err)
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, work.ID, *sub.ParentID)

	note, err := s.CreateNote(ctx, "Standup", &work.ID, "notes here", "")
	require.NoError(t, err)
	assert.Equal(t, "markdown", note.ContentType, "content type defaults")

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	notes, err := s.Notes(ctx, NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Standup", notes[0].Title)
}

func TestCreateCategoryValidatesParent(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	missing := "no-such-id"
	_, err := s.CreateCategory(ctx, "Orphan", &missing)
	assert.Error(t, err)
}

func TestCreateCategoryAtMaxDepth(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	a, err := s.CreateCategory(ctx, "A", nil)
	require.NoError(t, err)
	b, err := s.CreateCategory(ctx, "B", &a.ID)
	require.NoError(t, err)
	c, err := s.CreateCategory(ctx, "C", &b.ID)
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, "D", &c.ID)
	assert.ErrorIs(t, err, tree.ErrMaxDepthExceeded)
}

func TestUpdateCategory(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, "Work", nil)
	require.NoError(t, err)

	name := "Projects"
	updated, err := s.UpdateCategory(ctx, c.ID, CategoryUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Projects", updated.Name)

	_, err = s.UpdateCategory(ctx, "missing", CategoryUpdate{Name: &name})
	assert.Error(t, err)
}

func TestUpdateNote(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	n, err := s.CreateNote(ctx, "Draft", nil, "", "")
	require.NoError(t, err)

	title := "Final"
	content := "done"
	updated, err := s.UpdateNote(ctx, n.ID, NoteUpdate{Title: &title, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "done", updated.Content)
}

func TestMoveReparents(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	a, err := s.CreateCategory(ctx, "A", nil)
	require.NoError(t, err)
	b, err := s.CreateCategory(ctx, "B", nil)
	require.NoError(t, err)
	n, err := s.CreateNote(ctx, "One", &a.ID, "", "")
	require.NoError(t, err)

	require.NoError(t, s.Move(ctx, n.ID, models.KindNote, &b.ID, nil))

	notes, err := s.Notes(ctx, NoteFilter{CategoryID: &b.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.ID, notes[0].ID)

	require.NoError(t, s.Move(ctx, b.ID, models.KindCategory, &a.ID, nil))
	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	for _, c := range cats {
		if c.ID == b.ID {
			require.NotNil(t, c.ParentID)
			assert.Equal(t, a.ID, *c.ParentID)
		}
	}
}

func TestMovePositionRenumbersSiblings(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"First", "Second", "Third"} {
		n, err := s.CreateNote(ctx, title, nil, "", "")
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	// Move "Third" to the front of the root level.
	pos := 0
	require.NoError(t, s.Move(ctx, ids[2], models.KindNote, nil, &pos))

	notes, err := s.Notes(ctx, NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 3)

	order := make(map[string]int)
	for _, n := range notes {
		order[n.Title] = n.SortOrder
	}
	assert.Less(t, order["Third"], order["First"])
	assert.Less(t, order["First"], order["Second"])
}

func TestMoveUnknownNode(t *testing.T) {
	s := openTestDB(t)
	err := s.Move(context.Background(), "ghost", models.KindNote, nil, nil)
	assert.Error(t, err)
}

func TestSoftDelete(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	n, err := s.CreateNote(ctx, "Gone", nil, "", "")
	require.NoError(t, err)
	require.NoError(t, s.DeleteNote(ctx, n.ID))

	live, err := s.Notes(ctx, NoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, live)

	all, err := s.Notes(ctx, NoteFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all, 1, "soft delete keeps the row")

	// Deleting twice reports the miss.
	assert.Error(t, s.DeleteNote(ctx, n.ID))
}

func TestNotesFilterByCategory(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	a, err := s.CreateCategory(ctx, "A", nil)
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, "In A", &a.ID, "", "")
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, "At root", nil, "", "")
	require.NoError(t, err)

	filtered, err := s.Notes(ctx, NoteFilter{CategoryID: &a.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "In A", filtered[0].Title)
}
