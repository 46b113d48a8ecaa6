package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, err := New(&Config{DataDir: t.TempDir()}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestCreateAndLoad(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Work", nil)
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, "Standup", &cat.ID, "agenda", "")
	require.NoError(t, err)

	roots := svc.Session.Tree()
	require.Len(t, roots, 1)
	assert.Equal(t, "Work", roots[0].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Standup", roots[0].Children[0].Name)
}

func TestDeleteNoteDisappearsFromTree(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, "Temp", nil, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNote(ctx, n.ID))
	assert.Empty(t, svc.Session.Tree())
}

func TestCategoryPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateCategory(ctx, "Work", nil)
	require.NoError(t, err)
	b, err := svc.CreateCategory(ctx, "Projects", &a.ID)
	require.NoError(t, err)

	path, err := svc.CategoryPath(ctx, &b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work/Projects", path)

	path, err = svc.CategoryPath(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestResolveCategoryPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.ResolveCategoryPath(ctx, "Work/Projects")
	require.NoError(t, err)
	require.NotNil(t, id)

	// Resolving again reuses the same categories.
	again, err := svc.ResolveCategoryPath(ctx, "Work/Projects")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, *id, *again)

	cats, err := svc.Store.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	// Round trip through the printable path.
	path, err := svc.CategoryPath(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Work/Projects", path)

	root, err := svc.ResolveCategoryPath(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestSearchThroughService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, "Grocery list", nil, "apples and oranges", "")
	require.NoError(t, err)

	results, err := svc.Search("oranges", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Grocery list", results[0].Title)
}
