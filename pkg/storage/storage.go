// Package storage is the persistence boundary for category and note records.
package storage

import (
	"context"

	"github.com/irisnotes/iris-notes/pkg/models"
)

// NoteFilter narrows Notes queries. The zero value matches every live note.
type NoteFilter struct {
	CategoryID     *string // non-nil: only notes directly under this category
	IncludeDeleted bool
}

// CategoryUpdate carries partial category fields; nil means leave unchanged.
type CategoryUpdate struct {
	Name      *string
	SortOrder *int
}

// NoteUpdate carries partial note fields; nil means leave unchanged.
type NoteUpdate struct {
	Title       *string
	Content     *string
	ContentType *string
	SortOrder   *int
}

// Adapter is the contract the tree session and CLI consume. Implementations
// report expected failures through the returned error; callers surface the
// message as-is.
type Adapter interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Notes(ctx context.Context, filter NoteFilter) ([]models.Note, error)

	CreateCategory(ctx context.Context, name string, parentID *string) (models.Category, error)
	CreateNote(ctx context.Context, title string, categoryID *string, content, contentType string) (models.Note, error)

	UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (models.Category, error)
	UpdateNote(ctx context.Context, id string, upd NoteUpdate) (models.Note, error)

	// Move re-parents a node. position, when non-nil, is the sibling
	// insertion index; nil appends after the existing siblings.
	Move(ctx context.Context, id string, kind models.NodeKind, newParentID *string, position *int) error

	DeleteCategory(ctx context.Context, id string) error
	DeleteNote(ctx context.Context, id string) error
}
