package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/irisnotes/iris-notes/pkg/migration"
	"github.com/irisnotes/iris-notes/pkg/models"
	"github.com/irisnotes/iris-notes/pkg/search"
	"github.com/irisnotes/iris-notes/pkg/storage"
)

// Service is the core notes service: one open database, its search index,
// and the tree session over it.
type Service struct {
	Store   *storage.SQLite
	Index   *search.Index
	Session *Session
	Config  *Config
	log     *logrus.Logger
}

// Config holds service configuration.
type Config struct {
	DataDir string
	Editor  string
}

// New opens the database under cfg.DataDir, converts any legacy schema, and
// prepares the search index and tree session. The session starts empty; the
// first Load happens on demand.
func New(cfg *Config, log *logrus.Logger) (*Service, error) {
	if log == nil {
		log = logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.WarnLevel)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	store, err := storage.NewSQLite(filepath.Join(cfg.DataDir, "notes.db"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if _, err := migration.NewMigrator(store.DB(), logrus.NewEntry(log)).Run(); err != nil {
		store.Close()
		return nil, fmt.Errorf("legacy migration: %w", err)
	}

	index, err := search.NewIndex(store.DB())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Service{
		Store:   store,
		Index:   index,
		Session: NewSession(store, log),
		Config:  cfg,
		log:     log,
	}, nil
}

// Close releases the session and the database.
func (s *Service) Close() error {
	s.Session.Close()
	return s.Store.Close()
}

// CreateNote persists a new note, indexes it, and reloads the tree.
func (s *Service) CreateNote(ctx context.Context, title string, categoryID *string, content, contentType string) (models.Note, error) {
	note, err := s.Store.CreateNote(ctx, title, categoryID, content, contentType)
	if err != nil {
		return models.Note{}, err
	}
	if err := s.Index.IndexNote(&note); err != nil {
		s.log.WithError(err).Warn("indexing new note failed")
	}
	return note, s.Session.Load(ctx)
}

// CreateCategory persists a new category and reloads the tree.
func (s *Service) CreateCategory(ctx context.Context, name string, parentID *string) (models.Category, error) {
	cat, err := s.Store.CreateCategory(ctx, name, parentID)
	if err != nil {
		return models.Category{}, err
	}
	return cat, s.Session.Load(ctx)
}

// UpdateNoteContent replaces a note's body and reindexes it.
func (s *Service) UpdateNoteContent(ctx context.Context, id, content string) (models.Note, error) {
	note, err := s.Store.UpdateNote(ctx, id, storage.NoteUpdate{Content: &content})
	if err != nil {
		return models.Note{}, err
	}
	if err := s.Index.IndexNote(&note); err != nil {
		s.log.WithError(err).Warn("reindexing note failed")
	}
	return note, nil
}

// DeleteNote soft-deletes a note, drops it from the index, and reloads.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.Store.DeleteNote(ctx, id); err != nil {
		return err
	}
	if err := s.Index.RemoveNote(id); err != nil {
		s.log.WithError(err).Warn("removing note from index failed")
	}
	return s.Session.Load(ctx)
}

// Search runs a full-text query over live notes.
func (s *Service) Search(query string, limit int) ([]search.Result, error) {
	return s.Index.Search(query, limit)
}

// CategoryPath returns the slash-joined names from the root to the category.
// Used by export; an unknown or nil id yields "".
func (s *Service) CategoryPath(ctx context.Context, id *string) (string, error) {
	if id == nil {
		return "", nil
	}
	cats, err := s.Store.Categories(ctx)
	if err != nil {
		return "", err
	}
	byID := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	var parts []string
	cur := id
	for i := 0; cur != nil && i <= len(cats); i++ {
		c, ok := byID[*cur]
		if !ok {
			break
		}
		parts = append([]string{c.Name}, parts...)
		cur = c.ParentID
	}
	return strings.Join(parts, "/"), nil
}

// ResolveCategoryPath walks a slash-separated path of category names from the
// root, creating missing segments. Used by import.
func (s *Service) ResolveCategoryPath(ctx context.Context, path string) (*string, error) {
	if path == "" {
		return nil, nil
	}
	cats, err := s.Store.Categories(ctx)
	if err != nil {
		return nil, err
	}

	var parent *string
	for _, name := range splitPath(path) {
		found := ""
		for _, c := range cats {
			if c.Name == name && equalParent(c.ParentID, parent) {
				found = c.ID
				break
			}
		}
		if found == "" {
			created, err := s.Store.CreateCategory(ctx, name, parent)
			if err != nil {
				return nil, fmt.Errorf("create category %q: %w", name, err)
			}
			cats = append(cats, created)
			found = created.ID
		}
		id := found
		parent = &id
	}
	return parent, nil
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func equalParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
