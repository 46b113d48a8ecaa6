// Package service owns the in-memory tree snapshot and mediates every
// mutation between the view layer and the storage adapter.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/irisnotes/iris-notes/pkg/models"
	"github.com/irisnotes/iris-notes/pkg/storage"
	"github.com/irisnotes/iris-notes/pkg/tree"
)

// State is the session's load-cycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// Session holds the authoritative tree snapshot for one view. The snapshot is
// replaced wholesale on every load and never mutated in place, so values
// handed out by Tree remain valid after later loads.
//
// All methods are safe for concurrent use.
type Session struct {
	adapter storage.Adapter
	log     logrus.FieldLogger

	mu         sync.Mutex
	roots      []*models.TreeNode
	categories []models.Category
	notes      []models.Note
	state      State
	errMsg     string

	// Monotonic load sequencing: a completing load applies its result only
	// if nothing newer has applied first. Rapid consecutive loads can finish
	// out of order, and an old response must not regress the snapshot.
	loadSeq    uint64
	appliedSeq uint64

	closed   bool
	inFlight map[string]bool
}

// NewSession creates a session over the given adapter. The logger may not be
// nil; pass a discard-level logger to silence it.
func NewSession(adapter storage.Adapter, log logrus.FieldLogger) *Session {
	return &Session{
		adapter:  adapter,
		log:      log,
		state:    StateIdle,
		inFlight: make(map[string]bool),
	}
}

// Tree returns the current snapshot. Callers must treat it as read-only.
func (s *Session) Tree() []*models.TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roots
}

// Categories returns the flat category records backing the snapshot.
func (s *Session) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories
}

// State returns the current load-cycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last failure message, or "" after a successful load.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Close marks the session dead. In-flight loads that resolve afterwards are
// dropped rather than applied.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Load fetches the flat collections, rebuilds the tree, and swaps the
// snapshot. On failure the previous snapshot is kept (stale-but-available
// beats empty) and the adapter's message is recorded verbatim.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loadSeq++
	seq := s.loadSeq
	s.state = StateLoading
	s.mu.Unlock()

	cats, notes, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq <= s.appliedSeq {
		// Unmounted, or a newer load already landed. Either way this
		// result is dead: do not let it touch the snapshot.
		return nil
	}
	s.appliedSeq = seq

	if err != nil {
		s.state = StateFailed
		s.errMsg = err.Error()
		s.log.WithError(err).Warn("tree load failed")
		return &StorageError{Message: err.Error()}
	}

	s.categories = cats
	s.notes = notes
	s.roots = tree.Build(cats, notes)
	s.state = StateLoaded
	s.errMsg = ""
	return nil
}

func (s *Session) fetch(ctx context.Context) ([]models.Category, []models.Note, error) {
	cats, err := s.adapter.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.adapter.Notes(ctx, storage.NoteFilter{})
	if err != nil {
		return nil, nil, err
	}
	return cats, notes, nil
}

// Rename updates a node's display name. The kind is taken from the tagged
// node in the snapshot, never guessed from the id's shape. Success triggers a
// full reload; local validation failures make no adapter call at all.
func (s *Session) Rename(ctx context.Context, nodeID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrInvalidInput
	}

	kind, release, err := s.acquire(nodeID)
	if err != nil {
		return err
	}
	defer release()

	switch kind {
	case models.KindCategory:
		_, err = s.adapter.UpdateCategory(ctx, nodeID, storage.CategoryUpdate{Name: &newName})
	default:
		_, err = s.adapter.UpdateNote(ctx, nodeID, storage.NoteUpdate{Title: &newName})
	}
	if err != nil {
		s.recordFailure(err)
		return &StorageError{Message: err.Error()}
	}

	return s.Load(ctx)
}

// Move re-parents a node. newParentID nil means the root level; position, if
// non-nil, passes through to the adapter verbatim. Cycle and depth rules are
// checked against the snapshot before the adapter is touched: a category may
// not move under itself or a descendant, and the moved subtree must stay
// within tree.MaxDepth. Notes may only move under a category or the root.
func (s *Session) Move(ctx context.Context, nodeID string, newParentID *string, position *int) error {
	kind, release, err := s.acquire(nodeID)
	if err != nil {
		return err
	}
	defer release()

	s.mu.Lock()
	cats, notes := s.categories, s.notes
	s.mu.Unlock()

	if err := tree.ValidateMove(cats, notes, nodeID, kind, newParentID); err != nil {
		return err
	}

	if err := s.adapter.Move(ctx, nodeID, kind, newParentID, position); err != nil {
		s.recordFailure(err)
		return &StorageError{Message: err.Error()}
	}

	return s.Load(ctx)
}

// acquire resolves the node's kind from the snapshot and claims the per-node
// mutation slot. A second mutation on the same node while the first is still
// in flight fails fast with ErrBusy; callers retry once the first resolves.
func (s *Session) acquire(nodeID string) (models.NodeKind, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", nil, ErrClosed
	}
	node := tree.Find(s.roots, nodeID)
	if node == nil {
		return "", nil, fmt.Errorf("node %q: %w", nodeID, tree.ErrNotFound)
	}
	if s.inFlight[nodeID] {
		return "", nil, ErrBusy
	}
	s.inFlight[nodeID] = true

	release := func() {
		s.mu.Lock()
		delete(s.inFlight, nodeID)
		s.mu.Unlock()
	}
	return node.Kind, release, nil
}

// recordFailure marks the session failed after a mutation is rejected by
// storage. The snapshot itself is kept; a later successful Load clears both
// the state and the message.
func (s *Session) recordFailure(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.errMsg = err.Error()
	s.mu.Unlock()
	s.log.WithError(err).Warn("storage mutation failed")
}
