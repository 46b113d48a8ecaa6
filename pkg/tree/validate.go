package tree

import (
	"errors"
	"fmt"

	"github.com/irisnotes/iris-notes/pkg/models"
)

// Structural move validation errors. These are resolved locally, before any
// storage call is attempted.
var (
	ErrNotFound         = errors.New("node not found")
	ErrInvalidTarget    = errors.New("notes cannot contain children")
	ErrCycleDetected    = errors.New("category cannot be moved under its own descendant")
	ErrMaxDepthExceeded = fmt.Errorf("category nesting deeper than %d levels", MaxDepth)
)

// Depth returns the nesting depth of a category: root categories are depth 1.
// A dangling parent pointer counts as root, matching Build's fail-open policy.
// Returns 0 if the id is unknown.
func Depth(categories []models.Category, id string) int {
	byID := categoryIndex(categories)
	if _, ok := byID[id]; !ok {
		return 0
	}
	depth := 0
	cur := &id
	// Bounded walk so corrupt stored data with a cycle cannot hang us.
	for i := 0; cur != nil && i <= len(categories); i++ {
		c, ok := byID[*cur]
		if !ok {
			break
		}
		depth++
		cur = c.ParentID
	}
	return depth
}

// Height returns the height of a category's subtree counted in category
// levels: a category with no sub-categories has height 1. Notes never add
// levels. Returns 0 if the id is unknown.
func Height(categories []models.Category, id string) int {
	byID := categoryIndex(categories)
	if _, ok := byID[id]; !ok {
		return 0
	}
	children := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	var height func(id string, hops int) int
	height = func(id string, hops int) int {
		if hops > len(categories) {
			return 0
		}
		max := 0
		for _, child := range children[id] {
			if h := height(child, hops+1); h > max {
				max = h
			}
		}
		return max + 1
	}
	return height(id, 0)
}

// IsDescendant reports whether id lies strictly below ancestorID in the
// category forest.
func IsDescendant(categories []models.Category, ancestorID, id string) bool {
	byID := categoryIndex(categories)
	c, ok := byID[id]
	if !ok {
		return false
	}
	cur := c.ParentID
	for i := 0; cur != nil && i <= len(categories); i++ {
		if *cur == ancestorID {
			return true
		}
		next, ok := byID[*cur]
		if !ok {
			return false
		}
		cur = next.ParentID
	}
	return false
}

// ValidateMove checks a proposed re-parenting against the flat collections
// without performing it. newParentID nil means the root level.
//
// The target must be an existing category: nesting under a note fails with
// ErrInvalidTarget, an id matching nothing fails with ErrNotFound. Category
// moves additionally get the cycle check (a category may not become a child
// of itself or of any of its descendants) and the depth check (the moved
// subtree's deepest level must stay within MaxDepth).
func ValidateMove(categories []models.Category, notes []models.Note, id string, kind models.NodeKind, newParentID *string) error {
	if newParentID != nil {
		target := *newParentID
		for _, n := range notes {
			if n.ID == target {
				return ErrInvalidTarget
			}
		}
		if _, ok := categoryIndex(categories)[target]; !ok {
			return fmt.Errorf("target %q: %w", target, ErrNotFound)
		}
	}

	if kind != models.KindCategory {
		return nil
	}

	if newParentID != nil {
		if *newParentID == id {
			return ErrCycleDetected
		}
		if IsDescendant(categories, id, *newParentID) {
			return ErrCycleDetected
		}
	}

	parentDepth := 0
	if newParentID != nil {
		parentDepth = Depth(categories, *newParentID)
	}
	if parentDepth+Height(categories, id) > MaxDepth {
		return ErrMaxDepthExceeded
	}
	return nil
}

func categoryIndex(categories []models.Category) map[string]*models.Category {
	byID := make(map[string]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	return byID
}
