package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/irisnotes/iris-notes/pkg/models"
)

// chain is the A -> B -> C fixture used across the move validation tests.
func chain() []models.Category {
	return []models.Category{
		cat("A", "A", nil, 0),
		cat("B", "B", strptr("A"), 0),
		cat("C", "C", strptr("B"), 0),
	}
}

func TestDepth(t *testing.T) {
	cats := chain()
	assert.Equal(t, 1, Depth(cats, "A"))
	assert.Equal(t, 2, Depth(cats, "B"))
	assert.Equal(t, 3, Depth(cats, "C"))
	assert.Equal(t, 0, Depth(cats, "missing"))
}

func TestDepthDanglingParentCountsAsRoot(t *testing.T) {
	cats := []models.Category{cat("x", "X", strptr("gone"), 0)}
	assert.Equal(t, 1, Depth(cats, "x"))
}

func TestHeight(t *testing.T) {
	cats := chain()
	assert.Equal(t, 3, Height(cats, "A"))
	assert.Equal(t, 2, Height(cats, "B"))
	assert.Equal(t, 1, Height(cats, "C"))
	assert.Equal(t, 0, Height(cats, "missing"))
}

func TestIsDescendant(t *testing.T) {
	cats := chain()
	assert.True(t, IsDescendant(cats, "A", "C"))
	assert.True(t, IsDescendant(cats, "B", "C"))
	assert.False(t, IsDescendant(cats, "C", "A"))
	assert.False(t, IsDescendant(cats, "A", "A"), "a node is not its own descendant")
}

func TestValidateMoveCycle(t *testing.T) {
	cats := chain()

	err := ValidateMove(cats, nil, "A", models.KindCategory, strptr("C"))
	assert.ErrorIs(t, err, ErrCycleDetected)

	err = ValidateMove(cats, nil, "A", models.KindCategory, strptr("A"))
	assert.ErrorIs(t, err, ErrCycleDetected)

	// Single node under itself.
	solo := []models.Category{cat("only", "Only", nil, 0)}
	err = ValidateMove(solo, nil, "only", models.KindCategory, strptr("only"))
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestValidateMoveMaxDepth(t *testing.T) {
	cats := append(chain(), cat("D", "D", nil, 0))

	// C sits at depth 3; anything below it would be depth 4.
	err := ValidateMove(cats, nil, "D", models.KindCategory, strptr("C"))
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)

	// Under B the subtree bottoms out at depth 3, which is allowed.
	assert.NoError(t, ValidateMove(cats, nil, "D", models.KindCategory, strptr("B")))

	// Moving B (height 2) under C would push C's subtree past the limit.
	err = ValidateMove(cats, nil, "B", models.KindCategory, strptr("C"))
	assert.ErrorIs(t, err, ErrCycleDetected, "descendant check fires before depth")

	// A two-level subtree under a depth-2 parent exceeds the limit.
	two := []models.Category{
		cat("p", "P", nil, 0),
		cat("q", "Q", strptr("p"), 0),
		cat("r", "R", nil, 0),
		cat("s", "S", strptr("r"), 0),
	}
	err = ValidateMove(two, nil, "r", models.KindCategory, strptr("q"))
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestValidateMoveToRoot(t *testing.T) {
	cats := chain()
	assert.NoError(t, ValidateMove(cats, nil, "C", models.KindCategory, nil))
	assert.NoError(t, ValidateMove(cats, nil, "A", models.KindCategory, nil))
}

func TestValidateMoveUnderNote(t *testing.T) {
	cats := chain()
	notes := []models.Note{note("n1", "One", strptr("A"), 0)}

	err := ValidateMove(cats, notes, "C", models.KindCategory, strptr("n1"))
	assert.ErrorIs(t, err, ErrInvalidTarget)

	err = ValidateMove(cats, notes, "n1", models.KindNote, strptr("n1"))
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestValidateMoveUnknownTarget(t *testing.T) {
	cats := chain()
	err := ValidateMove(cats, nil, "C", models.KindCategory, strptr("nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateMoveNote(t *testing.T) {
	cats := chain()
	notes := []models.Note{note("n1", "One", nil, 0)}

	// Notes can live anywhere a category exists, including at depth 3.
	assert.NoError(t, ValidateMove(cats, notes, "n1", models.KindNote, strptr("C")))
	assert.NoError(t, ValidateMove(cats, notes, "n1", models.KindNote, nil))
}
