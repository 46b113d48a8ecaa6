// Package tree builds the nested rendering tree from flat category and note
// collections and validates structural mutations against it.
package tree

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/irisnotes/iris-notes/pkg/models"
)

// MaxDepth is the deepest category nesting allowed. Root categories are
// depth 1.
const MaxDepth = 3

// rootKey groups records whose parent pointer is nil (or dangling).
const rootKey = ""

// newCollator returns the case-insensitive collator behind the canonical
// sibling ordering. Collators are stateful (CompareString scribbles on
// internal iterator buffers), so each Build call gets its own instead of
// sharing one across goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// Build converts flat category and note collections into an ordered forest of
// TreeNodes. Root categories and root notes are siblings at the top level.
//
// Each parent's children are its sub-categories followed by its notes, each
// run ordered by sort_order ascending with a case-insensitive name tiebreak
// (final tie on id, so the result is fully deterministic).
//
// Records whose parent id does not match any category attach at the root
// rather than being dropped; losing user data to a dangling pointer is worse
// than showing it in the wrong place.
//
// Build is pure: no I/O, inputs are not mutated, and identical inputs always
// produce an identical (by value) result.
func Build(categories []models.Category, notes []models.Note) []*models.TreeNode {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	childCats := make(map[string][]models.Category)
	for _, c := range categories {
		key := parentKey(c.ParentID, known)
		childCats[key] = append(childCats[key], c)
	}
	childNotes := make(map[string][]models.Note)
	for _, n := range notes {
		key := parentKey(n.CategoryID, known)
		childNotes[key] = append(childNotes[key], n)
	}

	col := newCollator()

	var buildLevel func(key string) []*models.TreeNode
	buildLevel = func(key string) []*models.TreeNode {
		cats := append([]models.Category(nil), childCats[key]...)
		sort.SliceStable(cats, func(i, j int) bool {
			return less(col, cats[i].SortOrder, cats[i].Name, cats[i].ID,
				cats[j].SortOrder, cats[j].Name, cats[j].ID)
		})
		nts := append([]models.Note(nil), childNotes[key]...)
		sort.SliceStable(nts, func(i, j int) bool {
			return less(col, nts[i].SortOrder, nts[i].Title, nts[i].ID,
				nts[j].SortOrder, nts[j].Title, nts[j].ID)
		})

		var out []*models.TreeNode
		for _, c := range cats {
			out = append(out, &models.TreeNode{
				ID:       c.ID,
				Name:     c.Name,
				Kind:     models.KindCategory,
				Children: buildLevel(c.ID),
			})
		}
		for _, n := range nts {
			out = append(out, &models.TreeNode{
				ID:   n.ID,
				Name: n.Title,
				Kind: models.KindNote,
			})
		}
		return out
	}

	return buildLevel(rootKey)
}

func parentKey(parentID *string, known map[string]bool) string {
	if parentID == nil || !known[*parentID] {
		return rootKey
	}
	return *parentID
}

// less is the canonical sibling ordering: sort_order ascending, then name
// case-insensitive ascending, then id.
func less(col *collate.Collator, orderA int, nameA, idA string, orderB int, nameB, idB string) bool {
	if orderA != orderB {
		return orderA < orderB
	}
	if cmp := col.CompareString(nameA, nameB); cmp != 0 {
		return cmp < 0
	}
	return idA < idB
}

// Relation is one node's position in the flat parent-pointer form.
type Relation struct {
	ID       string
	Kind     models.NodeKind
	ParentID *string
}

// Flatten is the inverse of Build for structure: it walks the forest and
// reports every node's parent relationship. Round-tripping well-formed
// collections through Build then Flatten reproduces the original parent
// pointers exactly.
func Flatten(nodes []*models.TreeNode) []Relation {
	var out []Relation
	var walk func(parent *string, nodes []*models.TreeNode)
	walk = func(parent *string, nodes []*models.TreeNode) {
		for _, n := range nodes {
			out = append(out, Relation{ID: n.ID, Kind: n.Kind, ParentID: parent})
			if len(n.Children) > 0 {
				id := n.ID
				walk(&id, n.Children)
			}
		}
	}
	walk(nil, nodes)
	return out
}

// Find returns the node with the given id, searching the forest depth-first.
func Find(nodes []*models.TreeNode, id string) *models.TreeNode {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}
