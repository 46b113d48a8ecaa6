package models

import "time"

// NodeKind distinguishes the two entity kinds that share the tree's id
// namespace.
type NodeKind string

const (
	KindCategory NodeKind = "category"
	KindNote     NodeKind = "note"
)

// Category is a container node in the notes hierarchy. Categories form a
// forest: ParentID points at another category, nil means root level.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a leaf content record. Notes never contain children; CategoryID is
// the direct parent pointer, nil means root level.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CategoryID  *string   `json:"category_id"`
	SortOrder   int       `json:"sort_order"`
	Content     string    `json:"content,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TreeNode is the derived, transient nested representation of the hierarchy
// used for rendering. It is rebuilt wholesale from the flat Category/Note
// collections on every load and never mutated in place.
//
// Children is nil for leaves; consumers branch on presence, not emptiness.
type TreeNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     NodeKind    `json:"kind"`
	Children []*TreeNode `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}
