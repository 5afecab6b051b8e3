// Package outline defines the hierarchical key-point tree produced by document
// analysis and consumed by the mind-map layout.
//
// A tree is rooted at exactly one node (the document or page itself), is acyclic,
// and every id is unique across the whole tree. Ids are assigned once when an
// outline arrives and never regenerated afterwards, since expand/collapse state
// is keyed by them.
package outline

import (
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
)

// MaxDepth bounds how deeply an outline may nest.
const MaxDepth = 64

// Node is one labeled point in an outline. Leaves have no children.
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasChildren reports whether n has at least one child.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// IsEmpty reports whether the outline rooted at n has nothing to show.
func (n Node) IsEmpty() bool { return !n.HasChildren() }

// Walk visits every node in pre-order. parent is nil for the root.
// Returning false from fn skips the node's children.
func Walk(root Node, fn func(n Node, depth int, parent *Node) bool) {
	walk(root, 0, nil, fn)
}

func walk(n Node, depth int, parent *Node, fn func(Node, int, *Node) bool) {
	if !fn(n, depth, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, &n, fn)
	}
}

// IDs returns every id in the tree in pre-order.
func IDs(root Node) []string {
	var ids []string
	Walk(root, func(n Node, _ int, _ *Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Count returns the total number of nodes in the tree.
func Count(root Node) int {
	total := 0
	Walk(root, func(Node, int, *Node) bool {
		total++
		return true
	})
	return total
}

// Find returns the node with the given id.
func Find(root Node, id string) (Node, bool) {
	var found Node
	ok := false
	Walk(root, func(n Node, _ int, _ *Node) bool {
		if ok {
			return false
		}
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Validate checks the structural invariants of an outline: non-empty and
// unique ids, and bounded nesting.
func Validate(root Node) error {
	seen := make(map[string][]int)
	var err error
	var check func(n Node, path []int)
	check = func(n Node, path []int) {
		if err != nil {
			return
		}
		if len(path) > MaxDepth {
			err = errs.New(errs.ErrCodeInvalidOutline, "outline nests deeper than %d levels at %q", MaxDepth, n.ID)
			return
		}
		if n.ID == "" {
			err = errs.New(errs.ErrCodeInvalidOutline, "node %q at %s has an empty id", n.Label, pathString(path))
			return
		}
		if prev, dup := seen[n.ID]; dup {
			err = errs.New(errs.ErrCodeInvalidOutline, "duplicate id %q at %s (first seen at %s)", n.ID, pathString(path), pathString(prev))
			return
		}
		seen[n.ID] = path
		for i, c := range n.Children {
			check(c, append(append([]int(nil), path...), i))
		}
	}
	check(root, nil)
	return err
}
