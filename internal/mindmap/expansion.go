package mindmap

import (
	"slices"

	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// Expansion is the set of node ids whose children are visible.
// The zero value is an empty set ready to use.
type Expansion struct {
	ids map[string]struct{}
}

// NewExpansion returns a set holding the given ids.
func NewExpansion(ids ...string) Expansion {
	e := Expansion{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		e.ids[id] = struct{}{}
	}
	return e
}

// FullyExpanded returns a set holding every id in the tree.
func FullyExpanded(root outline.Node) Expansion {
	return NewExpansion(outline.IDs(root)...)
}

// Has reports whether id is expanded.
func (e Expansion) Has(id string) bool {
	_, ok := e.ids[id]
	return ok
}

// Add marks id as expanded.
func (e *Expansion) Add(id string) {
	if e.ids == nil {
		e.ids = make(map[string]struct{})
	}
	e.ids[id] = struct{}{}
}

// Remove marks id as collapsed.
func (e *Expansion) Remove(id string) {
	delete(e.ids, id)
}

// Toggle flips id and reports whether it is expanded afterwards.
func (e *Expansion) Toggle(id string) bool {
	if e.Has(id) {
		e.Remove(id)
		return false
	}
	e.Add(id)
	return true
}

// Len returns the number of expanded ids.
func (e Expansion) Len() int { return len(e.ids) }

// IDs returns the expanded ids in sorted order.
func (e Expansion) IDs() []string {
	out := make([]string, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (e Expansion) Clone() Expansion {
	return NewExpansion(e.IDs()...)
}

// Equal reports whether both sets hold the same ids.
func (e Expansion) Equal(other Expansion) bool {
	if e.Len() != other.Len() {
		return false
	}
	for id := range e.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
