package convert

import (
	"strings"

	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// entry is one flat, depth-annotated point (a ToC line, a heading, a bullet).
// Depth 1 is a direct child of the root.
type entry struct {
	ID    string
	Label string
	Depth int
}

type treeNode struct {
	entry
	children []*treeNode
}

// buildHierarchy turns a flat, depth-annotated list into a tree under a root
// labeled rootLabel. Entries deeper than maxDepth are dropped; a depth jump
// (1 then 3) attaches to the nearest shallower entry.
func buildHierarchy(rootLabel string, entries []entry, maxDepth int) outline.Node {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	root := &treeNode{entry: entry{ID: "root", Label: rootLabel}}
	// Keep a stack of the last seen node at each open depth.
	stack := []*treeNode{root}
	for _, e := range entries {
		if e.Depth < 1 || e.Depth > maxDepth || strings.TrimSpace(e.Label) == "" {
			continue
		}
		for len(stack) > 1 && stack[len(stack)-1].Depth >= e.Depth {
			stack = stack[:len(stack)-1]
		}
		n := &treeNode{entry: e}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
		stack = append(stack, n)
	}
	return root.toOutline()
}

func (t *treeNode) toOutline() outline.Node {
	n := outline.Node{ID: t.ID, Label: t.Label}
	if len(t.children) > 0 {
		n.Children = make([]outline.Node, len(t.children))
		for i, c := range t.children {
			n.Children[i] = c.toOutline()
		}
	}
	return n
}
