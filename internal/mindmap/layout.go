// Package mindmap turns an outline into a positioned node/edge graph and owns
// the expand/collapse state that drives it.
//
// # Layout
//
// [Layout] walks the outline depth-first in pre-order. Columns are a fixed
// function of depth; rows come from one counter shared across the whole walk
// and bumped once before each visited child. Collapsed subtrees are pruned,
// so they consume no rows, and parents are not centered over their children.
//
//	g := mindmap.Layout(root, mindmap.FullyExpanded(root))
//	for _, n := range g.Nodes {
//	    fmt.Println(n.ID, n.Position.X, n.Position.Y)
//	}
//
// # Interaction
//
// A [Controller] holds the current outline and its [Expansion]. Activating a
// node with children toggles it; every activation is forwarded to the click
// handler regardless.
package mindmap

import (
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// Layout constants. A column is NodeWidth+HorizontalGap wide.
const (
	NodeWidth       = 200
	HorizontalGap   = 100
	ColumnWidth     = NodeWidth + HorizontalGap
	VerticalSpacing = 120
)

// Handle sides for left-to-right renderers.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// CursorPointer marks nodes that react to activation.
const CursorPointer = "pointer"

// Position is a 2D render coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style carries rendering hints.
type Style struct {
	Cursor string  `json:"cursor,omitempty"`
	Width  float64 `json:"width"`
}

// PositionedNode is an outline node annotated with its place on the canvas.
type PositionedNode struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	HasChildren    bool     `json:"hasChildren"`
	Expanded       bool     `json:"expanded"`
	Depth          int      `json:"depth"`
	Position       Position `json:"position"`
	Style          Style    `json:"style"`
	SourcePosition string   `json:"sourcePosition"`
	TargetPosition string   `json:"targetPosition"`
}

// Edge is a directed parent-to-child link between two emitted nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID returns the identifier of the edge from parent to child.
func EdgeID(parent, child string) string { return parent + "-" + child }

// Graph is the output of a layout pass.
type Graph struct {
	Nodes []PositionedNode `json:"nodes"`
	Edges []Edge           `json:"edges"`
}

// Layout positions every node reachable from root through expanded nodes.
// It is a pure function of its inputs.
func Layout(root outline.Node, expanded Expansion) Graph {
	l := layouter{expanded: expanded}
	l.visit(root, 0, nil)
	return Graph{Nodes: l.nodes, Edges: l.edges}
}

type layouter struct {
	expanded Expansion
	row      int
	nodes    []PositionedNode
	edges    []Edge
}

func (l *layouter) visit(n outline.Node, depth int, parent *outline.Node) {
	hasChildren := n.HasChildren()
	isExpanded := l.expanded.Has(n.ID)

	pn := PositionedNode{
		ID:          n.ID,
		Label:       n.Label,
		HasChildren: hasChildren,
		Expanded:    hasChildren && isExpanded,
		Depth:       depth,
		Position: Position{
			X: float64(depth * ColumnWidth),
			Y: float64(l.row * VerticalSpacing),
		},
		Style:          Style{Width: NodeWidth},
		SourcePosition: SideRight,
		TargetPosition: SideLeft,
	}
	if hasChildren {
		pn.Style.Cursor = CursorPointer
	}
	l.nodes = append(l.nodes, pn)

	if parent != nil {
		l.edges = append(l.edges, Edge{ID: EdgeID(parent.ID, n.ID), Source: parent.ID, Target: n.ID})
	}

	if !isExpanded {
		return
	}
	for _, c := range n.Children {
		l.row++
		l.visit(c, depth+1, &n)
	}
}
