// Package render draws a laid-out mind map as Graphviz DOT and SVG. Node
// positions come from the mindmap layout and are pinned, so Graphviz only
// routes edges and draws.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/thywilljoshua/pdf-mindmap/internal/mindmap"
)

// EmptyLabel is drawn in place of a mind map with nothing to show.
const EmptyLabel = "No Mind Map Yet"

type Options struct {
	// Title is drawn above the graph when non-empty.
	Title string
}

// ToDOT converts a layout graph to DOT. Y grows downward in the layout and
// upward in Graphviz, so it is negated.
func ToDOT(g mindmap.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mindmap {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=curved;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, width=%.2f, fixedsize=true];\n",
		float64(mindmap.NodeWidth)/72)
	buf.WriteString("\n")

	if len(g.Nodes) == 0 {
		fmt.Fprintf(&buf, "  \"empty\" [label=%q, shape=plaintext, pos=\"0,0!\"];\n", EmptyLabel)
	}
	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}
	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [id=%q];\n", e.Source, e.Target, e.ID)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n mindmap.PositionedNode) []string {
	label := n.Label
	if n.HasChildren && !n.Expanded {
		label += " +"
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		// 0 - y keeps the root at "0,0" rather than "0,-0".
		fmt.Sprintf("pos=\"%g,%g!\"", n.Position.X, 0-n.Position.Y),
	}
	switch {
	case n.Depth == 0:
		attrs = append(attrs, "fillcolor=\"#dbeafe\"", "penwidth=2")
	case n.HasChildren && !n.Expanded:
		attrs = append(attrs, "fillcolor=\"#f3f4f6\"", "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// SVG renders DOT to SVG.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Graph renders an already laid-out graph to SVG.
func Graph(ctx context.Context, g mindmap.Graph, opts Options) ([]byte, error) {
	return SVG(ctx, ToDOT(g, opts))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox drops Graphviz's pt-based width/height so the SVG scales
// to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
