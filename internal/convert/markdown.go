package convert

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownEntries returns the heading structure of a markdown document, with
// top-level bullet items attached one level below the heading they follow.
//
// A document that opens with a single level-1 heading has that heading
// returned as title and excluded from the entries.
func markdownEntries(src []byte) (title string, entries []entry) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	type heading struct {
		label string
		level int
	}
	var items []heading
	lastLevel := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			if label := inlineText(n, src); label != "" {
				items = append(items, heading{label, n.Level})
				lastLevel = n.Level
			}
		case *ast.List:
			for li := n.FirstChild(); li != nil; li = li.NextSibling() {
				if label := listItemText(li, src); label != "" {
					// 7 sorts below any heading level
					lvl := lastLevel + 1
					if lastLevel == 0 {
						lvl = 7
					}
					items = append(items, heading{label, lvl})
				}
			}
		}
	}
	if len(items) == 0 {
		return "", nil
	}

	h1 := 0
	for _, it := range items {
		if it.level == 1 {
			h1++
		}
	}
	if items[0].level == 1 && h1 == 1 {
		title = items[0].label
		items = items[1:]
	}

	// Normalize so the shallowest level maps to depth 1.
	minLevel := 0
	for _, it := range items {
		if minLevel == 0 || it.level < minLevel {
			minLevel = it.level
		}
	}
	for _, it := range items {
		entries = append(entries, entry{Label: truncate(it.label, 120), Depth: it.level - minLevel + 1})
	}
	return title, entries
}

func listItemText(li ast.Node, src []byte) string {
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			return inlineText(c, src)
		}
	}
	return ""
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
