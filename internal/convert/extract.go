package convert

import (
	"context"
	"strings"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// Headings extracts an outline without a language model: a PDF's table of
// contents, a markdown document's headings, or failing those one point per
// page or paragraph.
type Headings struct {
	// MaxDepth drops entries nested deeper than this (default 10).
	MaxDepth int
	// ToCPages is how many leading pages are scanned for a table of contents (default 16).
	ToCPages int
	// MaxPoints caps the fallback page/paragraph points (default 20).
	MaxPoints int
}

var _ ai.Extractor = Headings{}

func (h Headings) ExtractOutline(ctx context.Context, doc ai.Document) (outline.Node, error) {
	logger := logging.FromContext(ctx)

	var root outline.Node
	switch doc.Kind {
	case ai.KindPDF:
		pages, err := h.pages(doc)
		if err != nil {
			return outline.Node{}, err
		}
		root = h.fromPages(docTitle(doc, pages), pages)
		logger.Debug("outline from pdf", "pages", len(pages), "points", outline.Count(root)-1)
	default:
		root = h.fromMarkdown(doc)
		logger.Debug("outline from text", "points", outline.Count(root)-1)
	}

	root = outline.AssignIDs(root)
	if err := outline.Validate(root); err != nil {
		return outline.Node{}, err
	}
	return root, nil
}

func (h Headings) pages(doc ai.Document) ([]string, error) {
	if len(doc.Data) > 0 {
		return ReadPDF(doc.Data)
	}
	// Text extracted elsewhere separates pages with form feeds.
	return strings.Split(doc.Text, "\f"), nil
}

func (h Headings) fromPages(title string, pages []string) outline.Node {
	tocPages := h.ToCPages
	if tocPages <= 0 {
		tocPages = 16
	}
	if lines := findToC(pages, tocPages); len(lines) > 0 {
		if entries := parseToCLines(lines); len(entries) > 0 {
			return buildHierarchy(title, tocEntries(entries), h.MaxDepth)
		}
	}

	// No ToC: one point per non-empty page, labeled by its first line, with
	// the next few lines as sub-points.
	var entries []entry
	points := 0
	for i, p := range pages {
		lines := nonEmptyLines(p)
		if len(lines) == 0 {
			continue
		}
		if points >= h.maxPoints() {
			break
		}
		points++
		entries = append(entries, entry{ID: slugify(pageLabel(i + 1)), Label: pageLabel(i+1) + ": " + truncate(lines[0], 80), Depth: 1})
		for _, ln := range lines[1:min(len(lines), 4)] {
			entries = append(entries, entry{Label: truncate(ln, 120), Depth: 2})
		}
	}
	return buildHierarchy(title, entries, h.MaxDepth)
}

func (h Headings) fromMarkdown(doc ai.Document) outline.Node {
	title, entries := markdownEntries([]byte(doc.Text))
	if title == "" {
		title = docTitle(doc, nil)
	}
	if len(entries) == 0 {
		for _, p := range paragraphs(doc.Text) {
			if len(entries) >= h.maxPoints() {
				break
			}
			entries = append(entries, entry{Label: truncate(firstSentence(p), 120), Depth: 1})
		}
	}
	return buildHierarchy(title, entries, h.MaxDepth)
}

func (h Headings) maxPoints() int {
	if h.MaxPoints <= 0 {
		return 20
	}
	return h.MaxPoints
}

func docTitle(doc ai.Document, pages []string) string {
	if doc.Name != "" {
		return doc.Name
	}
	for _, p := range pages {
		if lines := nonEmptyLines(p); len(lines) > 0 {
			return truncate(lines[0], 80)
		}
	}
	if doc.Kind == ai.KindWebpage {
		return "Webpage"
	}
	return "Document"
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
