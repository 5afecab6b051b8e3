package ai

import (
	"context"

	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// Kind says where a document's content came from.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindWebpage Kind = "webpage"
	KindText    Kind = "text"
)

// Document is the raw material handed to an Extractor. Data holds the original
// bytes (e.g. the PDF) when available; Text holds extracted or scraped text.
type Document struct {
	Kind     Kind
	Name     string
	Text     string
	Data     []byte
	MIMEType string
}

// Extractor turns a document into a hierarchical outline of key points.
type Extractor interface {
	ExtractOutline(ctx context.Context, doc Document) (outline.Node, error)
}

// Noop returns an outline with a root and nothing under it.
type Noop struct{}

func (Noop) ExtractOutline(ctx context.Context, doc Document) (outline.Node, error) {
	return outline.Node{ID: "root", Label: rootLabel(doc)}, nil
}

// Fallback tries Primary and, if it fails or yields nothing, Secondary.
type Fallback struct {
	Primary   Extractor
	Secondary Extractor
}

func (f Fallback) ExtractOutline(ctx context.Context, doc Document) (outline.Node, error) {
	root, err := f.Primary.ExtractOutline(ctx, doc)
	if err == nil && !root.IsEmpty() {
		return root, nil
	}
	if ctx.Err() != nil {
		return outline.Node{}, ctx.Err()
	}
	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Warn("primary extractor failed, falling back", "doc", doc.Name, "err", err)
	} else {
		logger.Warn("primary extractor returned an empty outline, falling back", "doc", doc.Name)
	}
	if a, ok := ctx.Value(answerKey{}).(*Answer); ok {
		a.FellBack = true
	}
	return f.Secondary.ExtractOutline(ctx, doc)
}

// Answer reports how an outline was produced. Fallback sets FellBack when its
// secondary extractor answered.
type Answer struct {
	FellBack bool
}

type answerKey struct{}

// WithAnswer attaches a fresh Answer to ctx for the extractors below to fill in.
func WithAnswer(ctx context.Context) (context.Context, *Answer) {
	a := &Answer{}
	return context.WithValue(ctx, answerKey{}, a), a
}

func rootLabel(doc Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	switch doc.Kind {
	case KindPDF:
		return "Document"
	case KindWebpage:
		return "Webpage"
	}
	return "Outline"
}
