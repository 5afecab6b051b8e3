// Package convert resolves an uploaded file, a PDF path or a URL into a
// document and runs it through an extractor to produce an outline.
package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/cache"
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

func Run(ctx context.Context, src Source, cfg Config) (Result, error) {
	if cfg.Extractor == nil {
		cfg.Extractor = Headings{}
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	logger := logging.FromContext(ctx)

	doc, err := resolve(ctx, src, cfg)
	if err != nil {
		return Result{}, err
	}

	key := cache.OutlineKey(cfg.CacheScope, string(doc.Kind), docBytes(doc))
	if data, hit, err := cfg.Cache.Get(ctx, key); err != nil {
		logger.Warn("outline cache read failed", "err", err)
	} else if hit {
		var root outline.Node
		if err := json.Unmarshal(data, &root); err == nil && outline.Validate(root) == nil {
			logger.Debug("outline cache hit", "doc", doc.Name)
			return Result{Outline: root, Source: doc.Name, Kind: doc.Kind, Nodes: outline.Count(root), Cached: true}, nil
		}
		logger.Warn("discarding unreadable cached outline", "key", key)
	}

	p := logging.NewProgress(logger)
	extractCtx, answer := ai.WithAnswer(ctx)
	root, err := cfg.Extractor.ExtractOutline(extractCtx, doc)
	if err != nil {
		if errs.GetCode(err) == "" {
			return Result{}, errs.Wrap(errs.ErrCodeExtraction, err, "extraction failed for %s", doc.Name)
		}
		return Result{}, err
	}
	root = outline.AssignIDs(root)
	if err := outline.Validate(root); err != nil {
		return Result{}, err
	}
	p.Done("extracted outline", "doc", doc.Name, "kind", doc.Kind, "nodes", outline.Count(root))

	// Empty and fallback outlines are not cached, so the next request gets
	// another chance at the primary extractor.
	switch {
	case answer.FellBack:
		logger.Debug("not caching fallback outline", "doc", doc.Name)
	case !root.IsEmpty():
		if data, err := json.Marshal(root); err == nil {
			if err := cfg.Cache.Set(ctx, key, data, cfg.CacheTTL); err != nil {
				logger.Warn("outline cache write failed", "err", err)
			}
		}
	}
	return Result{Outline: root, Source: doc.Name, Kind: doc.Kind, Nodes: outline.Count(root), FellBack: answer.FellBack}, nil
}

func resolve(ctx context.Context, src Source, cfg Config) (ai.Document, error) {
	switch {
	case src.URL != "":
		if cfg.Scraper == nil {
			return ai.Document{}, errs.New(errs.ErrCodeInvalidConfig, "webpage extraction needs a Firecrawl API key")
		}
		md, err := cfg.Scraper.Scrape(ctx, src.URL)
		if err != nil {
			return ai.Document{}, err
		}
		if strings.TrimSpace(md) == "" {
			return ai.Document{}, errs.New(errs.ErrCodeInvalidInput, "%s has no readable content", src.URL)
		}
		return ai.Document{Kind: ai.KindWebpage, Name: src.URL, Text: md}, nil
	case len(src.Files) > 0 && src.Files[0].Data != "":
		return fileDocument(src.Files[0])
	case src.Path != "":
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return ai.Document{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", src.Path)
		}
		return bytesDocument(filepath.Base(src.Path), mime.TypeByExtension(filepath.Ext(src.Path)), data)
	}
	return ai.Document{}, errs.New(errs.ErrCodeInvalidInput, "No content provided")
}

func fileDocument(f File) (ai.Document, error) {
	if !strings.HasPrefix(f.Data, "data:") {
		return ai.Document{Kind: ai.KindText, Name: f.Name, Text: f.Data}, nil
	}
	mt, data, err := decodeDataURL(f.Data)
	if err != nil {
		return ai.Document{}, err
	}
	if f.Type != "" {
		mt = f.Type
	}
	return bytesDocument(f.Name, mt, data)
}

func bytesDocument(name, mt string, data []byte) (ai.Document, error) {
	if strings.HasPrefix(mt, "application/pdf") || bytes.HasPrefix(data, []byte("%PDF")) {
		doc := ai.Document{Kind: ai.KindPDF, Name: name, Data: data, MIMEType: "application/pdf"}
		// Best effort: the text lets non-multimodal extractors work too.
		if pages, err := ReadPDF(data); err == nil {
			doc.Text = strings.Join(pages, "\f")
		}
		return doc, nil
	}
	return ai.Document{Kind: ai.KindText, Name: name, Text: string(data), MIMEType: mt}, nil
}

// decodeDataURL parses "data:[<mediatype>][;base64],<data>".
func decodeDataURL(s string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, errs.New(errs.ErrCodeInvalidInput, "malformed data URL")
	}
	mt, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return mt, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed base64 in data URL")
	}
	return mt, data, nil
}

func docBytes(doc ai.Document) []byte {
	if len(doc.Data) > 0 {
		return doc.Data
	}
	return []byte(doc.Text)
}

// Describe is a one-line summary of a result for logs and CLI output.
func Describe(r Result) string {
	cached := ""
	if r.Cached {
		cached = " (cached)"
	}
	return fmt.Sprintf("%s %s: %d points%s", r.Kind, r.Source, r.Nodes-1, cached)
}
