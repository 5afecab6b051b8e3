package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/cache"
	"github.com/thywilljoshua/pdf-mindmap/internal/convert"
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
	"github.com/thywilljoshua/pdf-mindmap/internal/scrape"
)

// extractFlags are shared by every command that may have to extract an
// outline before it can do its job.
type extractFlags struct {
	aiMode   string
	model    string
	maxDepth int
	tocPages int
	noCache  bool
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.aiMode, "ai", "auto", "extractor: auto (Gemini when a key is set)|gemini|off|noop")
	cmd.Flags().StringVar(&f.model, "model", "", "Gemini model (default from config)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 10, "maximum outline depth for offline extraction")
	cmd.Flags().IntVar(&f.tocPages, "toc-pages", 16, "scan up to N early pages for a table of contents")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "skip the Redis outline cache")
}

// pipeline assembles the extraction config. The returned close func releases
// the cache connection.
func (a *app) pipeline(ctx context.Context, f extractFlags) (convert.Config, func(), error) {
	logger := logging.FromContext(ctx)
	headings := convert.Headings{MaxDepth: f.maxDepth, ToCPages: f.tocPages}
	conf := convert.Config{Extractor: headings, CacheTTL: a.cfg.Cache.TTL, CacheScope: "headings"}

	model := f.model
	if model == "" {
		model = a.cfg.Gemini.Model
	}
	mode := strings.ToLower(f.aiMode)
	switch mode {
	case "off":
	case "noop":
		// Root only: shows the empty mind map without reading the document.
		conf.Extractor = ai.Noop{}
		conf.CacheScope = "noop"
	case "gemini", "auto":
		if a.cfg.Gemini.APIKey == "" && mode == "auto" {
			logger.Debug("no Gemini API key, using offline extraction")
			break
		}
		g, err := ai.NewGemini(ctx, a.cfg.Gemini.APIKey, model)
		if err != nil {
			return convert.Config{}, nil, err
		}
		conf.Extractor = ai.Fallback{Primary: g, Secondary: headings}
		conf.CacheScope = "gemini:" + g.Model()
	default:
		return convert.Config{}, nil, errs.New(errs.ErrCodeInvalidInput, "unknown --ai mode %q (want auto, gemini, off or noop)", f.aiMode)
	}

	if a.cfg.Firecrawl.APIKey != "" {
		sc, err := scrape.New(a.cfg.Firecrawl.APIKey, scrape.WithBaseURL(a.cfg.Firecrawl.BaseURL))
		if err != nil {
			return convert.Config{}, nil, err
		}
		conf.Scraper = sc
	}

	closeFn := func() {}
	if a.cfg.Cache.RedisAddr != "" && !f.noCache {
		rc, err := cache.NewRedis(ctx, a.cfg.Cache.RedisAddr, cache.WithTTL(a.cfg.Cache.TTL))
		if err != nil {
			// A cache outage should not block extraction.
			logger.Warn("outline cache unavailable", "addr", a.cfg.Cache.RedisAddr, "err", err)
		} else {
			conf.Cache = rc
			closeFn = func() { _ = rc.Close() }
		}
	}
	return conf, closeFn, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isOutlineFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// sourceFor maps a CLI argument to a pipeline source: "-" reads stdin.
func sourceFor(arg string) (convert.Source, error) {
	switch {
	case isURL(arg):
		return convert.Source{URL: arg}, nil
	case arg == "-":
		data, err := readAll(os.Stdin)
		if err != nil {
			return convert.Source{}, err
		}
		return convert.Source{Files: []convert.File{{Name: "stdin", Data: string(data)}}}, nil
	default:
		return convert.Source{Path: arg}, nil
	}
}

// loadOutline reads arg as an outline file when it looks like one, and
// otherwise extracts an outline from it.
func (a *app) loadOutline(ctx context.Context, arg string, f extractFlags) (outline.Node, error) {
	if isOutlineFile(arg) {
		return outline.LoadFile(arg)
	}
	conf, closeFn, err := a.pipeline(ctx, f)
	if err != nil {
		return outline.Node{}, err
	}
	defer closeFn()

	src, err := sourceFor(arg)
	if err != nil {
		return outline.Node{}, err
	}
	res, err := convert.Run(ctx, src, conf)
	if err != nil {
		return outline.Node{}, err
	}
	logging.FromContext(ctx).Info(convert.Describe(res))
	return res.Outline, nil
}
