package convert

import (
	"time"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/cache"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
	"github.com/thywilljoshua/pdf-mindmap/internal/scrape"
)

// File is an uploaded document. Data is either raw text or a data URL
// ("data:application/pdf;base64,...").
type File struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	Data string `json:"data"`
}

// Source names what to extract from. The first non-empty of URL, Files and
// Path wins.
type Source struct {
	URL   string `json:"url,omitempty"`
	Files []File `json:"files,omitempty"`
	Path  string `json:"-"`
}

type Result struct {
	Outline outline.Node `json:"outline"`
	Source  string       `json:"source"`
	Kind    ai.Kind      `json:"kind"`
	Nodes   int          `json:"nodes"`
	Cached  bool         `json:"cached"`
	// FellBack is set when the primary extractor failed and a fallback answered.
	FellBack bool `json:"fallback,omitempty"`
}

type Config struct {
	Extractor ai.Extractor
	Scraper   scrape.Scraper
	Cache     cache.Cache
	CacheTTL  time.Duration
	// CacheScope separates cached outlines produced by different extractors.
	CacheScope string
}
