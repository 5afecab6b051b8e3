package convert

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/cache"
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

type fakeExtractor struct {
	calls int
	docs  []ai.Document
	root  outline.Node
	err   error
}

func (f *fakeExtractor) ExtractOutline(ctx context.Context, doc ai.Document) (outline.Node, error) {
	f.calls++
	f.docs = append(f.docs, doc)
	return f.root, f.err
}

type fakeScraper struct {
	markdown string
	err      error
}

func (f fakeScraper) Scrape(ctx context.Context, url string) (string, error) {
	return f.markdown, f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func twoPoints() outline.Node {
	return outline.Node{ID: "root", Label: "Doc", Children: []outline.Node{{ID: "a", Label: "A"}, {Label: "B"}}}
}

func TestRun_TextFile(t *testing.T) {
	ex := &fakeExtractor{root: twoPoints()}
	res, err := Run(context.Background(), Source{Files: []File{{Name: "notes.txt", Data: "hello"}}}, Config{Extractor: ex})
	require.NoError(t, err)

	require.Len(t, ex.docs, 1)
	assert.Equal(t, ai.KindText, ex.docs[0].Kind)
	assert.Equal(t, "hello", ex.docs[0].Text)
	assert.Equal(t, "notes.txt", res.Source)
	assert.Equal(t, 3, res.Nodes)
	assert.False(t, res.Cached)
	// Missing ids are filled in.
	assert.NotEmpty(t, res.Outline.Children[1].ID)
	assert.NoError(t, outline.Validate(res.Outline))
}

func TestRun_DataURL(t *testing.T) {
	ex := &fakeExtractor{root: twoPoints()}
	payload := "data:text/markdown;base64," + base64.StdEncoding.EncodeToString([]byte("# Hi"))
	_, err := Run(context.Background(), Source{Files: []File{{Name: "a.md", Data: payload}}}, Config{Extractor: ex})
	require.NoError(t, err)
	assert.Equal(t, "# Hi", ex.docs[0].Text)
	assert.Equal(t, "text/markdown", ex.docs[0].MIMEType)
}

func TestRun_PDFDataURLIsPDF(t *testing.T) {
	ex := &fakeExtractor{root: twoPoints()}
	payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-not-really"))
	_, err := Run(context.Background(), Source{Files: []File{{Name: "x.pdf", Data: payload}}}, Config{Extractor: ex})
	require.NoError(t, err)
	assert.Equal(t, ai.KindPDF, ex.docs[0].Kind)
	assert.Equal(t, "application/pdf", ex.docs[0].MIMEType)
	assert.Equal(t, []byte("%PDF-not-really"), ex.docs[0].Data)
}

func TestRun_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Guide\n\n## One\n\n## Two\n"), 0o644))

	res, err := Run(context.Background(), Source{Path: path}, Config{})
	require.NoError(t, err)
	assert.Equal(t, "guide.md", res.Source)
	assert.Equal(t, "Guide", res.Outline.Label)
	assert.Len(t, res.Outline.Children, 2)

	_, err = Run(context.Background(), Source{Path: filepath.Join(t.TempDir(), "missing.pdf")}, Config{})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestRun_URL(t *testing.T) {
	ex := &fakeExtractor{root: twoPoints()}
	src := Source{URL: "https://example.com"}

	_, err := Run(context.Background(), src, Config{Extractor: ex})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	_, err = Run(context.Background(), src, Config{Extractor: ex, Scraper: fakeScraper{markdown: "  "}})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	upstream := errs.New(errs.ErrCodeNetwork, "failed to scrape: boom")
	_, err = Run(context.Background(), src, Config{Extractor: ex, Scraper: fakeScraper{err: upstream}})
	assert.True(t, errs.Is(err, errs.ErrCodeNetwork))

	res, err := Run(context.Background(), src, Config{Extractor: ex, Scraper: fakeScraper{markdown: "# Page"}})
	require.NoError(t, err)
	assert.Equal(t, ai.KindWebpage, res.Kind)
	assert.Equal(t, "# Page", ex.docs[0].Text)
	assert.Equal(t, 1, ex.calls)
}

func TestRun_NoContent(t *testing.T) {
	_, err := Run(context.Background(), Source{Files: []File{{Name: "empty"}}}, Config{})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
	assert.Equal(t, "No content provided", errs.UserMessage(err))
}

func TestRun_ExtractorErrors(t *testing.T) {
	src := Source{Files: []File{{Data: "text"}}}

	_, err := Run(context.Background(), src, Config{Extractor: &fakeExtractor{err: errors.New("boom")}})
	assert.True(t, errs.Is(err, errs.ErrCodeExtraction))

	_, err = Run(context.Background(), src, Config{Extractor: &fakeExtractor{err: errs.New(errs.ErrCodeTimeout, "slow")}})
	assert.True(t, errs.Is(err, errs.ErrCodeTimeout))

	bad := outline.Node{ID: "root", Label: "x", Children: []outline.Node{{ID: "root", Label: "dup"}}}
	res, err := Run(context.Background(), src, Config{Extractor: &fakeExtractor{root: bad}})
	// Duplicate ids are renamed rather than rejected.
	require.NoError(t, err)
	assert.NoError(t, outline.Validate(res.Outline))
}

func TestRun_Cache(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	ex := &fakeExtractor{root: twoPoints()}
	cfg := Config{Extractor: ex, Cache: mc, CacheTTL: time.Hour, CacheScope: "fake"}
	src := Source{Files: []File{{Name: "n.txt", Data: "same text"}}}

	first, err := Run(ctx, src, cfg)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Len(t, mc.data, 1)
	for _, ttl := range mc.ttls {
		assert.Equal(t, time.Hour, ttl)
	}

	second, err := Run(ctx, src, cfg)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Outline, second.Outline)
	assert.Equal(t, 1, ex.calls)

	cfg.CacheScope = "other"
	_, err = Run(ctx, src, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, ex.calls)
}

func TestRun_EmptyOutlineNotCached(t *testing.T) {
	mc := newMemCache()
	ex := &fakeExtractor{root: outline.Node{ID: "root", Label: "Doc"}}
	res, err := Run(context.Background(), Source{Files: []File{{Data: "x"}}}, Config{Extractor: ex, Cache: mc})
	require.NoError(t, err)
	assert.True(t, res.Outline.IsEmpty())
	assert.Empty(t, mc.data)
}

func TestRun_CorruptCacheEntry(t *testing.T) {
	mc := newMemCache()
	ex := &fakeExtractor{root: twoPoints()}
	cfg := Config{Extractor: ex, Cache: mc}
	src := Source{Files: []File{{Data: "x"}}}
	mc.data[cache.OutlineKey("", "text", []byte("x"))] = []byte("{not json")

	res, err := Run(context.Background(), src, cfg)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 1, ex.calls)
}

func TestDecodeDataURL(t *testing.T) {
	mt, data, err := decodeDataURL("data:text/plain,hi there")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mt)
	assert.Equal(t, "hi there", string(data))

	_, _, err = decodeDataURL("data:text/plain;base64")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, _, err = decodeDataURL("data:;base64,!!!")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "pdf a.pdf: 4 points (cached)", Describe(Result{Kind: ai.KindPDF, Source: "a.pdf", Nodes: 5, Cached: true}))
	assert.Equal(t, "text n: 0 points", Describe(Result{Kind: ai.KindText, Source: "n", Nodes: 1}))
}

// flakyExtractor fails the first `failures` calls, then answers with root.
type flakyExtractor struct {
	failures int
	calls    int
	root     outline.Node
}

func (f *flakyExtractor) ExtractOutline(ctx context.Context, doc ai.Document) (outline.Node, error) {
	f.calls++
	if f.calls <= f.failures {
		return outline.Node{}, errs.New(errs.ErrCodeNetwork, "upstream unavailable")
	}
	return f.root, nil
}

func TestRun_FallbackOutlineNotCached(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	model := &flakyExtractor{failures: 1, root: outline.Node{ID: "root", Label: "Model", Children: []outline.Node{{ID: "m", Label: "M"}}}}
	cfg := Config{
		Extractor:  ai.Fallback{Primary: model, Secondary: Headings{}},
		Cache:      mc,
		CacheScope: "gemini:test",
	}
	src := Source{Files: []File{{Name: "n.md", Data: "# Title\n\n## One\n"}}}

	first, err := Run(ctx, src, cfg)
	require.NoError(t, err)
	assert.True(t, first.FellBack)
	assert.Equal(t, "Title", first.Outline.Label)
	assert.Empty(t, mc.data)

	second, err := Run(ctx, src, cfg)
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.False(t, second.FellBack)
	assert.Equal(t, "Model", second.Outline.Label)
	assert.Equal(t, 2, model.calls)
	assert.Len(t, mc.data, 1)

	third, err := Run(ctx, src, cfg)
	require.NoError(t, err)
	assert.True(t, third.Cached)
	assert.Equal(t, "Model", third.Outline.Label)
	assert.Equal(t, 2, model.calls)
}
