package convert

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
)

// ReadPDF extracts plain text per page. Pages that fail to decode come back
// empty rather than failing the whole document.
func ReadPDF(data []byte) (pages []string, err error) {
	defer func() {
		// rsc.io/pdf panics on some malformed cross-reference tables.
		if r := recover(); r != nil {
			pages, err = nil, errs.New(errs.ErrCodeInvalidInput, "unreadable PDF: %v", r)
		}
	}()

	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "unreadable PDF")
	}
	n := doc.NumPage()
	pages = make([]string, n)
	for i := 1; i <= n; i++ {
		pages[i-1] = pageText(doc.Page(i))
	}
	return pages, nil
}

func pageText(p rpdf.Page) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	if p.V.IsNull() {
		return ""
	}
	return joinRuns(p.Content().Text)
}

// joinRuns rebuilds lines from positioned text runs: top to bottom, then left
// to right, with a space wherever two runs on a line do not touch.
func joinRuns(runs []rpdf.Text) string {
	if len(runs) == 0 {
		return ""
	}
	sorted := make([]rpdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > lineTolerance(sorted[i], sorted[j]) {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	prev := sorted[0]
	b.WriteString(prev.S)
	for _, t := range sorted[1:] {
		switch {
		case math.Abs(t.Y-prev.Y) > lineTolerance(prev, t):
			b.WriteByte('\n')
		case t.X-(prev.X+prev.W) > 0.15*math.Max(t.FontSize, 1):
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prev = t
	}
	return strings.TrimSpace(b.String())
}

func lineTolerance(a, b rpdf.Text) float64 {
	return 0.5 * math.Max(math.Max(a.FontSize, b.FontSize), 1)
}

func pageLabel(i int) string { return fmt.Sprintf("Page %d", i) }
