package convert

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

func TestHeadings_PDFWithToC(t *testing.T) {
	doc := ai.Document{
		Kind: ai.KindPDF,
		Name: "report.pdf",
		Text: strings.Join([]string{"A Report", tocPage, "1 Introduction\nBody."}, "\f"),
	}
	root, err := Headings{}.ExtractOutline(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", root.Label)
	assert.Equal(t, []string{"root", "toc-1", "toc-1-1", "toc-2", "toc-2-1", "toc-a"}, outline.IDs(root))
	require.Len(t, root.Children, 3)
	assert.Equal(t, "1 Introduction", root.Children[0].Label)
	assert.Equal(t, "1.1 Background", root.Children[0].Children[0].Label)
	assert.Equal(t, "A Extra Material", root.Children[2].Label)
}

func TestHeadings_PDFPageFallback(t *testing.T) {
	var pages []string
	for i := 1; i <= 5; i++ {
		pages = append(pages, fmt.Sprintf("Heading %d\nline one\nline two\nline three\nline four", i))
	}
	pages[2] = "   "
	doc := ai.Document{Kind: ai.KindPDF, Text: strings.Join(pages, "\f")}

	root, err := Headings{MaxPoints: 3}.ExtractOutline(context.Background(), doc)
	require.NoError(t, err)

	// Untitled: the first line of the first page names the root.
	assert.Equal(t, "Heading 1", root.Label)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "Page 1: Heading 1", root.Children[0].Label)
	assert.Equal(t, "Page 2: Heading 2", root.Children[1].Label)
	// The blank page is skipped and does not use up a point.
	assert.Equal(t, "Page 4: Heading 4", root.Children[2].Label)
	assert.Len(t, root.Children[0].Children, 3)
	assert.Equal(t, "page-1", root.Children[0].ID)
	require.NoError(t, outline.Validate(root))
}

func TestHeadings_Markdown(t *testing.T) {
	doc := ai.Document{Kind: ai.KindWebpage, Name: "https://example.com", Text: "# Site\n\n## About\n\n## Contact\n"}
	root, err := Headings{}.ExtractOutline(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Site", root.Label)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "About", root.Children[0].Label)
	assert.NoError(t, outline.Validate(root))
}

func TestHeadings_ParagraphFallback(t *testing.T) {
	doc := ai.Document{Kind: ai.KindText, Name: "notes.txt", Text: "First para. More.\n\nSecond para here\n\n\n"}
	root, err := Headings{}.ExtractOutline(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", root.Label)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "First para.", root.Children[0].Label)
	assert.Equal(t, "Second para here", root.Children[1].Label)
	// Minted ids are unique and non-empty.
	assert.NoError(t, outline.Validate(root))
}

func TestHeadings_EmptyText(t *testing.T) {
	root, err := Headings{}.ExtractOutline(context.Background(), ai.Document{Kind: ai.KindText})
	require.NoError(t, err)
	assert.True(t, root.IsEmpty())
	assert.Equal(t, "Document", root.Label)
}

func TestHeadings_BadPDFBytes(t *testing.T) {
	_, err := Headings{}.ExtractOutline(context.Background(), ai.Document{Kind: ai.KindPDF, Data: []byte("%PDF-garbage")})
	assert.Error(t, err)
}

func TestWriteMarkdown(t *testing.T) {
	root := outline.Node{ID: "r", Label: "Title", Children: []outline.Node{
		{ID: "a", Label: "A *bold*", Children: []outline.Node{{ID: "a1", Label: "A1"}}},
		{ID: "b", Label: "B"},
	}}
	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, root))
	assert.Equal(t, "# Title\n\n- A \\*bold\\*\n  - A1\n- B\n", b.String())
}
