package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownEntries(t *testing.T) {
	src := "# Guide\n\nIntro para.\n\n## Setup\n\n- Install\n- Configure **it**\n\n## Usage\n\n### Advanced\n"
	title, entries := markdownEntries([]byte(src))
	assert.Equal(t, "Guide", title)
	assert.Equal(t, []entry{
		{Label: "Setup", Depth: 1},
		{Label: "Install", Depth: 2},
		{Label: "Configure it", Depth: 2},
		{Label: "Usage", Depth: 1},
		{Label: "Advanced", Depth: 2},
	}, entries)
}

func TestMarkdownEntries_SeveralH1(t *testing.T) {
	title, entries := markdownEntries([]byte("# One\n\n# Two\n\n## Two A\n"))
	assert.Empty(t, title)
	assert.Equal(t, []entry{
		{Label: "One", Depth: 1},
		{Label: "Two", Depth: 1},
		{Label: "Two A", Depth: 2},
	}, entries)
}

func TestMarkdownEntries_ListOnly(t *testing.T) {
	title, entries := markdownEntries([]byte("- alpha\n- beta\n"))
	assert.Empty(t, title)
	assert.Equal(t, []entry{{Label: "alpha", Depth: 1}, {Label: "beta", Depth: 1}}, entries)
}

func TestMarkdownEntries_Prose(t *testing.T) {
	title, entries := markdownEntries([]byte("Just a paragraph.\n\nAnother one.\n"))
	assert.Empty(t, title)
	assert.Empty(t, entries)
}
