package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

func TestBuildHierarchy(t *testing.T) {
	root := buildHierarchy("Doc", []entry{
		{ID: "a", Label: "A", Depth: 1},
		{ID: "a1", Label: "A1", Depth: 2},
		{ID: "a1x", Label: "A1x", Depth: 3},
		{ID: "b", Label: "B", Depth: 1},
		{ID: "b1", Label: "B1", Depth: 3},
	}, 0)

	assert.Equal(t, "root", root.ID)
	assert.Equal(t, "Doc", root.Label)
	require.Len(t, root.Children, 2)
	assert.Equal(t, []string{"root", "a", "a1", "a1x", "b", "b1"}, outline.IDs(root))

	// A depth jump attaches to the nearest shallower entry.
	b := root.Children[1]
	require.Len(t, b.Children, 1)
	assert.Equal(t, "b1", b.Children[0].ID)
}

func TestBuildHierarchy_Skips(t *testing.T) {
	root := buildHierarchy("Doc", []entry{
		{ID: "zero", Label: "Zero", Depth: 0},
		{ID: "blank", Label: "   ", Depth: 1},
		{ID: "ok", Label: "OK", Depth: 1},
		{ID: "deep", Label: "Deep", Depth: 3},
	}, 2)
	assert.Equal(t, []string{"root", "ok"}, outline.IDs(root))
}

func TestBuildHierarchy_Empty(t *testing.T) {
	root := buildHierarchy("Doc", nil, 0)
	assert.True(t, root.IsEmpty())
	assert.Equal(t, 1, outline.Count(root))
}
