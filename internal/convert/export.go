package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// WriteMarkdown renders an outline as a title followed by nested bullets.
func WriteMarkdown(w io.Writer, root outline.Node) error {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(escapeMarkdown(root.Label))
	b.WriteString("\n\n")
	var write func(n outline.Node, depth int)
	write = func(n outline.Node, depth int) {
		for _, c := range n.Children {
			fmt.Fprintf(&b, "%s- %s\n", strings.Repeat("  ", depth), escapeMarkdown(c.Label))
			write(c, depth+1)
		}
	}
	write(root, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`).Replace(s)
}
