package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-mindmap/internal/convert"
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

func extractCmd(a *app) *cobra.Command {
	var ef extractFlags
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "extract <pdf|url|file|->",
		Short: "Extract a hierarchical outline of key points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadOutline(cmd.Context(), args[0], ef)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeOutline(w, root, format)
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json|yaml|markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

func writeOutline(w io.Writer, root outline.Node, format string) error {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return convert.WriteMarkdown(w, root)
	default:
		f, err := outline.ParseFormat(format)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want json, yaml or markdown)", format)
		}
		return outline.Encode(w, root, f)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read input")
	}
	return data, nil
}
