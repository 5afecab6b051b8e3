package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/render"
)

func renderCmd(a *app) *cobra.Command {
	var ef extractFlags
	var collapse []string
	var out string
	var dotOnly bool
	var title string

	cmd := &cobra.Command{
		Use:   "render <outline|pdf|url>",
		Short: "Render a mind map to SVG (or DOT)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, err := a.loadOutline(ctx, args[0], ef)
			if err != nil {
				return err
			}
			ctrl, err := collapsed(root, collapse)
			if err != nil {
				return err
			}

			dot := render.ToDOT(ctrl.View().Graph, render.Options{Title: title})
			var data []byte
			if dotOnly {
				data = []byte(dot)
			} else if data, err = render.SVG(ctx, dot); err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logging.FromContext(ctx).Info("wrote mind map", "path", out, "bytes", len(data))
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "node ids to collapse (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "emit Graphviz DOT instead of SVG")
	cmd.Flags().StringVar(&title, "title", "", "caption drawn above the map")
	return cmd
}
