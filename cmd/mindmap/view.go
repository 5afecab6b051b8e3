package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-mindmap/internal/tui"
)

func viewCmd(a *app) *cobra.Command {
	var ef extractFlags
	var title string

	cmd := &cobra.Command{
		Use:   "view <outline|pdf|url>",
		Short: "Browse a mind map interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadOutline(cmd.Context(), args[0], ef)
			if err != nil {
				return err
			}
			return tui.Run(root, title)
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "header text (default: the root label)")
	return cmd
}
