package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/mindmap"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

func layoutCmd(a *app) *cobra.Command {
	var ef extractFlags
	var collapse []string

	cmd := &cobra.Command{
		Use:   "layout <outline|pdf|url>",
		Short: "Print the positioned nodes and edges of a mind map as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadOutline(cmd.Context(), args[0], ef)
			if err != nil {
				return err
			}
			ctrl, err := collapsed(root, collapse)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ctrl.View())
		},
	}
	ef.register(cmd)
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "node ids to collapse (repeatable)")
	return cmd
}

// collapsed returns a controller over root with the given nodes collapsed.
func collapsed(root outline.Node, ids []string) (*mindmap.Controller, error) {
	ctrl, err := mindmap.NewController(root)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		n, ok := outline.Find(root, id)
		if !ok {
			return nil, errs.New(errs.ErrCodeNodeNotFound, "no node with id %q", id)
		}
		if n.HasChildren() && ctrl.Expansion().Has(id) {
			ctrl.HandleActivation(id, true)
		}
	}
	return ctrl, nil
}
