package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var ef extractFlags
	var addr string
	var sessionTTL time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction and mind map API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pipeline, closeFn, err := a.pipeline(ctx, ef)
			if err != nil {
				return err
			}
			defer closeFn()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(server.Config{
				Addr:        addr,
				MaxDuration: a.cfg.Server.MaxDuration,
				SessionTTL:  sessionTTL,
				Pipeline:    pipeline,
				Logger:      logging.FromContext(ctx),
			})
			return srv.ListenAndServe(ctx)
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 6*time.Hour, "drop mind map sessions unused for this long (0 keeps them)")
	return cmd
}
