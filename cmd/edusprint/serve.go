package main

import (
	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/config"
	"github.com/conorfennell/edusprint/internal/web"
)

func (a *app) serveCmd() *cobra.Command {
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review UI over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.syncer()
			if err != nil {
				return err
			}
			srv, err := web.NewServer(a.store, web.Options{Sources: a.db, Syncer: s})
			if err != nil {
				return err
			}

			if spec := a.cfg.Sync.Schedule; spec != "" {
				job, err := web.StartSyncJob(cmd.Context(), spec, s)
				if err != nil {
					return err
				}
				defer job.Stop()
			}
			return web.ListenAndServe(cmd.Context(), a.cfg.Web.Addr, srv)
		},
	}
	cmd.Flags().String("addr", def.Web.Addr, "Address to listen on")
	cmd.Flags().String("schedule", def.Sync.Schedule, `Cron schedule for background source sync, e.g. "@every 15m"`)
	return cmd
}
