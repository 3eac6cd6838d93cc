package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/internal/router"
	"github.com/mesh-intelligence/tilrettelegging/internal/scheduler"
	"github.com/mesh-intelligence/tilrettelegging/internal/server"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the request router over loopback HTTP",
		Long: "Serve the request router over HTTP until interrupted. When backup.schedule\n" +
			"is set in config.yaml, JSONL backups are written on that cron schedule.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.settings.ServerAddr
			}
			return a.withStore(func(store types.Store) error {
				if a.settings.BackupSchedule != "" {
					sched := scheduler.New(a.log)
					if err := sched.AddBackup(a.settings.BackupSchedule, store, a.settings.DataDir); err != nil {
						return err
					}
					sched.Start()
					a.log.Info().
						Str("schedule", a.settings.BackupSchedule).
						Int("jobs", sched.Jobs()).
						Msg("backup scheduler started")
					defer func() { <-sched.Stop().Done() }()
				}

				rt := router.New(store, router.WithLogger(a.log))
				srv := server.New(server.Config{Addr: addr}, store, rt, a.log)
				return srv.Run(cmd.Context())
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	return cmd
}
