package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/daemon"
	"github.com/cptspacemanspiff/abat/internal/storage"
)

func newMonitorCmd(opts *options) *cobra.Command {
	var resetDB bool
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Record battery samples and serve them over HTTP and D-Bus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := opts.logger(cfg, cmd.ErrOrStderr())

			if resetDB {
				dbPath := cfg.Storage.DBPath
				for _, suffix := range []string{"", "-wal", "-shm"} {
					if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
						return err
					}
				}
				logger.Info("database deleted", "path", dbPath)
				return nil
			}

			if !collector.Supported() {
				return collector.ErrUnsupportedPlatform
			}

			store, err := storage.Open(cfg.Storage.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return daemon.New(cfg, store, cfg.Source(), logger).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&resetDB, "reset-db", false, "delete the database and exit")
	return cmd
}
