package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/storage"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		since  time.Duration
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List battery samples recorded by 'abat monitor'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			to := time.Now().Unix()
			from := max(to-int64(since/time.Second), 0)
			if err := storage.ValidateRange(from, to); err != nil {
				return fmt.Errorf("--since %v: %w", since, err)
			}

			db, err := storage.Open(cfg.Storage.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			samples, err := db.BatterySamplesInRange(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if samples == nil {
					samples = []collector.BatterySample{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(samples)
			}

			if len(samples) == 0 {
				fmt.Fprintln(out, "No samples recorded. Run 'abat monitor' to start collecting.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tCHARGE\tHEALTH\tCURRENT\tMAX\tDESIGN\tVARIANT")
			for _, s := range samples {
				fmt.Fprintf(w, "%s\t%d%%\t%d%%\t%d\t%d\t%d\t%s\n",
					time.Unix(s.Timestamp, 0).Format("2006-01-02 15:04:05"),
					s.ChargePct,
					s.HealthPct,
					s.CurrentCapacity,
					s.MaxCapacity,
					s.DesignCapacity,
					s.Variant,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "how far back to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
