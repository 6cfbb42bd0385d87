package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/drain"
)

func newRateCmd(opts *options) *cobra.Command {
	var window, poll time.Duration
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Measure how fast the battery charges or drains",
		Long: `Rate samples the battery every --poll for --window and reports the change
in mAh and percent per hour. The battery controller averages its readings,
so windows shorter than a couple of minutes are noisy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if window <= 0 {
				return fmt.Errorf("--window must be positive, got %v", window)
			}
			if poll <= 0 || poll > window {
				return fmt.Errorf("--poll must be in (0, %v], got %v", window, poll)
			}
			if !collector.Supported() {
				return collector.ErrUnsupportedPlatform
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Measuring for %v, sampling every %v...\n", window, poll)

			c := collector.NewCollector(cfg.Source(), cfg.Variant(), uuid.NewString())
			rate, err := drain.MeasureRate(ctx, c, window, poll)
			if err != nil {
				return err
			}
			printRate(out, rate)
			return nil
		},
	}
	cmd.Flags().DurationVar(&window, "window", 2*time.Minute, "measurement window")
	cmd.Flags().DurationVar(&poll, "poll", 5*time.Second, "sampling interval")
	return cmd
}

func printRate(w io.Writer, r drain.Rate) {
	fmt.Fprintf(w, "Samples:  %d over %v\n", r.Samples, r.Elapsed.Round(time.Second))
	fmt.Fprintf(w, "Charge:   %d%% -> %d%%\n", r.First.ChargePct, r.Last.ChargePct)
	fmt.Fprintf(w, "Rate:     %+.1f mAh/h (%+.2f %%/h)\n", r.MAhPerHour, r.PctPerHour)

	remaining, ok := r.Remaining()
	switch {
	case !ok:
		fmt.Fprintln(w, "Estimate: no change measured")
	case r.Charging():
		fmt.Fprintf(w, "Full in:  %v\n", remaining.Round(time.Minute))
	default:
		fmt.Fprintf(w, "Empty in: %v\n", remaining.Round(time.Minute))
	}
}
