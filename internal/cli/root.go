// Package cli implements the abat command-line interface using Cobra.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/config"
	"github.com/cptspacemanspiff/abat/internal/logging"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
	logTopics  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "abat",
		Short: "Report macOS battery charge and health",
		Long: `abat reads AppleSmartBattery from ioreg and prints the battery's
charge and health as whole percentages.

With no subcommand it takes one reading and exits. Run 'abat monitor' to
record history, and 'abat watch' for a live view.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $"+config.HomeEnv+"/config.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable all log topics (equivalent to --log=all)")
	pf.StringVar(&opts.logTopics, "log", "", "comma-separated log topics: battery,storage,cleanup,http,dbus (or 'all')")

	cmd.AddCommand(
		newParseCmd(),
		newDumpCmd(),
		newHistoryCmd(opts),
		newWatchCmd(opts),
		newRateCmd(opts),
		newMonitorCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	cmd := newRootCmd()
	cmd.Version = version

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	info, err := cfg.Source().Read(cmd.Context(), cfg.Variant())
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), info)
	return nil
}

func printReport(w io.Writer, info collector.BatteryInfo) {
	fmt.Fprintf(w, "Battery charge: %d%%\n", info.ChargePercent())
	fmt.Fprintf(w, "Battery health: %d%%\n", info.HealthPercent())
}

// loadConfig reads --config, or the default path falling back to defaults
// when that file does not exist.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	return config.LoadOrDefault(config.DefaultPath())
}

func (o *options) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

func (o *options) logger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	topics := logging.ParseTopics(o.logTopics)
	if o.verbose {
		topics = append(topics, logging.TopicAll)
	}
	return logging.New(w, level, topics)
}
