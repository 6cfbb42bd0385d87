package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

type parseResult struct {
	collector.BatteryInfo
	Variant   string `json:"variant"`
	ChargePct int    `json:"charge_pct"`
	HealthPct int    `json:"health_pct"`
}

func newParseCmd() *cobra.Command {
	var (
		variant string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "parse [FILE|-]",
		Short: "Extract battery fields from a saved ioreg dump",
		Long: `Parse reads the output of 'ioreg -c AppleSmartBattery -w0' from FILE,
or from stdin when FILE is '-' or omitted, and prints charge and health.
It runs on any platform.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := collector.VariantByName(variant)
			if err != nil {
				return err
			}
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			info, err := collector.ExtractContext(cmd.Context(), in, v)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(parseResult{
					BatteryInfo: info,
					Variant:     v.Name,
					ChargePct:   info.ChargePercent(),
					HealthPct:   info.HealthPercent(),
				})
			}
			printReport(out, info)
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", collector.Snapshot.Name,
		"field set: "+strings.Join(collector.VariantNames(), ", "))
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
