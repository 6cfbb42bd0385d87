package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/abat/internal/ioreg"
)

func newDumpCmd() *cobra.Command {
	var object string
	cmd := &cobra.Command{
		Use:   "dump [FILE|-]",
		Short: "List every property of an ioreg dump with its object path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for ev, err := range ioreg.Events(in) {
				if err != nil {
					w.Flush()
					return err
				}
				if object != "" && ev.Object.Name != object {
					continue
				}
				fmt.Fprintf(w, "%s\t%s = %s\n", ev.Path(), ev.Property.Name, ev.Property.Value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&object, "object", "", "only list properties of objects with this name")
	return cmd
}
