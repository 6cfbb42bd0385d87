package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// openInput opens the named dump, or stdin for "-" or no argument.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	return f, nil
}
