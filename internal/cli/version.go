package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/songbird/pkg/songbird"
)

const modulePath = "github.com/mesh-intelligence/songbird"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the songbird version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "songbird v%s\nmodule: %s\n", songbird.Version, modulePath)
			return nil
		},
	}
}
