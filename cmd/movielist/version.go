// Version command for the movielist CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/movielist/pkg/movielist"
)

const modulePath = "github.com/mesh-intelligence/movielist"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the movielist version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "movielist v%s\nmodule: %s\n", movielist.Version, modulePath)
			return nil
		},
	}
}
