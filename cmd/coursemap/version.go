// ABOUTME: version subcommand printing the build version.
// ABOUTME: The version string is injected with -ldflags at build time.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of coursemap",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "coursemap version %s\n", c.version)
		},
	}
}
