// ABOUTME: check-graphviz subcommand reporting whether the dot binary is installed and its version.
// ABOUTME: Exits non-zero with an install hint when Graphviz cannot be found.
package main

import (
	"fmt"

	"github.com/2389-research/coursemap/render"
	"github.com/spf13/cobra"
)

func (c *cli) checkGraphvizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-graphviz",
		Short: "Check that Graphviz is installed",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gv := c.graphvizRenderer()
			v, err := gv.Version(cmd.Context())
			if err != nil {
				return err
			}
			binary := gv.Binary
			if binary == "" {
				binary = render.DefaultBinary
			}
			fmt.Fprintf(c.out, "%s %s (%s)\n", successStyle.Render("Graphviz found:"), v, binary)
			return nil
		},
	}
}

// graphvizStatus is a one-line description used in help output.
func graphvizStatus(gv *render.Graphviz) string {
	if gv.Available() {
		return "found"
	}
	return "not found"
}
