// ABOUTME: config subcommand printing the effective configuration as YAML.
// ABOUTME: The output can be saved as config.yml and loaded back unchanged.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				fmt.Fprintf(c.out, "# loaded from %s\n", cfg.Source)
			} else {
				fmt.Fprintln(c.out, "# built-in defaults")
			}
			_, err = c.out.Write(data)
			return err
		},
	}
}
