// ABOUTME: serve subcommand exposing the course map over HTTP, rebuilt on every request.
// ABOUTME: Shuts down gracefully when the command context is cancelled.
package main

import (
	"time"

	"github.com/2389-research/coursemap/logging"
	"github.com/2389-research/coursemap/web"
	"github.com/spf13/cobra"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		addr     string
		cacheTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the course map over HTTP",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(c.errOut, c.verbose, false)
			srv, err := web.NewServer(web.ServerConfig{
				Addr:     addr,
				Root:     c.input,
				App:      c.pipeline(cfg, logger),
				Logger:   logger,
				CacheTTL: cacheTTL,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", web.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", web.DefaultCacheTTL, "how long rendered images are reused")
	return cmd
}
