package cli

import (
	"github.com/spf13/cobra"

	"github.com/daypatu/ers-pymatching/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the decode service HTTP API",
		Long: `Serve starts an HTTP API exposing the decoder.

POST /v1/decode accepts a detector graph and a batch of shots in one
request and returns the matchings. With a run archive configured, runs
can be saved and browsed under /v1/runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := api.Config{
				Runner: runner,
				Logger: c.Logger,
			}
			if !noStore {
				st, err := c.newStore(ctx)
				if err != nil {
					c.Logger.Warn("run archive unavailable", "err", err)
				} else {
					cfg.Store = st
					defer st.Close(ctx)
				}
			}

			if addr == "" {
				addr = c.Config.Addr
			}
			return api.NewServer(cfg).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the run archive")

	return cmd
}
