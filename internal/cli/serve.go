package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/internal/server"
	"github.com/matzehuels/ievis/pkg/pipeline"
)

// serveCommand runs the HTTP API over the configured backends.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		janitor string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model, build and session API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("janitor") {
				cfg.Server.Janitor = janitor
			}

			cc, err := cfg.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
			}
			st, err := cfg.OpenStore(ctx, cc)
			if err != nil {
				cc.Close()
				return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
			}
			defer st.Close() // also closes cc
			runner := pipeline.NewRunner(cc, cfg.Keyer(), c.Logger)

			sessions, err := cfg.OpenSessions(ctx)
			if err != nil {
				return fmt.Errorf("open %s sessions: %w", cfg.Session.Backend, err)
			}
			defer sessions.Close()

			c.Logger.Info("backends ready",
				"store", cfg.Store.Backend,
				"cache", cfg.Cache.Backend,
				"sessions", cfg.Session.Backend)

			srv := server.New(server.Config{
				Store:    st,
				Sessions: sessions,
				Runner:   runner,
				Defaults: cfg.PipelineOptions(),
				TTL:      cfg.Session.TTL,
				Logger:   c.Logger,
			})
			return srv.Run(ctx, cfg.Server.Addr, cfg.Server.Janitor)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&janitor, "janitor", "", `cleanup schedule, e.g. "@every 15m"; empty disables`)
	return cmd
}
