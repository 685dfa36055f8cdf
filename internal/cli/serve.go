package cli

import (
	"cmp"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelgrid/internal/server"
	"github.com/matzehuels/panelgrid/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP until interrupted.

Routes:
  GET  /api/health
  POST /api/layout/parse
  POST /api/layout/validate
  POST /api/layout/render?format=svg
  GET  /api/layout/templates
  GET  /api/layout/templates/{name}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg, err := c.newRegistry()
			if err != nil {
				return err
			}

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			cfg := c.cfg
			srv, err := server.New(server.Config{
				Limits:       cfg.Limits,
				MaxBody:      cfg.Server.MaxBody,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				Width:        cfg.Render.Width,
				Height:       cfg.Render.Height,
				Theme:        cfg.Render.Theme,
			}, runner, reg, c.Logger)
			if err != nil {
				return fmt.Errorf("configure server: %w", err)
			}

			listen := cmp.Or(addr, cfg.Server.Addr)
			printInfo("Serving on %s (%d templates)", StyleHighlight.Render(listen), reg.Len())
			return srv.ListenAndServe(ctx, listen)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
