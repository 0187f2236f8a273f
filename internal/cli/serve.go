package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/internal/server"
)

type serveOpts struct {
	addr      string
	sitePath  string
	timeout   time.Duration
	noMetrics bool
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		timeout: server.DefaultRequestTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSite(opts.sitePath)
			if err != nil {
				return err
			}
			scfg := server.Config{
				Site:           cfg,
				RequestTimeout: opts.timeout,
				Logger:         c.Logger,
			}
			if !opts.noMetrics {
				scfg.Metrics = server.NewMetrics()
				scfg.Metrics.Register()
			}
			printInfo("Serving on %s", StyleValue.Render("http://"+opts.addr))
			return server.New(scfg).ListenAndServe(cmd.Context(), opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.sitePath, "site", "", "default site config for requests that omit one")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "maximum duration of one optimize request")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	registerSiteCompletion(cmd)

	return cmd
}
