package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr   string
		drafts bool
		reload time.Duration
	)

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("reload") {
				cfg.ContentReloadTTL = reload
			}
			cfg.Drafts = drafts
			if cfg.CookieSecure {
				if cfg.SessionSecret, err = folio.RequireEnv("SESSION_SECRET"); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := folio.New(cfg, views.Funcs())
			defer app.Close()
			return app.Start(ctx)
		},
	}

	c.Flags().StringVar(&addr, "addr", ":3000", "listen address (overrides ADDR)")
	c.Flags().BoolVar(&drafts, "drafts", false, "serve draft posts")
	c.Flags().DurationVar(&reload, "reload", 0, "reload content from disk at most this often, e.g. 2s (0 loads once)")
	return c
}
