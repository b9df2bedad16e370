package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	var (
		out    string
		drafts bool
		clean  bool
	)

	c := &cobra.Command{
		Use:   "build",
		Short: "Render the site into a directory of static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			cfg.Drafts = drafts
			if err := cfg.Validate(); err != nil {
				return err
			}

			if clean {
				if err := os.RemoveAll(out); err != nil {
					return fmt.Errorf("clean %s: %w", out, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := folio.New(cfg, views.Funcs())
			defer app.Close()
			report, err := app.Build(ctx, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages and %d assets into %s in %s\n",
				report.Pages, report.Assets, report.OutDir, report.Duration)
			return nil
		},
	}

	c.Flags().StringVar(&out, "out", "dist", "output directory")
	c.Flags().BoolVar(&drafts, "drafts", false, "include draft posts")
	c.Flags().BoolVar(&clean, "clean", false, "remove the output directory before building")
	return c
}
