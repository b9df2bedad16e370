package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// globalFlags are shared by every subcommand that loads a site.
type globalFlags struct {
	config   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "folio",
		Short: "folio - a portfolio and blog engine built with Go, Echo, and templ",
		Example: `  folio new myblog
  folio serve --config myblog/site.yaml
  folio build --out dist`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.config, "config", "site.yaml", "path to the site configuration file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(newBuildCmd(g))
	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
			return err
		},
	}
}
