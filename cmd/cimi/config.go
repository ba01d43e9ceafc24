package main

import (
	"fmt"

	"github.com/cimi-lang/cimi/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the configuration file and
command line flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.TOML
			if asYAML {
				format = config.YAML
			}
			if p := a.cfg.Path(); p != "" {
				fmt.Fprintf(a.stdout, "# %s\n", p)
			}
			if err := a.cfg.Encode(a.stdout, format); err != nil {
				return usageError(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of TOML")
	return cmd
}
