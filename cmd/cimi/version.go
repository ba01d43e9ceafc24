package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Works without a valid configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "cimi version %s\n", Version)
			fmt.Fprintf(a.stdout, "go version %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "os/arch %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
