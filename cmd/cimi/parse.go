package main

import (
	"github.com/spf13/cobra"
)

func (a *app) parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a program and print its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runParse,
	}
	cmd.Flags().StringVarP(&a.format, "format", "f", "", "AST output format: sexpr, tree or json")
	return cmd
}

// runParse prints the syntax tree, even a partial one, and fails if the
// input had errors.
func (a *app) runParse(cmd *cobra.Command, args []string) error {
	name, src, err := a.readInput(args)
	if err != nil {
		return err
	}

	return a.runOnce(name, src)
}

// runOnce parses and prints src.
func (a *app) runOnce(name string, src []byte) error {
	b, err := a.parse(name, src)
	if b != nil {
		if perr := a.printAST(b); perr != nil {
			return perr
		}
	}
	return err
}
