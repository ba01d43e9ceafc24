package main

import (
	"github.com/cimi-lang/cimi/internal/syntax"
	"github.com/spf13/cobra"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Long: `Print one token per line: position, kind and payload.

On a lexical error the tokens scanned so far are printed before the error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runTokens,
	}
}

func (a *app) runTokens(cmd *cobra.Command, args []string) error {
	name, src, err := a.readInput(args)
	if err != nil {
		return err
	}

	toks, err := a.tokenize(name, src)
	syntax.FprintTokens(a.stdout, toks)
	return err
}
