package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cimi-lang/cimi/internal/config"
	"github.com/cimi-lang/cimi/internal/diag"
	"github.com/cimi-lang/cimi/internal/logs"
	"github.com/cimi-lang/cimi/internal/syntax"
	"github.com/spf13/cobra"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Flags
	cfgFile  string
	color    string
	format   string
	logLevel string
	logFile  string

	cfg  *config.Config
	log  *logs.Logger
	diag *diag.Printer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
		log:    logs.Discard(),
	}
}

func (a *app) close() {
	if err := a.log.Close(); err != nil {
		fmt.Fprintf(a.stderr, "error: close log file: %v\n", err)
	}
}

// printer returns the diagnostic printer, creating a plain one if setup
// has not run yet.
func (a *app) printer() *diag.Printer {
	if a.diag == nil {
		a.diag = diag.NewPrinter(a.stderr, diag.Never)
	}
	return a.diag
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cimi [file]",
		Short: "Tokenize and parse cimi programs",
		Long: `cimi is the front end of the cimi scripting language.

With a file argument it parses the file and prints the syntax tree.
Without one it reads a single line from standard input.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runParse,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: nearest cimi.toml, .cimi.toml or cimi.yaml)")
	pf.StringVar(&a.color, "color", "", "color diagnostics: auto, always or never")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")
	root.Flags().StringVarP(&a.format, "format", "f", "", "AST output format: sexpr, tree or json")

	root.AddCommand(
		a.parseCmd(),
		a.tokensCmd(),
		a.watchCmd(),
		a.configCmd(),
		a.doctorCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger and diagnostic printer.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return usageError(err)
	}
	cfg, err := config.Resolve(a.cfgFile, wd)
	if err != nil {
		return usageError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = a.color
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return usageError(err)
	}

	mode, err := diag.ParseMode(cfg.Color)
	if err != nil {
		return usageError(err)
	}
	level, err := cfg.Level()
	if err != nil {
		return usageError(err)
	}
	log, err := logs.New(logs.Options{Level: level, Writer: a.stderr, File: cfg.LogFile})
	if err != nil {
		return usageError(err)
	}

	a.cfg = cfg
	a.log = log
	a.diag = diag.NewPrinter(a.stderr, mode)
	a.log.Debug("config", "path", cfg.Path(), "color", cfg.Color, "format", cfg.Format)
	return nil
}

// readInput returns the contents of the file argument, or one line of
// standard input if there is none.
func (a *app) readInput(args []string) (name string, src []byte, err error) {
	if len(args) > 0 {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return "", nil, usageError(err)
		}
		return args[0], src, nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", nil, usageError(fmt.Errorf("read stdin: %w", err))
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return "<stdin>", []byte(line), nil
}

// tokenize lexes src, reporting a lexical error through the printer.
func (a *app) tokenize(name string, src []byte) ([]syntax.Token, error) {
	a.diag.SetSource(name, src)

	start := time.Now()
	toks, err := syntax.Tokenize(src)
	a.log.Debug("lex", "file", name, "tokens", len(toks), "elapsed", time.Since(start))
	if err != nil {
		var lerr *syntax.LexError
		if !errors.As(err, &lerr) {
			return toks, err
		}
		a.diag.Lex(lerr)
		return toks, userErrorf("%s: %v", name, lerr)
	}
	return toks, nil
}

// parse runs the front end over src. The returned block is nil only if
// lexing failed; it may be partial if there were syntax errors.
func (a *app) parse(name string, src []byte) (*syntax.Block, error) {
	toks, err := a.tokenize(name, src)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p := syntax.NewParser(name, toks, a.diag.Syntax)
	b := p.Parse()
	a.log.Debug("parse", "file", name, "diagnostics", p.Errors(), "elapsed", time.Since(start))

	if p.Reported() {
		return b, userErrorf("%s: %d syntax error(s)", name, p.Errors())
	}
	return b, nil
}

// printAST writes b in the configured format.
func (a *app) printAST(b *syntax.Block) error {
	switch a.cfg.Format {
	case "tree":
		syntax.FprintTree(a.stdout, b)
	case "json":
		if err := syntax.FprintJSON(a.stdout, b); err != nil {
			return usageError(fmt.Errorf("write json: %w", err))
		}
	default:
		syntax.Fprint(a.stdout, b)
		fmt.Fprintln(a.stdout)
	}
	return nil
}
