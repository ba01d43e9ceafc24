// Command cimi tokenizes and parses cimi programs.
//
// Usage:
//
//	cimi [flags] [file]          parse a file (or one line of stdin) and print the AST
//	cimi parse [flags] [file]    same as above
//	cimi tokens [file]           print the token stream
//	cimi watch <file>            re-parse a file whenever it changes
//	cimi config                  print the effective configuration
//	cimi doctor                  check the environment
//	cimi version                 print version information
//
// Exit status is 0 on success, 1 if the input has lexical or syntax errors,
// 2 on usage, configuration or I/O errors and 3 on internal errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/cimi-lang/cimi/internal/syntax"
)

// Version information
const Version = "0.1.0"

// Exit codes
const (
	exitOK       = 0
	exitUser     = 1 // lexical or syntax errors in the input
	exitUsage    = 2 // bad flags, configuration or I/O
	exitInternal = 3 // a bug in cimi
)

// exitError carries an exit code out of a command. If reported is set the
// error has already been printed.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErrorf(format string, args ...any) error {
	return &exitError{code: exitUser, err: fmt.Errorf(format, args...), reported: true}
}

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	defer a.close()
	return a.guard(func() int { return a.execute(args) })
}

// guard runs fn and turns an internal error panic into exitInternal.
// Other panics are not recovered.
func (a *app) guard(fn func() int) (code int) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ierr, ok := r.(*syntax.InternalError)
		if !ok {
			panic(r)
		}
		a.printer().Internal(ierr, debug.Stack())
		code = exitInternal
	}()
	return fn()
}

func (a *app) execute(args []string) int {
	root := a.rootCmd()
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var eerr *exitError
	if !errors.As(err, &eerr) {
		// Errors from cobra itself: unknown flags, wrong argument counts.
		a.printer().Errorf("%v", err)
		fmt.Fprintf(a.stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return exitUsage
	}
	if !eerr.reported {
		a.printer().Errorf("%v", eerr.err)
	}
	return eerr.code
}
