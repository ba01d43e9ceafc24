package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cimi-lang/cimi/internal/config"
	"github.com/cimi-lang/cimi/internal/diag"
	"github.com/spf13/cobra"
)

// minGoVersion is the oldest Go release cimi is tested with.
const minGoVersion = ">= 1.21"

func (a *app) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the Go runtime, configuration and terminal",
		Args:  cobra.NoArgs,
		// Reports configuration problems instead of failing on them.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.runDoctor() {
				return &exitError{code: exitUser, err: fmt.Errorf("doctor found problems"), reported: true}
			}
			return nil
		},
	}
}

// runDoctor prints one line per check and reports whether all passed.
func (a *app) runDoctor() bool {
	w := a.stdout
	fmt.Fprintln(w, "cimi doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOk := true
	check := func(label, detail string, ok bool, hint string) {
		fmt.Fprintf(w, "%-8s %s", label+":", detail)
		if ok {
			fmt.Fprintln(w, " ✓")
			return
		}
		fmt.Fprintf(w, " ✗ (%s)\n", hint)
		allOk = false
	}

	goVersion := runtime.Version()
	check("Go", goVersion, checkGoVersion(goVersion), "need "+minGoVersion)

	cfg, err := a.doctorConfig()
	switch {
	case err != nil:
		check("Config", firstLine(err.Error()), false, "fix the configuration file")
	case cfg.Path() == "":
		check("Config", "none found, using defaults", true, "")
	default:
		check("Config", cfg.Path(), true, "")
	}

	if cfg != nil && cfg.Requires != "" {
		err := cfg.CheckVersion(Version)
		check("Version", fmt.Sprintf("%s, requires %q", Version, cfg.Requires), err == nil, "upgrade cimi or relax requires")
	} else {
		check("Version", Version, true, "")
	}

	if diag.NewPrinter(a.stderr, diag.Auto).Colored() {
		fmt.Fprintf(w, "%-8s %s\n", "Color:", "stderr is a terminal")
	} else {
		fmt.Fprintf(w, "%-8s %s\n", "Color:", "stderr is not a terminal, diagnostics are plain")
	}

	fmt.Fprintln(w)
	if allOk {
		fmt.Fprintln(w, "Everything looks good.")
	} else {
		fmt.Fprintln(w, "Some checks failed.")
	}
	return allOk
}

func (a *app) doctorConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Resolve(a.cfgFile, wd)
}

// checkGoVersion reports whether a runtime.Version string such as
// "go1.23.3" satisfies minGoVersion. Development builds fail the check.
func checkGoVersion(v string) bool {
	if !strings.HasPrefix(v, "go") {
		return false
	}
	v = strings.TrimPrefix(v, "go")
	if i := strings.IndexAny(v, " -"); i >= 0 {
		v = v[:i]
	}

	sv, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(minGoVersion)
	if err != nil {
		return false
	}
	return c.Check(sv)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
