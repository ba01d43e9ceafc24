// Package diag renders cimi diagnostics for people.
//
// Syntax and lexer errors are printed as
//
//	error: file:line:col: message
//
// followed by the offending source line and a caret marker when the
// source is known. Internal errors use a distinct "internal error:" prefix
// and carry a stack trace.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cimi-lang/cimi/internal/syntax"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects when output is coloured.
type Mode string

const (
	Auto   Mode = "auto"   // colour when writing to a terminal
	Always Mode = "always" // colour unconditionally
	Never  Mode = "never"  // plain text
)

// ParseMode parses a colour mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case Auto, Always, Never:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

var (
	colorError    = lipgloss.Color("#EF4444")
	colorInternal = lipgloss.Color("#D946EF")
	colorMuted    = lipgloss.Color("#6B7280")
	colorCaret    = lipgloss.Color("#10B981")
)

type styles struct {
	label    lipgloss.Style
	internal lipgloss.Style
	location lipgloss.Style
	excerpt  lipgloss.Style
	caret    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		label:    r.NewStyle().Bold(true).Foreground(colorError),
		internal: r.NewStyle().Bold(true).Foreground(colorInternal),
		location: r.NewStyle().Bold(true),
		excerpt:  r.NewStyle().Foreground(colorMuted),
		caret:    r.NewStyle().Bold(true).Foreground(colorCaret),
	}
}

// Printer writes diagnostics to a stream and counts them.
// A Printer is not safe for concurrent use.
type Printer struct {
	w      io.Writer
	color  bool
	styles styles

	file  string
	lines [][]byte // source lines, if known

	count int
}

// NewPrinter returns a Printer writing to w. In Auto mode colour is used
// only if w is a terminal and NO_COLOR is unset.
func NewPrinter(w io.Writer, mode Mode) *Printer {
	color := false
	switch mode {
	case Always:
		color = true
	case Auto:
		color = isTerminal(w) && os.Getenv("NO_COLOR") == ""
	}

	p := &Printer{w: w, color: color}
	if color {
		r := lipgloss.NewRenderer(w)
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
		p.styles = newStyles(r)
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Colored reports whether the printer emits ANSI escape sequences.
func (p *Printer) Colored() bool {
	return p.color
}

// SetSource sets the file name used in locations and the source used for
// excerpts. src may be nil.
func (p *Printer) SetSource(file string, src []byte) {
	p.file = file
	p.lines = bytes.Split(src, []byte("\n"))
	if src == nil {
		p.lines = nil
	}
}

// Count returns the number of errors printed so far.
func (p *Printer) Count() int {
	return p.count
}

// Syntax prints a parser diagnostic. Its signature matches
// syntax.ErrorHandler.
func (p *Printer) Syntax(pos syntax.Pos, msg string) {
	p.count++
	p.header("error:", p.styles.label, pos, msg)
	p.excerpt(pos)
}

// Lex prints a lexer error.
func (p *Printer) Lex(err *syntax.LexError) {
	p.Syntax(err.Pos, err.Kind.String())
}

// Errorf prints an error that has no source position.
func (p *Printer) Errorf(format string, args ...any) {
	p.count++
	fmt.Fprintf(p.w, "%s %s\n", p.style(p.styles.label, "error:"), fmt.Sprintf(format, args...))
}

// Internal prints an internal error together with a stack trace.
func (p *Printer) Internal(err error, stack []byte) {
	p.count++
	msg := strings.TrimPrefix(err.Error(), "internal error: ")
	fmt.Fprintf(p.w, "%s %s\n", p.style(p.styles.internal, "internal error:"), msg)
	fmt.Fprintln(p.w, "this is a bug in cimi; please report it with the input that caused it")
	for _, line := range strings.Split(strings.TrimRight(string(stack), "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(p.w, "\t%s\n", line)
		}
	}
}

func (p *Printer) header(label string, st lipgloss.Style, pos syntax.Pos, msg string) {
	loc := pos.String()
	if p.file != "" {
		loc = p.file + ":" + loc
	}
	fmt.Fprintf(p.w, "%s %s %s\n", p.style(st, label), p.style(p.styles.location, loc+":"), msg)
}

// excerpt prints the source line holding pos with a marker under the
// covered bytes.
func (p *Printer) excerpt(pos syntax.Pos) {
	if !pos.IsValid() || int(pos.Line()) > len(p.lines) {
		return
	}
	line := strings.TrimRight(string(p.lines[pos.Line()-1]), "\r")
	col := int(pos.Col())
	if col < 1 || col > len(line)+1 {
		return
	}

	span := int(pos.Span())
	if span < 1 {
		span = 1
	}
	if rest := len(line) - col + 1; span > rest && rest > 0 {
		span = rest
	}

	// Keep tabs so the marker lines up with the source.
	var pad strings.Builder
	for _, c := range []byte(line[:col-1]) {
		if c == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	marker := "^" + strings.Repeat("~", span-1)
	fmt.Fprintf(p.w, "  %s\n", p.style(p.styles.excerpt, line))
	fmt.Fprintf(p.w, "  %s%s\n", pad.String(), p.style(p.styles.caret, marker))
}

func (p *Printer) style(st lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return st.Render(s)
}
