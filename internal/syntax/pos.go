package syntax

import "fmt"

// Pos represents a position in a source buffer.
// The zero value is an invalid position.
type Pos struct {
	line uint32 // 1-based line number
	col  uint32 // 1-based column number (byte offset in line)
	span uint32 // length of the token or node in bytes
}

// NewPos creates a new Pos with the given line, column and span.
// Line and column numbers are 1-based.
func NewPos(line, col, span uint32) Pos {
	return Pos{line: line, col: col, span: span}
}

// String returns the position in the format "line:col".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is valid.
// A position is valid if line > 0.
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Line returns the 1-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the 1-based column number (byte offset in line).
func (p Pos) Col() uint32 {
	return p.col
}

// Span returns the length in bytes covered by the position.
func (p Pos) Span() uint32 {
	return p.span
}

// WithSpan returns a copy of p covering span bytes.
func (p Pos) WithSpan(span uint32) Pos {
	p.span = span
	return p
}
