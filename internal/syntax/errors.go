package syntax

import "fmt"

// LexErrorKind classifies lexer failures.
type LexErrorKind uint8

const (
	_ LexErrorKind = iota
	UnterminatedLiteral
	UnexpectedEOF
	BadEscape
	MismatchedDelimiter
	InvalidIdentifier
	CharLiteralTooLong
)

var lexErrorMessages = [...]string{
	0:                   "(no error)",
	UnterminatedLiteral: "unterminated string or character literal",
	UnexpectedEOF:       "unexpected end of file",
	BadEscape:           "bad escape sequence",
	MismatchedDelimiter: "mismatched delimiter in delimited literal",
	InvalidIdentifier:   "invalid identifier",
	CharLiteralTooLong:  "character literal is too long",
}

// String returns the human-readable description of the error kind.
func (k LexErrorKind) String() string {
	if int(k) < len(lexErrorMessages) {
		return lexErrorMessages[k]
	}
	return fmt.Sprintf("LexErrorKind(%d)", k)
}

// LexError is a positioned lexer failure. It ends the current
// tokenization pass.
type LexError struct {
	Kind LexErrorKind
	Pos  Pos
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Kind.String()
}

// SyntaxError represents a parser diagnostic.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// InternalError reports a broken internal invariant: a defect in the
// front end rather than in the program being parsed. It is raised with
// panic and is only recovered at the command boundary.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}

func internalErrorf(format string, args ...any) {
	panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
}
