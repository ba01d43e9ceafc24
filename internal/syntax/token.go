// Package syntax implements lexical analysis and parsing for the cimi
// scripting language.
package syntax

import (
	"fmt"
	"strings"
)

// TokenKind represents the kind of a lexical token.
type TokenKind uint

const (
	// Special tokens
	_Ident   TokenKind = iota // identifier: foo, bar.baz
	_EOF                      // end of file
	_Invalid                  // never produced by the lexer
	_Newline                  // \n

	// Literals
	_LiteralString  // "hello"
	_LiteralChar    // 'c'
	_LiteralNumber  // 123, 1_000, 3.14
	_LiteralBoolean // true, false

	// Keywords
	_Let
	_Const
	_Echo
	_Read
	_And
	_Or
	_Not
	_If
	_Then
	_Else
	_End
	_Switch
	_Case
	_Default
	_While
	_For
	_Fn
	_Return
	_Include
	_Export
	_Break
	_Continue

	// Type names
	_Int
	_Float
	_Bool
	_String
	_Char
	_Null

	// Separators
	_Lparen    // (
	_Rparen    // )
	_Lbrack    // [
	_Rbrack    // ]
	_Lbrace    // {
	_Rbrace    // }
	_Comma     // ,
	_Colon     // :
	_Semicolon // ;

	// Operators
	_Add     // +
	_Sub     // -
	_Mul     // *
	_Div     // /
	_Percent // %
	_Caret   // ^
	_Tilde   // ~
	_Lt      // <
	_Gt      // >
	_Leq     // <=
	_Geq     // >=
	_Eq      // ==
	_Neq     // !=
	_Assign  // =
	_Shr     // >>
	_Shl     // <<

	_AddAssign // +=
	_SubAssign // -=
	_MulAssign // *=
	_DivAssign // /=

	tokenCount
)

// tokenNames maps token kinds to the short names used in diagnostics.
var tokenNames = [...]string{
	_Ident:   "ident",
	_EOF:     "eof",
	_Invalid: "invalid",
	_Newline: "newline",

	_LiteralString:  "literal_string",
	_LiteralChar:    "literal_char",
	_LiteralNumber:  "literal_number",
	_LiteralBoolean: "literal_boolean",

	_Let:      "let",
	_Const:    "const",
	_Echo:     "echo",
	_Read:     "read",
	_And:      "and",
	_Or:       "or",
	_Not:      "not",
	_If:       "if",
	_Then:     "then",
	_Else:     "else",
	_End:      "end",
	_Switch:   "switch",
	_Case:     "case",
	_Default:  "default",
	_While:    "while",
	_For:      "for",
	_Fn:       "fn",
	_Return:   "return",
	_Include:  "include",
	_Export:   "export",
	_Break:    "break",
	_Continue: "continue",

	_Int:    "int",
	_Float:  "float",
	_Bool:   "bool",
	_String: "string",
	_Char:   "char",
	_Null:   "null",

	_Lparen:    "lparen",
	_Rparen:    "rparen",
	_Lbrack:    "lbracket",
	_Rbrack:    "rbracket",
	_Lbrace:    "lcurly",
	_Rbrace:    "rcurly",
	_Comma:     "comma",
	_Colon:     "colon",
	_Semicolon: "semicolon",

	_Add:     "add",
	_Sub:     "sub",
	_Mul:     "mul",
	_Div:     "div",
	_Percent: "percent",
	_Caret:   "caret",
	_Tilde:   "tilde",
	_Lt:      "lt",
	_Gt:      "gt",
	_Leq:     "leq",
	_Geq:     "geq",
	_Eq:      "eq",
	_Neq:     "neq",
	_Assign:  "assign",
	_Shr:     "shr",
	_Shl:     "shl",

	_AddAssign: "add_assign",
	_SubAssign: "sub_assign",
	_MulAssign: "mul_assign",
	_DivAssign: "div_assign",
}

// String returns the short name of the token kind.
func (k TokenKind) String() string {
	if k < tokenCount {
		return tokenNames[k]
	}
	return fmt.Sprintf("token(%d)", k)
}

// IsKeyword reports whether k is a keyword token (type names included).
func (k TokenKind) IsKeyword() bool {
	return k >= _Let && k <= _Null
}

// IsTypeName reports whether k names a primitive type.
func (k TokenKind) IsTypeName() bool {
	return k >= _Int && k <= _Null
}

// IsLiteral reports whether k is a literal token.
func (k TokenKind) IsLiteral() bool {
	return k >= _LiteralString && k <= _LiteralBoolean
}

// IsOperator reports whether k is an operator token.
func (k TokenKind) IsOperator() bool {
	return k >= _Add && k <= _DivAssign
}

// IsSeparator reports whether k is a separator token.
func (k TokenKind) IsSeparator() bool {
	return k >= _Lparen && k <= _Semicolon
}

// IsEOF reports whether k is the EOF token.
func (k TokenKind) IsEOF() bool {
	return k == _EOF
}

// HasPayload reports whether tokens of kind k carry a string payload.
func (k TokenKind) HasPayload() bool {
	switch k {
	case _Ident, _LiteralString, _LiteralChar, _LiteralNumber:
		return true
	}
	return false
}

// Token is a classified, positioned lexical unit.
type Token struct {
	Kind TokenKind
	Pos  Pos
	Lit  string // payload of identifiers and string-like literals
	Bool bool   // payload of boolean literals
}

// NewIdentToken returns an identifier token for name.
func NewIdentToken(pos Pos, name string) Token {
	return Token{Kind: _Ident, Pos: pos, Lit: name}
}

// String returns the long debug form of the token.
func (t Token) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "token[%d, %d, %d]: ", t.Pos.line, t.Pos.col, t.Pos.span)
	switch t.Kind {
	case _Ident:
		fmt.Fprintf(&b, "(%s)", t.Lit)
	case _LiteralString:
		fmt.Fprintf(&b, "\"%s\"", t.Lit)
	case _LiteralChar:
		fmt.Fprintf(&b, "'%s'", t.Lit)
	case _LiteralNumber:
		b.WriteString(t.Lit)
	case _LiteralBoolean:
		if t.Bool {
			b.WriteString("<true>")
		} else {
			b.WriteString("<false>")
		}
	default:
		fmt.Fprintf(&b, "<%s>", t.Kind)
	}
	return b.String()
}

// keywords maps lower-case keyword spellings to their token kind.
// It is never written after package initialization.
var keywords = map[string]TokenKind{
	"let":      _Let,
	"const":    _Const,
	"echo":     _Echo,
	"read":     _Read,
	"and":      _And,
	"or":       _Or,
	"not":      _Not,
	"if":       _If,
	"then":     _Then,
	"else":     _Else,
	"end":      _End,
	"switch":   _Switch,
	"case":     _Case,
	"default":  _Default,
	"while":    _While,
	"for":      _For,
	"fn":       _Fn,
	"return":   _Return,
	"include":  _Include,
	"export":   _Export,
	"break":    _Break,
	"continue": _Continue,
	"int":      _Int,
	"float":    _Float,
	"bool":     _Bool,
	"string":   _String,
	"char":     _Char,
	"null":     _Null,
}

// LookupKeyword returns the keyword kind for word and true, or _Invalid
// and false. Matching is case-insensitive.
func LookupKeyword(word string) (TokenKind, bool) {
	k, ok := keywords[strings.ToLower(word)]
	if !ok {
		return _Invalid, false
	}
	return k, true
}
