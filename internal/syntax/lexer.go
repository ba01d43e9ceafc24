package syntax

// doubleSymbols holds the two-character operators. They win over the
// single-character table (maximal munch).
var doubleSymbols = map[string]TokenKind{
	"==": _Eq,
	">=": _Geq,
	"<=": _Leq,
	"!=": _Neq,
	">>": _Shr,
	"<<": _Shl,
	"+=": _AddAssign,
	"-=": _SubAssign,
	"*=": _MulAssign,
	"/=": _DivAssign,
}

// singleSymbols maps separator and operator characters to their kind.
var singleSymbols = [256]TokenKind{
	'{': _Lbrace,
	'}': _Rbrace,
	'[': _Lbrack,
	']': _Rbrack,
	'(': _Lparen,
	')': _Rparen,
	':': _Colon,
	',': _Comma,
	';': _Semicolon,
	'<': _Lt,
	'>': _Gt,
	'=': _Assign,
	'*': _Mul,
	'/': _Div,
	'+': _Add,
	'-': _Sub,
	'^': _Caret,
	'%': _Percent,
	'~': _Tilde,
}

// Lexer turns a source buffer into tokens, one per call to Next.
// A Lexer is not safe for concurrent use; separate Lexers are.
type Lexer struct {
	source

	tok Token     // current token
	err *LexError // error from the last call to Next, if any
}

// NewLexer creates a Lexer reading src. The buffer must not be modified
// while the Lexer is in use.
func NewLexer(src []byte) *Lexer {
	return &Lexer{source: newSource(src)}
}

// Next scans the next token. It returns false if a lexical error
// occurred; the error is available from Err and the caller must stop
// tokenizing. At end of input Next keeps producing EOF tokens.
func (l *Lexer) Next() bool {
	l.tok = Token{}
	l.err = nil

	l.skipSpace()

	if l.atEOF() {
		l.tok = Token{Kind: _EOF, Pos: l.posAt(l.cur, 1)}
		return true
	}

	if l.ch() == '\n' {
		l.tok = Token{Kind: _Newline, Pos: l.posAt(l.cur, 1)}
		l.newline()
		return true
	}

	if l.scanDoubleSymbol() || l.scanSingleSymbol() {
		return true
	}

	start := l.cur
	word, ok := l.scanWord()
	if !ok {
		return false
	}
	return l.classify(start, word)
}

// Token returns the token produced by the last successful call to Next.
func (l *Lexer) Token() Token {
	return l.tok
}

// Err returns the error from the last call to Next, or nil.
func (l *Lexer) Err() *LexError {
	return l.err
}

// Reset rewinds the lexer to the start of its buffer.
func (l *Lexer) Reset() {
	l.rewind()
	l.tok = Token{}
	l.err = nil
}

// Tokenize scans src up to and including the first EOF token.
// On a lexical error it returns the tokens scanned so far and the
// *LexError.
func Tokenize(src []byte) ([]Token, error) {
	l := NewLexer(src)
	var toks []Token
	for {
		if !l.Next() {
			return toks, l.Err()
		}
		toks = append(toks, l.tok)
		if l.tok.Kind == _EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) fail(kind LexErrorKind, off, span int) bool {
	if span < 1 {
		span = 1
	}
	l.err = &LexError{Kind: kind, Pos: l.posAt(off, span)}
	return false
}

// skipSpace skips whitespace other than newlines, and comments.
// An unterminated block comment runs to the end of the buffer.
func (l *Lexer) skipSpace() {
	for {
		for !l.atEOF() && isSpace(l.ch()) {
			l.cur++
		}

		switch {
		case l.hasPrefix("//"):
			l.cur += 2
			for !l.atEOF() && l.ch() != '\n' {
				l.cur++
			}

		case l.hasPrefix("/*"):
			l.cur += 2
			for !l.atEOF() && !l.hasPrefix("*/") {
				if l.ch() == '\n' {
					l.newline()
				} else {
					l.cur++
				}
			}
			if !l.atEOF() {
				l.cur += 2
			}

		default:
			return
		}
	}
}

func (l *Lexer) scanDoubleSymbol() bool {
	if !isOperatorStart(l.ch()) || l.cur+2 > len(l.buf) {
		return false
	}
	kind, ok := doubleSymbols[string(l.buf[l.cur:l.cur+2])]
	if !ok {
		return false
	}
	l.tok = Token{Kind: kind, Pos: l.posAt(l.cur, 2)}
	l.cur += 2
	return true
}

func (l *Lexer) scanSingleSymbol() bool {
	kind := singleSymbols[l.ch()]
	if kind == 0 {
		// _Ident is the zero kind and never appears in the table.
		return false
	}
	l.tok = Token{Kind: kind, Pos: l.posAt(l.cur, 1)}
	l.cur++
	return true
}

// scanWord scans a lexeme: a quoted literal including its quotes, or a
// run of bytes up to the next operator, separator or whitespace. A
// backslash takes the following byte verbatim.
func (l *Lexer) scanWord() (string, bool) {
	start := l.cur

	if delim := l.ch(); isQuote(delim) {
		l.cur++
		for !l.atEOF() {
			c := l.ch()
			if c == '\\' {
				l.cur += 2
				continue
			}
			if c == '\n' || c == '\r' || isQuote(c) {
				break
			}
			l.cur++
		}
		if l.cur > len(l.buf) {
			l.cur = len(l.buf)
		}
		if l.atEOF() || l.ch() != delim {
			kind := UnterminatedLiteral
			if !l.atEOF() && isQuote(l.ch()) {
				kind = MismatchedDelimiter
			}
			return "", l.fail(kind, start, l.cur-start)
		}
		l.cur++
		return string(l.buf[start:l.cur]), true
	}

	for !l.atEOF() {
		c := l.ch()
		if c == '\\' {
			if l.cur+1 >= len(l.buf) {
				return "", l.fail(UnexpectedEOF, l.cur, 1)
			}
			l.cur += 2
			continue
		}
		if l.cur > start && (isOperatorStart(c) || isSeparator(c) || isSpace(c) || c == '\n') {
			break
		}
		l.cur++
	}
	return string(l.buf[start:l.cur]), true
}

// classify turns a scanned word into a keyword, literal or identifier
// token, in that order of precedence.
func (l *Lexer) classify(start int, word string) bool {
	pos := l.posAt(start, len(word))

	if kind, ok := LookupKeyword(word); ok {
		l.tok = Token{Kind: kind, Pos: pos}
		return true
	}

	switch {
	case isQuote(word[0]):
		return l.quoted(start, word, pos)

	case isNumber(word):
		l.tok = Token{Kind: _LiteralNumber, Pos: pos, Lit: word}
		return true

	case word == "true" || word == "false":
		l.tok = Token{Kind: _LiteralBoolean, Pos: pos, Bool: word == "true"}
		return true

	case isIdent(word):
		l.tok = Token{Kind: _Ident, Pos: pos, Lit: word}
		return true
	}

	return l.fail(InvalidIdentifier, start, len(word))
}

// quoted validates a quoted literal. The token keeps the raw body
// between the quotes; escapes are resolved by the parser.
func (l *Lexer) quoted(start int, word string, pos Pos) bool {
	body := word[1 : len(word)-1]

	n := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			if i+1 == len(body) {
				return l.fail(BadEscape, start, len(word))
			}
			i++
		}
		n++
	}

	kind := _LiteralString
	if word[0] == '\'' {
		kind = _LiteralChar
		if n > 1 {
			return l.fail(CharLiteralTooLong, start, len(word))
		}
	}

	l.tok = Token{Kind: kind, Pos: pos, Lit: body}
	return true
}

// isNumber reports whether word is made of digits with at most one '.'
// and '_' separators after the first byte.
func isNumber(word string) bool {
	dot := false
	for i := 0; i < len(word); i++ {
		switch c := word[i]; {
		case isDigit(c):
		case c == '_':
			if i == 0 {
				return false
			}
		case c == '.':
			if dot {
				return false
			}
			dot = true
		default:
			return false
		}
	}
	return true
}

// isIdent reports whether word starts with a letter and continues with
// letters, digits, '_' or '.'.
func isIdent(word string) bool {
	if word == "" || !isAlpha(word[0]) {
		return false
	}
	for i := 1; i < len(word); i++ {
		c := word[i]
		if !isAlpha(c) && !isDigit(c) && c != '_' && c != '.' {
			return false
		}
	}
	return true
}
