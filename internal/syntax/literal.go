package syntax

import (
	"errors"
	"strconv"
	"strings"
)

// Literal parses a literal: null, a character, a string, a number or a
// boolean. A malformed literal is diagnosed and yields nil; an over-long
// character literal is diagnosed but still yields its first character.
func (p *Parser) Literal() *Literal {
	t, ok := p.peek()
	if !ok {
		p.diagAt(p.endPos(), "expected literal, but got no token")
		return nil
	}

	switch t.Kind {
	case _Null:
		p.consume()
		return NewNullLiteral(t.Pos)
	case _LiteralChar:
		p.consume()
		return p.charLiteral(t)
	case _LiteralString:
		p.consume()
		return p.stringLiteral(t)
	case _LiteralNumber:
		p.consume()
		return p.numberLiteral(t)
	case _LiteralBoolean:
		p.consume()
		return NewBoolLiteral(t.Pos, t.Bool)
	}

	p.diagAt(t.Pos, "expected literal, but found %s", t.Kind)
	return nil
}

func (p *Parser) charLiteral(t Token) *Literal {
	lit := t.Lit
	if lit == "" {
		p.diag("empty character literal")
		return nil
	}

	c, n := lit[0], 1
	if c == '\\' {
		if len(lit) < 2 {
			p.diag("unterminated escape sequence in character literal")
			return nil
		}
		r, ok := unescape(lit[1])
		if !ok {
			p.diag("invalid escape sequence \\%c in character literal", lit[1])
			return nil
		}
		c, n = r, 2
	}
	if len(lit) > n {
		p.diag("character literal is too long")
	}
	return NewCharLiteral(t.Pos, c)
}

func (p *Parser) stringLiteral(t Token) *Literal {
	lit := t.Lit
	if strings.IndexByte(lit, '\\') < 0 {
		return NewStringLiteral(t.Pos, lit)
	}

	var b strings.Builder
	b.Grow(len(lit))
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c == '\\' {
			if i+1 == len(lit) {
				p.diag("unterminated escape sequence in string literal")
				return nil
			}
			i++
			r, ok := unescape(lit[i])
			if !ok {
				p.diag("invalid escape sequence \\%c in string literal", lit[i])
				return nil
			}
			c = r
		}
		b.WriteByte(c)
	}
	return NewStringLiteral(t.Pos, b.String())
}

// unescape resolves the character following a backslash.
func unescape(c byte) (byte, bool) {
	switch c {
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'e':
		return 0x1b, true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '\\', '\'', '"':
		return c, true
	}
	return 0, false
}

// numberLiteral converts a number token. A literal made only of digits and
// underscores (never leading) is an integer; anything else is converted as
// a float, and the first byte the conversion cannot consume is diagnosed.
func (p *Parser) numberLiteral(t Token) *Literal {
	digits, offsets := stripSeparators(t.Lit)

	if isIntLiteral(t.Lit) {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				p.diag("integer literal %s is too large or too small", t.Lit)
			} else {
				p.diag("malformed integer literal %s", t.Lit)
			}
			return nil
		}
		return NewIntLiteral(t.Pos, v)
	}

	n := floatPrefix(digits)
	if n < len(digits) {
		off := offsets[n]
		pos := NewPos(t.Pos.Line(), t.Pos.Col()+uint32(off), 1)
		p.diagAt(pos, "invalid character %q in number literal %s", t.Lit[off], t.Lit)
		return nil
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.diag("float literal %s is too large or too small", t.Lit)
		} else {
			p.diag("malformed float literal %s", t.Lit)
		}
		return nil
	}
	return NewFloatLiteral(t.Pos, v)
}

// isIntLiteral reports whether s is a non-empty run of digits and
// underscores that does not start with an underscore.
func isIntLiteral(s string) bool {
	if s == "" || s[0] == '_' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && s[i] != '_' {
			return false
		}
	}
	return true
}

// stripSeparators removes underscores after the first byte and returns the
// remaining bytes together with each byte's offset in s.
func stripSeparators(s string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		if i > 0 && s[i] == '_' {
			continue
		}
		b.WriteByte(s[i])
		offsets = append(offsets, i)
	}
	return b.String(), offsets
}

// floatPrefix returns the length of the longest prefix of s of the form
// digits [ "." digits ] containing at least one digit, or 0.
func floatPrefix(s string) int {
	i, ndigits := 0, 0
	for i < len(s) && isDigit(s[i]) {
		i++
		ndigits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			ndigits++
		}
		if ndigits > 0 {
			return j
		}
	}
	if ndigits == 0 {
		return 0
	}
	return i
}
