package syntax

// source is a byte cursor over an in-memory buffer with line tracking.
type source struct {
	buf []byte // source buffer

	cur int    // current byte offset in buf
	row uint32 // current line number (1-based)
	bol int    // offset of the first byte of the current line
}

func newSource(buf []byte) source {
	return source{buf: buf, row: 1}
}

// rewind moves the cursor back to the start of the buffer.
func (s *source) rewind() {
	s.cur = 0
	s.row = 1
	s.bol = 0
}

// atEOF reports whether the cursor is past the last byte.
func (s *source) atEOF() bool {
	return s.cur >= len(s.buf)
}

// ch returns the current byte, or 0 at end of buffer.
func (s *source) ch() byte {
	if s.cur < len(s.buf) {
		return s.buf[s.cur]
	}
	return 0
}

// hasPrefix reports whether the bytes at the cursor start with p.
func (s *source) hasPrefix(p string) bool {
	if s.cur+len(p) > len(s.buf) {
		return false
	}
	return string(s.buf[s.cur:s.cur+len(p)]) == p
}

// newline records a line break at the cursor and steps over it.
func (s *source) newline() {
	s.row++
	s.cur++
	s.bol = s.cur
}

// posAt returns the position of offset off (on the current line)
// covering span bytes.
func (s *source) posAt(off, span int) Pos {
	return NewPos(s.row, uint32(off-s.bol+1), uint32(span))
}

// Character classification helpers

// isSpace reports whether c is ASCII whitespace other than '\n'.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

// isDigit reports whether c is a decimal digit (0-9).
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isAlpha reports whether c is an ASCII letter.
func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// isSeparator reports whether c is a separator character.
func isSeparator(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', ';', ':', ',':
		return true
	}
	return false
}

// isOperatorStart reports whether c can start an operator.
func isOperatorStart(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '=', '<', '>', '^', '!', '%', '~':
		return true
	}
	return false
}

// isQuote reports whether c delimits a string or character literal.
func isQuote(c byte) bool {
	return c == '"' || c == '\''
}
