package syntax

import (
	"fmt"
	"strings"
)

// Maximum number of tokens the parser skips while recovering from errors
// before it gives up.
const maxRecovery = 20

// ErrorHandler receives parser diagnostics.
type ErrorHandler func(pos Pos, msg string)

// Parser builds an AST from a fully tokenized buffer.
// A Parser is not safe for concurrent use.
type Parser struct {
	filename string
	toks     []Token
	cur      int // index of the current token

	// Error handling
	errh     ErrorHandler
	errcnt   int
	reported bool
	first    error // first diagnostic
	recovery int   // tokens skipped while recovering
	abort    bool  // set once recovery gave up
}

// NewParser creates a Parser over toks, normally the output of Tokenize.
// Diagnostics are passed to errh; if errh is nil they are only counted.
func NewParser(filename string, toks []Token, errh ErrorHandler) *Parser {
	return &Parser{
		filename: filename,
		toks:     toks,
		errh:     errh,
	}
}

// Filename returns the file name diagnostics refer to.
func (p *Parser) Filename() string {
	return p.filename
}

// ----------------------------------------------------------------------------
// Token navigation

// peek returns the current token.
func (p *Parser) peek() (Token, bool) {
	return p.get(p.cur)
}

// peekNext returns the token after the current one.
func (p *Parser) peekNext() (Token, bool) {
	return p.get(p.cur + 1)
}

// prev returns the most recently consumed token.
func (p *Parser) prev() (Token, bool) {
	return p.get(p.cur - 1)
}

// get returns the token at index i.
func (p *Parser) get(i int) (Token, bool) {
	if i < 0 || i >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[i], true
}

// consume advances past the current token and returns it.
func (p *Parser) consume() (Token, bool) {
	t, ok := p.peek()
	if ok {
		p.cur++
	}
	return t, ok
}

// check reports whether the current token is of kind k.
func (p *Parser) check(k TokenKind) bool {
	t, ok := p.peek()
	return ok && t.Kind == k
}

// checkAndConsume consumes the current token if it is of kind k.
func (p *Parser) checkAndConsume(k TokenKind) (Token, bool) {
	if !p.check(k) {
		return Token{}, false
	}
	return p.consume()
}

// peekAndExpect returns the current token if it is of kind k.
// Otherwise, it reports a diagnostic.
func (p *Parser) peekAndExpect(k TokenKind) (Token, bool) {
	t, ok := p.peek()
	switch {
	case !ok:
		p.diagAt(p.endPos(), "expected token %s, but got no token", k)
	case t.Kind == _EOF && k != _EOF:
		p.diagAt(t.Pos, "expected token %s, but reached end of file", k)
	case t.Kind != k:
		p.diagAt(t.Pos, "expected token %s, but found %s", k, t.Kind)
	default:
		return t, true
	}
	return Token{}, false
}

// consumeAndExpect is like peekAndExpect but consumes the token on a match.
func (p *Parser) consumeAndExpect(k TokenKind) (Token, bool) {
	if _, ok := p.peekAndExpect(k); !ok {
		return Token{}, false
	}
	return p.consume()
}

// skipNewlines consumes any newline tokens at the cursor.
func (p *Parser) skipNewlines() {
	for p.check(_Newline) {
		p.consume()
	}
}

// endPos returns the position of the last token, for diagnostics issued
// after the stream is exhausted.
func (p *Parser) endPos() Pos {
	if len(p.toks) == 0 {
		return NewPos(1, 1, 1)
	}
	return p.toks[len(p.toks)-1].Pos
}

// ----------------------------------------------------------------------------
// Error handling

// diag reports a diagnostic at the previously consumed token.
// It must not be called before any token was consumed.
func (p *Parser) diag(format string, args ...any) {
	t, ok := p.prev()
	if !ok {
		internalErrorf("diagnostic %q issued with no previous token", fmt.Sprintf(format, args...))
	}
	p.diagAt(t.Pos, format, args...)
}

// diagAt reports a diagnostic at pos. Diagnostics do not stop parsing.
func (p *Parser) diagAt(pos Pos, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++
	p.reported = true

	if p.errh != nil {
		p.errh(pos, msg)
	}
}

// unsupported reports a construct the grammar does not implement yet.
func (p *Parser) unsupported(pos Pos, what string) {
	p.diagAt(pos, "unsupported construct: %s", what)
}

// bumpRecovery records one token skipped for error recovery and reports
// whether the parser should give up.
func (p *Parser) bumpRecovery() bool {
	p.recovery++
	if p.recovery > maxRecovery && !p.abort {
		p.abort = true
		p.diagAt(p.endPos(), "too many errors; giving up")
	}
	return p.abort
}

// skipLine consumes tokens up to the end of the current line (or a block
// terminator). It returns false if recovery gave up.
func (p *Parser) skipLine() bool {
	for {
		t, ok := p.peek()
		if !ok || endsLine(t.Kind) {
			return true
		}
		if p.bumpRecovery() {
			return false
		}
		p.consume()
	}
}

func endsLine(k TokenKind) bool {
	switch k {
	case _Newline, _Semicolon, _EOF, _Else, _End:
		return true
	}
	return false
}

// Reported reports whether any diagnostic was issued.
func (p *Parser) Reported() bool {
	return p.reported
}

// Errors returns the number of diagnostics issued.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first diagnostic as a *SyntaxError, or nil.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a whole program: a block running to the end of input.
func (p *Parser) Parse() *Block {
	var pos Pos
	if t, ok := p.peek(); ok {
		pos = t.Pos
	}

	var items []BlockItem
	for !p.abort {
		b := p.Block()
		items = append(items, b.Items...)
		if p.abort {
			break
		}

		t, ok := p.peek()
		if !ok || t.Kind == _EOF {
			break
		}
		// A stray "else" or "end" at top level.
		p.diagAt(t.Pos, "unexpected token %s", t.Kind)
		p.consume()
		if p.bumpRecovery() {
			break
		}
	}
	return NewBlock(pos, items)
}

// ----------------------------------------------------------------------------
// Blocks

// Block parses a sequence of newline- or semicolon-separated expressions,
// stopping before "else", "end" or end of input.
func (p *Parser) Block() *Block {
	b := NewBlock(Pos{}, nil)
	if t, ok := p.peek(); ok {
		b.pos = t.Pos
	}

	for !p.abort {
		t, ok := p.peek()
		if !ok {
			break
		}

		switch t.Kind {
		case _Newline, _Semicolon:
			p.consume()
			continue
		case _EOF, _Else, _End:
			return b
		}

		if isStatementKeyword(t.Kind) {
			p.consume()
			p.unsupported(t.Pos, t.Kind.String()+" statement")
			p.skipLine()
			continue
		}

		start := p.cur
		x := p.Expr()
		if x != nil {
			b.Items = append(b.Items, x)
			if next, ok := p.peek(); ok && !endsLine(next.Kind) {
				p.diagAt(next.Pos, "expected end of line after expression, but found %s", next.Kind)
				p.skipLine()
			}
			continue
		}

		if p.cur == start {
			p.diagAt(t.Pos, "unexpected token %s", t.Kind)
			p.consume()
			if p.bumpRecovery() {
				break
			}
		}
		p.skipLine()
	}
	return b
}

// isStatementKeyword reports whether k starts a statement form the
// grammar does not implement yet.
func isStatementKeyword(k TokenKind) bool {
	switch k {
	case _Let, _Const, _Echo, _Read, _Switch, _Case, _Default, _While,
		_For, _Fn, _Return, _Include, _Export, _Break, _Continue:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Identifiers and types

// Identifier parses an identifier.
func (p *Parser) Identifier() *Identifier {
	t, ok := p.consumeAndExpect(_Ident)
	if !ok {
		return nil
	}
	return NewIdentifier(t.Pos, strings.Clone(t.Lit))
}

// Type parses a type: a primitive type name or [Size]Elem.
func (p *Parser) Type() Type {
	t, ok := p.peek()
	if !ok {
		p.diagAt(p.endPos(), "expected type, but got no token")
		return nil
	}

	switch t.Kind {
	case _Int, _Float, _Char, _String, _Bool, _Null:
		p.consume()
		return NewPrimitiveType(t.Pos, primitiveOf(t.Kind))

	case _Ident:
		if strings.EqualFold(t.Lit, "any") {
			p.consume()
			return NewPrimitiveType(t.Pos, Any)
		}

	case _Lbrack:
		p.consume()
		size := p.Expr()
		if size == nil {
			p.diag("expected array size")
			return nil
		}
		if _, ok := p.consumeAndExpect(_Rbrack); !ok {
			return nil
		}
		elem := p.Type()
		if elem == nil {
			return nil
		}
		return NewArrayType(t.Pos, size, elem)
	}

	p.diagAt(t.Pos, "expected type, but found %s", t.Kind)
	return nil
}

func primitiveOf(k TokenKind) Primitive {
	switch k {
	case _Int:
		return Int
	case _Float:
		return Float
	case _Char:
		return Char
	case _String:
		return String
	case _Bool:
		return Bool
	case _Null:
		return Null
	}
	internalErrorf("token %s is not a type name", k)
	return Any
}

// ArgumentList parses (name: Type, name: Type, ...)
func (p *Parser) ArgumentList() *ArgumentList {
	lp, ok := p.consumeAndExpect(_Lparen)
	if !ok {
		return nil
	}

	var args []*FunctionArgument
	if _, ok := p.checkAndConsume(_Rparen); ok {
		return NewArgumentList(lp.Pos, args)
	}

	for {
		id := p.Identifier()
		if id == nil {
			return nil
		}
		if _, ok := p.consumeAndExpect(_Colon); !ok {
			return nil
		}
		t := p.Type()
		if t == nil {
			return nil
		}
		args = append(args, NewFunctionArgument(id.Pos(), id, t))

		if _, ok := p.checkAndConsume(_Comma); !ok {
			break
		}
	}

	if _, ok := p.consumeAndExpect(_Rparen); !ok {
		return nil
	}
	return NewArgumentList(lp.Pos, args)
}

// ----------------------------------------------------------------------------
// Expressions

// Expr parses an expression. It returns nil if no expression starts at
// the cursor or if the expression was malformed; in the latter case a
// diagnostic has been reported.
func (p *Parser) Expr() Expr {
	return p.assignment()
}

// assignment parses lhs = rhs (right associative).
func (p *Parser) assignment() Expr {
	x := p.binaryExpr(0)
	if x == nil {
		return nil
	}

	t, ok := p.peek()
	if !ok {
		return x
	}

	switch t.Kind {
	case _Assign:
		p.consume()
		lhs, isLvalue := x.(Lvalue)
		rhs := p.assignment()
		if !isLvalue {
			p.diagAt(x.Pos(), "cannot assign to %s", describe(x))
			return nil
		}
		if rhs == nil {
			p.diagAt(t.Pos, "expected expression after %s", t.Kind)
			return nil
		}
		return NewAssign(x.Pos(), lhs, rhs)

	case _AddAssign, _SubAssign, _MulAssign, _DivAssign:
		p.consume()
		p.unsupported(t.Pos, "compound assignment "+t.Kind.String())
		p.assignment()
		return nil
	}

	return x
}

// binaryOperator returns the AST operator and precedence of token kind k.
// Precedence levels (higher = binds tighter):
//
//	1: == != < > <= >=
//	2: + -
//	3: * /
//	4: ^ (right associative)
func binaryOperator(k TokenKind) (op BinaryOp, prec int, ok bool) {
	switch k {
	case _Eq:
		return Eq, 1, true
	case _Neq:
		return Neq, 1, true
	case _Lt:
		return Lt, 1, true
	case _Gt:
		return Gt, 1, true
	case _Leq:
		return Leq, 1, true
	case _Geq:
		return Geq, 1, true
	case _Add:
		return Add, 2, true
	case _Sub:
		return Sub, 2, true
	case _Mul:
		return Mul, 3, true
	case _Div:
		return Div, 3, true
	case _Caret:
		return Pow, 4, true
	}
	return 0, 0, false
}

// isUnsupportedOperator reports whether k is a binary operator token the
// AST has no node for yet.
func isUnsupportedOperator(k TokenKind) bool {
	switch k {
	case _Percent, _And, _Or, _Shl, _Shr, _Tilde:
		return true
	}
	return false
}

// binaryExpr parses a binary expression with minimum precedence prec,
// by precedence climbing.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()
	if x == nil {
		return nil
	}

	for {
		t, ok := p.peek()
		if !ok {
			return x
		}

		if isUnsupportedOperator(t.Kind) {
			p.consume()
			p.unsupported(t.Pos, "operator "+t.Kind.String())
			p.binaryExpr(prec)
			return nil
		}

		op, oprec, ok := binaryOperator(t.Kind)
		if !ok || oprec <= prec {
			return x
		}
		p.consume()

		next := oprec
		if op == Pow {
			next = oprec - 1
		}
		y := p.binaryExpr(next)
		if y == nil {
			p.diagAt(t.Pos, "expected expression after %s", t.Kind)
			return nil
		}
		x = NewBinaryExpr(x.Pos(), op, x, y)
	}
}

// unaryExpr parses -X, not X, or a postfix expression.
func (p *Parser) unaryExpr() Expr {
	t, ok := p.peek()
	if !ok {
		return nil
	}

	var op UnaryOp
	switch t.Kind {
	case _Sub:
		op = Negation
	case _Not:
		op = Not
	default:
		return p.postfixExpr()
	}

	p.consume()
	x := p.unaryExpr()
	if x == nil {
		p.diag("expected expression after %s", t.Kind)
		return nil
	}
	return NewUnaryExpr(t.Pos, op, x)
}

// postfixExpr parses a primary expression followed by index operations.
func (p *Parser) postfixExpr() Expr {
	x := p.primaryExpr()
	if x == nil {
		return nil
	}

	for {
		t, ok := p.peek()
		if !ok {
			return x
		}

		switch t.Kind {
		case _Lbrack:
			p.consume()
			index := p.Expr()
			if index == nil {
				p.diag("expected index expression")
				return nil
			}
			if _, ok := p.consumeAndExpect(_Rbrack); !ok {
				return nil
			}
			x = NewArrayIndex(x.Pos(), x, index)

		case _Lparen:
			if _, isName := x.(*Identifier); !isName {
				return x
			}
			p.unsupported(t.Pos, "function call")
			p.skipParens()
			return nil

		default:
			return x
		}
	}
}

// skipParens consumes a balanced parenthesized group on the current line.
func (p *Parser) skipParens() {
	depth := 0
	for {
		t, ok := p.peek()
		if !ok || t.Kind == _Newline || t.Kind == _EOF {
			return
		}
		if p.bumpRecovery() {
			return
		}
		p.consume()
		switch t.Kind {
		case _Lparen:
			depth++
		case _Rparen:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// primaryExpr parses a literal, identifier, parenthesized expression or
// if expression. It returns nil without a diagnostic if none starts here.
func (p *Parser) primaryExpr() Expr {
	t, ok := p.peek()
	if !ok {
		return nil
	}

	switch t.Kind {
	case _Null, _LiteralChar, _LiteralString, _LiteralNumber, _LiteralBoolean:
		if lit := p.Literal(); lit != nil {
			return lit
		}
		return nil

	case _Ident:
		return p.Identifier()

	case _Lparen:
		p.consume()
		x := p.Expr()
		if x == nil {
			p.diag("expected expression after (")
			return nil
		}
		if _, ok := p.consumeAndExpect(_Rparen); !ok {
			return nil
		}
		return NewUnaryExpr(t.Pos, Grouping, x)

	case _If:
		return p.ifExpr()
	}

	return nil
}

// ifExpr parses: if cond then block {else if cond then block} [else block] end
func (p *Parser) ifExpr() Expr {
	ifTok, _ := p.consume()

	var branches []*IfBranch
	kind, bpos := PrimaryBranch, ifTok.Pos
	for {
		cond := p.Expr()
		if cond == nil {
			p.diag("expected condition after if")
			return nil
		}
		p.skipNewlines()
		if _, ok := p.consumeAndExpect(_Then); !ok {
			return nil
		}
		branches = append(branches, NewIfBranch(bpos, kind, cond, p.Block()))

		elseTok, ok := p.checkAndConsume(_Else)
		if !ok {
			break
		}
		if _, ok := p.checkAndConsume(_If); ok {
			kind, bpos = ElseIfBranch, elseTok.Pos
			continue
		}
		branches = append(branches, NewIfBranch(elseTok.Pos, ElseBranch, nil, p.Block()))
		break
	}

	if _, ok := p.consumeAndExpect(_End); !ok {
		return nil
	}
	return NewIf(ifTok.Pos, branches)
}

// describe names an expression form for diagnostics.
func describe(x Expr) string {
	switch x := x.(type) {
	case *Literal:
		return x.Kind.String() + " literal"
	case *UnaryExpr:
		return x.Op.String() + " expression"
	case *BinaryExpr:
		return x.Op.String() + " expression"
	case *If:
		return "if expression"
	case *Assign:
		return "assignment"
	}
	return fmt.Sprintf("%T", x)
}
