package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseSource(t *testing.T, src string) (*Block, []string) {
	t.Helper()
	toks, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return parseTokens(toks)
}

func parseTokens(toks []Token) (*Block, []string) {
	var errs []string
	errh := func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	p := NewParser("test.cimi", toks, errh)
	return p.Parse(), errs
}

func newTestParser(t *testing.T, src string) (*Parser, *[]string) {
	t.Helper()
	toks, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	errs := new([]string)
	p := NewParser("test.cimi", toks, func(pos Pos, msg string) {
		*errs = append(*errs, pos.String()+": "+msg)
	})
	return p, errs
}

func sexpr(n Node) string {
	var buf bytes.Buffer
	Fprint(&buf, n)
	return buf.String()
}

// numberToks returns the tokens of a single number literal starting at 1:1.
func numberToks(lit string) []Token {
	n := uint32(len(lit))
	return []Token{
		{Kind: _LiteralNumber, Pos: NewPos(1, 1, n), Lit: lit},
		{Kind: _EOF, Pos: NewPos(1, n+1, 1)},
	}
}

// ----------------------------------------------------------------------------
// Expressions

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", `block()`},
		{"sum", "1+2", `block(add(1, 2))`},
		{"precedence", "1 + 2 * 3", `block(add(1, mul(2, 3)))`},
		{"left_assoc", "1 - 2 - 3", `block(sub(sub(1, 2), 3))`},
		{"div", "8 / 4 * 2", `block(mul(div(8, 4), 2))`},
		{"pow_right_assoc", "2 ^ 3 ^ 2", `block(pow(2, pow(3, 2)))`},
		{"pow_binds_tighter", "2 * 3 ^ 2", `block(mul(2, pow(3, 2)))`},
		{"grouping", "(1 + 2) * 3", `block(mul(grouping(add(1, 2)), 3))`},
		{"negation", "-x", `block(negation("x"))`},
		{"double_negation", "- -1", `block(negation(negation(1)))`},
		{"not", "not a == b", `block(eq(not("a"), "b"))`},
		{"comparison", "a + 1 <= b", `block(leq(add("a", 1), "b"))`},
		{"neq", "a != b", `block(neq("a", "b"))`},
		{"gt_lt", "a > b < c", `block(lt(gt("a", "b"), "c"))`},
		{"geq", "a >= 1", `block(geq("a", 1))`},
		{"assign", "x = 1", `block(lvalue("x", 1))`},
		{"assign_chain", "x = y = 2", `block(lvalue("x", lvalue("y", 2)))`},
		{"assign_expr", "x = a + b", `block(lvalue("x", add("a", "b")))`},
		{"index", "x[i + 1]", `block(array_index("x", add("i", 1)))`},
		{"index_assign", "a[1] = b[2][3]", `block(lvalue(array_index("a", 1), array_index(array_index("b", 2), 3)))`},
		{"char", "'a'", `block('a')`},
		{"char_escape", `'\n'`, `block('\n')`},
		{"char_quote", `'\''`, `block('\'')`},
		{"string", `"hello"`, `block("hello")`},
		{"string_escapes", `"a\tb\"c\\"`, `block("a\tb\"c\\")`},
		{"int", "42", `block(42)`},
		{"int_underscores", "1_000_000", `block(1000000)`},
		{"float", "3.25", `block(3.25)`},
		{"float_trailing_dot", "5.", `block(5)`},
		{"float_leading_dot", ".5", `block(0.5)`},
		{"null", "null", `block(null)`},
		{"bools", "true; false", `block(true, false)`},
		{"separators", "1; 2\n\n3", `block(1, 2, 3)`},
		{"comments", "1 // one\n/* two */ 2", `block(1, 2)`},
		{"if", "if a then 1 end", `block(if(if("a", block(1))))`},
		{"if_empty", "if a then end", `block(if(if("a", block())))`},
		{"if_else", "if a then 1 else 2 end", `block(if(if("a", block(1)), else(block(2))))`},
		{"if_elseif", "if a then\n  1\nelse if b then\n  2\nelse\n  3\nend",
			`block(if(if("a", block(1)), elseif("b", block(2)), else(block(3))))`},
		{"if_nested", "if a then if b then 1 end end", `block(if(if("a", block(if(if("b", block(1)))))))`},
		{"if_value", "x = if c then 1 else 2 end", `block(lvalue("x", if(if("c", block(1)), else(block(2)))))`},
		{"if_multiline_block", "if a > 0 then\n  x = 1\n  y = 2\nend",
			`block(if(if(gt("a", 0), block(lvalue("x", 1), lvalue("y", 2)))))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, errs := parseSource(t, tt.src)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := sexpr(b); got != tt.want {
				t.Errorf("Parse(%q):\ngot  %s\nwant %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	b, errs := parseSource(t, "x = 1 + 2")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(b.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(b.Items))
	}

	as, ok := b.Items[0].(*Assign)
	if !ok {
		t.Fatalf("item is %T, want *Assign", b.Items[0])
	}
	if as.Pos() != NewPos(1, 1, 1) {
		t.Errorf("Assign pos = %v, want 1:1", as.Pos())
	}

	bin, ok := as.RHS.(*BinaryExpr)
	if !ok {
		t.Fatalf("RHS is %T, want *BinaryExpr", as.RHS)
	}
	if bin.Pos().String() != "1:5" {
		t.Errorf("BinaryExpr pos = %v, want 1:5", bin.Pos())
	}
	if y := bin.Y.(*Literal); y.Pos().String() != "1:9" || y.Int != 2 {
		t.Errorf("Y = %v at %v, want 2 at 1:9", y.Int, y.Pos())
	}
}

func TestParseBooleanPositions(t *testing.T) {
	b, errs := parseSource(t, "true false")
	// Two expressions on one line are diagnosed, but both literals
	// are still lexed with their own positions.
	if len(errs) != 1 {
		t.Fatalf("got errors %v, want exactly one", errs)
	}
	if len(b.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(b.Items))
	}
	lit := b.Items[0].(*Literal)
	if lit.Kind != Bool || !lit.Bool || lit.Pos() != NewPos(1, 1, 4) {
		t.Errorf("got %v %v at %v, want true at 1:1 span 4", lit.Kind, lit.Bool, lit.Pos())
	}

	toks, _ := Tokenize([]byte("true false"))
	if toks[1].Kind != _LiteralBoolean || toks[1].Bool || toks[1].Pos != NewPos(1, 6, 5) {
		t.Errorf("second token = %v, want <false> at 1:6 span 5", toks[1])
	}
}

// ----------------------------------------------------------------------------
// Literals

func TestIntegerRoundTrip(t *testing.T) {
	values := []int64{0, 7, 42, 999, 1000, 65535, 123456789, 1 << 40, math.MaxInt64}

	for _, v := range values {
		plain := fmt.Sprint(v)
		for _, lit := range []string{plain, groupDigits(plain)} {
			b, errs := parseTokens(numberToks(lit))
			if len(errs) > 0 {
				t.Errorf("%s: unexpected errors %v", lit, errs)
				continue
			}
			got := b.Items[0].(*Literal)
			if got.Kind != Int || got.Int != v {
				t.Errorf("%s: got %v %d, want int %d", lit, got.Kind, got.Int, v)
			}
			if s := formatLiteral(got); s != plain {
				t.Errorf("%s: formats as %s, want %s", lit, s, plain)
			}
		}
	}
}

// groupDigits inserts '_' between groups of three digits.
func groupDigits(s string) string {
	var b strings.Builder
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('_')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestNumberLiteralErrors(t *testing.T) {
	tests := []struct {
		lit  string
		want string
	}{
		{"99999999999999999999", "1:1: integer literal 99999999999999999999 is too large or too small"},
		{"1.2.3", "1:4: invalid character '.' in number literal 1.2.3"},
		{"1.5x", "1:4: invalid character 'x' in number literal 1.5x"},
		{".", "1:1: invalid character '.' in number literal ."},
		{"_5", "1:1: invalid character '_' in number literal _5"},
		{"1_0.2_5e", "1:8: invalid character 'e' in number literal 1_0.2_5e"},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			b, errs := parseTokens(numberToks(tt.lit))
			if len(errs) != 1 || errs[0] != tt.want {
				t.Fatalf("errors = %q, want [%q]", errs, tt.want)
			}
			if len(b.Items) != 0 {
				t.Errorf("got items %s, want none", sexpr(b))
			}
		})
	}
}

func TestFloatUnderscores(t *testing.T) {
	b, errs := parseTokens(numberToks("1_0.2_5"))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := b.Items[0].(*Literal); got.Kind != Float || got.Float != 10.25 {
		t.Errorf("got %v %v, want float 10.25", got.Kind, got.Float)
	}
}

func TestCharLiteralTooLong(t *testing.T) {
	_, err := Tokenize([]byte(`'ab'`))
	var lerr *LexError
	if !errors.As(err, &lerr) || lerr.Kind != CharLiteralTooLong {
		t.Errorf("Tokenize error = %v, want %v", err, CharLiteralTooLong)
	}

	// A hand-built token still yields a node, with a diagnostic.
	toks := []Token{
		{Kind: _LiteralChar, Pos: NewPos(1, 1, 4), Lit: "ab"},
		{Kind: _EOF, Pos: NewPos(1, 5, 1)},
	}
	b, errs := parseTokens(toks)
	if len(errs) != 1 || errs[0] != "1:1: character literal is too long" {
		t.Errorf("errors = %q", errs)
	}
	if got := sexpr(b); got != `block('a')` {
		t.Errorf("got %s, want block('a')", got)
	}
}

func TestEscapeErrors(t *testing.T) {
	tests := []struct {
		kind TokenKind
		lit  string
		want string
	}{
		{_LiteralString, `a\q`, `1:1: invalid escape sequence \q in string literal`},
		{_LiteralString, `a\`, `1:1: unterminated escape sequence in string literal`},
		{_LiteralChar, `\z`, `1:1: invalid escape sequence \z in character literal`},
		{_LiteralChar, `\`, `1:1: unterminated escape sequence in character literal`},
		{_LiteralChar, ``, `1:1: empty character literal`},
	}

	for _, tt := range tests {
		toks := []Token{
			{Kind: tt.kind, Pos: NewPos(1, 1, uint32(len(tt.lit)+2)), Lit: tt.lit},
			{Kind: _EOF, Pos: NewPos(1, uint32(len(tt.lit)+3), 1)},
		}
		_, errs := parseTokens(toks)
		if len(errs) != 1 || errs[0] != tt.want {
			t.Errorf("%s %q: errors = %q, want [%q]", tt.kind, tt.lit, errs, tt.want)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	b, errs := parseSource(t, `"\a\b\e\n\r\t\\\'\""`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := "\a\b\x1b\n\r\t\\'\""
	if got := b.Items[0].(*Literal).Str; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// ----------------------------------------------------------------------------
// Types and argument lists

func TestParseType(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"FLOAT", "float"},
		{"bool", "boolean"},
		{"any", "any"},
		{"null", "null"},
		{"[3]int", "array_type(3, int)"},
		{"[n + 1]string", `array_type(add("n", 1), string)`},
		{"[2][3]char", "array_type(2, array_type(3, char))"},
	}

	for _, tt := range tests {
		p, errs := newTestParser(t, tt.src)
		typ := p.Type()
		if len(*errs) > 0 {
			t.Errorf("%q: unexpected errors %v", tt.src, *errs)
			continue
		}
		if got := sexpr(typ); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1", "1:1: expected type, but found literal_number"},
		{"[3", "1:3: expected token rbracket, but reached end of file"},
		{"[]int", "1:1: expected array size"},
	}

	for _, tt := range tests {
		p, errs := newTestParser(t, tt.src)
		if typ := p.Type(); typ != nil {
			t.Errorf("%q: got %s, want nil", tt.src, sexpr(typ))
		}
		if len(*errs) == 0 || (*errs)[0] != tt.want {
			t.Errorf("%q: errors = %q, want first %q", tt.src, *errs, tt.want)
		}
	}
}

func TestParseArgumentList(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"()", "args()"},
		{"(a: int)", `args(("a": int))`},
		{"(a: int, b: [4]string)", `args(("a": int), ("b": array_type(4, string)))`},
	}

	for _, tt := range tests {
		p, errs := newTestParser(t, tt.src)
		args := p.ArgumentList()
		if len(*errs) > 0 {
			t.Errorf("%q: unexpected errors %v", tt.src, *errs)
			continue
		}
		if got := sexpr(args); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}

	p, errs := newTestParser(t, "(a int)")
	if p.ArgumentList() != nil {
		t.Error("ArgumentList succeeded on a missing colon")
	}
	if len(*errs) != 1 || (*errs)[0] != "1:4: expected token colon, but found int" {
		t.Errorf("errors = %q", *errs)
	}
}

// ----------------------------------------------------------------------------
// Diagnostics

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // first diagnostic
	}{
		{"missing_operand", "1 +", "1:3: expected expression after add"},
		{"bad_lvalue", "1 = 2", "1:1: cannot assign to int literal"},
		{"bad_lvalue_group", "(a) = 2", "1:1: cannot assign to grouping expression"},
		{"unclosed_paren", "(1", "1:3: expected token rparen, but reached end of file"},
		{"unclosed_index", "a[1", "1:4: expected token rbracket, but reached end of file"},
		{"missing_then", "if a 1 end", "1:6: expected token then, but found literal_number"},
		{"missing_end", "if a then 1", "1:12: expected token end, but reached end of file"},
		{"missing_cond", "if then 1 end", "1:1: expected condition after if"},
		{"two_exprs", "1 2", "1:3: expected end of line after expression, but found literal_number"},
		{"stray_end", "end", "1:1: unexpected token end"},
		{"stray_rparen", ")", "1:1: unexpected token rparen"},
		{"let", "let x = 1", "1:1: unsupported construct: let statement"},
		{"while", "while x\nend", "1:1: unsupported construct: while statement"},
		{"percent", "a % b", "1:3: unsupported construct: operator percent"},
		{"and", "a and b", "1:3: unsupported construct: operator and"},
		{"call", "f(1, 2)", "1:2: unsupported construct: function call"},
		{"compound", "x += 1", "1:3: unsupported construct: compound assignment add_assign"},
		{"negation_operand", "-", "1:1: expected expression after sub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parseSource(t, tt.src)
			if len(errs) == 0 {
				t.Fatalf("Parse(%q) reported nothing, want %q", tt.src, tt.want)
			}
			if errs[0] != tt.want {
				t.Errorf("Parse(%q) first error = %q, want %q", tt.src, errs[0], tt.want)
			}
		})
	}
}

func TestParseContinuesAfterError(t *testing.T) {
	b, errs := parseSource(t, "let x = 1\ny = 2\n1 +\n3")
	if len(errs) != 2 {
		t.Fatalf("errors = %q, want 2", errs)
	}
	if got := sexpr(b); got != `block(lvalue("y", 2), 3)` {
		t.Errorf("got %s", got)
	}
}

func TestParserErrorState(t *testing.T) {
	p, _ := newTestParser(t, "1\n2 3\n4 5")
	p.Parse()

	if !p.Reported() {
		t.Error("Reported() = false")
	}
	if p.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2", p.Errors())
	}
	var serr *SyntaxError
	if !errors.As(p.FirstError(), &serr) {
		t.Fatalf("FirstError() = %v, want *SyntaxError", p.FirstError())
	}
	if serr.Pos.String() != "2:3" {
		t.Errorf("first error at %v, want 2:3", serr.Pos)
	}
	if p.Filename() != "test.cimi" {
		t.Errorf("Filename() = %q", p.Filename())
	}

	clean, _ := newTestParser(t, "1 + 2")
	clean.Parse()
	if clean.Reported() || clean.Errors() != 0 || clean.FirstError() != nil {
		t.Error("clean parse reported errors")
	}
}

func TestNilErrorHandler(t *testing.T) {
	toks, _ := Tokenize([]byte("1 +"))
	p := NewParser("x.cimi", toks, nil)
	p.Parse()
	if p.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", p.Errors())
	}
}

func TestRecoveryGivesUp(t *testing.T) {
	src := strings.Repeat(") ", 40)
	p, errs := newTestParser(t, src)
	p.Parse()

	if len(*errs) == 0 {
		t.Fatal("no diagnostics")
	}
	last := (*errs)[len(*errs)-1]
	if !strings.HasSuffix(last, "too many errors; giving up") {
		t.Errorf("last error = %q, want give-up diagnostic", last)
	}
	if p.Errors() > maxRecovery {
		t.Errorf("Errors() = %d, want at most %d", p.Errors(), maxRecovery)
	}
}

func TestDiagWithoutTokenPanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*InternalError); !ok {
			t.Errorf("recovered %v, want *InternalError", r)
		}
	}()
	p := NewParser("x.cimi", nil, nil)
	p.diag("boom")
}

// ----------------------------------------------------------------------------
// Cursor primitives

func TestCursor(t *testing.T) {
	p, errs := newTestParser(t, "a = 1")

	if _, ok := p.prev(); ok {
		t.Error("prev() before any consume succeeded")
	}
	if tok, ok := p.peek(); !ok || tok.Kind != _Ident {
		t.Errorf("peek() = %v, %v", tok, ok)
	}
	if tok, ok := p.peekNext(); !ok || tok.Kind != _Assign {
		t.Errorf("peekNext() = %v, %v", tok, ok)
	}
	if _, ok := p.checkAndConsume(_Assign); ok {
		t.Error("checkAndConsume(assign) matched an ident")
	}
	if tok, ok := p.consumeAndExpect(_Ident); !ok || tok.Lit != "a" {
		t.Errorf("consumeAndExpect(ident) = %v, %v", tok, ok)
	}
	if tok, ok := p.prev(); !ok || tok.Lit != "a" {
		t.Errorf("prev() = %v, %v", tok, ok)
	}
	if _, ok := p.consumeAndExpect(_Rparen); ok {
		t.Error("consumeAndExpect(rparen) matched an assign")
	}
	if len(*errs) != 1 || (*errs)[0] != "1:3: expected token rparen, but found assign" {
		t.Errorf("errors = %q", *errs)
	}
	if tok, ok := p.get(3); !ok || tok.Kind != _EOF {
		t.Errorf("get(3) = %v, %v", tok, ok)
	}
	if _, ok := p.get(4); ok {
		t.Error("get past the end succeeded")
	}

	// Past the end of the slice.
	p.cur = 4
	if _, ok := p.consume(); ok {
		t.Error("consume past the end succeeded")
	}
	if _, ok := p.peekAndExpect(_EOF); ok {
		t.Error("peekAndExpect past the end succeeded")
	}
	if got := (*errs)[len(*errs)-1]; got != "1:6: expected token eof, but got no token" {
		t.Errorf("last error = %q", got)
	}
}
