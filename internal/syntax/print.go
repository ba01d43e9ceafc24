package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes the compact functional form of an AST to w, for example
// add(1, mul("x", 2)). Identifiers are rendered as quoted names.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.sexpr(node)
}

// FprintTree writes an indented form of the AST to w, one node per line
// together with its position.
func FprintTree(w io.Writer, node Node) {
	p := &printer{w: w}
	p.tree(node)
}

// FprintTokens writes one token per line: position, kind and payload.
func FprintTokens(w io.Writer, toks []Token) {
	for _, t := range toks {
		fmt.Fprintf(w, "%-8s %-14s", t.Pos, t.Kind)
		switch t.Kind {
		case _Ident, _LiteralNumber:
			fmt.Fprintf(w, " %s", t.Lit)
		case _LiteralString:
			fmt.Fprintf(w, " \"%s\"", t.Lit)
		case _LiteralChar:
			fmt.Fprintf(w, " '%s'", t.Lit)
		case _LiteralBoolean:
			fmt.Fprintf(w, " %t", t.Bool)
		}
		fmt.Fprintln(w)
	}
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) write(s string) {
	io.WriteString(p.w, s)
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// ----------------------------------------------------------------------------
// Compact form

func (p *printer) sexpr(node Node) {
	switch n := node.(type) {
	case nil:
		p.write("<nil>")

	case *Identifier:
		p.write(strconv.Quote(n.Name))

	case *Literal:
		p.write(formatLiteral(n))

	case *PrimitiveType:
		p.write(n.Kind.String())

	case *ArrayType:
		p.call("array_type", n.Size, n.Elem)

	case *FunctionArgument:
		p.write("(")
		p.sexpr(n.Ident)
		p.write(": ")
		p.sexpr(n.Type)
		p.write(")")

	case *ArgumentList:
		p.write("args(")
		for i, a := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			p.sexpr(a)
		}
		p.write(")")

	case *UnaryExpr:
		p.call(n.Op.String(), n.X)

	case *BinaryExpr:
		p.call(n.Op.String(), n.X, n.Y)

	case *ArrayIndex:
		p.call("array_index", n.X, n.Index)

	case *FnCall:
		p.call("fn_call", n.Fun, n.Args)

	case *Assign:
		p.call("lvalue", n.LHS, n.RHS)

	case *If:
		p.write("if(")
		for i, b := range n.Branches {
			if i > 0 {
				p.write(", ")
			}
			p.sexpr(b)
		}
		p.write(")")

	case *IfBranch:
		if n.Kind == ElseBranch {
			p.call("else", n.Block)
		} else {
			p.call(n.Kind.String(), n.Cond, n.Block)
		}

	case *Block:
		p.write("block(")
		for i, item := range n.Items {
			if i > 0 {
				p.write(", ")
			}
			p.sexpr(item)
		}
		p.write(")")

	default:
		internalErrorf("unexpected node %T", node)
	}
}

// call writes name(arg, arg, ...).
func (p *printer) call(name string, args ...Node) {
	p.write(name)
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.sexpr(a)
	}
	p.write(")")
}

// ----------------------------------------------------------------------------
// Tree form

func (p *printer) tree(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Identifier:
		p.printf("Identifier %s %s\n", n.pos, n.Name)

	case *Literal:
		p.printf("Literal %s %s %s\n", n.pos, n.Kind, formatLiteral(n))

	case *PrimitiveType:
		p.printf("PrimitiveType %s %s\n", n.pos, n.Kind)

	case *ArrayType:
		p.printf("ArrayType %s\n", n.pos)
		p.field("Size", n.Size)
		p.field("Elem", n.Elem)

	case *FunctionArgument:
		p.printf("FunctionArgument %s\n", n.pos)
		p.field("Ident", n.Ident)
		p.field("Type", n.Type)

	case *ArgumentList:
		p.printf("ArgumentList %s\n", n.pos)
		p.indent++
		for _, a := range n.Args {
			p.tree(a)
		}
		p.indent--

	case *UnaryExpr:
		p.printf("UnaryExpr %s %s\n", n.pos, n.Op)
		p.indent++
		p.tree(n.X)
		p.indent--

	case *BinaryExpr:
		p.printf("BinaryExpr %s %s\n", n.pos, n.Op)
		p.field("X", n.X)
		p.field("Y", n.Y)

	case *ArrayIndex:
		p.printf("ArrayIndex %s\n", n.pos)
		p.field("X", n.X)
		p.field("Index", n.Index)

	case *FnCall:
		p.printf("FnCall %s\n", n.pos)
		p.field("Fun", n.Fun)
		p.field("Args", n.Args)

	case *Assign:
		p.printf("Assign %s\n", n.pos)
		p.field("LHS", n.LHS)
		p.field("RHS", n.RHS)

	case *If:
		p.printf("If %s\n", n.pos)
		p.indent++
		for _, b := range n.Branches {
			p.tree(b)
		}
		p.indent--

	case *IfBranch:
		p.printf("IfBranch %s %s\n", n.pos, n.Kind)
		if n.Cond != nil {
			p.field("Cond", n.Cond)
		}
		p.field("Block", n.Block)

	case *Block:
		p.printf("Block %s\n", n.pos)
		p.indent++
		for _, item := range n.Items {
			p.tree(item)
		}
		p.indent--

	default:
		internalErrorf("unexpected node %T", node)
	}
}

// field writes a labelled child one level deeper.
func (p *printer) field(label string, child Node) {
	p.indent++
	p.printf("%s:\n", label)
	p.indent++
	p.tree(child)
	p.indent -= 2
}

// formatLiteral renders a literal value the way it would be written in
// source.
func formatLiteral(lit *Literal) string {
	switch lit.Kind {
	case Int:
		return strconv.FormatInt(lit.Int, 10)
	case Float:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case Char:
		return quoteChar(lit.Char)
	case String:
		return strconv.Quote(lit.Str)
	case Bool:
		return strconv.FormatBool(lit.Bool)
	case Null:
		return "null"
	}
	internalErrorf("literal of type %s", lit.Kind)
	return ""
}

func quoteChar(c byte) string {
	switch c {
	case '\'':
		return `'\''`
	case 0x1b:
		return `'\e'`
	}
	if c >= 0x80 {
		return fmt.Sprintf("'\\x%02x'", c)
	}
	return strconv.QuoteRuneToASCII(rune(c))
}
