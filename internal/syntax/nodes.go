package syntax

import (
	"fmt"
	"strings"
)

// ----------------------------------------------------------------------------
// Interfaces
//
// Every node is owned by exactly one parent. Constructors take ownership of
// the children passed to them; a child must not be handed to two
// constructors.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the node's first token
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	BlockItem
	aExpr()
}

// Type is the interface for type nodes.
type Type interface {
	Node
	aType()
}

// Lvalue is an expression that may appear on the left of an assignment:
// an *Identifier or an *ArrayIndex.
type Lvalue interface {
	Expr
	aLvalue()
}

// Stmt is the interface for statement nodes. The statement grammar is not
// implemented yet, so nothing satisfies it.
type Stmt interface {
	BlockItem
	aStmt()
}

// BlockItem is an element of a Block: an Expr or a Stmt.
type BlockItem interface {
	Node
	aBlockItem()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr()      {}
func (*expr) aBlockItem() {}

// typ is embedded in all type nodes.
type typ struct{ node }

func (*typ) aType() {}

// ----------------------------------------------------------------------------
// Identifiers and types

// Identifier represents a name.
type Identifier struct {
	expr
	Name string
}

func (*Identifier) aLvalue() {}

// NewIdentifier returns an identifier node.
func NewIdentifier(pos Pos, name string) *Identifier {
	id := &Identifier{Name: name}
	id.pos = pos
	return id
}

// Primitive enumerates the primitive types. It also tags literal values.
type Primitive uint8

const (
	Int Primitive = iota
	Float
	Char
	String
	Bool
	Any
	Null
)

var primitiveNames = [...]string{
	Int:    "int",
	Float:  "float",
	Char:   "char",
	String: "string",
	Bool:   "boolean",
	Any:    "any",
	Null:   "null",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", p)
}

// PrimitiveType represents a primitive type name: int, float, ...
type PrimitiveType struct {
	typ
	Kind Primitive
}

// NewPrimitiveType returns a primitive type node.
func NewPrimitiveType(pos Pos, kind Primitive) *PrimitiveType {
	t := &PrimitiveType{Kind: kind}
	t.pos = pos
	return t
}

// ArrayType represents an array type: [Size]Elem
type ArrayType struct {
	typ
	Size Expr // length expression
	Elem Type // element type
}

// NewArrayType returns an array type node owning size and elem.
func NewArrayType(pos Pos, size Expr, elem Type) *ArrayType {
	t := &ArrayType{Size: size, Elem: elem}
	t.pos = pos
	return t
}

// ----------------------------------------------------------------------------
// Literals

// Literal represents a literal value. Only the field selected by Kind is
// meaningful. Kind is never Any.
type Literal struct {
	expr
	Kind  Primitive
	Int   int64
	Float float64
	Char  byte
	Bool  bool
	Str   string
}

func newLiteral(pos Pos, kind Primitive) *Literal {
	if kind == Any {
		internalErrorf("literal of type %s", kind)
	}
	lit := &Literal{Kind: kind}
	lit.pos = pos
	return lit
}

// NewIntLiteral returns an integer literal.
func NewIntLiteral(pos Pos, v int64) *Literal {
	lit := newLiteral(pos, Int)
	lit.Int = v
	return lit
}

// NewFloatLiteral returns a floating point literal.
func NewFloatLiteral(pos Pos, v float64) *Literal {
	lit := newLiteral(pos, Float)
	lit.Float = v
	return lit
}

// NewCharLiteral returns a character literal.
func NewCharLiteral(pos Pos, v byte) *Literal {
	lit := newLiteral(pos, Char)
	lit.Char = v
	return lit
}

// NewBoolLiteral returns a boolean literal.
func NewBoolLiteral(pos Pos, v bool) *Literal {
	lit := newLiteral(pos, Bool)
	lit.Bool = v
	return lit
}

// NewStringLiteral returns a string literal holding its own copy of v.
func NewStringLiteral(pos Pos, v string) *Literal {
	lit := newLiteral(pos, String)
	lit.Str = strings.Clone(v)
	return lit
}

// NewNullLiteral returns the null literal.
func NewNullLiteral(pos Pos) *Literal {
	return newLiteral(pos, Null)
}

// ----------------------------------------------------------------------------
// Function arguments

// FunctionArgument represents a typed parameter: Ident: Type
type FunctionArgument struct {
	node
	Ident *Identifier
	Type  Type
}

// NewFunctionArgument returns an argument node owning ident and t.
func NewFunctionArgument(pos Pos, ident *Identifier, t Type) *FunctionArgument {
	a := &FunctionArgument{Ident: ident, Type: t}
	a.pos = pos
	return a
}

// ArgumentList represents a parenthesized argument list.
type ArgumentList struct {
	node
	Args []*FunctionArgument
}

// NewArgumentList returns an argument list owning args.
func NewArgumentList(pos Pos, args []*FunctionArgument) *ArgumentList {
	l := &ArgumentList{Args: args}
	l.pos = pos
	return l
}

// ----------------------------------------------------------------------------
// Expressions

// UnaryOp is the operator of a UnaryExpr.
type UnaryOp uint8

const (
	Grouping UnaryOp = iota // (X)
	Negation                // -X
	Not                     // not X
)

var unaryOpNames = [...]string{
	Grouping: "grouping",
	Negation: "negation",
	Not:      "not",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp uint8

const (
	Add BinaryOp = iota // +
	Sub                 // -
	Mul                 // *
	Div                 // /
	Pow                 // ^
	Eq                  // ==
	Neq                 // !=
	Lt                  // <
	Gt                  // >
	Leq                 // <=
	Geq                 // >=
)

var binaryOpNames = [...]string{
	Add: "add",
	Sub: "sub",
	Mul: "mul",
	Div: "div",
	Pow: "pow",
	Eq:  "eq",
	Neq: "neq",
	Lt:  "lt",
	Gt:  "gt",
	Leq: "leq",
	Geq: "geq",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// UnaryExpr represents a unary operation.
type UnaryExpr struct {
	expr
	Op UnaryOp
	X  Expr
}

// NewUnaryExpr returns a unary expression owning x.
func NewUnaryExpr(pos Pos, op UnaryOp, x Expr) *UnaryExpr {
	e := &UnaryExpr{Op: op, X: x}
	e.pos = pos
	return e
}

// BinaryExpr represents a binary operation: X Op Y
type BinaryExpr struct {
	expr
	Op BinaryOp
	X  Expr // left operand
	Y  Expr // right operand
}

// NewBinaryExpr returns a binary expression owning x and y.
func NewBinaryExpr(pos Pos, op BinaryOp, x, y Expr) *BinaryExpr {
	e := &BinaryExpr{Op: op, X: x, Y: y}
	e.pos = pos
	return e
}

// ArrayIndex represents an index expression: X[Index]
type ArrayIndex struct {
	expr
	X     Expr // indexed expression
	Index Expr
}

func (*ArrayIndex) aLvalue() {}

// NewArrayIndex returns an index expression owning x and index.
func NewArrayIndex(pos Pos, x, index Expr) *ArrayIndex {
	e := &ArrayIndex{X: x, Index: index}
	e.pos = pos
	return e
}

// FnCall represents a function call: Fun(Args)
type FnCall struct {
	expr
	Fun  *Identifier
	Args *ArgumentList
}

// NewFnCall returns a call expression owning fun and args.
func NewFnCall(pos Pos, fun *Identifier, args *ArgumentList) *FnCall {
	e := &FnCall{Fun: fun, Args: args}
	e.pos = pos
	return e
}

// Assign represents an assignment: LHS = RHS
type Assign struct {
	expr
	LHS Lvalue
	RHS Expr
}

// NewAssign returns an assignment owning lhs and rhs.
func NewAssign(pos Pos, lhs Lvalue, rhs Expr) *Assign {
	e := &Assign{LHS: lhs, RHS: rhs}
	e.pos = pos
	return e
}

// BranchKind tells the branches of an If apart.
type BranchKind uint8

const (
	PrimaryBranch BranchKind = iota // if Cond then
	ElseIfBranch                    // else if Cond then
	ElseBranch                      // else
)

var branchKindNames = [...]string{
	PrimaryBranch: "if",
	ElseIfBranch:  "elseif",
	ElseBranch:    "else",
}

func (k BranchKind) String() string {
	if int(k) < len(branchKindNames) {
		return branchKindNames[k]
	}
	return fmt.Sprintf("BranchKind(%d)", k)
}

// IfBranch is one arm of an If. Cond is nil for an ElseBranch.
type IfBranch struct {
	node
	Kind  BranchKind
	Cond  Expr
	Block *Block
}

// NewIfBranch returns a conditional branch owning cond and block.
func NewIfBranch(pos Pos, kind BranchKind, cond Expr, block *Block) *IfBranch {
	if kind == ElseBranch && cond != nil {
		internalErrorf("else branch with a condition")
	}
	b := &IfBranch{Kind: kind, Cond: cond, Block: block}
	b.pos = pos
	return b
}

// If represents a conditional expression:
//
//	if Cond then Block {else if Cond then Block} [else Block] end
type If struct {
	expr
	Branches []*IfBranch
}

// NewIf returns an if expression owning branches.
func NewIf(pos Pos, branches []*IfBranch) *If {
	e := &If{Branches: branches}
	e.pos = pos
	return e
}

// ----------------------------------------------------------------------------
// Blocks

// Block is a sequence of expressions and statements.
type Block struct {
	node
	Items []BlockItem
}

// NewBlock returns a block owning items.
func NewBlock(pos Pos, items []BlockItem) *Block {
	b := &Block{Items: items}
	b.pos = pos
	return b
}
