package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order, visiting a node before its
// children and children in source order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Identifier, *Literal, *PrimitiveType:
		// leaves

	case *ArrayType:
		walkExpr(n.Size, v)
		if n.Elem != nil {
			Walk(n.Elem, v)
		}

	case *FunctionArgument:
		if n.Ident != nil {
			Walk(n.Ident, v)
		}
		if n.Type != nil {
			Walk(n.Type, v)
		}

	case *ArgumentList:
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *UnaryExpr:
		walkExpr(n.X, v)

	case *BinaryExpr:
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *ArrayIndex:
		walkExpr(n.X, v)
		walkExpr(n.Index, v)

	case *FnCall:
		if n.Fun != nil {
			Walk(n.Fun, v)
		}
		if n.Args != nil {
			Walk(n.Args, v)
		}

	case *Assign:
		walkExpr(n.LHS, v)
		walkExpr(n.RHS, v)

	case *If:
		for _, b := range n.Branches {
			Walk(b, v)
		}

	case *IfBranch:
		walkExpr(n.Cond, v)
		if n.Block != nil {
			Walk(n.Block, v)
		}

	case *Block:
		for _, item := range n.Items {
			Walk(item, v)
		}
	}
}

func walkExpr(x Expr, v Visitor) {
	if x != nil {
		Walk(x, v)
	}
}

// Inspect traverses an AST, calling f for each node.
// If f returns false, children are not visited.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, f)
}
