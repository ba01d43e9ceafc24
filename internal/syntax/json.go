package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Identifier:
		return map[string]interface{}{
			"type": "Identifier",
			"pos":  n.pos.String(),
			"name": n.Name,
		}

	case *Literal:
		m := map[string]interface{}{
			"type": "Literal",
			"pos":  n.pos.String(),
			"kind": n.Kind.String(),
		}
		switch n.Kind {
		case Int:
			m["value"] = n.Int
		case Float:
			m["value"] = n.Float
		case Char:
			m["value"] = string([]byte{n.Char})
		case String:
			m["value"] = n.Str
		case Bool:
			m["value"] = n.Bool
		case Null:
			m["value"] = nil
		}
		return m

	case *PrimitiveType:
		return map[string]interface{}{
			"type": "PrimitiveType",
			"pos":  n.pos.String(),
			"kind": n.Kind.String(),
		}

	case *ArrayType:
		return map[string]interface{}{
			"type": "ArrayType",
			"pos":  n.pos.String(),
			"size": toJSON(n.Size),
			"elem": toJSON(n.Elem),
		}

	case *FunctionArgument:
		return map[string]interface{}{
			"type":    "FunctionArgument",
			"pos":     n.pos.String(),
			"name":    n.Ident.Name,
			"argtype": toJSON(n.Type),
		}

	case *ArgumentList:
		return map[string]interface{}{
			"type": "ArgumentList",
			"pos":  n.pos.String(),
			"args": mapSlice(n.Args, func(a *FunctionArgument) interface{} { return toJSON(a) }),
		}

	case *UnaryExpr:
		return map[string]interface{}{
			"type": "UnaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}

	case *BinaryExpr:
		return map[string]interface{}{
			"type": "BinaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *ArrayIndex:
		return map[string]interface{}{
			"type":  "ArrayIndex",
			"pos":   n.pos.String(),
			"x":     toJSON(n.X),
			"index": toJSON(n.Index),
		}

	case *FnCall:
		return map[string]interface{}{
			"type": "FnCall",
			"pos":  n.pos.String(),
			"fun":  n.Fun.Name,
			"args": toJSON(n.Args),
		}

	case *Assign:
		return map[string]interface{}{
			"type": "Assign",
			"pos":  n.pos.String(),
			"lhs":  toJSON(n.LHS),
			"rhs":  toJSON(n.RHS),
		}

	case *If:
		return map[string]interface{}{
			"type":     "If",
			"pos":      n.pos.String(),
			"branches": mapSlice(n.Branches, func(b *IfBranch) interface{} { return toJSON(b) }),
		}

	case *IfBranch:
		m := map[string]interface{}{
			"type":  "IfBranch",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"block": toJSON(n.Block),
		}
		if n.Cond != nil {
			m["cond"] = toJSON(n.Cond)
		}
		return m

	case *Block:
		return map[string]interface{}{
			"type":  "Block",
			"pos":   n.pos.String(),
			"items": mapSlice(n.Items, func(item BlockItem) interface{} { return toJSON(item) }),
		}
	}

	return map[string]interface{}{
		"type": "Unknown",
		"pos":  node.Pos().String(),
	}
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
