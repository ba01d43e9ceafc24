package syntax

import "testing"

func TestWalkBinary(t *testing.T) {
	pos := NewPos(1, 1, 1)
	x := NewIntLiteral(pos, 1)
	y := NewIntLiteral(NewPos(1, 5, 1), 2)
	bin := NewBinaryExpr(pos, Add, x, y)

	seen := make(map[Node]int)
	var order []Node
	Walk(bin, func(n Node) bool {
		seen[n]++
		order = append(order, n)
		return true
	})

	if len(order) != 3 {
		t.Fatalf("visited %d nodes, want 3", len(order))
	}
	for n, c := range seen {
		if c != 1 {
			t.Errorf("%T visited %d times", n, c)
		}
	}
	if order[0] != bin || order[1] != x || order[2] != y {
		t.Errorf("order = %v, want binary, x, y", order)
	}
}

func TestWalkParsedTree(t *testing.T) {
	b, errs := parseSource(t, "a[i] = if x > 1 then -y else (z) end\nb = not c")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	seen := make(map[Node]int)
	Inspect(b, func(n Node) bool {
		seen[n]++
		if !n.Pos().IsValid() {
			t.Errorf("%T has an invalid position", n)
		}
		return true
	})

	// block, 2 assigns, array_index, a, i, if, 2 branches, gt, x, 1,
	// 2 blocks, negation, y, grouping, z, b, not, c
	if len(seen) != 21 {
		t.Errorf("visited %d distinct nodes, want 21", len(seen))
	}
	for n, c := range seen {
		if c != 1 {
			t.Errorf("%T visited %d times", n, c)
		}
	}
}

func TestWalkSkipChildren(t *testing.T) {
	b, _ := parseSource(t, "1 + 2\n3")

	count := 0
	Walk(b, func(n Node) bool {
		count++
		_, isBinary := n.(*BinaryExpr)
		return !isBinary
	})
	// block, binary (children skipped), 3
	if count != 3 {
		t.Errorf("visited %d nodes, want 3", count)
	}
}

func TestWalkTypes(t *testing.T) {
	p, _ := newTestParser(t, "(a: [2]int, b: any)")
	args := p.ArgumentList()

	var kinds []string
	Walk(args, func(n Node) bool {
		switch n := n.(type) {
		case *PrimitiveType:
			kinds = append(kinds, n.Kind.String())
		case *Identifier:
			kinds = append(kinds, n.Name)
		}
		return true
	})

	want := []string{"a", "int", "b", "any"}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("got %v, want %v", kinds, want)
			break
		}
	}
}
