package ast

// Visitor is called for every node in pre-order with enter=true and again
// after its subtree with enter=false. Returning false on enter skips the
// subtree (the leave call still happens).
type Visitor func(id NodeID, enter bool) bool

// Walk traverses the subtree rooted at id depth-first.
func (t *Tree) Walk(id NodeID, visit Visitor) {
	if !id.IsValid() || t.Node(id) == nil {
		return
	}
	if visit(id, true) {
		for _, child := range t.Children(id) {
			t.Walk(child, visit)
		}
	}
	visit(id, false)
}

// Ancestors returns the chain of parents of id, nearest first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Closest returns the nearest ancestor of id (id excluded) whose kind is one
// of kinds.
func (t *Tree) Closest(id NodeID, kinds ...Kind) NodeID {
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		k := t.Kind(p)
		for _, want := range kinds {
			if k == want {
				return p
			}
		}
	}
	return NoNodeID
}

// EnclosingProgram walks parent links up to the Program node.
func (t *Tree) EnclosingProgram(id NodeID) NodeID {
	if t.Kind(id) == KindProgram {
		return id
	}
	return t.Closest(id, KindProgram)
}

// TopLevel returns the ancestor of id (or id itself) that is a direct child
// of the Program.
func (t *Tree) TopLevel(id NodeID) NodeID {
	cur := id
	for cur.IsValid() {
		parent := t.Parent(cur)
		if t.Kind(parent) == KindProgram {
			return cur
		}
		cur = parent
	}
	return NoNodeID
}

// EnclosingFunction returns the nearest function-like ancestor.
func (t *Tree) EnclosingFunction(id NodeID) NodeID {
	return t.Closest(id, KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression)
}

// Find returns every node of the given kind under root in pre-order.
func (t *Tree) Find(root NodeID, kind Kind) []NodeID {
	var out []NodeID
	t.Walk(root, func(id NodeID, enter bool) bool {
		if enter && t.Kind(id) == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}
