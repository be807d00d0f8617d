package ast

import (
	"errors"
	"fmt"
)

var ErrNoRoot = errors.New("tree has no Program root")

// Validate checks the structural invariants: a single Program root, parent
// links that agree with payload children, and child spans that are ordered,
// disjoint and contained in their parent.
func (t *Tree) Validate() error {
	if t.Kind(t.Root) != KindProgram {
		return ErrNoRoot
	}
	if p := t.Parent(t.Root); p.IsValid() {
		return fmt.Errorf("root %d has parent %d", t.Root, p)
	}
	seen := make(map[NodeID]bool, t.Len())
	var err error
	t.Walk(t.Root, func(id NodeID, enter bool) bool {
		if !enter || err != nil {
			return false
		}
		if seen[id] {
			err = fmt.Errorf("node %d (%s) reached twice", id, t.Kind(id))
			return false
		}
		seen[id] = true
		parent := t.Span(id)
		var prevEnd uint32
		for i, child := range t.Children(id) {
			if got := t.Parent(child); got != id {
				err = fmt.Errorf("node %d (%s): parent %d, want %d", child, t.Kind(child), got, id)
				return false
			}
			span := t.Span(child)
			if !parent.Contains(span) {
				err = fmt.Errorf("node %d (%s) %s escapes parent %d %s", child, t.Kind(child), span, id, parent)
				return false
			}
			if i > 0 && span.Start < prevEnd {
				err = fmt.Errorf("node %d (%s) %s overlaps previous sibling", child, t.Kind(child), span)
				return false
			}
			prevEnd = span.End
		}
		return true
	})
	return err
}
