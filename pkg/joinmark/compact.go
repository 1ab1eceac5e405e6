package joinmark

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// conjunct is a top-level term of a WHERE clause: an operand reachable from
// the root only through AND and parentheses. slot holds the term; parent is
// the slot of the AND it is an operand of, nil at the root.
type conjunct struct {
	slot   *core.Expr
	parent *core.Expr
}

// conjuncts lists the terms of the filter held in root, left to right.
// Parentheses around a single term belong to the term.
func conjuncts(root *core.Expr) []conjunct {
	var out []conjunct
	collectConjuncts(root, nil, &out)
	return out
}

func collectConjuncts(slot, parent *core.Expr, out *[]conjunct) {
	switch e := (*slot).(type) {
	case nil:
		return
	case *core.BinaryExpr:
		if e.Op == token.AND {
			collectConjuncts(&e.Left, slot, out)
			collectConjuncts(&e.Right, slot, out)
			return
		}
	case *core.ParenExpr:
		if isConjunction(e.Expr) {
			collectConjuncts(&e.Expr, parent, out)
			return
		}
	}
	*out = append(*out, conjunct{slot: slot, parent: parent})
}

func isConjunction(e core.Expr) bool {
	switch x := e.(type) {
	case *core.BinaryExpr:
		return x.Op == token.AND
	case *core.ParenExpr:
		return isConjunction(x.Expr)
	}
	return false
}

// detach removes the term from the tree and repairs its parent.
// Detaching the root term clears the filter.
func detach(c conjunct) {
	*c.slot = nil
	compactSlot(c.parent)
}

// compactSlot replaces a conjunction that lost one operand with the
// surviving operand.
func compactSlot(slot *core.Expr) {
	if slot == nil {
		return
	}
	bin, ok := (*slot).(*core.BinaryExpr)
	if !ok {
		return
	}
	switch {
	case bin.Left == nil:
		*slot = bin.Right
	case bin.Right == nil:
		*slot = bin.Left
	}
}

func unparen(e core.Expr) core.Expr {
	for {
		p, ok := e.(*core.ParenExpr)
		if !ok {
			return e
		}
		e = p.Expr
	}
}
