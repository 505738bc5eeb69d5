package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClause_Flags(t *testing.T) {
	c := newClause(1, []Literal{PositiveLiteral(0), PositiveLiteral(1)}, true)
	if !c.Learnt() {
		t.Errorf("Learnt() = false, want true for a learnt clause")
	}
	if c.Garbage() || c.Protected() || c.Moved() {
		t.Errorf("fresh clause has an unexpected flag set: %+v", c)
	}

	c.setGarbage(true)
	if !c.Garbage() {
		t.Errorf("setGarbage(true) did not stick")
	}
	c.setGarbage(false)
	if c.Garbage() {
		t.Errorf("setGarbage(false) did not stick")
	}

	c.SetProtected(true)
	if !c.Protected() {
		t.Errorf("SetProtected(true) did not stick")
	}
}

func TestClause_LockedTracksReason(t *testing.T) {
	s := &VarStore{}
	s.AddVar()
	s.AddVar()
	p := PositiveLiteral(0)
	c := newClause(1, []Literal{p, NegativeLiteral(1)}, false)

	if c.locked(s) {
		t.Errorf("locked() = true before any assignment")
	}

	s.setAssigned(p, 1, 0, c)
	if !c.locked(s) {
		t.Errorf("locked() = false when c is p's reason")
	}

	s.unassign(p)
	if c.locked(s) {
		t.Errorf("locked() = true after unassign cleared the reason")
	}
}

func TestClause_SimplifyDropsRootFalseLiterals(t *testing.T) {
	s := &VarStore{}
	s.AddVar()
	s.AddVar()
	s.AddVar()

	// Variable 0 is true at level 0 (so NegativeLiteral(0) is false), and
	// variable 1 is also true at level 0 (so NegativeLiteral(1) is false).
	s.setAssigned(PositiveLiteral(0), 0, 0, nil)
	s.setAssigned(PositiveLiteral(1), 0, 1, nil)

	c := newClause(1, []Literal{NegativeLiteral(0), NegativeLiteral(1), PositiveLiteral(2)}, false)
	satisfied := c.simplify(s)
	if satisfied {
		t.Fatalf("simplify() reported satisfied, want not-satisfied")
	}

	want := []Literal{PositiveLiteral(2)}
	if diff := cmp.Diff(want, c.Literals); diff != "" {
		t.Errorf("simplify() literals mismatch (-want +got):\n%s", diff)
	}
}

func TestClause_SimplifyReportsSatisfied(t *testing.T) {
	s := &VarStore{}
	s.AddVar()
	s.setAssigned(PositiveLiteral(0), 0, 0, nil)

	c := newClause(1, []Literal{PositiveLiteral(0), NegativeLiteral(1)}, false)
	if !c.simplify(s) {
		t.Errorf("simplify() = false, want true when a literal is true at root level")
	}
}
