package sat

import "testing"

func newTestCore(t *testing.T, opts Options) *Core {
	t.Helper()
	c, err := NewCore(opts, nil, nil)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	return c
}

func TestPropagate_BinaryClauseUnitPropagation(t *testing.T) {
	c := newTestCore(t, DefaultOptions)
	c.AddVar() // 0
	c.AddVar() // 1

	// (!0 v 1): 0 true forces 1 true.
	if _, err := c.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(1)}, false, nil); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	if err := c.AssignDecision(PositiveLiteral(0)); err != nil {
		t.Fatalf("AssignDecision: %v", err)
	}
	if conflict := c.Propagate(); conflict != nil {
		t.Fatalf("Propagate() returned a conflict: %s", conflict)
	}

	if c.Store.Val(PositiveLiteral(1)) != True {
		t.Errorf("Val(1) = %v, want True", c.Store.Val(PositiveLiteral(1)))
	}
	if got := c.Store.Level(PositiveLiteral(1)); got != 1 {
		t.Errorf("Level(1) = %d, want 1", got)
	}
}

func TestPropagate_LongClauseUnitPropagation(t *testing.T) {
	c := newTestCore(t, DefaultOptions)
	for i := 0; i < 3; i++ {
		c.AddVar()
	}

	// (!0 v !1 v 2): 0 and 1 true forces 2 true.
	if _, err := c.AddClause([]Literal{NegativeLiteral(0), NegativeLiteral(1), PositiveLiteral(2)}, false, nil); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	if err := c.AssignDecision(PositiveLiteral(0)); err != nil {
		t.Fatalf("AssignDecision(0): %v", err)
	}
	if conflict := c.Propagate(); conflict != nil {
		t.Fatalf("Propagate() after deciding 0 returned a conflict: %s", conflict)
	}
	if c.Store.Val(PositiveLiteral(2)) != Unknown {
		t.Fatalf("Val(2) = %v after only one of two watched literals is false, want Unknown", c.Store.Val(PositiveLiteral(2)))
	}

	if err := c.AssignDecision(PositiveLiteral(1)); err != nil {
		t.Fatalf("AssignDecision(1): %v", err)
	}
	if conflict := c.Propagate(); conflict != nil {
		t.Fatalf("Propagate() after deciding 1 returned a conflict: %s", conflict)
	}

	if c.Store.Val(PositiveLiteral(2)) != True {
		t.Errorf("Val(2) = %v, want True", c.Store.Val(PositiveLiteral(2)))
	}
	if got := c.Store.Level(PositiveLiteral(2)); got != 2 {
		t.Errorf("Level(2) = %d, want 2", got)
	}
}

func TestPropagate_LongClauseFindsReplacementWatch(t *testing.T) {
	c := newTestCore(t, DefaultOptions)
	for i := 0; i < 4; i++ {
		c.AddVar()
	}

	// (0 v 1 v 2 v 3), initially watching 0 and 1.
	cl, err := c.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2), PositiveLiteral(3)}, false, nil)
	if err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	// Falsify 0: the propagator must find 2 (still unassigned) as a
	// replacement watch instead of propagating or conflicting.
	if err := c.AssignDecision(NegativeLiteral(0)); err != nil {
		t.Fatalf("AssignDecision: %v", err)
	}
	if conflict := c.Propagate(); conflict != nil {
		t.Fatalf("Propagate() returned a conflict: %s", conflict)
	}
	if c.Store.Val(PositiveLiteral(1)) != Unknown {
		t.Fatalf("Val(1) = %v, want Unknown: replacement watch should have been found instead of propagating", c.Store.Val(PositiveLiteral(1)))
	}
	if cl.Literals[0] == PositiveLiteral(0) || cl.Literals[1] == PositiveLiteral(0) {
		t.Errorf("clause still watches the falsified literal 0: %s", cl)
	}
}

func TestPropagate_SingleTrailConflictStopsImmediately(t *testing.T) {
	c := newTestCore(t, DefaultOptions)
	c.AddVar() // 0
	c.AddVar() // 1

	// (0 v 1) and (0 v !1): deciding !0 forces 1 true via the first clause,
	// then the second clause (watching 0 and !1) finds both its literals
	// false and conflicts.
	if _, err := c.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false, nil); err != nil {
		t.Fatalf("AddClause 1: %v", err)
	}
	if _, err := c.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)}, false, nil); err != nil {
		t.Fatalf("AddClause 2: %v", err)
	}

	if err := c.AssignDecision(NegativeLiteral(0)); err != nil {
		t.Fatalf("AssignDecision: %v", err)
	}

	conflict := c.Propagate()
	if conflict == nil {
		t.Fatalf("Propagate() returned no conflict, want one")
	}
	for _, lit := range conflict.Literals {
		if c.Store.Val(lit) != False {
			t.Errorf("conflict clause %s has a non-false literal %s", conflict, lit)
		}
	}
}

func TestPropagate_ElevationLowersAssignmentLevel(t *testing.T) {
	c := newTestCore(t, Options{Multitrail: true, MultitrailRepair: true, Chrono: Chrono1})
	for i := 0; i < 3; i++ {
		c.AddVar() // A=0, C=1, X=2
	}

	// !X is a root unit; (X v A) then derives A as a root unit too, once
	// propagated. (!A v C) is registered before any of this, so that when C
	// -- already decided true at a higher level -- is reached through A's
	// consequences, the propagator finds a strictly better (level 0) reason
	// for it and must elevate it down instead of leaving it at its stale
	// decision level.
	if _, err := c.AddClause([]Literal{NegativeLiteral(2)}, false, nil); err != nil {
		t.Fatalf("AddClause unit !X: %v", err)
	}
	if _, err := c.AddClause([]Literal{PositiveLiteral(2), PositiveLiteral(0)}, false, nil); err != nil {
		t.Fatalf("AddClause (X v A): %v", err)
	}
	if _, err := c.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(1)}, false, nil); err != nil {
		t.Fatalf("AddClause (!A v C): %v", err)
	}

	if err := c.AssignDecision(PositiveLiteral(1)); err != nil { // C, level 1
		t.Fatalf("AssignDecision(C): %v", err)
	}

	if conflict := c.Propagate(); conflict != nil {
		t.Fatalf("Propagate(): %s", conflict)
	}

	if got := c.Store.Level(PositiveLiteral(1)); got != 0 {
		t.Errorf("Level(C) = %d, want 0 after elevation past its stale decision level", got)
	}
	if got := c.Store.Val(PositiveLiteral(1)); got != True {
		t.Errorf("Val(C) = %v, want True", got)
	}
	if reason := c.Store.Var(PositiveLiteral(1)).Reason; reason != nil {
		t.Errorf("Var(C).Reason = %v, want nil (elevated to a root unit)", reason)
	}
	if got := c.Store.Level(PositiveLiteral(0)); got != 0 {
		t.Errorf("Level(A) = %d, want 0 (derived as a root unit from !X)", got)
	}
}

func TestPropagate_BuildChainForUnitsReferencesOtherUnits(t *testing.T) {
	c := newTestCore(t, Options{LRAT: true})
	c.AddVar() // 0
	c.AddVar() // 1

	// 0 is a root unit justified by clause id 1.
	clA, err := c.AddClause([]Literal{PositiveLiteral(0)}, false, nil)
	if err != nil || clA != nil {
		t.Fatalf("AddClause unit 0: cl=%v err=%v", clA, err)
	}

	// (!0 v 1): with 0 a root unit, this clause alone derives 1 as a root
	// unit too, via Propagate.
	cl, err := c.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(1)}, false, nil)
	if err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if conflict := c.Propagate(); conflict != nil {
		t.Fatalf("Propagate(): %s", conflict)
	}

	if c.Store.Val(PositiveLiteral(1)) != True {
		t.Fatalf("Val(1) = %v, want True", c.Store.Val(PositiveLiteral(1)))
	}
	if got := c.Store.Level(PositiveLiteral(1)); got != 0 {
		t.Fatalf("Level(1) = %d, want 0 (root unit)", got)
	}

	chain := c.Prop.buildChainForUnits(PositiveLiteral(1), cl)
	if len(chain) != 2 {
		t.Fatalf("chain = %v, want 2 entries (unit_id(0), clause id)", chain)
	}
	if chain[0] != c.Store.UnitID(PositiveLiteral(0)) {
		t.Errorf("chain[0] = %d, want unit id of 0 (%d)", chain[0], c.Store.UnitID(PositiveLiteral(0)))
	}
	if chain[1] != cl.ID {
		t.Errorf("chain[1] = %d, want the clause's own id %d", chain[1], cl.ID)
	}
}

func TestPropagate_MultitrailBuffersConflictThenBacktrackRecovers(t *testing.T) {
	c := newTestCore(t, Options{Multitrail: true, Chrono: Chrono1, LRAT: true})
	c.AddVar() // 0
	c.AddVar() // 1

	if _, err := c.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false, nil); err != nil {
		t.Fatalf("AddClause 1: %v", err)
	}
	if _, err := c.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)}, false, nil); err != nil {
		t.Fatalf("AddClause 2: %v", err)
	}

	if err := c.AssignDecision(NegativeLiteral(0)); err != nil {
		t.Fatalf("AssignDecision: %v", err)
	}

	conflict := c.Propagate()
	if conflict == nil {
		t.Fatalf("Propagate() returned no conflict, want one")
	}
	for _, lit := range conflict.Literals {
		if c.Store.Val(lit) != False {
			t.Errorf("buffered conflict clause %s has a non-false literal %s", conflict, lit)
		}
	}

	// Backtracking out from under a buffered conflict must cleanly undo the
	// decision that caused it, regardless of what is left in the buffer.
	c.Backtrack(0)
	if c.Store.Val(PositiveLiteral(0)) != Unknown {
		t.Errorf("Val(0) = %v after Backtrack(0), want Unknown", c.Store.Val(PositiveLiteral(0)))
	}
	if c.Trail.Level() != 0 {
		t.Errorf("Trail.Level() = %d after Backtrack(0), want 0", c.Trail.Level())
	}
}
