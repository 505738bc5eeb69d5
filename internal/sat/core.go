package sat

import "fmt"

// Core is the façade binding the variable/value store, trail, watch index
// and propagator together into the single surface an external search loop
// (out of scope; see internal/search) drives.
type Core struct {
	Store   *VarStore
	Trail   *Trail
	Watches *WatchIndex
	Prop    *Propagator

	// Arena is the optional out-of-scope clause allocator; it is only
	// consulted by AddClause when Options.Arena is set, so that running
	// without one configured never changes behavior.
	Arena ClauseArena

	opts     Options
	observer Observer
	ids      IDGen

	clauses []*Clause
}

// NewCore builds an empty Core under the given options and observer.
// observer may be nil (NoOpObserver is used). heuristic may be nil
// (NoOpHeuristic is used).
func NewCore(opts Options, observer Observer, heuristic DecisionHeuristic) (*Core, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = NoOpObserver{}
	}
	if heuristic == nil {
		heuristic = NoOpHeuristic{}
	}

	store := &VarStore{}
	trail := NewTrail(store, opts.Multitrail, opts.Chrono)
	trail.Heuristic = heuristic
	watches := &WatchIndex{}

	c := &Core{
		Store:    store,
		Trail:    trail,
		Watches:  watches,
		opts:     opts,
		observer: observer,
	}
	c.Prop = NewPropagator(store, trail, watches, opts, observer, &c.ids)
	return c, nil
}

// AddVar grows the variable store by one and returns its index.
func (c *Core) AddVar() int {
	idx := c.Store.AddVar()
	c.Watches.Grow()
	return idx
}

// AddClause adds lits as an original (AddOriginal) or derived (AddDerived)
// clause. literals of size 0 are an empty clause (reported
// via Delete-free AddDerived/AddOriginal with no literals, and left for the
// caller to treat as an immediate UNSAT conclusion). Size-1 clauses do not
// enter the clause database: they are reported to the observer and then
// assigned directly as root units via AssignUnit. Size >= 2 clauses are
// watched on their first two literals.
//
// chain is the LRAT hint chain for a derived clause (ignored for original
// clauses, and for non-LRAT configurations); it is the caller's
// responsibility (the search/conflict-analysis collaborator) to build it.
func (c *Core) AddClause(lits []Literal, learnt bool, chain []uint64) (*Clause, error) {
	id := c.ids.Next()
	if learnt {
		c.observer.AddDerived(id, lits, chain)
	} else {
		c.observer.AddOriginal(id, lits)
	}

	if len(lits) == 0 {
		return nil, nil
	}

	if len(lits) == 1 {
		c.Store.SetUnitID(lits[0], id)
		if err := c.AssignUnit(lits[0]); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var cl *Clause
	if c.opts.Arena && c.Arena != nil {
		cl = c.Arena.NewClause(lits, learnt)
		cl.ID = id
	} else {
		cl = newClause(id, lits, learnt)
	}
	c.clauses = append(c.clauses, cl)
	c.watchNew(cl)
	return cl, nil
}

func (c *Core) watchNew(cl *Clause) {
	isBinary := len(cl.Literals) == 2
	c.Watches.Watch(cl.Literals[0].Opposite(), cl.Literals[1], cl, isBinary)
	c.Watches.Watch(cl.Literals[1].Opposite(), cl.Literals[0], cl, isBinary)
}

// DeleteClause removes cl from the clause database and reports it to the
// observer. The caller must ensure cl is not locked (is not currently
// somebody's reason).
func (c *Core) DeleteClause(cl *Clause) error {
	if cl.locked(c.Store) {
		return fmt.Errorf("sat: cannot delete locked clause %s", cl)
	}
	c.observer.Delete(cl.ID, cl.Literals)
	cl.setGarbage(true)
	if len(cl.Literals) != 2 {
		c.Watches.Unwatch(cl.Literals[0].Opposite(), cl)
		c.Watches.Unwatch(cl.Literals[1].Opposite(), cl)
	}
	// Binary-clause watches are left in place and dropped lazily: binaryStep
	// checks Garbage whenever the blocker is not already true and drops the
	// watch then, so no eager linear Unwatch scan is made here.
	return nil
}

// AssignDecision opens a new decision level with lit as its decision
// literal. Precondition: lit is currently unassigned.
func (c *Core) AssignDecision(lit Literal) error {
	if c.Store.Val(lit) != Unknown {
		return fmt.Errorf("sat: assign_decision on already-assigned literal %s", lit)
	}
	c.Trail.NewDecisionLevel(lit)
	level := c.Trail.Level()
	pos := c.Trail.Size(level)
	c.Store.setAssigned(lit, level, pos, decisionReason)
	c.Trail.Push(lit, level)
	return nil
}

// AssignUnit assigns lit as a root-level unit directly, with no reason
// clause. Precondition: decision level 0, lit currently unassigned. The
// caller must already have reported the justifying clause to the observer
// and recorded its id via Store.SetUnitID if one is needed for later LRAT
// chains.
func (c *Core) AssignUnit(lit Literal) error {
	if c.Trail.Level() != 0 {
		return fmt.Errorf("sat: assign_unit outside decision level 0")
	}
	if c.Store.Val(lit) != Unknown {
		return fmt.Errorf("sat: assign_unit on already-assigned literal %s", lit)
	}
	pos := c.Trail.Size(0)
	c.Store.setAssigned(lit, 0, pos, nil)
	c.Trail.Push(lit, 0)
	return nil
}

// AssignDriving assigns lit as propagated by reason, at the level the
// propagator would itself compute: used by the search collaborator to
// enqueue a just-learnt asserting clause's unit literal directly, without
// waiting for the next Propagate call to find it.
func (c *Core) AssignDriving(lit Literal, reason *Clause) error {
	if c.Store.Val(lit) != Unknown {
		return fmt.Errorf("sat: assign_driving on already-assigned literal %s", lit)
	}
	level := c.Prop.assignmentLevel(c.Trail.Level(), reason.Literals, lit)
	c.Prop.assign(lit, reason, level)
	return nil
}

// Propagate runs the propagator to fixpoint; see Propagator.Propagate.
func (c *Core) Propagate() *Clause {
	return c.Prop.Propagate()
}

// Backtrack undoes assignments down to target level; see Trail.Backtrack.
func (c *Core) Backtrack(target int) {
	c.Trail.Backtrack(target)
}

// ConcludeUnsat reports a global (decision-level-0) conflict to the
// observer as the empty clause, building its LRAT chain if internal chains
// are enabled, and returns the id minted for it.
func (c *Core) ConcludeUnsat(conflict *Clause) uint64 {
	var chain []uint64
	if c.opts.LRAT && !c.opts.LRATExternal {
		chain = c.Prop.BuildChainForEmpty(conflict)
	}
	id := c.ids.Next()
	c.observer.AddDerived(id, nil, chain)
	return id
}

// NumVars returns the number of variables currently tracked.
func (c *Core) NumVars() int {
	return c.Store.NumVars()
}
