package sat

// controlFrame is a decision frame on the control stack: the literal
// decided at this level, and (single-trail mode) the trail size at the
// time the decision was made.
type controlFrame struct {
	decisionLit Literal
	start       int
}

// Trail tracks assigned literals in assignment order. It supports both the
// single-trail mode (one ordered sequence of assigned literals, a control
// stack of decision frames) and the multi-trail mode (one sequence per
// level, plus a per-level propagation cursor and a conflict buffer), as
// selected by Options.Multitrail.
//
// Level 0 (the root level) is always the shared slice root: in multi-trail
// mode, levels[0] plays the same role as the single trail.
type Trail struct {
	store *VarStore

	multitrail bool
	chrono     Chrono

	// Heuristic is called during unassign.
	Heuristic DecisionHeuristic

	control []controlFrame

	// Single-trail mode state.
	trail     []Literal
	propagated int

	// Multi-trail mode state: one literal sequence and one propagation
	// cursor per level. levels[0] is the root trail; the single-trail
	// fields above are unused when multitrail is enabled.
	levels           [][]Literal
	levelPropagated  []int

	// Conflicts is the multi-trail conflict buffer: clauses found falsified
	// during a propagation wave that have not yet been resolved by
	// propagateConflicts.
	Conflicts Queue[*Clause]

	// noConflictUntil is the largest trail prefix known to be conflict-free,
	// exposed to the search collaborator for target/best phase bookkeeping.
	noConflictUntil int
}

// NewTrail returns a new, empty Trail operating in the given mode against
// store. store must already exist for the lifetime of the trail (they are
// constructed together by Core).
func NewTrail(store *VarStore, multitrail bool, chrono Chrono) *Trail {
	t := &Trail{
		store:      store,
		multitrail: multitrail,
		chrono:     chrono,
	}
	if multitrail {
		t.levels = [][]Literal{nil} // level 0 shared root trail
		t.levelPropagated = []int{0}
	}
	t.Conflicts = *NewQueue[*Clause](8)
	return t
}

// Level returns the current decision level.
func (t *Trail) Level() int {
	return len(t.control)
}

// NewDecisionLevel opens a new decision level with decisionLit as its
// decision literal.
func (t *Trail) NewDecisionLevel(decisionLit Literal) {
	t.control = append(t.control, controlFrame{
		decisionLit: decisionLit,
		start:       len(t.trail),
	})
	if t.multitrail {
		t.levels = append(t.levels, nil)
		t.levelPropagated = append(t.levelPropagated, 0)
	}
}

// Push appends lit to the sequence for level. In single-trail mode level is
// ignored; the literal always lands on the shared trail slice.
func (t *Trail) Push(lit Literal, level int) {
	if t.multitrail {
		t.levels[level] = append(t.levels[level], lit)
		return
	}
	t.trail = append(t.trail, lit)
}

// Size returns the number of literals assigned at exactly the given level's
// sequence (multi-trail mode), or the size of the shared trail (level is
// ignored in single-trail mode, since there is only one sequence).
func (t *Trail) Size(level int) int {
	if t.multitrail {
		return len(t.levels[level])
	}
	return len(t.trail)
}

// TrailOf returns the literal sequence for the given level.
func (t *Trail) TrailOf(level int) []Literal {
	if t.multitrail {
		return t.levels[level]
	}
	return t.trail
}

// Propagated returns the propagation cursor for the given level.
func (t *Trail) Propagated(level int) int {
	if t.multitrail {
		return t.levelPropagated[level]
	}
	return t.propagated
}

// SetPropagated updates the propagation cursor for the given level.
func (t *Trail) SetPropagated(level, n int) {
	if t.multitrail {
		t.levelPropagated[level] = n
		return
	}
	t.propagated = n
}

// NextLevelToPropagate returns the smallest level greater than last whose
// propagated cursor is below its trail size, or -1 at fixpoint. In
// single-trail mode there is only one cursor to drain, so the level
// returned is simply the current decision level; propagateLevel still
// derives each processed literal's real level from the variable store,
// since a single drain can cross several decision levels under
// chronological backtracking.
func (t *Trail) NextLevelToPropagate(last int) int {
	if !t.multitrail {
		if t.propagated < len(t.trail) {
			return t.Level()
		}
		return -1
	}
	for l := last + 1; l <= t.Level(); l++ {
		if t.levelPropagated[l] < len(t.levels[l]) {
			return l
		}
	}
	return -1
}

// NoConflictUntil returns the largest trail prefix known to be
// conflict-free, for the (out-of-scope) search loop's phase bookkeeping.
func (t *Trail) NoConflictUntil() int { return t.noConflictUntil }

// SetNoConflictUntil is called by the propagator once a wave completes.
func (t *Trail) SetNoConflictUntil(n int) {
	if n > t.noConflictUntil {
		t.noConflictUntil = n
	}
}

// DecisionLiteral returns the decision literal opened at the given level.
func (t *Trail) DecisionLiteral(level int) Literal {
	return t.control[level-1].decisionLit
}

func (t *Trail) unassignOne(lit Literal) {
	t.store.unassign(lit)
	if t.Heuristic != nil {
		t.Heuristic.ReinsertUnassigned(lit)
		t.Heuristic.UpdateQueueUnassigned(lit)
	}
}

// Backtrack unassigns the trail down to target level. In single-trail mode
// with chronological backtracking enabled, literals
// assigned out of order (assignment level <= target) are kept: this is the
// chronological-backtracking invariant. In multi-trail mode, backtrack
// instead walks each level's own sequence; literals that were elevated
// (their current assignment level differs from the level they are
// recorded under) are left assigned at their true, lower level.
func (t *Trail) Backtrack(target int) {
	if target >= t.Level() {
		return
	}
	if t.multitrail {
		t.multiBacktrack(target)
		return
	}
	t.singleBacktrack(target)
}

func (t *Trail) singleBacktrack(target int) {
	assignedFrom := t.control[target].start

	end := len(t.trail)
	i, j := assignedFrom, assignedFrom
	for i < end {
		lit := t.trail[i]
		i++
		level := t.store.Var(lit).Level
		if level > target {
			t.unassignOne(lit)
			continue
		}
		// Chronological-backtracking invariant: an out-of-order assignment
		// (assigned at a level <= target even though it sits above
		// assignedFrom on the trail) survives the backtrack, compacted in
		// place.
		t.trail[j] = lit
		t.store.reassign(lit, level, j, t.store.Var(lit).Reason)
		j++
	}
	t.trail = t.trail[:j]

	if t.propagated > j {
		t.propagated = j
	}
	if t.noConflictUntil > j {
		t.noConflictUntil = j
	}

	t.control = t.control[:target]
}

func (t *Trail) multiBacktrack(target int) {
	for l := t.Level(); l > target; l-- {
		seq := t.levels[l]
		for _, lit := range seq {
			v := t.store.Var(lit)
			if v.Level == l {
				t.unassignOne(lit)
			}
			// Otherwise lit was elevated to a lower level: it is handled
			// under that level's own sequence (unassigned there if that
			// level is also above target, kept otherwise) and is simply
			// dropped from this (discarded) per-level sequence.
		}
	}
	t.levels = t.levels[:target+1]
	t.levelPropagated = t.levelPropagated[:target+1]

	if t.noConflictUntil > len(t.levels[0]) {
		t.noConflictUntil = len(t.levels[0])
	}

	t.control = t.control[:target]
}
