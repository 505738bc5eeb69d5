package sat

// Propagator performs unit propagation over the two watched literals of
// each clause, in either classical (single-trail, non-chronological) or
// chronological/multi-trail mode, optionally building LRAT hint chains as
// it goes.
type Propagator struct {
	store   *VarStore
	trail   *Trail
	watches *WatchIndex
	opts    Options

	observer Observer
	ids      *IDGen

	// tmp is scratch storage for the compacted watch list being rebuilt
	// while scanning a literal's watchers; reused across calls to avoid
	// reallocating on every propagation step.
	tmp []Watch

	// chain is scratch storage for the LRAT hint chain under construction;
	// reused for the same reason.
	chain []uint64
}

// IDGen hands out the monotonically increasing clause ids the proof mirror
// addresses clauses by. Core and Propagator share one, so that ids minted
// for root units derived mid-propagation never collide with ids minted for
// clauses added through Core.AddClause.
type IDGen struct {
	next uint64
}

// Next returns a fresh id, starting at 1 (0 is reserved as "no id").
func (g *IDGen) Next() uint64 {
	g.next++
	return g.next
}

// NewPropagator builds a Propagator over the given collaborators. observer
// may be nil, in which case NoOpObserver is used.
func NewPropagator(store *VarStore, trail *Trail, watches *WatchIndex, opts Options, observer Observer, ids *IDGen) *Propagator {
	if observer == nil {
		observer = NoOpObserver{}
	}
	return &Propagator{
		store:    store,
		trail:    trail,
		watches:  watches,
		opts:     opts,
		observer: observer,
		ids:      ids,
	}
}

// Propagate runs unit propagation to fixpoint. In single-trail mode
// it stops and returns the first falsified clause it finds. In multi-trail
// mode it first attempts to repair any clauses left over from a previous
// wave (propagateConflicts), then propagates every level bottom-up to
// fixpoint, buffering any clauses found falsified along the way; if any
// remain unresolved at the end, the one falsified at the smallest level is
// returned (it is not removed from the buffer — that only happens once
// propagateConflicts repairs it on a later call).
func (p *Propagator) Propagate() *Clause {
	if p.trail.multitrail {
		p.propagateConflicts()
	}

	for {
		level := p.trail.NextLevelToPropagate(-1)
		if level < 0 {
			break
		}
		if conflict := p.propagateLevel(level); conflict != nil {
			return conflict
		}
	}

	p.trail.SetNoConflictUntil(p.trail.Size(0))

	if p.trail.multitrail && p.trail.Conflicts.Size() > 0 {
		return p.smallestLevelConflict()
	}
	return nil
}

func (p *Propagator) smallestLevelConflict() *Clause {
	var best *Clause
	bestLevel := -1
	for i := 0; i < p.trail.Conflicts.Size(); i++ {
		c := p.trail.Conflicts.Pop()
		p.trail.Conflicts.Push(c)
		lvl := p.conflictLevel(c)
		if best == nil || lvl < bestLevel {
			best = c
			bestLevel = lvl
		}
	}
	return best
}

// conflictLevel is the level at which a falsified clause became falsified:
// the maximum assignment level among its (all-false) literals.
func (p *Propagator) conflictLevel(c *Clause) int {
	lvl := 0
	for _, lit := range c.Literals {
		if l := p.store.Level(lit); l > lvl {
			lvl = l
		}
	}
	return lvl
}

// propagateLevel propagates every not-yet-propagated literal of the given
// level's sequence, in order, advancing its cursor as it goes. In
// single-trail mode a conflict stops the scan immediately and is returned;
// in multi-trail mode conflicts are buffered and the scan continues.
func (p *Propagator) propagateLevel(level int) *Clause {
	for {
		cursor := p.trail.Propagated(level)
		if cursor >= p.trail.Size(level) {
			return nil
		}
		lit := p.trail.TrailOf(level)[cursor]
		p.trail.SetPropagated(level, cursor+1)

		litLevel := p.store.Var(lit).Level
		if p.trail.multitrail && litLevel < level {
			// Stale: lit was elevated to a lower level after being placed
			// here; its consequences were already (or will be) propagated
			// from its true level's sequence.
			continue
		}

		// litLevel, not level, is passed on as the level currently being
		// propagated from: in single-trail mode one drain can walk literals
		// spanning several real decision levels under chronological
		// backtracking, so level itself (the blanket value
		// NextLevelToPropagate returned to get this drain started) is not
		// necessarily lit's own level.
		if conflict := p.propagateLiteral(litLevel, lit); conflict != nil {
			// Single-trail mode only: multi-trail conflicts are buffered
			// directly by propagateLiteral.
			return conflict
		}
	}
}

// propagateLiteral processes every watcher of -lit (lit having just become
// true). In single-trail mode it returns the first conflict found and stops
// dereferencing further watchers. In multi-trail mode every conflict found
// is pushed directly onto the trail's conflict buffer and scanning
// continues; propagateLiteral itself then always returns nil.
func (p *Propagator) propagateLiteral(proplevel int, lit Literal) *Clause {
	negLit := lit.Opposite()
	// Clauses are registered at key = watchedLiteral.Opposite() (watchNew),
	// so that the entry is found here, when lit itself (the opposite of the
	// watched literal negLit) is assigned true: negLit is exactly the
	// watched literal that just became false.
	ws := p.watches.WatchesOf(lit)

	p.tmp = p.tmp[:0]
	var firstConflict *Clause

	for i := 0; i < len(ws); i++ {
		w := ws[i]

		if firstConflict != nil && !p.trail.multitrail {
			// Single-trail mode: stop dereferencing further watchers, but
			// preserve them unvisited in the compacted list.
			p.tmp = append(p.tmp, ws[i:]...)
			break
		}

		var c *Clause
		if w.IsBinary {
			c = p.binaryStep(proplevel, negLit, w)
		} else {
			c = p.longStep(proplevel, negLit, w.Clause)
		}
		if c == nil {
			continue
		}
		if firstConflict == nil {
			firstConflict = c
		}
		if p.trail.multitrail {
			// Multi-trail mode: every conflict found is buffered, not just
			// the first; scanning continues regardless.
			p.trail.Conflicts.Push(c)
		}
	}

	p.watches.SetWatchesOf(lit, append([]Watch(nil), p.tmp...))
	if p.trail.multitrail {
		// Already buffered above; the caller only needs a single-trail
		// conflict to stop on.
		return nil
	}
	return firstConflict
}

// binaryStep handles a single binary-clause watcher of negLit. Binary
// clauses never change which two literals they watch, so the watch is
// kept unless the clause is garbage, which is checked only when the
// blocker is not already true.
func (p *Propagator) binaryStep(proplevel int, negLit Literal, w Watch) *Clause {
	other := w.Blocker
	val := p.store.Val(other)

	repair := p.multisatRepair(other, proplevel)

	switch {
	case val > 0 && !repair:
		p.tmp = append(p.tmp, w)
		return nil
	case w.Clause.Garbage():
		return nil // deleted by Core.DeleteClause: dropped from the compacted list
	case val > 0 && repair:
		p.elevate(other, w.Clause, proplevel)
		p.tmp = append(p.tmp, w)
		return nil
	case val < 0:
		p.tmp = append(p.tmp, w)
		return w.Clause
	default: // unknown: unit
		level := p.assignmentLevel(proplevel, w.Clause.Literals, other)
		p.assign(other, w.Clause, level)
		p.tmp = append(p.tmp, w)
		return nil
	}
}

// longStep handles a single long-clause (size >= 3) watcher of negLit.
func (p *Propagator) longStep(proplevel int, negLit Literal, c *Clause) *Clause {
	if c.Garbage() {
		return nil // dropped from the compacted list
	}

	if c.Literals[0] == negLit {
		c.Literals[0], c.Literals[1] = c.Literals[1], c.Literals[0]
	}
	other := c.Literals[0]
	val := p.store.Val(other)
	repair := p.multisatRepair(other, proplevel)

	if val > 0 && !repair {
		p.tmp = append(p.tmp, Watch{Clause: c, Blocker: other, IsBinary: false})
		return nil
	}

	if r, idx, ok := p.findReplacement(c); ok {
		rval := p.store.Val(r)
		if rval > 0 {
			if rep := p.multisatRepair(r, proplevel); rep {
				p.elevate(r, c, proplevel)
			}
		}
		c.Literals[1], c.Literals[idx] = c.Literals[idx], c.Literals[1]
		p.watches.Watch(r.Opposite(), c.Literals[0], c, false)
		// Dropped from negLit's list: the watch now lives on r's.
		return nil
	}

	switch {
	case val == 0:
		level := p.assignmentLevel(proplevel, c.Literals, other)
		p.assign(other, c, level)
		if level > proplevel && (p.trail.multitrail || p.opts.Chrono == Chrono2) {
			p.rewatchToLevel(c, negLit, level)
		} else {
			p.tmp = append(p.tmp, Watch{Clause: c, Blocker: other, IsBinary: false})
		}
		return nil
	case val < 0:
		p.tmp = append(p.tmp, Watch{Clause: c, Blocker: other, IsBinary: false})
		return c
	default: // val > 0, only reachable when repair is true and no replacement exists
		p.elevate(other, c, proplevel)
		p.rewatchTwoHighest(c, negLit)
		return nil
	}
}

// multisatRepair reports whether lit (assumed currently true) is a
// candidate for elevation under this clause: repair is only ever attempted
// in multi-trail mode with MultitrailRepair enabled, and only when lit sits
// at a level strictly above the level currently being propagated.
func (p *Propagator) multisatRepair(lit Literal, proplevel int) bool {
	if !p.trail.multitrail || !p.opts.MultitrailRepair {
		return false
	}
	return p.store.Level(lit) > proplevel
}

// findReplacement searches c.Literals[2:] for a literal that is not false,
// using Gent's two-cursor scheme: resume at c.Pos, wrap to the start of the
// tail once. On success the replacement's index is saved to c.Pos; when
// no replacement exists c.Pos is reset to 2.
func (p *Propagator) findReplacement(c *Clause) (Literal, int, bool) {
	n := len(c.Literals)
	if c.Pos < 2 || c.Pos > n {
		c.Pos = 2
	}
	for idx := c.Pos; idx < n; idx++ {
		if p.store.Val(c.Literals[idx]) != False {
			c.Pos = idx
			return c.Literals[idx], idx, true
		}
	}
	for idx := 2; idx < c.Pos; idx++ {
		if p.store.Val(c.Literals[idx]) != False {
			c.Pos = idx
			return c.Literals[idx], idx, true
		}
	}
	c.Pos = 2
	return InvalidLiteral, -1, false
}

// rewatchToLevel is the chronological refinement of the unit case: when the
// just-assigned literal's computed level exceeds the level currently being
// propagated, a literal of the clause already sitting at that higher level
// is chosen as the second watch instead of negLit, since negLit's own
// level (proplevel) is now lower than necessary. Only called when
// chrono == Chrono2 or multitrail is enabled (see longStep); Chrono1 keeps
// the unit watched on negLit regardless of level.
func (p *Propagator) rewatchToLevel(c *Clause, negLit Literal, level int) {
	for idx := 2; idx < len(c.Literals); idx++ {
		lit := c.Literals[idx]
		if lit == c.Literals[0] {
			continue
		}
		if p.store.Level(lit) == level {
			c.Literals[1], c.Literals[idx] = c.Literals[idx], c.Literals[1]
			p.watches.Watch(c.Literals[1].Opposite(), c.Literals[0], c, false)
			return
		}
	}
	// No literal sits exactly at level: keep negLit as the watch.
	p.tmp = append(p.tmp, Watch{Clause: c, Blocker: c.Literals[0], IsBinary: false})
}

// rewatchTwoHighest re-selects the clause's two watched literals to be its
// two highest-assignment-level literals. It is only reached on the
// multisat-only path, after an already-true literal has just been elevated.
//
// negLit is the literal whose watch list the caller (propagateLiteral) is
// mid-scanning: that list is about to be overwritten wholesale via
// SetWatchesOf once the scan completes, so a newly selected watched
// literal equal to negLit must be appended to p.tmp instead of registered
// directly in the watch index, or the registration would be silently
// dropped. Both final watched literals need an entry; registering only
// one (as before) could leave the clause watched on neither.
func (p *Propagator) rewatchTwoHighest(c *Clause, negLit Literal) {
	hi0, hi1 := 0, 1
	if p.store.Level(c.Literals[hi1]) > p.store.Level(c.Literals[hi0]) {
		hi0, hi1 = hi1, hi0
	}
	for idx := 2; idx < len(c.Literals); idx++ {
		lvl := p.store.Level(c.Literals[idx])
		if lvl > p.store.Level(c.Literals[hi0]) {
			hi1 = hi0
			hi0 = idx
		} else if lvl > p.store.Level(c.Literals[hi1]) {
			hi1 = idx
		}
	}
	c.Literals[0], c.Literals[hi0] = c.Literals[hi0], c.Literals[0]
	if hi1 == 0 {
		hi1 = hi0
	}
	c.Literals[1], c.Literals[hi1] = c.Literals[hi1], c.Literals[1]

	p.registerWatch(c, c.Literals[0], c.Literals[1], negLit)
	p.registerWatch(c, c.Literals[1], c.Literals[0], negLit)
}

// registerWatch records c as watching watched (blocked by blocker), routing
// through p.tmp instead of the watch index directly when watched equals
// negLit: that is the literal whose watch list is currently being rebuilt
// by propagateLiteral, and a direct Watch call there would be clobbered by
// the caller's later SetWatchesOf.
func (p *Propagator) registerWatch(c *Clause, watched, blocker, negLit Literal) {
	if watched == negLit {
		p.tmp = append(p.tmp, Watch{Clause: c, Blocker: blocker, IsBinary: false})
		return
	}
	p.watches.Watch(watched.Opposite(), blocker, c, false)
}

// assignmentLevel computes the level a newly propagated literal should be
// assigned at: the current decision level under classical backtracking, or
// the maximum level among the clause's other (already false) literals
// under chronological backtracking.
func (p *Propagator) assignmentLevel(proplevel int, lits []Literal, assigned Literal) int {
	if p.opts.Chrono == ChronoOff {
		return p.trail.Level()
	}
	maxLevel := 0
	for _, o := range lits {
		if o == assigned {
			continue
		}
		if l := p.store.Level(o); l > maxLevel {
			maxLevel = l
		}
	}
	return maxLevel
}

// assign records lit as newly true via reason, at the given level, pushing
// it onto the appropriate trail sequence and, if the computed level is 0,
// finalizing it as a root unit.
func (p *Propagator) assign(lit Literal, reason *Clause, level int) {
	pos := p.trail.Size(level)
	if level == 0 {
		p.finalizeRootUnit(lit, reason)
		reason = nil
	}
	p.store.setAssigned(lit, level, pos, reason)
	p.trail.Push(lit, level)
}

// elevate re-homes an already-true literal to a lower level once a better
// (lower-level) reason for it has been found.
func (p *Propagator) elevate(lit Literal, reason *Clause, proplevel int) {
	newLevel := p.assignmentLevel(proplevel, reason.Literals, lit)
	if newLevel >= p.store.Level(lit) {
		return
	}
	if newLevel == 0 {
		p.finalizeRootUnit(lit, reason)
		reason = nil
	}
	pos := p.trail.Size(newLevel)
	p.store.reassign(lit, newLevel, pos, reason)
	p.trail.Push(lit, newLevel)
}

// finalizeRootUnit records a newly derived root-level unit: it mints a
// fresh clause id, builds the LRAT chain justifying it (if LRAT chains are
// being built internally), reports it to the observer, and records it as
// lit's own unit justification for later chains to reference.
func (p *Propagator) finalizeRootUnit(lit Literal, reason *Clause) {
	if reason == nil {
		return
	}
	var chain []uint64
	if p.opts.LRAT && !p.opts.LRATExternal {
		chain = p.buildChainForUnits(lit, reason)
	}
	id := p.ids.Next()
	p.observer.AddDerived(id, []Literal{lit}, chain)
	p.store.SetUnitID(lit, id)
}

// buildChainForUnits builds the LRAT hint chain for lit, derived as a unit
// by reason: the unit ids of the negations of reason's other (false)
// literals, followed by reason's own id.
func (p *Propagator) buildChainForUnits(lit Literal, reason *Clause) []uint64 {
	p.chain = p.chain[:0]
	for _, o := range reason.Literals {
		if o == lit {
			continue
		}
		p.chain = append(p.chain, p.store.UnitID(o.Opposite()))
	}
	p.chain = append(p.chain, reason.ID)
	return append([]uint64(nil), p.chain...)
}

// BuildChainForEmpty builds the LRAT hint chain for the empty clause,
// derived from a conflict found at decision level 0: the unit ids of the
// negations of every (false) literal of conflict, followed by conflict's
// own id.
func (p *Propagator) BuildChainForEmpty(conflict *Clause) []uint64 {
	chain := make([]uint64, 0, len(conflict.Literals)+1)
	for _, lit := range conflict.Literals {
		chain = append(chain, p.store.UnitID(lit.Opposite()))
	}
	chain = append(chain, conflict.ID)
	return chain
}

// propagateConflicts attempts to repair every clause left in the conflict
// buffer from a previous wave: for each, it finds the two
// not-false literals of highest level (first, second); if first is still
// unassigned, it is assigned (or elevated, if already true at too high a
// level to serve as the watch) and the clause is rewatched on first and
// second, then dropped from the buffer. A clause with no unfalsified
// literal left is still genuinely conflicting and stays buffered.
func (p *Propagator) propagateConflicts() {
	if p.trail.Conflicts.Size() == 0 {
		return
	}
	p.trail.Conflicts.Compact(func(c *Clause) bool {
		return !p.repairConflict(c)
	})
}

// repairConflict reports whether c was successfully repaired (and should
// therefore be dropped from the buffer).
func (p *Propagator) repairConflict(c *Clause) bool {
	firstIdx, secondIdx := -1, -1
	for idx, lit := range c.Literals {
		if p.store.Val(lit) == False {
			continue
		}
		if firstIdx < 0 || p.store.Level(lit) > p.store.Level(c.Literals[firstIdx]) {
			secondIdx = firstIdx
			firstIdx = idx
		} else if secondIdx < 0 || p.store.Level(lit) > p.store.Level(c.Literals[secondIdx]) {
			secondIdx = idx
		}
	}
	if firstIdx < 0 {
		return false // no unfalsified literal: genuinely still a conflict
	}

	first := c.Literals[firstIdx]
	if p.store.Val(first) == Unknown {
		level := p.assignmentLevel(p.trail.Level(), c.Literals, first)
		p.assign(first, c, level)
	}

	// c is still watched on its old pair of literals (the propagation step
	// that found this conflict left the watch list untouched); drop those
	// before rewatching on first/second.
	oldA, oldB := c.Literals[0], InvalidLiteral
	if len(c.Literals) > 1 {
		oldB = c.Literals[1]
	}
	p.watches.Unwatch(oldA.Opposite(), c)
	if oldB != InvalidLiteral && oldB != oldA {
		p.watches.Unwatch(oldB.Opposite(), c)
	}

	// first is now true (either already was, or was just assigned);
	// rewatch the clause on first and second (if any).
	c.Literals[0], c.Literals[firstIdx] = c.Literals[firstIdx], c.Literals[0]
	if secondIdx == 0 {
		secondIdx = firstIdx
	}
	if len(c.Literals) > 1 {
		c.Literals[1], c.Literals[secondIdx] = c.Literals[secondIdx], c.Literals[1]
		p.watches.Watch(c.Literals[0].Opposite(), c.Literals[1], c, len(c.Literals) == 2)
		p.watches.Watch(c.Literals[1].Opposite(), c.Literals[0], c, len(c.Literals) == 2)
	}
	return true
}
