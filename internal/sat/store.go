package sat

// Var holds the per-variable metadata that is only meaningful while the
// variable is assigned.
type Var struct {
	// Level is the decision level at which the variable was assigned (0 is
	// the root level).
	Level int

	// TrailPos is the index of the literal on its owning trail at the time
	// of assignment (single-trail index, or index within the per-level
	// trail in multi-trail mode).
	TrailPos int

	// Reason is either nil (a root unit), decisionReason (a decision), or a
	// pointer to the clause that propagated the assignment.
	Reason *Clause
}

// VarStore is the packed, symmetric three-valued assignment together with
// per-variable metadata, indexed directly by literal for O(1) branch-free
// lookups on the hot path.
type VarStore struct {
	// vals is indexed by Literal and kept symmetric: vals[l] == -vals[l^1].
	vals []LBool

	vars []Var

	// unitID is indexed by Literal and records, for a literal currently (or
	// once) true at level 0, the id of the clause that justifies it as a
	// root unit. It is only meaningful for literals that have been root
	// units; the propagator's LRAT chain builder reads it to resolve a
	// root-level literal back to the clause that forced it.
	unitID []uint64
}

// NumVars returns the number of variables currently tracked.
func (s *VarStore) NumVars() int {
	return len(s.vars)
}

// AddVar grows the store by one fresh, unassigned variable and returns its
// index. Capacity grows by doubling; existing entries are preserved.
func (s *VarStore) AddVar() int {
	idx := len(s.vars)
	s.vars = append(s.vars, Var{Level: -1, Reason: nil})
	s.vals = append(s.vals, Unknown, Unknown)
	s.unitID = append(s.unitID, 0, 0)
	return idx
}

// UnitID returns the id of the clause recorded as justifying lit as a root
// unit, or 0 if none has been recorded.
func (s *VarStore) UnitID(lit Literal) uint64 {
	return s.unitID[lit]
}

// SetUnitID records id as the clause justifying lit as a root unit.
func (s *VarStore) SetUnitID(lit Literal, id uint64) {
	s.unitID[lit] = id
}

// Val returns the current value of literal l: +1 true, -1 false, 0 unknown.
// It is symmetric by construction: Val(l) == -Val(l.Opposite()).
func (s *VarStore) Val(l Literal) LBool {
	return s.vals[l]
}

// Var returns the metadata record for the variable of literal l. The record
// is only meaningful while the variable is assigned.
func (s *VarStore) Var(l Literal) *Var {
	return &s.vars[l.VarID()]
}

// VarByID returns the metadata record for variable v directly.
func (s *VarStore) VarByID(v int) *Var {
	return &s.vars[v]
}

// Level returns the assignment level of literal l's variable, or -1 if
// unassigned.
func (s *VarStore) Level(l Literal) int {
	return s.vars[l.VarID()].Level
}

// setAssigned records l as true (and l.Opposite() as false) with the given
// level, trail position, and reason. It does not touch the trail itself;
// callers (Trail, Propagator) are responsible for also pushing l onto the
// appropriate trail sequence.
func (s *VarStore) setAssigned(l Literal, level, trailPos int, reason *Clause) {
	s.vals[l] = True
	s.vals[l.Opposite()] = False
	s.reassign(l, level, trailPos, reason)
}

// reassign updates the metadata (level/trail position/reason) of an
// already-assigned literal without touching its value. It is used both by
// setAssigned and, on its own, by elevation and by chronological
// backtracking's trail compaction, which relocates a surviving literal's
// trail position without unassigning it.
func (s *VarStore) reassign(l Literal, level, trailPos int, reason *Clause) {
	v := &s.vars[l.VarID()]
	v.Level = level
	v.TrailPos = trailPos
	v.Reason = reason
}

// unassign resets l's variable back to unknown. Level and trail position
// are left stale (nothing may read them for an unassigned variable), but
// Reason is cleared so that Clause.locked never mistakes a stale pointer
// on an unassigned variable for a genuine lock.
func (s *VarStore) unassign(l Literal) {
	s.vals[l] = Unknown
	s.vals[l.Opposite()] = Unknown
	s.vars[l.VarID()].Reason = nil
}
