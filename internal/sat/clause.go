package sat

import "strings"

// clauseFlag packs the clause's boolean bookkeeping bits together: garbage,
// learnt, protected, moved.
type clauseFlag uint8

const (
	flagGarbage clauseFlag = 1 << iota
	flagLearnt
	flagProtected
	flagMoved
)

// Clause is a disjunction of literals with the bookkeeping the watch scheme
// and the proof mirror need.
type Clause struct {
	// Literals always has size >= 1. The first two entries are the watched
	// literals for clauses of size >= 2 (invariant 1).
	Literals []Literal

	// Pos is the saved watch-replacement cursor (Gent 2013): the index at
	// which the next search for a replacement watch resumes. Always in
	// [2, len(Literals)] once the clause has size >= 3.
	Pos int

	// ID is the clause's unique, monotonically increasing identifier used
	// to address it in proofs.
	ID uint64

	// Activity and LBD are learnt-clause quality metrics, orthogonal to the
	// core's invariants; they exist so an out-of-core clause-DB reducer has
	// something to rank by.
	Activity float64
	LBD      uint32

	flags clauseFlag
}

func newClause(id uint64, literals []Literal, learnt bool) *Clause {
	c := &Clause{
		ID:       id,
		Literals: append([]Literal(nil), literals...),
		Pos:      2,
	}
	if learnt {
		c.flags |= flagLearnt
	}
	return c
}

// NewPooledClause builds a Clause directly from literals without copying
// it, for use by an external sat.ClauseArena implementation whose literal
// slice already comes from pooled storage sized to fit. The caller must
// assign the returned clause's ID itself (it is left 0). Ordinary clause
// construction (Core.AddClause without an arena configured) uses the
// unexported, copying newClause instead.
func NewPooledClause(literals []Literal, learnt bool) *Clause {
	c := &Clause{
		Literals: literals,
		Pos:      2,
	}
	if learnt {
		c.flags |= flagLearnt
	}
	return c
}

// Garbage reports whether the clause has been marked for removal by the
// (out-of-scope) clause-arena GC or by Core.DeleteClause. Garbage clauses
// are skipped by the propagator's long-clause case; the binary case checks
// the flag only when the watch's blocker is not already true (see
// propagate.go).
func (c *Clause) Garbage() bool { return c.flags&flagGarbage != 0 }

func (c *Clause) setGarbage(v bool) {
	if v {
		c.flags |= flagGarbage
	} else {
		c.flags &^= flagGarbage
	}
}

// Learnt reports whether the clause was derived during search rather than
// given as part of the original problem.
func (c *Clause) Learnt() bool { return c.flags&flagLearnt != 0 }

// Protected reports whether a clause-DB reduction pass must not delete this
// clause in its current pass.
func (c *Clause) Protected() bool { return c.flags&flagProtected != 0 }

func (c *Clause) SetProtected(v bool) {
	if v {
		c.flags |= flagProtected
	} else {
		c.flags &^= flagProtected
	}
}

// Moved reports whether the clause's backing storage has been relocated by
// the (out-of-scope) clause arena; reasons pointing at a moved clause must
// be redirected by the collaborator that owns compaction.
func (c *Clause) Moved() bool { return c.flags&flagMoved != 0 }

func (c *Clause) setMoved(v bool) {
	if v {
		c.flags |= flagMoved
	} else {
		c.flags &^= flagMoved
	}
}

// Size returns the number of literals still in the clause.
func (c *Clause) Size() int { return len(c.Literals) }

// locked reports whether c is currently the reason for an assignment, i.e.
// it cannot be deleted without invalidating the invariant that every
// assigned variable's reason clause stays alive while it is assigned.
//
// The propagated literal is always one of the two watched literals
// (Literals[0], Literals[1]): longStep always swaps it into Literals[0],
// but binaryStep does not normalize which side of the pair it assigns, so
// both must be checked.
func (c *Clause) locked(store *VarStore) bool {
	if len(c.Literals) == 0 {
		return false
	}
	if store.VarByID(c.Literals[0].VarID()).Reason == c {
		return true
	}
	if len(c.Literals) > 1 && store.VarByID(c.Literals[1].VarID()).Reason == c {
		return true
	}
	return false
}

// simplify removes literals that are false at the root level and reports
// whether the clause is satisfied at the root level (in which case the
// caller should discard it entirely). It must only be called at decision
// level 0.
func (c *Clause) simplify(store *VarStore) bool {
	k := 0
	for _, lit := range c.Literals {
		switch store.Val(lit) {
		case True:
			return true
		case False:
			// discard
		default:
			c.Literals[k] = lit
			k++
		}
	}
	c.Literals = c.Literals[:k]
	if c.Pos > len(c.Literals) {
		c.Pos = 2
	}
	return false
}

func (c *Clause) String() string {
	if len(c.Literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.Literals[0].String())
	for _, l := range c.Literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
