package sat

// This file names, but deliberately does not implement, the core's external
// collaborators. The decision heuristic (VMTF/EVSIDS), the conflict
// analyzer, and the clause arena/GC are all out of scope for the core;
// concrete implementations live in sibling packages such as
// internal/heuristic, internal/search, and internal/arena, and talk to the
// core only through the interfaces below.

// DecisionHeuristic is the hook the core calls into while unassigning a
// variable during backtrack, so that an external decision heuristic (VMTF,
// EVSIDS, ...) can keep its own candidate pool consistent. Both methods are
// always called, in this order, regardless of which heuristic style is in
// use; a heuristic that doesn't need one of them implements it as a no-op.
type DecisionHeuristic interface {
	// ReinsertUnassigned is called with the literal that was true (so its
	// polarity is the phase to save) when its variable becomes unassigned
	// again, so that a priority-queue-based heuristic (EVSIDS) can push it
	// back onto its candidate heap.
	ReinsertUnassigned(lit Literal)

	// UpdateQueueUnassigned is called the same way, so that a
	// move-to-front-based heuristic (VMTF) can repair its "unassigned"
	// queue pointer if the variable sat after it.
	UpdateQueueUnassigned(lit Literal)
}

// NoOpHeuristic is a DecisionHeuristic that does nothing; it lets the core
// run standalone (e.g. in core-level tests) without a real search loop
// wired in.
type NoOpHeuristic struct{}

func (NoOpHeuristic) ReinsertUnassigned(Literal)   {}
func (NoOpHeuristic) UpdateQueueUnassigned(Literal) {}

// ClauseArena names the contract the core requires from the (out-of-scope)
// clause allocator/garbage collector: clause references handed out by the
// core must remain valid (dereferenceable) across calls, and relocation
// (compaction) is the arena's responsibility to perform and reflect back
// via Clause.Moved/SetMoved-style bookkeeping, not the core's.
//
// The core calls NewClause from Core.AddClause when Options.Arena is set
// and an arena is attached as Core.Arena; it never calls Free.
// internal/arena provides one concrete implementation used by
// internal/search.
type ClauseArena interface {
	// NewClause allocates storage for a clause with the given literals and
	// returns a stable handle. Learnt indicates whether the clause is a
	// search-time derivation (affects which pool/arena region is used).
	NewClause(literals []Literal, learnt bool) *Clause

	// Free releases a clause's storage. The core guarantees Free is never
	// called on a clause that is still somebody's reason (locked).
	Free(c *Clause)
}
