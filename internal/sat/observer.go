package sat

// Observer is the capability set the core reports clause lifecycle events
// to: add as original, add as derived, or delete. It is declared here, in
// the core, because the core is what calls it; concrete implementations (a
// DRUP-style propagation checker, an LRAT chain checker, or a no-op) live
// in internal/proof.
//
// A tagged-union dispatch (switching on a Kind byte) would also work here,
// but observer calls only happen at clause boundaries (never inside the
// propagation hot loop), so the extra complexity of avoiding an interface
// call buys nothing; a plain interface is used instead.
type Observer interface {
	// AddOriginal records a clause as given (as opposed to derived),
	// addressed by id.
	AddOriginal(id uint64, lits []Literal)

	// AddDerived records a clause derived during search, addressed by id.
	// chain is the LRAT hint list when LRAT chains are being built
	// internally; it is nil when LRAT is disabled, external, or the
	// checker does not need one (a DRUP-only checker ignores it).
	AddDerived(id uint64, lits []Literal, chain []uint64)

	// Delete records that the clause addressed by id (with literals lits,
	// for checkers that key by content) has been removed from the problem.
	Delete(id uint64, lits []Literal)
}

// NoOpObserver implements Observer by doing nothing; it is the default
// when no proof is being checked.
type NoOpObserver struct{}

func (NoOpObserver) AddOriginal(uint64, []Literal)          {}
func (NoOpObserver) AddDerived(uint64, []Literal, []uint64) {}
func (NoOpObserver) Delete(uint64, []Literal)               {}
