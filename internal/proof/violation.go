// Package proof implements online proof checkers: a DRUP-style
// reverse-unit-propagation checker and an LRAT hint-chain checker, both
// satisfying sat.Observer so a Core can be wired to check its own
// derivations as it runs.
package proof

import "fmt"

// ViolationError reports that a clause reported to a checker failed
// verification: it was neither an original clause nor implied by the
// clauses (and, for LRAT, the hint chain) seen so far.
type ViolationError struct {
	ID   uint64
	Kind string // "drup" or "lrat"
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("proof: %s check failed for clause %d", e.Kind, e.ID)
}
