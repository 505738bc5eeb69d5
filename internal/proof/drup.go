package proof

import "github.com/florianpollitt/radical/internal/sat"

// clauseStatus is the outcome of evaluating one clause's literals against
// the checker's current assumption set.
type clauseStatus int

const (
	statusSatisfied clauseStatus = iota
	statusConflict
	statusUnit
	statusUndetermined
)

// DRUPChecker verifies, online, that every clause reported as derived is a
// reverse-unit-propagation (RUP) consequence of the clauses seen so far:
// assuming the negation of the candidate clause and unit-propagating over
// the live clause set must reach a conflict. Propagation here is a direct
// scan rather than watch-list indexed: the checker verifies correctness
// off the hot path, so clarity is preferred over the watch-scheme
// performance the solver itself needs.
type DRUPChecker struct {
	clauses map[uint64][]sat.Literal
	err     error
}

// NewDRUPChecker returns an empty checker.
func NewDRUPChecker() *DRUPChecker {
	return &DRUPChecker{clauses: make(map[uint64][]sat.Literal)}
}

// Err returns the first violation observed, or nil.
func (d *DRUPChecker) Err() error { return d.err }

func (d *DRUPChecker) AddOriginal(id uint64, lits []sat.Literal) {
	if isTautology(lits) {
		return
	}
	d.clauses[id] = append([]sat.Literal(nil), lits...)
}

func (d *DRUPChecker) AddDerived(id uint64, lits []sat.Literal, _ []uint64) {
	if isTautology(lits) {
		return
	}
	if d.err == nil && !d.checkRUP(lits) {
		d.err = &ViolationError{ID: id, Kind: "drup"}
		panicOnViolation(d.err)
	}
	d.clauses[id] = append([]sat.Literal(nil), lits...)
}

// isTautology reports whether lits contains a literal and its opposite, in
// which case the clause is trivially satisfied and should be dropped
// instead of inserted.
func isTautology(lits []sat.Literal) bool {
	seen := make(map[sat.Literal]bool, len(lits))
	for _, l := range lits {
		seen[l] = true
	}
	for _, l := range lits {
		if seen[l.Opposite()] {
			return true
		}
	}
	return false
}

func (d *DRUPChecker) Delete(id uint64, _ []sat.Literal) {
	delete(d.clauses, id)
}

// checkRUP reports whether lits is implied by the live clause set: assuming
// every literal of lits false and unit-propagating reaches a conflict.
func (d *DRUPChecker) checkRUP(lits []sat.Literal) bool {
	assumed := make(map[sat.Literal]bool, len(lits)+8)
	for _, l := range lits {
		assumed[l.Opposite()] = true
	}

	for {
		progressed := false
		for _, cl := range d.clauses {
			status, unit := evalClause(cl, assumed)
			switch status {
			case statusConflict:
				return true
			case statusUnit:
				if !assumed[unit] {
					assumed[unit] = true
					progressed = true
				}
			}
		}
		if !progressed {
			return false
		}
	}
}

// evalClause classifies cl against assumed, where assumed[l] means l is
// currently taken to be true. A clause is satisfied if any literal is
// assumed true; a conflict if every literal is assumed false (its
// opposite assumed true); a unit if exactly one literal is neither, in
// which case that literal is returned as the forced-true one.
func evalClause(cl []sat.Literal, assumed map[sat.Literal]bool) (clauseStatus, sat.Literal) {
	unresolved := 0
	var forced sat.Literal
	for _, lit := range cl {
		if assumed[lit] {
			return statusSatisfied, sat.InvalidLiteral
		}
		if assumed[lit.Opposite()] {
			continue
		}
		unresolved++
		forced = lit
	}
	switch unresolved {
	case 0:
		return statusConflict, sat.InvalidLiteral
	case 1:
		return statusUnit, forced
	default:
		return statusUndetermined, sat.InvalidLiteral
	}
}
