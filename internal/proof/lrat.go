package proof

import "github.com/florianpollitt/radical/internal/sat"

// LRATChecker verifies, online, that every clause reported as derived
// carries a valid LRAT hint chain: assuming the negation of the candidate
// clause, the chain's clauses must resolve to a conflict purely by unit
// propagation driven by the chain order itself (no search), each step
// contributing at most one new forced literal.
type LRATChecker struct {
	clauses map[uint64][]sat.Literal
	err     error
}

// NewLRATChecker returns an empty checker.
func NewLRATChecker() *LRATChecker {
	return &LRATChecker{clauses: make(map[uint64][]sat.Literal)}
}

// Err returns the first violation observed, or nil.
func (l *LRATChecker) Err() error { return l.err }

func (l *LRATChecker) AddOriginal(id uint64, lits []sat.Literal) {
	l.clauses[id] = append([]sat.Literal(nil), lits...)
}

func (l *LRATChecker) AddDerived(id uint64, lits []sat.Literal, chain []uint64) {
	if l.err == nil && !l.checkChain(lits, chain) {
		l.err = &ViolationError{ID: id, Kind: "lrat"}
		panicOnViolation(l.err)
	}
	l.clauses[id] = append([]sat.Literal(nil), lits...)
}

func (l *LRATChecker) Delete(id uint64, _ []sat.Literal) {
	delete(l.clauses, id)
}

// checkChain reports whether chain justifies lits. A clause containing a
// literal and its opposite (a tautology) is trivially valid and needs no
// chain.
func (l *LRATChecker) checkChain(lits []sat.Literal, chain []uint64) bool {
	litSet := make(map[sat.Literal]bool, len(lits))
	for _, o := range lits {
		litSet[o] = true
	}
	for _, o := range lits {
		if litSet[o.Opposite()] {
			return true
		}
	}

	// Assume the negation of the candidate clause: every one of its
	// literals is false.
	falseSet := make(map[sat.Literal]bool, len(lits)+len(chain)*2)
	for _, o := range lits {
		falseSet[o] = true
	}

	for _, id := range chain {
		clauseLits, ok := l.clauses[id]
		if !ok {
			return false // chain references a clause not currently live
		}
		unmarked := sat.InvalidLiteral
		count := 0
		for _, lit := range clauseLits {
			if falseSet[lit] {
				continue
			}
			count++
			unmarked = lit
			if count > 1 {
				break
			}
		}
		switch count {
		case 0:
			return true // this chain clause is fully false: conflict reached
		case 1:
			falseSet[unmarked.Opposite()] = true
		default:
			return false // chain step left more than one literal unresolved
		}
	}
	return false
}
