package proof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/florianpollitt/radical/internal/sat"
)

func TestLRATChecker_AcceptsValidChain(t *testing.T) {
	l := NewLRATChecker()

	l.AddOriginal(1, []sat.Literal{lit(0, false), lit(1, false)}) // x0 v x1
	l.AddOriginal(2, []sat.Literal{lit(0, true), lit(1, false)})  // -x0 v x1
	l.AddOriginal(3, []sat.Literal{lit(0, false)})                // x0 (unit)

	// Deriving (x1): assume the negation of (x1), i.e. x1 is false; clause 3 forces x0
	// true, clause 2 with x0 true and x1 assumed false becomes a conflict.
	l.AddDerived(4, []sat.Literal{lit(1, false)}, []uint64{3, 2})
	require.NoError(t, l.Err())
}

func TestLRATChecker_RejectsChainThatDoesNotResolve(t *testing.T) {
	l := NewLRATChecker()
	l.AddOriginal(1, []sat.Literal{lit(0, false), lit(1, false)})

	l.AddDerived(2, []sat.Literal{lit(1, false)}, []uint64{1})

	var violation *ViolationError
	require.ErrorAs(t, l.Err(), &violation)
	require.Equal(t, "lrat", violation.Kind)
}

func TestLRATChecker_RejectsChainReferencingUnknownID(t *testing.T) {
	l := NewLRATChecker()
	l.AddDerived(1, []sat.Literal{lit(0, false)}, []uint64{99})

	var violation *ViolationError
	require.ErrorAs(t, l.Err(), &violation)
}

func TestLRATChecker_TautologyNeedsNoChain(t *testing.T) {
	l := NewLRATChecker()
	l.AddDerived(1, []sat.Literal{lit(0, false), lit(0, true)}, nil)
	require.NoError(t, l.Err())
}

func TestLRATChecker_EmptyClauseChain(t *testing.T) {
	l := NewLRATChecker()
	l.AddOriginal(1, []sat.Literal{lit(0, false)})
	l.AddOriginal(2, []sat.Literal{lit(0, true)})

	l.AddDerived(3, nil, []uint64{1, 2})
	require.NoError(t, l.Err())
}
