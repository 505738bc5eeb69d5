package sat

import "fmt"

// Literal represents a propositional literal: a variable together with a
// polarity. The variable index is packed so that the positive and negative
// literal of a variable are adjacent and differ only in their lowest bit,
// which lets Opposite be a single XOR.
type Literal int32

// InvalidLiteral is the reserved, never-valid literal.
const InvalidLiteral Literal = -1 << 31

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v int) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v int) Literal {
	return Literal(v*2 + 1)
}

// VarID returns the index of the literal's variable.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive reports whether l is the positive literal of its variable.
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

// Valid reports whether l is not the reserved invalid literal.
func (l Literal) Valid() bool {
	return l != InvalidLiteral
}

func (l Literal) String() string {
	if l == InvalidLiteral {
		return "<invalid>"
	}
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	}
	return fmt.Sprintf("!%d", l.VarID())
}
