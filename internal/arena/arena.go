// Package arena provides a pooled clause allocator satisfying
// sat.ClauseArena, one of the core's out-of-scope collaborators: clause
// literal slices are drawn from a tier of sync.Pool buckets sized by
// power-of-two capacity instead of allocated fresh per clause.
package arena

import (
	"math/bits"
	"sync"

	"github.com/florianpollitt/radical/internal/sat"
)

const (
	// numPools is the number of size-tiered pools.
	numPools = 4
	// lastCapa is the capacity of the last pool's slices; anything larger
	// falls through to a direct allocation sized to fit.
	lastCapa = 1 << numPools
)

// Pool is a tiered sync.Pool-backed allocator for clause literal slices. Its
// zero value is ready to use.
type Pool struct {
	once  sync.Once
	pools [numPools]sync.Pool
}

func (p *Pool) init() {
	for i := 0; i < numPools; i++ {
		capa := 1 << (i + 1)
		p.pools[i].New = func() any {
			s := make([]sat.Literal, 0, capa)
			return &s
		}
	}
}

func pid(capa int) int {
	if capa >= lastCapa {
		return numPools - 1
	}
	// Pool i holds slices of capacity 1<<(i+1): pick the smallest that fits.
	if capa <= 2 {
		return 0
	}
	return bits.Len(uint(capa-1)) - 1
}

func (p *Pool) allocSlice(capa int) *[]sat.Literal {
	p.once.Do(p.init)
	ref := p.pools[pid(capa)].Get().(*[]sat.Literal)
	if capa > lastCapa && cap(*ref) < capa {
		s := make([]sat.Literal, 0, capa)
		ref = &s
	}
	return ref
}

func (p *Pool) freeSlice(s *[]sat.Literal) {
	*s = (*s)[:0]
	p.pools[pid(cap(*s))].Put(s)
}

// NewClause implements sat.ClauseArena: it builds a clause whose literal
// slice backing storage comes from the tiered pool, sized to fit. The
// caller (Core.AddClause) is responsible for assigning the resulting
// clause's ID.
func (p *Pool) NewClause(literals []sat.Literal, learnt bool) *sat.Clause {
	ref := p.allocSlice(len(literals))
	lits := (*ref)[:0]
	lits = append(lits, literals...)
	return sat.NewPooledClause(lits, learnt)
}

// Free implements sat.ClauseArena: it returns c's literal backing storage
// to the pool. The core guarantees this is never called on a locked
// clause.
func (p *Pool) Free(c *sat.Clause) {
	lits := c.Literals
	p.freeSlice(&lits)
	c.Literals = nil
}
