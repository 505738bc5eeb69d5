// Package heuristic provides decision-literal pickers satisfying
// sat.DecisionHeuristic, one of the core's out-of-scope collaborators.
package heuristic

import (
	"log"

	"github.com/rhartert/yagh"

	"github.com/florianpollitt/radical/internal/sat"
)

// EVSIDS is an exponential-VSIDS variable-activity heuristic: variables are
// kept in a max-heap keyed by score, with phase saving so that a
// re-decided variable is first tried at the polarity it last held.
//
// Variables live in a yagh.IntMap binary heap keyed by negated score so
// that the minimum pop yields the highest-activity variable.
type EVSIDS struct {
	order *yagh.IntMap[float64]

	scores     []float64
	scoreInc   float64
	scoreDecay float64

	phases      []sat.LBool
	phaseSaving bool
}

// NewEVSIDS returns an empty heuristic. decay is the per-conflict score
// decay factor in (0, 1]; phaseSaving enables remembering each variable's
// last polarity across backtracks.
func NewEVSIDS(decay float64, phaseSaving bool) *EVSIDS {
	return &EVSIDS{
		order:       yagh.New[float64](0),
		scoreInc:    1,
		scoreDecay:  decay,
		phaseSaving: phaseSaving,
	}
}

// AddVar registers a freshly added variable with an initial score and
// default phase.
func (h *EVSIDS) AddVar(initScore float64, initPhase bool) {
	varID := len(h.phases)
	h.scores = append(h.scores, initScore)
	h.phases = append(h.phases, sat.Lift(initPhase))
	h.order.GrowBy(1)
	h.order.Put(varID, -initScore)
}

// ReinsertUnassigned implements sat.DecisionHeuristic.
func (h *EVSIDS) ReinsertUnassigned(lit sat.Literal) {
	v := lit.VarID()
	if h.phaseSaving {
		h.phases[v] = sat.Lift(lit.IsPositive())
	}
	h.order.Put(v, -h.scores[v])
}

// UpdateQueueUnassigned implements sat.DecisionHeuristic. EVSIDS needs no
// separate queue-pointer repair (that concern is VMTF-specific), so this is
// a no-op.
func (h *EVSIDS) UpdateQueueUnassigned(sat.Literal) {}

// Bump increases v's activity score, rescaling all scores if it would
// overflow the chosen ceiling.
func (h *EVSIDS) Bump(v int) {
	newScore := h.scores[v] + h.scoreInc
	h.scores[v] = newScore
	if h.order.Contains(v) {
		h.order.Put(v, -newScore)
	}
	if newScore > 1e100 {
		h.rescale()
	}
}

// Decay applies the per-conflict score decay by inflating the bump
// increment instead of rescaling every score.
func (h *EVSIDS) Decay() {
	h.scoreInc /= h.scoreDecay
	if h.scoreInc > 1e100 {
		h.rescale()
	}
}

func (h *EVSIDS) rescale() {
	h.scoreInc *= 1e-100
	for v, s := range h.scores {
		rescaled := s * 1e-100
		h.scores[v] = rescaled
		if h.order.Contains(v) {
			h.order.Put(v, -rescaled)
		}
	}
}

// NextDecision pops the highest-score unassigned variable off the heap and
// returns the literal to assign it to, honoring phase saving.
func (h *EVSIDS) NextDecision(store *sat.VarStore) sat.Literal {
	for {
		next, ok := h.order.Pop()
		if !ok {
			log.Panicln("heuristic: next decision requested on an empty heap")
		}
		if store.Val(sat.PositiveLiteral(next.Elem)) != sat.Unknown {
			continue
		}
		switch h.phases[next.Elem] {
		case sat.False:
			return sat.NegativeLiteral(next.Elem)
		default:
			return sat.PositiveLiteral(next.Elem)
		}
	}
}
