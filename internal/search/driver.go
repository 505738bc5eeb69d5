// Package search implements the outer CDCL search loop: decision heuristic,
// restart policy, conflict analysis and clause learning, none of which the
// core itself owns. It assembles sat.Core together with internal/heuristic,
// internal/arena and a restart policy into something that can actually
// decide satisfiability end to end.
package search

import (
	"log/slog"
	"sort"

	"github.com/florianpollitt/radical/internal/arena"
	"github.com/florianpollitt/radical/internal/heuristic"
	"github.com/florianpollitt/radical/internal/obslog"
	"github.com/florianpollitt/radical/internal/sat"
)

// Driver is the search collaborator: it owns the decision heuristic, the
// clause arena, the restart policy, and the scratch state conflict
// analysis needs, and drives a *sat.Core through to a verdict.
type Driver struct {
	Core  *sat.Core
	Heur  *heuristic.EVSIDS
	Arena *arena.Pool

	log *slog.Logger

	multitrail bool
	restart    *restartPolicy

	learnts     []*sat.Clause
	clauseInc   float64
	clauseDecay float64
	reduceLimit int

	seen       sat.ResetSet
	tmpLearnt  []sat.Literal
	seenLevels []int

	TotalConflicts int64
	TotalRestarts  int64
}

// NewDriver builds a Driver around an already-constructed core (so that
// the caller controls sat.Options, e.g. via internal/config) and a fresh
// heuristic/arena pair. logger may be nil (obslog.Default() is used).
func NewDriver(core *sat.Core, multitrail bool, logger *slog.Logger) *Driver {
	pool := &arena.Pool{}
	core.Arena = pool
	heur := heuristic.NewEVSIDS(0.95, true)
	core.Trail.Heuristic = heur
	return &Driver{
		Core:        core,
		Heur:        heur,
		Arena:       pool,
		log:         obslog.With(logger, "search"),
		multitrail:  multitrail,
		restart:     newRestartPolicy(),
		clauseInc:   1,
		clauseDecay: 0.999,
		reduceLimit: 1000,
	}
}

// AddVar grows both the core and the heuristic by one fresh variable.
func (d *Driver) AddVar(initPhase bool) int {
	idx := d.Core.AddVar()
	d.Heur.AddVar(0, initPhase)
	d.seen.Expand()
	return idx
}

// AddClause adds an original (non-learnt) clause before search starts.
func (d *Driver) AddClause(lits []sat.Literal) (*sat.Clause, error) {
	return d.Core.AddClause(lits, false, nil)
}

// Solve runs propagate/analyze/backtrack/decide to a verdict: sat.True or
// sat.False, or sat.Unknown when recording a learnt clause or making a
// decision fails (the error is logged).
func (d *Driver) Solve() sat.LBool {
	d.reduceLimit = max(1000, d.Core.NumVars()/3)

	for {
		conflict := d.Core.Propagate()
		if conflict != nil {
			d.TotalConflicts++

			if d.Core.Trail.Level() == 0 {
				d.Core.ConcludeUnsat(conflict)
				return sat.False
			}

			learnt, backtrackLevel := d.analyze(conflict)
			lbd := d.lbdOf(learnt)

			d.Core.Backtrack(backtrackLevel)
			if err := d.record(learnt, lbd); err != nil {
				d.log.Error("recording learnt clause failed", "err", err)
				return sat.Unknown
			}

			d.clauseInc *= d.clauseDecay
			d.Heur.Decay()

			if d.restart.recordConflict(int(lbd)) {
				d.TotalRestarts++
				d.Core.Backtrack(0)
			}
			continue
		}

		if d.Core.Trail.Level() == 0 {
			if len(d.learnts) > d.reduceLimit {
				d.reduceDB()
				d.reduceLimit += d.reduceLimit / 20
			}
		}

		if d.allAssigned() {
			return sat.True
		}

		lit := d.Heur.NextDecision(d.Core.Store)
		if err := d.Core.AssignDecision(lit); err != nil {
			d.log.Error("heuristic returned an already-assigned literal", "lit", lit.String(), "err", err)
			return sat.Unknown
		}
	}
}

// record adds a just-learnt clause to the core, with the asserting literal
// first, and enqueues it as the driving assignment the search should have
// made at the backtrack level Solve already moved to.
//
// chain is left nil: building an LRAT hint chain for an arbitrary learnt
// clause requires replaying the resolution steps analyze performed, which
// is conflict-analysis bookkeeping the core itself deliberately stays out
// of. Only root units and the final empty clause get internally built
// chains (Propagator.buildChainForUnits / BuildChainForEmpty); an
// lratexternal configuration is expected to re-derive or independently
// verify learnt-clause chains outside this driver.
func (d *Driver) record(lits []sat.Literal, lbd uint32) error {
	cl, err := d.Core.AddClause(lits, true, nil)
	if err != nil {
		return err
	}
	if cl == nil {
		return nil // unit clause: AddClause already root-assigned it
	}
	cl.LBD = lbd
	d.bumpClauseActivity(cl)
	d.learnts = append(d.learnts, cl)
	return d.Core.AssignDriving(lits[0], cl)
}

func (d *Driver) bumpClauseActivity(cl *sat.Clause) {
	cl.Activity += d.clauseInc
	if cl.Activity > 1e100 {
		d.clauseInc *= 1e-100
		for _, l := range d.learnts {
			l.Activity *= 1e-100
		}
	}
}

// reduceDB halves the learnt-clause database, protecting locked and
// recently-protected clauses, and dropping the weakest-activity half of
// the rest.
//
// A clause that is currently locked (still somebody's reason) is kept
// regardless of its activity: this is detected by attempting
// Core.DeleteClause and keeping the clause when it refuses (it reports
// locked via an error rather than a bool, see core.go).
func (d *Driver) reduceDB() {
	if len(d.learnts) == 0 {
		return
	}
	sort.Slice(d.learnts, func(i, j int) bool {
		return d.learnts[i].Activity < d.learnts[j].Activity
	})
	lim := d.clauseInc / float64(len(d.learnts))

	kept := d.learnts[:0]
	for i, cl := range d.learnts {
		switch {
		case cl.Protected():
			kept = append(kept, cl)
		case i < len(d.learnts)/2, cl.Activity < lim:
			if err := d.Core.DeleteClause(cl); err != nil {
				kept = append(kept, cl) // locked: survives this pass
			}
		default:
			kept = append(kept, cl)
		}
	}
	d.learnts = kept
}

func (d *Driver) allAssigned() bool {
	for v := 0; v < d.Core.NumVars(); v++ {
		if d.Core.Store.Val(sat.PositiveLiteral(v)) == sat.Unknown {
			return false
		}
	}
	return true
}

// flattenTrail returns every assigned literal in assignment order. In
// single-trail mode sat.Trail.TrailOf ignores its level argument and
// already returns the full sequence; in multi-trail mode the per-level
// sequences are concatenated low to high. An elevated literal then appears
// twice, under the stale level it was first recorded at and under its
// lower current level; analyze's backward walk meets the stale copy first
// and does not skip it.
func (d *Driver) flattenTrail() []sat.Literal {
	if !d.multitrail {
		return d.Core.Trail.TrailOf(0)
	}
	var lits []sat.Literal
	for l := 0; l <= d.Core.Trail.Level(); l++ {
		lits = append(lits, d.Core.Trail.TrailOf(l)...)
	}
	return lits
}

// Model returns the current satisfying assignment. It must only be called
// after Solve returns sat.True.
func (d *Driver) Model() []bool {
	model := make([]bool, d.Core.NumVars())
	for v := range model {
		model[v] = d.Core.Store.Val(sat.PositiveLiteral(v)) == sat.True
	}
	return model
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
