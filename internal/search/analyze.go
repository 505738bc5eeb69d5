package search

import "github.com/florianpollitt/radical/internal/sat"

// analyze performs first-UIP conflict analysis over conflict, returning the
// learnt clause (its first literal is the UIP's negation, per sat.AddClause/
// sat.AssignDriving's convention that the clause's asserting literal comes
// first) and the level the caller should backtrack to.
//
// It walks backward over assigned literals with a seen-set/pending-count
// scheme, reading from sat.Trail, which may split assignments per decision
// level (multitrail mode) instead of keeping one flat sequence.
func (d *Driver) analyze(conflict *sat.Clause) ([]sat.Literal, int) {
	d.seen.Clear()
	learnt := append(d.tmpLearnt[:0], sat.InvalidLiteral)

	level := d.Core.Trail.Level()
	backtrackLevel := 0
	pending := 0

	trail := d.flattenTrail()
	idx := len(trail) - 1

	reasonLits := conflict.Literals
	cur := sat.InvalidLiteral

	for {
		for _, q := range reasonLits {
			if q == cur {
				continue // q is the literal this reason explains, not an antecedent
			}
			v := q.VarID()
			if d.seen.Contains(v) {
				continue
			}
			d.seen.Add(v)
			d.Heur.Bump(v)

			if d.Core.Store.Level(q) == level {
				pending++
				continue
			}
			learnt = append(learnt, q)
			if lv := d.Core.Store.Level(q); lv > backtrackLevel {
				backtrackLevel = lv
			}
		}

		for {
			cur = trail[idx]
			idx--
			if d.seen.Contains(cur.VarID()) {
				break
			}
		}

		pending--
		if pending <= 0 {
			break
		}
		reasonLits = d.Core.Store.VarByID(cur.VarID()).Reason.Literals
	}

	learnt[0] = cur.Opposite()
	d.tmpLearnt = learnt
	return learnt, backtrackLevel
}

// lbdOf returns the literal-block distance of lits: the number of distinct
// decision levels its literals span, the quality metric Clause.LBD exists
// to hold (clause.go) and reduceDB sorts by.
func (d *Driver) lbdOf(lits []sat.Literal) uint32 {
	d.seenLevels = d.seenLevels[:0]
	count := uint32(0)
	for _, l := range lits {
		lv := d.Core.Store.Level(l)
		found := false
		for _, seen := range d.seenLevels {
			if seen == lv {
				found = true
				break
			}
		}
		if !found {
			d.seenLevels = append(d.seenLevels, lv)
			count++
		}
	}
	return count
}
