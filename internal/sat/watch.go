package sat

// Watch is a clause attached to a literal's watch list, together with a
// cached blocking literal so the propagator can often decide "clause
// satisfied" without dereferencing the clause.
type Watch struct {
	Clause   *Clause
	Blocker  Literal
	IsBinary bool
}

// WatchIndex is an append-only, per-literal list of watch records. Entries
// are removed only by explicit overwrite during propagation or by Unwatch.
type WatchIndex struct {
	lists [][]Watch
}

// Grow expands the index so that literals of newly-added variables have a
// (empty) watch list.
func (w *WatchIndex) Grow() {
	w.lists = append(w.lists, nil, nil)
}

// Watch registers clause c to be woken when lit is assigned true, caching
// blocker as the clause literal that can short-circuit the visit.
func (w *WatchIndex) Watch(lit Literal, blocker Literal, c *Clause, isBinary bool) {
	w.lists[lit] = append(w.lists[lit], Watch{Clause: c, Blocker: blocker, IsBinary: isBinary})
}

// Unwatch removes clause c from lit's watch list. This is a linear scan and
// is only used outside the propagation hot path (clause deletion).
func (w *WatchIndex) Unwatch(lit Literal, c *Clause) {
	ws := w.lists[lit]
	j := 0
	for i := range ws {
		if ws[i].Clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	w.lists[lit] = ws[:j]
}

// WatchesOf returns the current watch list of lit. The returned slice is
// the index's own backing storage; callers that mutate the index while
// iterating (the propagator does) must copy it first, see Propagator.
func (w *WatchIndex) WatchesOf(lit Literal) []Watch {
	return w.lists[lit]
}

// SetWatchesOf replaces lit's watch list wholesale. Used by the propagator
// to commit the compacted list it built while scanning.
func (w *WatchIndex) SetWatchesOf(lit Literal, ws []Watch) {
	w.lists[lit] = ws
}
