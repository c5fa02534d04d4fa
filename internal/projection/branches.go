package projection

import (
	"sort"

	"statehist/internal/history"
)

// BranchEntry is one lane of the branch view. Depth markers that do not
// apply to a lane are nil.
type BranchEntry struct {
	ID   history.BranchID
	Name string

	// StartsAt/EndsAt are the depths of the branch's first and last own
	// commit; Length = EndsAt - StartsAt. MaxDepth is the maximum Length
	// over all branches, stamped on every entry for lane-width
	// normalization.
	StartsAt int
	EndsAt   int
	Length   int
	MaxDepth int

	// ActiveIndex is the current state's depth, present only on the
	// current branch and on the current state's own branch.
	ActiveIndex *int
	// PinnedIndex is the pinned state's depth on its own branch.
	PinnedIndex *int
	// SuccessorDepth is the depth of this branch's direct child of the
	// pinned state, marking where the branch diverges after the pin.
	SuccessorDepth *int

	// PathStart/PathEnd are the first and last commit-path indices at
	// which this branch appears; nil for lanes off the active lineage.
	PathStart *int
	PathEnd   *int
}

// ProjectBranches builds the branch lane view for a commit path, ordered
// by descending branch id (newest branch first). When a state is pinned,
// lanes with no relation to the pin (not the current branch, no
// resolvable pinned depth, no resolvable successor depth) are dropped so
// the view stays focused on the pinned lineage.
func ProjectBranches(g GraphReader, path []history.StateID, pin Pin) []BranchEntry {
	if len(path) == 0 {
		return nil
	}

	type pathRange struct{ start, end int }
	onPath := make(map[history.BranchID]pathRange)
	for i, s := range path {
		b, ok := g.BranchOf(s)
		if !ok {
			continue
		}
		r, seen := onPath[b]
		if !seen {
			onPath[b] = pathRange{start: i, end: i}
			continue
		}
		if i < r.start {
			r.start = i
		}
		if i > r.end {
			r.end = i
		}
		onPath[b] = r
	}

	// An inactive pin must never reach BranchOf: the selector holds no
	// meaningful id then.
	successorDepth := make(map[history.BranchID]int)
	pinnedIndex := make(map[history.BranchID]int)
	if pin.Active {
		for _, c := range g.ChildrenOf(pin.StateID) {
			b, ok := g.BranchOf(c)
			if !ok {
				continue
			}
			if _, seen := successorDepth[b]; seen {
				continue
			}
			if d, ok := g.DepthIndexOf(b, c); ok {
				successorDepth[b] = d
			}
		}
		if pb, ok := g.BranchOf(pin.StateID); ok {
			if d, ok := g.DepthIndexOf(pb, pin.StateID); ok {
				pinnedIndex[pb] = d
			}
		}
	}

	current := g.CurrentBranch()
	currentState := g.CurrentState()
	stateBranch, stateBranchOK := g.BranchOf(currentState)
	activeDepth, activeOK := 0, false
	if stateBranchOK {
		activeDepth, activeOK = g.DepthIndexOf(stateBranch, currentState)
	}

	ids := g.Branches()
	maxDepth := 0
	for _, id := range ids {
		s, okS := g.BranchStartDepth(id)
		e, okE := g.BranchEndDepth(id)
		if okS && okE && e-s > maxDepth {
			maxDepth = e - s
		}
	}

	entries := make([]BranchEntry, 0, len(ids))
	for _, id := range ids {
		succ, hasSucc := successorDepth[id]
		pinned, hasPinned := pinnedIndex[id]
		if pin.Active && id != current && !hasPinned && !hasSucc {
			continue
		}

		startsAt, okS := g.BranchStartDepth(id)
		endsAt, okE := g.BranchEndDepth(id)
		if !okS || !okE {
			continue
		}

		entry := BranchEntry{
			ID:       id,
			Name:     g.BranchName(id),
			StartsAt: startsAt,
			EndsAt:   endsAt,
			Length:   endsAt - startsAt,
			MaxDepth: maxDepth,
		}
		if hasSucc {
			entry.SuccessorDepth = intRef(succ)
		}
		if hasPinned {
			entry.PinnedIndex = intRef(pinned)
		}
		if activeOK && (id == current || id == stateBranch) {
			entry.ActiveIndex = intRef(activeDepth)
		}
		if r, ok := onPath[id]; ok {
			entry.PathStart = intRef(r.start)
			entry.PathEnd = intRef(r.end)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries
}

func intRef(v int) *int { return &v }
