package projection

import "statehist/internal/history"

// BranchType classifies a timeline entry relative to the current branch.
type BranchType int

const (
	// BranchCurrent marks commits at or past the current branch's own
	// first commit.
	BranchCurrent BranchType = iota
	// BranchLegacy marks inherited commits from ancestor branches.
	BranchLegacy
)

func (t BranchType) String() string {
	if t == BranchLegacy {
		return "legacy"
	}
	return "current"
}

// StateEntry is one row of the state timeline.
type StateEntry struct {
	ID         history.StateID
	Name       string
	BranchType BranchType
	Bookmarked bool
	Active     bool
	Pinned     bool
	Successor  bool // direct child of the pinned state
	ChildCount int  // branch-point fan-out
}

// ProjectStates builds the state timeline for a commit path, ordered
// most-recent-first (the reverse of the path). Bookmarks with state ids
// not on the path simply never match.
func ProjectStates(g GraphReader, path []history.StateID, bookmarks []history.Bookmark, pin Pin) []StateEntry {
	if len(path) == 0 {
		return nil
	}

	marked := make(map[history.StateID]bool, len(bookmarks))
	for _, bm := range bookmarks {
		marked[bm.StateID] = true
	}

	start, hasStart := g.BranchStartDepth(g.CurrentBranch())
	current := g.CurrentState()

	entries := make([]StateEntry, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		e := StateEntry{
			ID:         s,
			Name:       g.StateName(s),
			Bookmarked: marked[s],
			Active:     s == current,
			Pinned:     pin.Matches(s),
			ChildCount: len(g.ChildrenOf(s)),
		}
		if hasStart && i < start {
			e.BranchType = BranchLegacy
		}
		if pin.Active {
			if p, ok := g.ParentOf(s); ok && p == pin.StateID {
				e.Successor = true
			}
		}
		entries = append(entries, e)
	}
	return entries
}
