package projection

import (
	"sort"

	"statehist/internal/history"
)

// fakeGraph is an in-memory GraphReader double. Unlike history.Graph it
// is built from literal maps, so tests can assemble shapes (including
// broken ones) directly.
type fakeCommit struct {
	name     string
	parent   history.StateID // -1 for the root
	branch   history.BranchID
	children []history.StateID
}

type fakeBranch struct {
	name        string
	first, last history.StateID
}

type fakeGraph struct {
	current  history.StateID
	branch   history.BranchID
	commits  map[history.StateID]fakeCommit
	branches map[history.BranchID]fakeBranch
}

func (g *fakeGraph) CurrentBranch() history.BranchID { return g.branch }
func (g *fakeGraph) CurrentState() history.StateID   { return g.current }

func (g *fakeGraph) Branches() []history.BranchID {
	ids := make([]history.BranchID, 0, len(g.branches))
	for id := range g.branches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *fakeGraph) LatestOn(b history.BranchID) (history.StateID, bool) {
	br, ok := g.branches[b]
	if !ok {
		return 0, false
	}
	return br.last, true
}

func (g *fakeGraph) CommitPath(s history.StateID) []history.StateID {
	c, ok := g.commits[s]
	if !ok {
		return nil
	}
	var rev []history.StateID
	rev = append(rev, s)
	for c.parent >= 0 {
		rev = append(rev, c.parent)
		c = g.commits[c.parent]
	}
	path := make([]history.StateID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

func (g *fakeGraph) BranchOf(s history.StateID) (history.BranchID, bool) {
	c, ok := g.commits[s]
	if !ok {
		return 0, false
	}
	return c.branch, true
}

func (g *fakeGraph) ParentOf(s history.StateID) (history.StateID, bool) {
	c, ok := g.commits[s]
	if !ok || c.parent < 0 {
		return 0, false
	}
	return c.parent, true
}

func (g *fakeGraph) ChildrenOf(s history.StateID) []history.StateID {
	return g.commits[s].children
}

func (g *fakeGraph) DepthIndexOf(b history.BranchID, s history.StateID) (int, bool) {
	tip, ok := g.LatestOn(b)
	if !ok {
		return 0, false
	}
	for i, id := range g.CommitPath(tip) {
		if id == s {
			return i, true
		}
	}
	return 0, false
}

func (g *fakeGraph) BranchStartDepth(b history.BranchID) (int, bool) {
	br, ok := g.branches[b]
	if !ok {
		return 0, false
	}
	return g.DepthIndexOf(b, br.first)
}

func (g *fakeGraph) BranchEndDepth(b history.BranchID) (int, bool) {
	br, ok := g.branches[b]
	if !ok {
		return 0, false
	}
	return g.DepthIndexOf(b, br.last)
}

func (g *fakeGraph) StateName(s history.StateID) string  { return g.commits[s].name }
func (g *fakeGraph) BranchName(b history.BranchID) string { return g.branches[b].name }

// forkedGraph builds the canonical three-branch shape used across the
// projection tests:
//
//	branch 0: 0 - 1 - 2 - 3        (depths 0..3)
//	branch 1:      \ 4             (forked from 1, depth 2)
//	branch 2:  \ 5                 (forked from the root, depth 1)
//
// Current state is 4, the tip of branch 1.
func forkedGraph() *fakeGraph {
	return &fakeGraph{
		current: 4,
		branch:  1,
		commits: map[history.StateID]fakeCommit{
			0: {name: "init", parent: -1, branch: 0, children: []history.StateID{1, 5}},
			1: {name: "one", parent: 0, branch: 0, children: []history.StateID{2, 4}},
			2: {name: "two", parent: 1, branch: 0, children: []history.StateID{3}},
			3: {name: "three", parent: 2, branch: 0},
			4: {name: "four", parent: 1, branch: 1},
			5: {name: "five", parent: 0, branch: 2},
		},
		branches: map[history.BranchID]fakeBranch{
			0: {name: "Initial", first: 0, last: 3},
			1: {name: "Branch 1", first: 4, last: 4},
			2: {name: "Branch 2", first: 5, last: 5},
		},
	}
}
