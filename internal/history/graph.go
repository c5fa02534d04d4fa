// Package history owns the persistent DAG of application states.
//
// A Graph is a tree of commits grouped into branches, with one current
// branch and one current state at all times. Mutations (Insert, Undo,
// Redo, JumpTo, renames) all go through the Graph; the projection layer
// only ever reads it.
package history

import "fmt"

// StateID identifies one commit in the graph. The root commit is id 0.
type StateID int

// BranchID identifies a branch. Ids are assigned monotonically from 0.
type BranchID int

type commit struct {
	id       StateID
	name     string
	parent   StateID // -1 for the root
	children []StateID
	branch   BranchID
}

type branch struct {
	id    BranchID
	name  string
	first StateID // first commit belonging to this branch
	last  StateID // tip commit of this branch
}

// Graph is the history DAG. Not safe for concurrent use; the viewer
// drives it from a single update loop.
type Graph struct {
	commits    map[StateID]*commit
	branches   map[BranchID]*branch
	current    StateID
	curBranch  BranchID
	nextState  StateID
	nextBranch BranchID
}

// New creates a graph holding a single root commit on branch 0.
func New(rootName string) *Graph {
	g := &Graph{
		commits:  make(map[StateID]*commit),
		branches: make(map[BranchID]*branch),
	}
	root := &commit{id: 0, name: rootName, parent: -1, branch: 0}
	g.commits[0] = root
	g.branches[0] = &branch{id: 0, name: "Initial", first: 0, last: 0}
	g.nextState = 1
	g.nextBranch = 1
	return g
}

// --- Read contract ---

// CurrentBranch returns the branch the viewer is on.
func (g *Graph) CurrentBranch() BranchID { return g.curBranch }

// CurrentState returns the commit the viewer is on.
func (g *Graph) CurrentState() StateID { return g.current }

// Branches returns all branch ids in ascending order.
func (g *Graph) Branches() []BranchID {
	ids := make([]BranchID, 0, len(g.branches))
	for id := BranchID(0); id < g.nextBranch; id++ {
		if _, ok := g.branches[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// LatestOn returns the tip commit of a branch.
func (g *Graph) LatestOn(b BranchID) (StateID, bool) {
	br, ok := g.branches[b]
	if !ok {
		return 0, false
	}
	return br.last, true
}

// CommitPath returns the unique root-to-s path, root first.
// Unknown ids yield an empty path.
func (g *Graph) CommitPath(s StateID) []StateID {
	c, ok := g.commits[s]
	if !ok {
		return nil
	}
	var rev []StateID
	for {
		rev = append(rev, c.id)
		if c.parent < 0 {
			break
		}
		c = g.commits[c.parent]
	}
	path := make([]StateID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// BranchOf returns the branch a commit belongs to.
func (g *Graph) BranchOf(s StateID) (BranchID, bool) {
	c, ok := g.commits[s]
	if !ok {
		return 0, false
	}
	return c.branch, true
}

// ParentOf returns the parent commit, or false for the root.
func (g *Graph) ParentOf(s StateID) (StateID, bool) {
	c, ok := g.commits[s]
	if !ok || c.parent < 0 {
		return 0, false
	}
	return c.parent, true
}

// ChildrenOf returns the direct children of a commit in insertion order.
func (g *Graph) ChildrenOf(s StateID) []StateID {
	c, ok := g.commits[s]
	if !ok {
		return nil
	}
	out := make([]StateID, len(c.children))
	copy(out, c.children)
	return out
}

// DepthIndexOf returns the zero-based depth of s on branch b's lineage
// (the root-to-tip path of b). False when s is not on that lineage.
func (g *Graph) DepthIndexOf(b BranchID, s StateID) (int, bool) {
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

// BranchStartDepth returns the depth of the branch's first own commit.
func (g *Graph) BranchStartDepth(b BranchID) (int, bool) {
	br, ok := g.branches[b]
	if !ok {
		return 0, false
	}
	return g.DepthIndexOf(b, br.first)
}

// BranchEndDepth returns the depth of the branch's tip commit.
func (g *Graph) BranchEndDepth(b BranchID) (int, bool) {
	br, ok := g.branches[b]
	if !ok {
		return 0, false
	}
	return g.DepthIndexOf(b, br.last)
}

// StateName returns the display name of a commit ("" if unknown).
func (g *Graph) StateName(s StateID) string {
	c, ok := g.commits[s]
	if !ok {
		return ""
	}
	return c.name
}

// BranchName returns the display name of a branch ("" if unknown).
func (g *Graph) BranchName(b BranchID) string {
	br, ok := g.branches[b]
	if !ok {
		return ""
	}
	return br.name
}

// --- Command contract ---

// Insert commits a new state as a child of the current state and moves
// the current pointer to it. Inserting at a childless branch tip extends
// the current branch; anywhere else forks a new branch with the next id.
func (g *Graph) Insert(name string) StateID {
	id := g.nextState
	g.nextState++

	parent := g.commits[g.current]
	c := &commit{id: id, name: name, parent: parent.id}

	tip := g.branches[g.curBranch].last
	if g.current == tip && len(parent.children) == 0 {
		c.branch = g.curBranch
		g.branches[g.curBranch].last = id
	} else {
		bid := g.nextBranch
		g.nextBranch++
		g.branches[bid] = &branch{
			id:    bid,
			name:  fmt.Sprintf("Branch %d", bid),
			first: id,
			last:  id,
		}
		c.branch = bid
		g.curBranch = bid
	}

	parent.children = append(parent.children, id)
	g.commits[id] = c
	g.current = id
	return id
}

// Undo moves the current state to its parent. The current branch is
// unchanged so Redo can walk back down the same lineage.
func (g *Graph) Undo() bool {
	p, ok := g.ParentOf(g.current)
	if !ok {
		return false
	}
	g.current = p
	return true
}

// Redo moves the current state one step toward the current branch's tip.
func (g *Graph) Redo() bool {
	tip, ok := g.LatestOn(g.curBranch)
	if !ok || tip == g.current {
		return false
	}
	path := g.CommitPath(tip)
	for i, id := range path {
		if id == g.current && i+1 < len(path) {
			g.current = path[i+1]
			return true
		}
	}
	return false
}

// JumpTo moves the current state to an arbitrary commit and retargets
// the current branch to the commit's own branch.
func (g *Graph) JumpTo(s StateID) bool {
	c, ok := g.commits[s]
	if !ok {
		return false
	}
	g.current = s
	g.curBranch = c.branch
	return true
}

// SwitchBranch jumps to the tip of another branch.
func (g *Graph) SwitchBranch(b BranchID) bool {
	tip, ok := g.LatestOn(b)
	if !ok {
		return false
	}
	g.current = tip
	g.curBranch = b
	return true
}

// RenameState sets a commit's display name.
func (g *Graph) RenameState(s StateID, name string) bool {
	c, ok := g.commits[s]
	if !ok {
		return false
	}
	c.name = name
	return true
}

// RenameBranch sets a branch's display name.
func (g *Graph) RenameBranch(b BranchID, name string) bool {
	br, ok := g.branches[b]
	if !ok {
		return false
	}
	br.name = name
	return true
}

// StateCount returns the number of commits in the graph.
func (g *Graph) StateCount() int { return len(g.commits) }
