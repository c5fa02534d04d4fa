// Package projection derives the view models that drive rendering from
// an immutable snapshot of the history DAG plus transient UI selectors
// (pinned state, playback position).
//
// Every function here is a pure read: it allocates a fresh view model
// per call and retains nothing. Graph anomalies degrade to empty or nil
// results instead of failing a render pass.
package projection

import "statehist/internal/history"

// GraphReader is the read-only contract the projectors consume. The
// production implementation is *history.Graph; tests use an in-memory
// double so pathological shapes can be constructed directly.
type GraphReader interface {
	CurrentBranch() history.BranchID
	CurrentState() history.StateID
	Branches() []history.BranchID

	// LatestOn returns the tip commit of a branch.
	LatestOn(b history.BranchID) (history.StateID, bool)
	// CommitPath returns the root-to-s path, root first.
	CommitPath(s history.StateID) []history.StateID

	BranchOf(s history.StateID) (history.BranchID, bool)
	ParentOf(s history.StateID) (history.StateID, bool)
	ChildrenOf(s history.StateID) []history.StateID

	// DepthIndexOf is the zero-based depth of s on branch b's lineage.
	DepthIndexOf(b history.BranchID, s history.StateID) (int, bool)
	BranchStartDepth(b history.BranchID) (int, bool)
	BranchEndDepth(b history.BranchID) (int, bool)

	StateName(s history.StateID) string
	BranchName(b history.BranchID) string
}

// Validate checks that the graph's current branch and state resolve.
// The DAG's own invariants make a failure here a host misconfiguration,
// so it is surfaced as ErrInvalidGraph rather than absorbed.
func Validate(g GraphReader) error {
	if _, ok := g.LatestOn(g.CurrentBranch()); !ok {
		return ErrInvalidGraph
	}
	if _, ok := g.BranchOf(g.CurrentState()); !ok {
		return ErrInvalidGraph
	}
	return nil
}
