package projection

import "statehist/internal/history"

// ResolvePath returns the commit path of the current branch: the unique
// root-to-tip sequence, root first. A branch with no resolvable tip
// yields an empty path, never a panic; the caller renders empty lists.
func ResolvePath(g GraphReader) []history.StateID {
	tip, ok := g.LatestOn(g.CurrentBranch())
	if !ok {
		return nil
	}
	return g.CommitPath(tip)
}
