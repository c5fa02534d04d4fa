package projection

import "errors"

var (
	// ErrInvalidGraph reports a graph whose current branch or state does
	// not resolve. Unreachable while the DAG keeps its own invariants.
	ErrInvalidGraph = errors.New("invalid graph state")

	// ErrPlaybackRange reports a playback index outside the bookmark
	// list. A contract violation by the host, not a display condition.
	ErrPlaybackRange = errors.New("playback index out of range")

	// ErrMissingHandler reports a required collaborator command that was
	// never wired in.
	ErrMissingHandler = errors.New("missing collaborator handler")
)
