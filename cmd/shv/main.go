// shv is a TUI viewer for a statehist database: a navigable history of
// application states organized as a DAG of commits grouped into
// branches, with bookmarks and a slideshow-style story playback mode.
//
// It watches the statehist SQLite database for changes and re-projects
// the timeline, branch lanes, and bookmarks in real time.
//
// Usage:
//
//	shv                         # Auto-discover .statehist/history.db
//	shv --db <path>             # Use specific database path
//	shv --init                  # Create a fresh database and open it
//	shv --json                  # Dump current view models as JSON and exit
//	shv --view branches         # Start in a specific view
//	shv --refresh 5s            # Set polling fallback interval
//	shv --version               # Print version and exit
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"statehist/internal/config"
	"statehist/internal/datasource"
	"statehist/internal/history"
	"statehist/internal/projection"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// parseViewFlag maps a --view flag string to a viewID.
func parseViewFlag(s string) (viewID, error) {
	switch strings.ToLower(s) {
	case "timeline", "t":
		return viewTimeline, nil
	case "branches", "b":
		return viewBranches, nil
	case "bookmarks", "m":
		return viewBookmarks, nil
	default:
		return 0, fmt.Errorf("unknown view %q (valid: timeline, branches, bookmarks)", s)
	}
}

// jsonOutput is the structure for --json mode.
type jsonOutput struct {
	States    []jsonState    `json:"states"`
	Branches  []jsonBranch   `json:"branches"`
	Bookmarks []jsonBookmark `json:"bookmarks"`
	Stats     jsonStats      `json:"stats"`
}

type jsonState struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BranchType string `json:"branch_type"`
	Bookmarked bool   `json:"bookmarked"`
	Active     bool   `json:"active"`
	Children   int    `json:"children"`
}

type jsonBranch struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	StartsAt    int    `json:"starts_at"`
	EndsAt      int    `json:"ends_at"`
	MaxDepth    int    `json:"max_depth"`
	ActiveIndex *int   `json:"active_index"`
}

type jsonBookmark struct {
	StateID    int    `json:"state_id"`
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
}

type jsonStats struct {
	States        int `json:"states"`
	Branches      int `json:"branches"`
	Bookmarks     int `json:"bookmarks"`
	CurrentState  int `json:"current_state"`
	CurrentBranch int `json:"current_branch"`
}

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shv: %v\n", err)
		os.Exit(1)
	}

	dbPath := flag.String("db", settings.DBPath, "path to history.db (default: auto-discover)")
	refreshDur := flag.Duration("refresh", settings.Refresh, "polling fallback interval")
	jsonMode := flag.Bool("json", false, "dump current view models as JSON and exit (no TUI)")
	viewFlag := flag.String("view", settings.View, "start in specific view (timeline|branches|bookmarks)")
	initFlag := flag.Bool("init", false, "create a fresh database before opening")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("shv %s\n", Version)
		os.Exit(0)
	}

	var (
		s    *history.Store
		path string
	)
	if *initFlag {
		s, path, err = datasource.Init(*dbPath)
	} else {
		s, path, err = datasource.Open(*dbPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "shv: %v\n", err)
		os.Exit(1)
	}

	graph, bookmarks, err := s.Load()
	if err != nil {
		s.Close()
		fmt.Fprintf(os.Stderr, "shv: load: %v\n", err)
		os.Exit(1)
	}
	if graph == nil {
		s.Close()
		fmt.Fprintf(os.Stderr, "shv: %s is empty (run with --init to seed it)\n", path)
		os.Exit(1)
	}
	if err := projection.Validate(graph); err != nil {
		s.Close()
		fmt.Fprintf(os.Stderr, "shv: %s: %v\n", path, err)
		os.Exit(1)
	}

	// --json mode: project, print, exit.
	if *jsonMode {
		out := buildJSONOutput(graph, bookmarks)
		s.Close()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "shv: json: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	w, err := datasource.NewWatcher(path)
	if err != nil {
		s.Close()
		fmt.Fprintf(os.Stderr, "shv: watch: %v\n", err)
		os.Exit(1)
	}

	m := newModel(s, w, graph, bookmarks, path)
	m.refreshInterval = *refreshDur

	// Apply --view flag.
	if *viewFlag != "" {
		v, err := parseViewFlag(*viewFlag)
		if err != nil {
			w.Close()
			s.Close()
			fmt.Fprintf(os.Stderr, "shv: %v\n", err)
			os.Exit(1)
		}
		m.activeView = v
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Feed DB change events into the TUI.
	go func() {
		for range w.Changes() {
			p.Send(dbChangedMsg{})
		}
	}()

	// Polling fallback: refresh at --refresh interval even if fsnotify
	// misses events.
	go func() {
		ticker := time.NewTicker(*refreshDur)
		defer ticker.Stop()
		for range ticker.C {
			p.Send(dbChangedMsg{})
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shv: %v\n", err)
		os.Exit(1)
	}
}

// buildJSONOutput projects the graph into the JSON output structure.
func buildJSONOutput(g *history.Graph, bookmarks []history.Bookmark) jsonOutput {
	path := projection.ResolvePath(g)
	stateEntries := projection.ProjectStates(g, path, bookmarks, projection.Pin{})
	branchEntries := projection.ProjectBranches(g, path, projection.Pin{})

	states := make([]jsonState, len(stateEntries))
	for i, e := range stateEntries {
		states[i] = jsonState{
			ID:         int(e.ID),
			Name:       e.Name,
			BranchType: e.BranchType.String(),
			Bookmarked: e.Bookmarked,
			Active:     e.Active,
			Children:   e.ChildCount,
		}
	}

	branches := make([]jsonBranch, len(branchEntries))
	for i, e := range branchEntries {
		branches[i] = jsonBranch{
			ID:          int(e.ID),
			Name:        e.Name,
			StartsAt:    e.StartsAt,
			EndsAt:      e.EndsAt,
			MaxDepth:    e.MaxDepth,
			ActiveIndex: e.ActiveIndex,
		}
	}

	marks := make([]jsonBookmark, len(bookmarks))
	for i, bm := range bookmarks {
		marks[i] = jsonBookmark{
			StateID:    int(bm.StateID),
			Name:       bm.Name,
			Annotation: bm.Annotation,
		}
	}

	return jsonOutput{
		States:    states,
		Branches:  branches,
		Bookmarks: marks,
		Stats: jsonStats{
			States:        g.StateCount(),
			Branches:      len(g.Branches()),
			Bookmarks:     len(bookmarks),
			CurrentState:  int(g.CurrentState()),
			CurrentBranch: int(g.CurrentBranch()),
		},
	}
}
