package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

// Store persists a Graph and its bookmarks in SQLite. The db file is the
// shared handoff point between the viewer and external writers; the
// viewer re-loads whenever the file changes.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS commits (
	id      INTEGER PRIMARY KEY,
	name    TEXT NOT NULL,
	parent  INTEGER NOT NULL,
	branch  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS branches (
	id           INTEGER PRIMARY KEY,
	name         TEXT NOT NULL,
	first_commit INTEGER NOT NULL,
	last_commit  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS bookmarks (
	position   INTEGER PRIMARY KEY,
	state_id   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	annotation TEXT NOT NULL DEFAULT ''
);
`

// OpenStore opens (or creates) the statehist database at path and
// ensures the schema exists.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes the full graph and bookmark list in one transaction,
// replacing whatever was stored before.
func (s *Store) Save(g *Graph, bookmarks []Bookmark) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"commits", "branches", "meta", "bookmarks"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for id := StateID(0); id < g.nextState; id++ {
		c, ok := g.commits[id]
		if !ok {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO commits (id, name, parent, branch) VALUES (?, ?, ?, ?)",
			int(c.id), c.name, int(c.parent), int(c.branch),
		); err != nil {
			return fmt.Errorf("save commit %d: %w", c.id, err)
		}
	}

	for id := BranchID(0); id < g.nextBranch; id++ {
		br, ok := g.branches[id]
		if !ok {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO branches (id, name, first_commit, last_commit) VALUES (?, ?, ?, ?)",
			int(br.id), br.name, int(br.first), int(br.last),
		); err != nil {
			return fmt.Errorf("save branch %d: %w", br.id, err)
		}
	}

	meta := map[string]int{
		"current_state":  int(g.current),
		"current_branch": int(g.curBranch),
		"next_state":     int(g.nextState),
		"next_branch":    int(g.nextBranch),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	for i, bm := range bookmarks {
		if _, err := tx.Exec(
			"INSERT INTO bookmarks (position, state_id, name, annotation) VALUES (?, ?, ?, ?)",
			i, int(bm.StateID), bm.Name, bm.Annotation,
		); err != nil {
			return fmt.Errorf("save bookmark %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load rebuilds the graph and bookmark list from the database. An empty
// database yields (nil, nil, nil) so callers can decide to seed one.
func (s *Store) Load() (*Graph, []Bookmark, error) {
	g := &Graph{
		commits:  make(map[StateID]*commit),
		branches: make(map[BranchID]*branch),
	}

	rows, err := s.db.Query("SELECT id, name, parent, branch FROM commits ORDER BY id")
	if err != nil {
		return nil, nil, fmt.Errorf("load commits: %w", err)
	}
	for rows.Next() {
		var id, parent, br int
		var name string
		if err := rows.Scan(&id, &name, &parent, &br); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan commit: %w", err)
		}
		g.commits[StateID(id)] = &commit{
			id:     StateID(id),
			name:   name,
			parent: StateID(parent),
			branch: BranchID(br),
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, fmt.Errorf("load commits: %w", err)
	}
	rows.Close()

	if len(g.commits) == 0 {
		return nil, nil, nil
	}

	// Children are derived, not stored. Ascending id order keeps
	// insertion order stable across save/load round trips.
	ids := make([]StateID, 0, len(g.commits))
	for id := range g.commits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := g.commits[id]
		if c.parent >= 0 {
			p, ok := g.commits[c.parent]
			if !ok {
				return nil, nil, fmt.Errorf("commit %d: missing parent %d", c.id, c.parent)
			}
			p.children = append(p.children, c.id)
		}
	}

	rows, err = s.db.Query("SELECT id, name, first_commit, last_commit FROM branches ORDER BY id")
	if err != nil {
		return nil, nil, fmt.Errorf("load branches: %w", err)
	}
	for rows.Next() {
		var id, first, last int
		var name string
		if err := rows.Scan(&id, &name, &first, &last); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan branch: %w", err)
		}
		g.branches[BranchID(id)] = &branch{
			id:    BranchID(id),
			name:  name,
			first: StateID(first),
			last:  StateID(last),
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, fmt.Errorf("load branches: %w", err)
	}
	rows.Close()

	metaRows, err := s.db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, nil, fmt.Errorf("load meta: %w", err)
	}
	for metaRows.Next() {
		var key string
		var value int
		if err := metaRows.Scan(&key, &value); err != nil {
			metaRows.Close()
			return nil, nil, fmt.Errorf("scan meta: %w", err)
		}
		switch key {
		case "current_state":
			g.current = StateID(value)
		case "current_branch":
			g.curBranch = BranchID(value)
		case "next_state":
			g.nextState = StateID(value)
		case "next_branch":
			g.nextBranch = BranchID(value)
		}
	}
	if err := metaRows.Err(); err != nil {
		metaRows.Close()
		return nil, nil, fmt.Errorf("load meta: %w", err)
	}
	metaRows.Close()

	if _, ok := g.commits[g.current]; !ok {
		return nil, nil, fmt.Errorf("current state %d not in graph", g.current)
	}
	if _, ok := g.branches[g.curBranch]; !ok {
		return nil, nil, fmt.Errorf("current branch %d not in graph", g.curBranch)
	}

	var bookmarks []Bookmark
	bmRows, err := s.db.Query("SELECT state_id, name, annotation FROM bookmarks ORDER BY position")
	if err != nil {
		return nil, nil, fmt.Errorf("load bookmarks: %w", err)
	}
	for bmRows.Next() {
		var stateID int
		var name, annotation string
		if err := bmRows.Scan(&stateID, &name, &annotation); err != nil {
			bmRows.Close()
			return nil, nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, Bookmark{
			StateID:    StateID(stateID),
			Name:       name,
			Annotation: annotation,
		})
	}
	if err := bmRows.Err(); err != nil {
		bmRows.Close()
		return nil, nil, fmt.Errorf("load bookmarks: %w", err)
	}
	bmRows.Close()

	return g, bookmarks, nil
}
