// Package datasource discovers and connects to the statehist SQLite database.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"

	"statehist/internal/history"
)

const (
	defaultDir = ".statehist"
	defaultDB  = ".statehist/history.db"
)

// Discover finds the statehist database path.
// Priority: explicit override > STATEHIST_DB env var > .statehist/history.db
// in CWD > walk up parents.
func Discover(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, nil
		}
		return "", fmt.Errorf("database %q: %w", override, os.ErrNotExist)
	}

	if env := os.Getenv("STATEHIST_DB"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("STATEHIST_DB=%q: %w", env, os.ErrNotExist)
	}

	// Check CWD first.
	if _, err := os.Stat(defaultDB); err == nil {
		abs, err := filepath.Abs(defaultDB)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", defaultDB, err)
		}
		return abs, nil
	}

	// Walk up parent directories.
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, defaultDB)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no statehist database found (looked for %s; run with --init to create one)", defaultDB)
}

// Open discovers and opens the statehist store.
func Open(override string) (*history.Store, string, error) {
	path, err := Discover(override)
	if err != nil {
		return nil, "", err
	}
	s, err := history.OpenStore(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return s, path, nil
}

// Init creates a fresh database seeded with a single root state. The
// path defaults to .statehist/history.db in the current directory.
func Init(path string) (*history.Store, string, error) {
	if path == "" {
		path = defaultDB
	}
	if _, err := os.Stat(path); err == nil {
		return nil, "", fmt.Errorf("database %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	s, err := history.OpenStore(path)
	if err != nil {
		return nil, "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.Save(history.New("Initial state"), nil); err != nil {
		s.Close()
		return nil, "", fmt.Errorf("seed %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return s, abs, nil
}
