// Package types defines the data structures shared across the runner.
package types

import (
	"path/filepath"
)

type (
	// RunConfig holds the per-run policy. It is built once at startup and
	// never mutated afterwards.
	RunConfig struct {
		Command      string `json:"command"`
		IgnoreErrors bool   `json:"ignoreErrors,omitempty"`
		Quiet        bool   `json:"quiet,omitempty"`
	}

	// DirectoryEntry is one candidate subdirectory of the working directory.
	DirectoryEntry struct {
		Name string `json:"name"`
		Path string `json:"path"` // display path, e.g. "./name"
		Dir  string `json:"-"`    // filesystem path used as the child's cwd
	}
)

// NewDirectoryEntry builds an entry for name located under root.
func NewDirectoryEntry(root, name string) DirectoryEntry {
	return DirectoryEntry{
		Name: name,
		Path: "./" + name,
		Dir:  filepath.Join(root, name),
	}
}
