// Package filesystem lists the subdirectories a command is fanned out to.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/srgsanky/recursive-runner/internal/pathfilter"
	"github.com/srgsanky/recursive-runner/internal/types"
)

// DirectoryReadError reports that the root directory itself could not be
// listed. It ends the run.
type DirectoryReadError struct {
	Path string
	Err  error
}

func (e *DirectoryReadError) Error() string {
	switch {
	case errors.Is(e.Err, fs.ErrNotExist):
		return fmt.Sprintf("directory not found: %s", e.Path)
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("permission denied: %s", e.Path)
	default:
		return fmt.Sprintf("failed to list directory: %s - %v", e.Path, e.Err)
	}
}

func (e *DirectoryReadError) Unwrap() error {
	return e.Err
}

// EntryReadError reports a single listing entry whose type could not be
// resolved. The entry is skipped and listing continues.
type EntryReadError struct {
	Name string
	Err  error
}

func (e *EntryReadError) Error() string {
	return fmt.Sprintf("failed to read entry: %s - %v", e.Name, e.Err)
}

func (e *EntryReadError) Unwrap() error {
	return e.Err
}

// Service enumerates the immediate subdirectories of a root directory.
type Service struct {
	root       string
	pathFilter *pathfilter.PathFilter

	// OnSkip, when set, is called for every entry dropped because it
	// could not be read.
	OnSkip func(err *EntryReadError)
}

// New creates a Service rooted at root. An empty root means the current
// working directory.
func New(root string, pf *pathfilter.PathFilter) *Service {
	if root == "" {
		root = "."
	}
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	return &Service{
		root:       filepath.Clean(root),
		pathFilter: pf,
	}
}

// ListSubdirectories returns the visible subdirectories of the root,
// sorted by name. Symlinks are followed when deciding whether an entry
// is a directory.
func (s *Service) ListSubdirectories() (types.DirectoryListing, error) {
	// os.ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return types.DirectoryListing{}, &DirectoryReadError{Path: s.root, Err: err}
	}

	listing := types.DirectoryListing{
		Root:    s.root,
		Entries: []types.DirectoryEntry{},
	}

	for _, entry := range entries {
		name := entry.Name()
		if !s.pathFilter.IsAllowed(name) {
			continue
		}

		isDir, err := s.isDirectory(entry)
		if err != nil {
			listing.Skipped++
			if s.OnSkip != nil {
				s.OnSkip(&EntryReadError{Name: name, Err: err})
			}
			continue
		}
		if !isDir {
			continue
		}

		listing.Entries = append(listing.Entries, types.NewDirectoryEntry(s.root, name))
	}

	return listing, nil
}

func (s *Service) isDirectory(entry fs.DirEntry) (bool, error) {
	if entry.IsDir() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}

	info, err := os.Stat(filepath.Join(s.root, entry.Name()))
	if err != nil {
		// Dangling links are not directories, not read failures
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// ResolvePath resolves a path relative to workspace and rejects paths
// that escape it.
func ResolvePath(workspace, relativePath string) (string, error) {
	absWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return "", err
	}

	normalizedPath := strings.TrimPrefix(strings.TrimSpace(relativePath), "/")
	absPath, err := filepath.Abs(filepath.Join(absWorkspace, normalizedPath))
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(absWorkspace, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", relativePath)
	}
	return absPath, nil
}
