// Package fs locates include targets for the standalone expand and lint
// modes, where there is no book source directory to resolve against.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"shiftinclude/internal/ui"
)

// PathResolver finds include targets across a list of lookup directories.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a resolver over the given directories, falling
// back to the current working directory when none are given.
func NewPathResolver(lookupDirs []string) *PathResolver {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			// This is unlikely to fail, but if it does, it's a critical error.
			panic(fmt.Sprintf("could not get current working directory: %v", err))
		}
		return &PathResolver{lookupDirs: []string{wd}}
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			ui.Warning("Invalid lookup directory '%s', ignoring: %v", dir, err)
			continue
		}
		absDirs = append(absDirs, abs)
	}
	if len(absDirs) == 0 {
		wd, _ := os.Getwd()
		absDirs = []string{wd}
	}
	return &PathResolver{lookupDirs: absDirs}
}

// BaseDir returns the directory document-level includes resolve against.
func (r *PathResolver) BaseDir() string {
	return r.lookupDirs[0]
}

// ResolveExisting returns the absolute path of the first lookup directory
// containing relativePath, or "" when no directory does.
func (r *PathResolver) ResolveExisting(relativePath string) string {
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, relativePath)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return ""
}
