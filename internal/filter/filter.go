// Package filter decides which template paths are rendered and which
// are removed from the output tree, based on include, exclude and
// ignore glob lists.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Decision classifies a relative path ahead of rendering.
type Decision int

const (
	// Render keeps the path and substitutes values into it.
	Render Decision = iota
	// Delete removes the path from the output tree.
	Delete
)

// Filter holds the validated pattern lists for one generation run.
type Filter struct {
	include []string
	exclude []string
	ignore  []string
}

// New validates the glob patterns and builds a filter. An invalid
// pattern is a configuration error.
func New(include, exclude, ignore []string) (*Filter, error) {
	for _, group := range [][]string{include, exclude, ignore} {
		for _, pattern := range group {
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("invalid glob pattern %q", pattern)
			}
		}
	}
	return &Filter{include: include, exclude: exclude, ignore: ignore}, nil
}

// Classify decides the fate of one relative path. Ignore patterns win
// over everything; a non-empty include list restricts rendering to its
// matches; exclude matches are removed.
func (f *Filter) Classify(rel string) Decision {
	rel = filepath.ToSlash(rel)
	if matchAny(f.ignore, rel) {
		return Delete
	}
	if len(f.include) > 0 && !matchAny(f.include, rel) {
		return Delete
	}
	if matchAny(f.exclude, rel) {
		return Delete
	}
	return Render
}

// Ignored reports whether rel matches an ignore pattern. Directories
// are pruned on ignore matches only; include and exclude apply to
// files.
func (f *Filter) Ignored(rel string) bool {
	return matchAny(f.ignore, filepath.ToSlash(rel))
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Apply walks root and physically removes every path classified
// Delete. Paths listed in exempt survive regardless of classification.
// The report callback observes one relative slash path per removed
// entry; it may be nil.
func (f *Filter) Apply(root string, exempt map[string]bool, report func(rel string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if exempt[rel] {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if f.Ignored(rel) {
				if err := os.RemoveAll(path); err != nil {
					return fmt.Errorf("failed to remove %s: %w", rel, err)
				}
				if report != nil {
					report(rel)
				}
				return filepath.SkipDir
			}
			return nil
		}

		if f.Classify(rel) == Delete {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", rel, err)
			}
			if report != nil {
				report(rel)
			}
		}
		return nil
	})
}
