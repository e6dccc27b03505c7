package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Locate walks upward from dir to root looking for the configuration
// file. Both endpoints are searched; the first hit wins.
func Locate(root, dir string) (string, bool) {
	root = filepath.Clean(root)
	current := filepath.Clean(dir)

	for {
		candidate := filepath.Join(current, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		if current == root {
			return "", false
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LocateAll returns every directory under base that carries a
// configuration file, as sorted base-relative slash paths. The base
// itself is reported as ".".
func LocateAll(base string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" && path != base {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != FileName {
			return nil
		}
		rel, err := filepath.Rel(base, filepath.Dir(path))
		if err != nil {
			return err
		}
		dirs = append(dirs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for template configurations: %w", err)
	}
	sort.Strings(dirs)
	return dirs, nil
}
