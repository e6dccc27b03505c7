package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwpistols/cargo-generate/internal/config"
)

// ResolveSubfolder returns the effective template directory below
// base. The subfolder must stay inside base and must name a
// directory.
func ResolveSubfolder(base, subfolder string) (string, error) {
	if subfolder == "" {
		return base, nil
	}
	dir := filepath.Join(base, filepath.FromSlash(subfolder))

	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(baseAbs, dirAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("invalid subfolder, must be part of the template folder structure")
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", errors.New("the specified subfolder must be a valid folder")
	}
	return dir, nil
}

// AutoLocate picks the template directory when no subfolder was
// given. A repository may carry several templates, each marked by its
// own configuration file: with none found the base itself is the
// template, with exactly one that directory is chosen, and with
// several the choose callback decides among the sorted candidates.
func AutoLocate(base string, choose func(options []string) (string, error)) (string, error) {
	candidates, err := config.LocateAll(base)
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return base, nil
	case 1:
		return filepath.Join(base, filepath.FromSlash(candidates[0])), nil
	}
	picked, err := choose(candidates)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, filepath.FromSlash(picked)), nil
}
