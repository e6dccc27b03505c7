// Package source acquires template trees: it clones remote
// repositories into a scratch directory, copies local template
// directories, and resolves the effective template folder within the
// acquired tree.
package source

import (
	"os"
	"strings"
)

// Location identifies where a template comes from. Exactly one of Git
// or Path is set.
type Location struct {
	Git  string
	Path string
}

// ParseLocation turns the user's template argument into a location.
// Abbreviated remotes expand first, then existing local directories
// win, and anything else is treated as a git remote.
func ParseLocation(raw string) Location {
	if expanded, ok := expandAbbreviation(raw); ok {
		return Location{Git: expanded}
	}
	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return Location{Path: raw}
	}
	return Location{Git: raw}
}

// ExpandAbbreviation resolves short host prefixes on an explicitly
// remote location. Strings without a known prefix pass through
// unchanged.
func ExpandAbbreviation(raw string) string {
	expanded, _ := expandAbbreviation(raw)
	return expanded
}

// expandAbbreviation resolves the short host prefixes:
//
//	gh:user/repo => https://github.com/user/repo.git
//	gl:user/repo => https://gitlab.com/user/repo.git
//	bb:user/repo => https://bitbucket.org/user/repo.git
//	sr:user/repo => https://git.sr.ht/~user/repo
func expandAbbreviation(raw string) (string, bool) {
	prefix, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return raw, false
	}
	switch prefix {
	case "gh":
		return "https://github.com/" + rest + ".git", true
	case "gl":
		return "https://gitlab.com/" + rest + ".git", true
	case "bb":
		return "https://bitbucket.org/" + rest + ".git", true
	case "sr":
		return "https://git.sr.ht/~" + rest, true
	}
	return raw, false
}
