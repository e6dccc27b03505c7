package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
)

// WalkOptions configures one expansion walk.
type WalkOptions struct {
	// Bindings is a snapshot of the resolved value set.
	Bindings map[string]any
	// HookFiles are root-relative slash paths the walk leaves alone.
	HookFiles map[string]bool
	// OnRender observes every processed file as a relative slash path.
	OnRender func(rel string)
}

// Walk renders every entry under root in place: directory and file
// names pass through the engine, file contents too unless the file is
// binary. The version-control directory is skipped and symbolic links
// are rejected. The traversal keeps its own stack instead of
// recursing, so template depth is bounded by memory alone.
func (e *Engine) Walk(root string, opts WalkOptions) error {
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read template directory: %w", err)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if entry.Type()&os.ModeSymlink != 0 {
				return fmt.Errorf("symbolic links not supported: %s", rel)
			}

			if entry.IsDir() {
				if entry.Name() == ".git" {
					continue
				}
				renamed, err := e.renderName(path, entry.Name(), opts.Bindings, false)
				if err != nil {
					return fmt.Errorf("%s: %w", rel, err)
				}
				stack = append(stack, renamed)
				continue
			}

			if opts.HookFiles[rel] {
				continue
			}

			if err := e.renderFile(path, opts.Bindings); err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			if _, err := e.renderName(path, entry.Name(), opts.Bindings, true); err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			if opts.OnRender != nil {
				opts.OnRender(rel)
			}
		}
	}
	return nil
}

// renderName renders an entry's name and renames the entry when the
// result differs. File names drop the template suffix after
// rendering. Returns the path the entry ends up at.
func (e *Engine) renderName(path, name string, bindings map[string]any, stripSuffix bool) (string, error) {
	rendered, err := e.RenderString(name, bindings)
	if err != nil {
		return "", fmt.Errorf("failed to render name: %w", err)
	}
	if stripSuffix {
		rendered = strings.TrimSuffix(rendered, Suffix)
	}
	if rendered == name {
		return path, nil
	}
	if rendered == "" {
		return "", fmt.Errorf("name %q rendered to an empty string", name)
	}
	target := filepath.Join(filepath.Dir(path), rendered)
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to rename: %w", err)
	}
	return target, nil
}

// renderFile substitutes values into a file's contents in place.
// Binary files are left byte for byte.
func (e *Engine) renderFile(path string, bindings map[string]any) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !isText(data) {
		return nil
	}
	rendered, err := e.RenderString(string(data), bindings)
	if err != nil {
		return fmt.Errorf("failed to render contents: %w", err)
	}
	if rendered == string(data) {
		return nil
	}
	return os.WriteFile(path, []byte(rendered), info.Mode().Perm())
}

// isText reports whether contents are safe to run through the engine:
// no known binary signature, valid UTF-8 and no NUL bytes.
func isText(data []byte) bool {
	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		return false
	}
	if !utf8.Valid(data) {
		return false
	}
	return !bytes.ContainsRune(data, 0)
}
