package source

import (
	"fmt"
	"os"

	"github.com/nwpistols/cargo-generate/internal/template"
)

// DefaultBranch is the branch name reported for templates that did
// not come from a clone.
const DefaultBranch = "main"

// CopyTemplate copies a local template directory into a fresh scratch
// directory so expansion never touches the original. The
// version-control directory is not copied.
func CopyTemplate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("template location %s is not a directory", path)
	}

	scratch := scratchDir()
	if err := template.CopyTree(path, scratch); err != nil {
		os.RemoveAll(scratch)
		return "", err
	}
	return scratch, nil
}
