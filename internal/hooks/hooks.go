// Package hooks runs template lifecycle scripts before and after
// expansion and shares the live variable set with them.
//
// Hooks receive the variable set through CARGO_GENERATE_VALUE_*
// environment entries and may add or change variables by writing
// name=value lines to the file named by CARGO_GENERATE_OUTPUT.
package hooks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nwpistols/cargo-generate/internal/variables"
)

// Coordinator drives hook execution for one generation run.
type Coordinator struct {
	// TemplateDir is the scratch directory hooks run in.
	TemplateDir string
	// Destination is the final project directory, handed to hooks as
	// CARGO_GENERATE_DESTINATION. It may not exist yet.
	Destination string
	// Pre and Post are root-relative slash paths in declared order.
	Pre  []string
	Post []string
	// Values is shared with the rest of the pipeline; hook mutations
	// land here.
	Values *variables.Set

	// Stdout and Stderr default to the process streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// HookError reports which hook failed.
type HookError struct {
	Path string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %q failed: %v", e.Path, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// ConfirmExecution grants the one-time approval required before any
// hook runs. The allowed flag skips the question. In silent mode the
// question cannot be asked, so pending hooks are an error there.
func (c *Coordinator) ConfirmExecution(silent, allowed bool, confirm func(prompt string) (bool, error)) error {
	if len(c.Pre) == 0 && len(c.Post) == 0 {
		return nil
	}
	if allowed {
		return nil
	}
	if silent {
		return errors.New("the template requires running hooks, pass `--allow-commands` to permit them in silent mode")
	}
	prompt := fmt.Sprintf("The template is requesting to run the following hooks:\n  %s\nAllow?",
		strings.Join(append(append([]string{}, c.Pre...), c.Post...), "\n  "))
	ok, err := confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("hook execution was not allowed")
	}
	return nil
}

// RunPre executes the pre-expansion hooks in declared order.
func (c *Coordinator) RunPre() error { return c.run(c.Pre) }

// RunPost executes the post-expansion hooks in declared order.
func (c *Coordinator) RunPost() error { return c.run(c.Post) }

// Files returns the root-relative slash paths of every hook file.
// The walker and the filter leave these paths alone so post-hooks
// still exist when their turn comes.
func (c *Coordinator) Files() map[string]bool {
	files := make(map[string]bool, len(c.Pre)+len(c.Post))
	for _, rel := range c.Pre {
		files[filepath.ToSlash(rel)] = true
	}
	for _, rel := range c.Post {
		files[filepath.ToSlash(rel)] = true
	}
	return files
}

// Cleanup removes every hook file from the output tree. Files already
// gone are fine.
func (c *Coordinator) Cleanup() error {
	for rel := range c.Files() {
		path := filepath.Join(c.TemplateDir, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove hook file %s: %w", rel, err)
		}
	}
	return nil
}

func (c *Coordinator) run(scripts []string) error {
	for _, rel := range scripts {
		if err := c.runOne(rel); err != nil {
			return &HookError{Path: rel, Err: err}
		}
	}
	return nil
}

func (c *Coordinator) runOne(rel string) error {
	script := filepath.Join(c.TemplateDir, filepath.FromSlash(rel))
	info, err := os.Stat(script)
	if err != nil {
		return fmt.Errorf("hook file not found: %w", err)
	}

	outPath := filepath.Join(os.TempDir(), "cargo-generate-hook-"+uuid.NewString())
	defer os.Remove(outPath)

	var cmd *exec.Cmd
	if info.Mode().Perm()&0o111 != 0 {
		cmd = exec.Command(script)
	} else {
		cmd = exec.Command("sh", script)
	}
	cmd.Dir = c.TemplateDir
	cmd.Env = append(os.Environ(), c.environment(outPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = c.stdout()
	cmd.Stderr = c.stderr()

	if err := cmd.Run(); err != nil {
		return err
	}
	return c.foldOutput(outPath)
}

// environment renders the variable set as CARGO_GENERATE_VALUE_*
// entries plus the destination and output-file coordinates.
func (c *Coordinator) environment(outPath string) []string {
	bindings := c.Values.Bindings()
	env := make([]string, 0, len(bindings)+2)
	for name, value := range bindings {
		env = append(env, variables.EnvValuePrefix+envName(name)+"="+envValue(value))
	}
	sort.Strings(env)
	return append(env,
		"CARGO_GENERATE_DESTINATION="+c.Destination,
		"CARGO_GENERATE_OUTPUT="+outPath,
	)
}

// foldOutput merges name=value lines a hook wrote to its output file
// back into the shared variable set. The literals "true" and "false"
// fold back as booleans.
func (c *Coordinator) foldOutput(outPath string) error {
	data, err := os.ReadFile(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid hook output line %q, expected name=value", line)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if value == "true" || value == "false" {
			c.Values.PutBool(name, value == "true")
			continue
		}
		c.Values.PutString(name, value)
	}
	return nil
}

func (c *Coordinator) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Coordinator) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

func envName(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

func envValue(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
