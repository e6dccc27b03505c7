package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwpistols/cargo-generate/internal/appconfig"
	"github.com/nwpistols/cargo-generate/internal/output"
	"github.com/nwpistols/cargo-generate/internal/variables"
)

// hermetic keeps a run away from the developer's real settings,
// git identity and environment values.
func hermetic(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(appconfig.EnvConfigPath, "")
	t.Setenv(EnvValuesFile, "")
	t.Setenv("GIT_AUTHOR_NAME", "Test Author")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
}

func seedTemplate(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readProject(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

type stubPrompter struct {
	values   map[string]any
	name     string
	confirm  bool
	asked    []string
	selected string
}

func (s *stubPrompter) Variable(slot variables.Slot) (any, error) {
	s.asked = append(s.asked, slot.VarName)
	v, ok := s.values[slot.VarName]
	if !ok {
		return nil, fmt.Errorf("unexpected prompt for %q", slot.VarName)
	}
	return v, nil
}

func (s *stubPrompter) ProjectName() (string, error) { return s.name, nil }

func (s *stubPrompter) Confirm(string) (bool, error) { return s.confirm, nil }

func (s *stubPrompter) Select(_ string, options []string) (string, error) {
	if s.selected != "" {
		return s.selected, nil
	}
	return options[0], nil
}

func TestRunBasicTemplate(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"Cargo.toml":  "[package]\nname = \"{{project-name}}\"\n",
		"src/main.rs": "// {{crate_name}} by {{authors}}\nfn main() {}\n",
		"README.md":   "plain\n",
	})
	dest := t.TempDir()

	var buf bytes.Buffer
	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "my-project",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &buf},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "my-project")
	assert.Equal(t, "[package]\nname = \"my-project\"\n", readProject(t, project, "Cargo.toml"))
	assert.Equal(t, "// my_project by Test Author <test@example.com>\nfn main() {}\n", readProject(t, project, "src/main.rs"))
	assert.Equal(t, "plain\n", readProject(t, project, "README.md"))
	assert.Contains(t, buf.String(), "Done! New project created "+project)
	assert.NoDirExists(t, filepath.Join(project, ".git"))
}

func TestRunKebabCasesTheProjectName(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{"name.txt": "{{project-name}}\n"})
	dest := t.TempDir()

	var buf bytes.Buffer
	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "My Project",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &buf},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "my-project")
	assert.Equal(t, "my-project\n", readProject(t, project, "name.txt"))
	assert.Contains(t, buf.String(), "Renaming project called `My Project` to `my-project`...")
}

func TestRunForceKeepsTheNameAsTyped(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{"name.txt": "{{project-name}}\n"})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "My_Project",
		Force:            true,
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	assert.Equal(t, "My_Project\n", readProject(t, filepath.Join(dest, "My_Project"), "name.txt"))
}

func TestRunStripsLiquidSuffix(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"Cargo.toml.liquid": "name = \"{{project-name}}\"\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "demo")
	assert.Equal(t, "name = \"demo\"\n", readProject(t, project, "Cargo.toml"))
	assert.NoFileExists(t, filepath.Join(project, "Cargo.toml.liquid"))
}

func TestRunPlaceholdersFromDefines(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": `
[placeholders.hypervisor]
type = "string"
prompt = "Which hypervisor?"
choices = ["qemu", "firecracker"]

[placeholders.enable_ci]
type = "bool"
prompt = "CI?"
`,
		"config.txt": "hv={{hypervisor}} ci={{enable_ci}}\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Defines:          []string{"hypervisor=qemu", "enable_ci=true"},
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "demo")
	assert.Equal(t, "hv=qemu ci=true\n", readProject(t, project, "config.txt"))
	assert.NoFileExists(t, filepath.Join(project, "cargo-generate.toml"))
}

func TestRunSilentMissingPlaceholderFails(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": `
[placeholders.hypervisor]
type = "string"
prompt = "Which hypervisor?"
`,
		"config.txt": "{{hypervisor}}\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.Error(t, err)

	var missing *variables.MissingPlaceholderError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "hypervisor", missing.VarName)
	assert.NoDirExists(t, filepath.Join(dest, "demo"))
}

func TestRunSilentWithoutNameFails(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{"a.txt": "x\n"})

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Destination:      t.TempDir(),
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--silent")
	assert.Contains(t, err.Error(), "--name")
}

func TestRunConditionalFragments(t *testing.T) {
	hermetic(t)
	files := map[string]string{
		"cargo-generate.toml": `
[placeholders.enable_native]
type = "bool"
prompt = "Native build?"

[conditional."enable_native == false".placeholders.fallback]
type = "string"
prompt = "Fallback implementation?"

[conditional."enable_native == true"]
ignore = ["fallback.c"]
`,
		"fallback.c": "// {{fallback}}\n",
		"core.txt":   "native={{enable_native}}\n",
	}

	t.Run("false branch keeps the fallback and asks for it", func(t *testing.T) {
		dest := t.TempDir()
		err := Run(context.Background(), Options{
			TemplateLocation: seedTemplate(t, files),
			Name:             "demo",
			Destination:      dest,
			Silent:           true,
			VCS:              "none",
			Defines:          []string{"enable_native=false", "fallback=softfloat"},
			Printer:          &output.Printer{Out: &bytes.Buffer{}},
		})
		require.NoError(t, err)

		project := filepath.Join(dest, "demo")
		assert.Equal(t, "// softfloat\n", readProject(t, project, "fallback.c"))
		assert.Equal(t, "native=false\n", readProject(t, project, "core.txt"))
	})

	t.Run("true branch removes the fallback without asking", func(t *testing.T) {
		dest := t.TempDir()
		err := Run(context.Background(), Options{
			TemplateLocation: seedTemplate(t, files),
			Name:             "demo",
			Destination:      dest,
			Silent:           true,
			VCS:              "none",
			Defines:          []string{"enable_native=true"},
			Printer:          &output.Printer{Out: &bytes.Buffer{}},
		})
		require.NoError(t, err)

		project := filepath.Join(dest, "demo")
		assert.NoFileExists(t, filepath.Join(project, "fallback.c"))
		assert.Equal(t, "native=true\n", readProject(t, project, "core.txt"))
	})
}

func TestRunExcludeAndIgnoreFilters(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": `
[template]
exclude = ["secret/**"]
ignore = ["*.bak"]
`,
		"keep.txt":        "keep\n",
		"secret/key.pem":  "hush\n",
		"notes.bak":       "old\n",
		"secret/deep/a.t": "hush\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "demo")
	assert.FileExists(t, filepath.Join(project, "keep.txt"))
	assert.NoFileExists(t, filepath.Join(project, "secret", "key.pem"))
	assert.NoFileExists(t, filepath.Join(project, "secret", "deep", "a.t"))
	assert.NoFileExists(t, filepath.Join(project, "notes.bak"))
}

func TestRunTargetDirectoryExists(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{"a.txt": "x\n"})
	dest := t.TempDir()
	existing := filepath.Join(dest, "demo")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "precious.txt"), []byte("mine\n"), 0o644))

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, "mine\n", readProject(t, existing, "precious.txt"))
	assert.NoFileExists(t, filepath.Join(existing, "a.txt"))
}

func TestRunInitExpandsInPlace(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{"tool.cfg": "name={{project-name}}\n"})
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "unrelated.txt"), []byte("stay\n"), 0o644))

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Init:             true,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	assert.Equal(t, "name=demo\n", readProject(t, dest, "tool.cfg"))
	assert.Equal(t, "stay\n", readProject(t, dest, "unrelated.txt"))
	assert.NoDirExists(t, filepath.Join(dest, ".git"))
}

func TestRunInitCollisionWritesNothing(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"conflict.txt": "new\n",
		"fresh.txt":    "new\n",
	})
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "conflict.txt"), []byte("original\n"), 0o644))

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Init:             true,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, "original\n", readProject(t, dest, "conflict.txt"))
	assert.NoFileExists(t, filepath.Join(dest, "fresh.txt"))
}

func TestRunHooks(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": `
[template]
pre_hooks = ["setup.sh"]
post_hooks = ["finish.sh"]
`,
		"setup.sh":    "echo 'greeting=from-hook' >> \"$CARGO_GENERATE_OUTPUT\"\n",
		"finish.sh":   "printf 'post' > post-created.txt\n",
		"message.txt": "{{greeting}}\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		AllowCommands:    true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "demo")
	assert.Equal(t, "from-hook\n", readProject(t, project, "message.txt"))
	assert.Equal(t, "post", readProject(t, project, "post-created.txt"))
	assert.NoFileExists(t, filepath.Join(project, "setup.sh"))
	assert.NoFileExists(t, filepath.Join(project, "finish.sh"))
}

func TestRunHooksSilentWithoutPermissionFails(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": "[template]\npre_hooks = [\"setup.sh\"]\n",
		"setup.sh":            "true\n",
		"a.txt":               "x\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--allow-commands")
	assert.NoDirExists(t, filepath.Join(dest, "demo"))
}

func TestRunInteractivePrompts(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": `
[placeholders.flavor]
type = "string"
prompt = "Flavor?"
`,
		"flavor.txt": "{{flavor}} for {{project-name}}\n",
	})
	dest := t.TempDir()
	prompter := &stubPrompter{
		name:   "prompted-project",
		values: map[string]any{"flavor": "vanilla"},
	}

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Destination:      dest,
		VCS:              "none",
		Prompter:         prompter,
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "prompted-project")
	assert.Equal(t, "vanilla for prompted-project\n", readProject(t, project, "flavor.txt"))
	assert.Equal(t, []string{"flavor"}, prompter.asked)
}

func TestRunFavorite(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": `
[placeholders.region]
type = "string"
prompt = "Region?"
`,
		"region.txt": "{{region}}\n",
	})
	cfgPath := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
[favorites.demo]
description = "demo template"
path = %q

[favorites.demo.values]
region = "eu-west-1"
`, tpl)), 0o644))
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: "demo",
		ConfigPath:       cfgPath,
		Name:             "proj",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1\n", readProject(t, filepath.Join(dest, "proj"), "region.txt"))
}

func TestRunListFavorites(t *testing.T) {
	hermetic(t)
	cfgPath := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[favorites.wasm]
description = "wasm starter"
git = "https://example.com/tpl.git"
`), 0o644))

	var buf bytes.Buffer
	err := Run(context.Background(), Options{
		ListFavorites: true,
		ConfigPath:    cfgPath,
		Printer:       &output.Printer{Out: &buf},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "wasm")
	assert.Contains(t, buf.String(), "wasm starter")
}

func TestRunSubfolder(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"templates/min/min.txt":   "{{project-name}}\n",
		"templates/full/full.txt": "{{project-name}}\n",
		"README.md":               "repo readme\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Subfolder:        "templates/min",
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "demo")
	assert.Equal(t, "demo\n", readProject(t, project, "min.txt"))
	assert.NoFileExists(t, filepath.Join(project, "full.txt"))
	assert.NoFileExists(t, filepath.Join(project, "README.md"))
}

func TestRunAutoLocatesSingleNestedTemplate(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{
		"inner/cargo-generate.toml": "[template]\n",
		"inner/inner.txt":           "{{project-name}}\n",
		"README.md":                 "repo readme\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)

	project := filepath.Join(dest, "demo")
	assert.Equal(t, "demo\n", readProject(t, project, "inner.txt"))
	assert.NoFileExists(t, filepath.Join(project, "README.md"))
}

func TestRunAutoLocateManyNeedsAChoice(t *testing.T) {
	hermetic(t)
	files := map[string]string{
		"one/cargo-generate.toml": "[template]\n",
		"one/one.txt":             "1\n",
		"two/cargo-generate.toml": "[template]\n",
		"two/two.txt":             "2\n",
	}

	t.Run("silent fails", func(t *testing.T) {
		err := Run(context.Background(), Options{
			TemplateLocation: seedTemplate(t, files),
			Name:             "demo",
			Destination:      t.TempDir(),
			Silent:           true,
			VCS:              "none",
			Printer:          &output.Printer{Out: &bytes.Buffer{}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--silent")
	})

	t.Run("interactive selection wins", func(t *testing.T) {
		dest := t.TempDir()
		err := Run(context.Background(), Options{
			TemplateLocation: seedTemplate(t, files),
			Name:             "demo",
			Destination:      dest,
			VCS:              "none",
			Prompter:         &stubPrompter{selected: "two"},
			Printer:          &output.Printer{Out: &bytes.Buffer{}},
		})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dest, "demo", "two.txt"))
		assert.NoFileExists(t, filepath.Join(dest, "demo", "one.txt"))
	})
}

func TestRunInitializesGitRepository(t *testing.T) {
	hermetic(t)
	tpl := seedTemplate(t, map[string]string{"a.txt": "x\n"})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dest, "demo", ".git"))
}

func TestRunCrateTypeFlag(t *testing.T) {
	hermetic(t)
	files := map[string]string{"type.txt": "{{crate_type}}\n"}

	t.Run("defaults to bin", func(t *testing.T) {
		dest := t.TempDir()
		require.NoError(t, Run(context.Background(), Options{
			TemplateLocation: seedTemplate(t, files),
			Name:             "demo",
			Destination:      dest,
			Silent:           true,
			VCS:              "none",
			Printer:          &output.Printer{Out: &bytes.Buffer{}},
		}))
		assert.Equal(t, "bin\n", readProject(t, filepath.Join(dest, "demo"), "type.txt"))
	})

	t.Run("lib flag", func(t *testing.T) {
		dest := t.TempDir()
		require.NoError(t, Run(context.Background(), Options{
			TemplateLocation: seedTemplate(t, files),
			Name:             "demo",
			Destination:      dest,
			Lib:              true,
			Silent:           true,
			VCS:              "none",
			Printer:          &output.Printer{Out: &bytes.Buffer{}},
		}))
		assert.Equal(t, "lib\n", readProject(t, filepath.Join(dest, "demo"), "type.txt"))
	})
}

func TestRunWithoutLocationFails(t *testing.T) {
	hermetic(t)
	err := Run(context.Background(), Options{
		Name:    "demo",
		Silent:  true,
		Printer: &output.Printer{Out: &bytes.Buffer{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no template location")
}

func TestRunVersionRequirementSatisfied(t *testing.T) {
	hermetic(t)
	// the running dev version skips the gate, so any requirement passes
	tpl := seedTemplate(t, map[string]string{
		"cargo-generate.toml": "[template]\ncargo_generate_version = \">=0.9.0\"\n",
		"a.txt":               "x\n",
	})
	dest := t.TempDir()

	err := Run(context.Background(), Options{
		TemplateLocation: tpl,
		Name:             "demo",
		Destination:      dest,
		Silent:           true,
		VCS:              "none",
		Printer:          &output.Printer{Out: &bytes.Buffer{}},
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "demo", "a.txt"))
}
