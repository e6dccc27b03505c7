// Package generate drives the template expansion pipeline: acquire
// the template, resolve configuration and variables, run hooks,
// render the tree and move it into the destination.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huandu/xstrings"

	"github.com/nwpistols/cargo-generate/internal/appconfig"
	"github.com/nwpistols/cargo-generate/internal/config"
	"github.com/nwpistols/cargo-generate/internal/output"
	"github.com/nwpistols/cargo-generate/internal/source"
	"github.com/nwpistols/cargo-generate/internal/template"
	"github.com/nwpistols/cargo-generate/internal/variables"
	"github.com/nwpistols/cargo-generate/internal/version"
)

// Prompter supplies interactive answers when the pipeline cannot
// resolve something on its own.
type Prompter interface {
	Variable(slot variables.Slot) (any, error)
	ProjectName() (string, error)
	Confirm(prompt string) (bool, error)
	Select(title string, options []string) (string, error)
}

// Options is the full surface of one generation run.
type Options struct {
	// TemplateLocation is the positional argument: a favorite name, a
	// git remote or a local path.
	TemplateLocation string
	// Subfolder is the optional second positional argument.
	Subfolder string

	Git    string
	Path   string
	Branch string

	Name        string
	Force       bool
	Init        bool
	Destination string

	Defines    []string
	ValuesFile string

	Silent        bool
	AllowCommands bool

	Lib bool
	Bin bool

	SSHIdentity  string
	VCS          string
	ForceGitInit bool

	ListFavorites bool
	ConfigPath    string
	Verbose       bool

	// Prompter handles interactive questions; required unless the run
	// is fully non-interactive.
	Prompter Prompter
	// Printer defaults to a stdout printer.
	Printer *output.Printer
}

// EnvValuesFile names the values file when the flag is not given.
const EnvValuesFile = "CARGO_GENERATE_TEMPLATE_VALUES_FILE"

// resolvedInput is the template reference after favorites and
// explicit flags are folded together.
type resolvedInput struct {
	location  source.Location
	branch    string
	subfolder string
	values    map[string]any
}

// Run executes one generation end to end.
func Run(ctx context.Context, opts Options) error {
	printer := opts.Printer
	if printer == nil {
		printer = &output.Printer{Verbose: opts.Verbose}
	}
	prompter := opts.Prompter
	if opts.Silent || prompter == nil {
		prompter = silentPrompter{}
	}

	appCfg, err := appconfig.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.ListFavorites {
		lines := make([]output.FavoriteLine, 0, len(appCfg.Favorites))
		for _, name := range appCfg.FavoriteNames() {
			fav, _ := appCfg.Favorite(name)
			lines = append(lines, output.FavoriteLine{Name: name, Description: fav.Description})
		}
		printer.ListFavorites(lines)
		return nil
	}

	if opts.SSHIdentity == "" {
		opts.SSHIdentity = appCfg.Defaults.SSHIdentity
	}

	in, err := resolveInput(appCfg, opts)
	if err != nil {
		return err
	}

	valuesFile := opts.ValuesFile
	if valuesFile == "" {
		valuesFile = os.Getenv(EnvValuesFile)
	}
	supplied, err := variables.CollectSupplied(in.values, valuesFile, opts.Defines)
	if err != nil {
		return err
	}

	scratch, branch, err := acquire(ctx, in, opts.SSHIdentity)
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	templateDir, err := locateTemplateDir(scratch, in.subfolder, prompter)
	if err != nil {
		return err
	}

	cfg := &config.Config{}
	if cfgPath, ok := config.Locate(scratch, templateDir); ok {
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
		// the configuration file is template metadata, it never
		// belongs to the generated project
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("failed to remove template configuration %s: %w", cfgPath, err)
		}
	}
	if err := cfg.CheckVersion(version.Version); err != nil {
		return err
	}

	name, err := resolveName(opts, prompter)
	if err != nil {
		return err
	}
	finalName := name
	if !opts.Force {
		finalName = xstrings.ToKebabCase(name)
		if finalName != name {
			printer.RenameWarning(name, finalName)
		}
	}

	basedir, projectDir, err := resolveProjectDir(opts, finalName)
	if err != nil {
		return err
	}

	printer.Basedir(basedir)
	printer.ProjectName(finalName)
	printer.Destination(projectDir)
	printer.Generating()

	set := variables.NewSet()
	if err := expand(ctx, expansion{
		templateDir: templateDir,
		projectDir:  projectDir,
		cfg:         cfg,
		supplied:    supplied,
		set:         set,
		prompter:    prompter,
		printer:     printer,
		name:        finalName,
		lib:         opts.Lib,
		init:        opts.Init,
		silent:      opts.Silent,
		allowCmds:   opts.AllowCommands,
	}); err != nil {
		return err
	}

	printer.Moving(projectDir)
	if err := template.Move(templateDir, projectDir); err != nil {
		return err
	}

	if initVCS(opts) {
		printer.InitializingRepository()
		if err := source.InitRepository(projectDir, branch); err != nil {
			return err
		}
	}

	printer.Done(projectDir)
	return nil
}

// resolveInput folds the positional argument, the explicit location
// flags and the favorites store into one template reference. Explicit
// flags win over favorite fields.
func resolveInput(appCfg *appconfig.Config, opts Options) (resolvedInput, error) {
	in := resolvedInput{branch: opts.Branch, subfolder: opts.Subfolder}

	switch {
	case opts.Git != "":
		in.location = source.Location{Git: source.ExpandAbbreviation(opts.Git)}
	case opts.Path != "":
		in.location = source.Location{Path: opts.Path}
	case opts.TemplateLocation != "":
		if fav, ok := appCfg.Favorite(opts.TemplateLocation); ok {
			in.values = fav.Values
			if in.branch == "" {
				in.branch = fav.Branch
			}
			if in.subfolder == "" {
				in.subfolder = fav.Subfolder
			}
			switch {
			case fav.Git != "":
				in.location = source.Location{Git: source.ExpandAbbreviation(fav.Git)}
			case fav.Path != "":
				in.location = source.Location{Path: fav.Path}
			default:
				return in, fmt.Errorf("favorite %q has neither git nor path", opts.TemplateLocation)
			}
			return in, nil
		}
		in.location = source.ParseLocation(opts.TemplateLocation)
	default:
		return in, errors.New("no template location given, pass a favorite name, a git repository or a local path")
	}
	return in, nil
}

// acquire produces the scratch working tree for the template.
func acquire(ctx context.Context, in resolvedInput, sshIdentity string) (string, string, error) {
	if in.location.Git != "" {
		return source.CloneTemplate(ctx, source.CloneOptions{
			URL:         in.location.Git,
			Branch:      in.branch,
			SSHIdentity: sshIdentity,
		})
	}
	scratch, err := source.CopyTemplate(in.location.Path)
	if err != nil {
		return "", "", err
	}
	branch := in.branch
	if branch == "" {
		branch = source.DefaultBranch
	}
	return scratch, branch, nil
}

// locateTemplateDir applies an explicit subfolder, or auto-locates
// the template directory among configuration markers.
func locateTemplateDir(scratch, subfolder string, prompter Prompter) (string, error) {
	if subfolder != "" {
		return source.ResolveSubfolder(scratch, subfolder)
	}
	return source.AutoLocate(scratch, func(options []string) (string, error) {
		return prompter.Select("Which template should be expanded?", options)
	})
}

// resolveName yields the project name. Silent runs must carry it on
// the command line.
func resolveName(opts Options, prompter Prompter) (string, error) {
	if opts.Name != "" {
		return opts.Name, nil
	}
	if opts.Silent {
		return "", errors.New("option `--silent` provided, but project name was not set, use `--name`")
	}
	return prompter.ProjectName()
}

// resolveProjectDir computes the base directory and the project
// directory. Outside init mode a pre-existing project directory
// aborts before anything is written.
func resolveProjectDir(opts Options, name string) (string, string, error) {
	basedir := opts.Destination
	if basedir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		basedir = cwd
	}
	basedir, err := filepath.Abs(basedir)
	if err != nil {
		return "", "", err
	}

	if opts.Init {
		return basedir, basedir, nil
	}

	projectDir := filepath.Join(basedir, name)
	if _, err := os.Lstat(projectDir); err == nil {
		return "", "", fmt.Errorf("target directory already exists, aborting: %s", projectDir)
	}
	return basedir, projectDir, nil
}

// initVCS reports whether a fresh repository should be created in the
// generated project.
func initVCS(opts Options) bool {
	if strings.EqualFold(opts.VCS, "none") {
		return false
	}
	if opts.Init {
		return opts.ForceGitInit
	}
	return true
}

// silentPrompter refuses every interactive question. It backs both
// silent mode and runs wired without a prompter.
type silentPrompter struct{}

var errSilent = errors.New("interactive input is required but `--silent` was provided")

func (silentPrompter) Variable(variables.Slot) (any, error) { return nil, errSilent }

func (silentPrompter) ProjectName() (string, error) { return "", errSilent }

func (silentPrompter) Confirm(string) (bool, error) { return false, errSilent }

func (silentPrompter) Select(string, []string) (string, error) { return "", errSilent }
