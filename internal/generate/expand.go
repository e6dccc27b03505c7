package generate

import (
	"context"

	"github.com/nwpistols/cargo-generate/internal/config"
	"github.com/nwpistols/cargo-generate/internal/filter"
	"github.com/nwpistols/cargo-generate/internal/hooks"
	"github.com/nwpistols/cargo-generate/internal/output"
	"github.com/nwpistols/cargo-generate/internal/source"
	"github.com/nwpistols/cargo-generate/internal/template"
	"github.com/nwpistols/cargo-generate/internal/variables"
	"github.com/nwpistols/cargo-generate/internal/version"
)

// expansion carries the state shared by the template expansion
// stages.
type expansion struct {
	templateDir string
	projectDir  string
	cfg         *config.Config
	supplied    *variables.Supplied
	set         *variables.Set
	prompter    Prompter
	printer     *output.Printer
	name        string
	lib         bool
	init        bool
	silent      bool
	allowCmds   bool
}

// expand runs the stages between a resolved template directory and a
// fully rendered scratch tree: built-ins, two resolution rounds
// around the conditional merge, hooks, filtering and the walk. Hook
// files are cleaned from the tree no matter how the expansion ends.
func expand(ctx context.Context, x expansion) (err error) {
	author := source.GitAuthor()
	crateType := "bin"
	if x.lib {
		crateType = "lib"
	}
	variables.FillBuiltins(x.set, variables.BuiltinsInput{
		ProjectName: x.name,
		CrateType:   crateType,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		OSArch:      version.OSArch(),
		Init:        x.init,
	})

	resolve := x.resolveFunc()

	slots, err := x.cfg.Slots()
	if err != nil {
		return err
	}
	if err := variables.Resolve(x.set, slots, resolve); err != nil {
		return err
	}

	// values supplied for names no placeholder declares still reach
	// templates and conditional expressions
	if err := x.supplied.MergeInto(x.set); err != nil {
		return err
	}

	x.cfg.MergeConditionals(x.set.Bindings())

	// fragments may have declared new placeholders; already resolved
	// names are not requested again
	slots, err = x.cfg.Slots()
	if err != nil {
		return err
	}
	if err := variables.Resolve(x.set, slots, resolve); err != nil {
		return err
	}

	coordinator := &hooks.Coordinator{
		TemplateDir: x.templateDir,
		Destination: x.projectDir,
		Pre:         x.cfg.Template.PreHooks,
		Post:        x.cfg.Template.PostHooks,
		Values:      x.set,
	}
	if err := coordinator.ConfirmExecution(x.silent, x.allowCmds, x.prompter.Confirm); err != nil {
		return err
	}
	defer func() {
		if cleanupErr := coordinator.Cleanup(); err == nil {
			err = cleanupErr
		}
	}()

	if err := coordinator.RunPre(); err != nil {
		return err
	}

	f, err := filter.New(x.cfg.Template.Include, x.cfg.Template.Exclude, x.cfg.Template.Ignore)
	if err != nil {
		return err
	}
	if err := f.Apply(x.templateDir, coordinator.Files(), x.printer.Removed); err != nil {
		return err
	}

	tracker := x.printer.NewTracker(ctx)
	walkErr := template.NewEngine().Walk(x.templateDir, template.WalkOptions{
		Bindings:  x.set.Bindings(),
		HookFiles: coordinator.Files(),
		OnRender:  tracker.Processed,
	})
	if joinErr := tracker.Join(); walkErr == nil {
		walkErr = joinErr
	}
	if walkErr != nil {
		return walkErr
	}

	return coordinator.RunPost()
}

// resolveFunc builds the slot resolution callback: externally
// supplied values win, then the interactive prompt. Silent runs fail
// on the first slot with no supplied value.
func (x expansion) resolveFunc() variables.ResolveFunc {
	return func(slot variables.Slot) (any, error) {
		if raw, ok := x.supplied.Lookup(slot.VarName); ok {
			return slot.Coerce(raw)
		}
		if x.silent {
			return nil, &variables.MissingPlaceholderError{VarName: slot.VarName}
		}
		return x.prompter.Variable(slot)
	}
}
