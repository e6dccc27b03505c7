package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nwpistols/cargo-generate/internal/generate"
	"github.com/nwpistols/cargo-generate/internal/interactive"
)

var (
	gitURL        string
	localPath     string
	branch        string
	projectName   string
	force         bool
	initProject   bool
	destination   string
	defines       []string
	valuesFile    string
	silent        bool
	allowCommands bool
	lib           bool
	bin           bool
	sshIdentity   string
	vcs           string
	forceGitInit  bool
	listFavorites bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate [TEMPLATE] [SUBFOLDER]",
	Aliases: []string{"gen"},
	Short:   "Expand a template into a new project",
	Long: `Fetch a template from a git repository, a local folder or a configured
favorite, resolve the placeholders it declares and render every file
through the Liquid template engine into a new project directory.

TEMPLATE is a favorite name from the app config, a git location (the
gh:, gl:, bb: and sr: abbreviations are supported) or a local path.
SUBFOLDER narrows the expansion to a single directory of the template
repository.

Examples:
  cargo-generate generate gh:rustwasm/wasm-pack-template --name my-tool
  cargo-generate generate --git https://github.com/user/template --branch next
  cargo-generate generate my-favorite --define hypervisor=qemu --silent
  cargo-generate generate --path ./template --init`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerateAction(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&gitURL, "git", "g", "", "Git repository to expand, supports gh:, gl:, bb: and sr: abbreviations")
	generateCmd.Flags().StringVarP(&localPath, "path", "p", "", "Local path to the template folder")
	generateCmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to check out instead of the default branch")
	generateCmd.Flags().StringVarP(&projectName, "name", "n", "", "Name of the generated project")
	generateCmd.Flags().BoolVarP(&force, "force", "f", false, "Don't convert the project name to kebab-case")
	generateCmd.Flags().BoolVar(&initProject, "init", false, "Expand the template into the current or destination directory instead of a new subdirectory")
	generateCmd.Flags().StringVar(&destination, "destination", "", "Directory the project is created in (default: current directory)")

	// Placeholder values
	generateCmd.Flags().StringSliceVarP(&defines, "define", "d", nil, "Provide a placeholder value as name=value (repeatable)")
	generateCmd.Flags().StringVar(&valuesFile, "template-values-file", "", "TOML file with placeholder values, keys below [values]")
	generateCmd.Flags().BoolVarP(&silent, "silent", "s", false, "Never prompt, fail when a placeholder has no value")
	generateCmd.Flags().BoolVarP(&allowCommands, "allow-commands", "a", false, "Allow template hooks to run without confirmation")

	// Built-in variables
	generateCmd.Flags().BoolVar(&lib, "lib", false, "Set the crate_type variable to \"lib\"")
	generateCmd.Flags().BoolVar(&bin, "bin", false, "Set the crate_type variable to \"bin\" (default)")

	// Source and version control
	generateCmd.Flags().StringVarP(&sshIdentity, "identity", "i", "", "SSH identity file used to clone the template")
	generateCmd.Flags().StringVar(&vcs, "vcs", "", "Version control system to initialize: git or none (default: git)")
	generateCmd.Flags().BoolVar(&forceGitInit, "force-git-init", false, "Initialize a git repository even with --init")

	generateCmd.Flags().BoolVarP(&listFavorites, "list-favorites", "l", false, "List the favorites from the app config and exit")

	generateCmd.MarkFlagsMutuallyExclusive("git", "path")
	generateCmd.MarkFlagsMutuallyExclusive("lib", "bin")
}

// runGenerateAction implements the core logic for the generate command
func runGenerateAction(ctx context.Context, args []string) error {
	opts := generate.Options{
		Git:           gitURL,
		Path:          localPath,
		Branch:        branch,
		Name:          projectName,
		Force:         force,
		Init:          initProject,
		Destination:   destination,
		Defines:       defines,
		ValuesFile:    valuesFile,
		Silent:        silent,
		AllowCommands: allowCommands,
		Lib:           lib,
		Bin:           bin,
		SSHIdentity:   sshIdentity,
		VCS:           vcs,
		ForceGitInit:  forceGitInit,
		ListFavorites: listFavorites,
		ConfigPath:    cfgFile,
		Verbose:       verbose,
		Prompter:      interactive.Prompter{},
	}
	if len(args) > 0 {
		opts.TemplateLocation = args[0]
	}
	if len(args) > 1 {
		opts.Subfolder = args[1]
	}

	return generate.Run(ctx, opts)
}
