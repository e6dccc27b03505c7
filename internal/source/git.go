package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/google/uuid"
)

// CloneOptions configures remote template acquisition.
type CloneOptions struct {
	URL         string
	Branch      string
	SSHIdentity string
}

// CloneTemplate performs a shallow clone of the template repository
// into a fresh scratch directory and strips the version-control
// metadata from the copy. Returns the scratch path and the branch
// that was checked out.
func CloneTemplate(ctx context.Context, opts CloneOptions) (string, string, error) {
	scratch := scratchDir()

	cloneOpts := &git.CloneOptions{
		URL:          opts.URL,
		Depth:        1,
		SingleBranch: true,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
	}
	if opts.SSHIdentity != "" {
		auth, err := ssh.NewPublicKeysFromFile("git", opts.SSHIdentity, "")
		if err != nil {
			return "", "", fmt.Errorf("failed to load ssh identity %s: %w", opts.SSHIdentity, err)
		}
		cloneOpts.Auth = auth
	}

	repo, err := git.PlainCloneContext(ctx, scratch, false, cloneOpts)
	if err != nil {
		os.RemoveAll(scratch)
		return "", "", fmt.Errorf("failed to clone %s: %w", opts.URL, err)
	}

	branch := opts.Branch
	if branch == "" {
		branch = DefaultBranch
		if head, err := repo.Head(); err == nil {
			branch = head.Name().Short()
		}
	}

	if err := os.RemoveAll(filepath.Join(scratch, git.GitDirName)); err != nil {
		os.RemoveAll(scratch)
		return "", "", err
	}
	return scratch, branch, nil
}

// Author is the name and email pair templates receive through the
// authors builtin.
type Author struct {
	Name  string
	Email string
}

// GitAuthor reads the author identity from the global git
// configuration. GIT_AUTHOR_NAME and GIT_AUTHOR_EMAIL take
// precedence.
func GitAuthor() Author {
	author := Author{
		Name:  os.Getenv("GIT_AUTHOR_NAME"),
		Email: os.Getenv("GIT_AUTHOR_EMAIL"),
	}
	if author.Name != "" && author.Email != "" {
		return author
	}
	if cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope); err == nil {
		if author.Name == "" {
			author.Name = cfg.User.Name
		}
		if author.Email == "" {
			author.Email = cfg.User.Email
		}
	}
	return author
}

// InitRepository creates a fresh repository in dir. A repository that
// is already there is left alone.
func InitRepository(dir, defaultBranch string) error {
	if defaultBranch == "" {
		defaultBranch = DefaultBranch
	}
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(defaultBranch),
		},
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil
	}
	return err
}

// scratchDir names a fresh working directory under the system temp
// root. Callers own its removal.
func scratchDir() string {
	return filepath.Join(os.TempDir(), "cargo-generate-"+uuid.NewString())
}
