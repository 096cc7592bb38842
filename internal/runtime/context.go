// Package runtime assembles the per-invocation dependencies that commands
// share. This avoids passing multiple parameters.
package runtime

import (
	"fmt"

	"diffstack.dev/diffstack/internal/conduit"
	"diffstack.dev/diffstack/internal/config"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/output"
)

// Context provides commands access to the repository, the review service and
// user-facing output.
type Context struct {
	Config   *config.Config
	Git      git.Runner
	Conduit  conduit.Client
	Splog    *output.Splog
	RepoRoot string
}

// GetContext builds a Context for the repository containing the working
// directory.
func GetContext(verbose bool) (*Context, error) {
	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, err
	}

	runner, err := git.NewRunner(repoRoot)
	if err != nil {
		return nil, err
	}

	service, err := conduit.NewService(conduit.Options{
		URI:        cfg.Conduit.URI,
		Token:      cfg.Conduit.Token,
		WorkingDir: repoRoot,
		Verbose:    verbose || cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}

	return &Context{
		Config:   cfg,
		Git:      runner,
		Conduit:  service,
		Splog:    output.NewSplog(),
		RepoRoot: repoRoot,
	}, nil
}
