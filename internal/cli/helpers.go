package cli

import (
	"context"
	"fmt"

	"diffstack.dev/diffstack/internal/config"
	diffstackerrors "diffstack.dev/diffstack/internal/errors"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/review"
	"diffstack.dev/diffstack/internal/runtime"
	"diffstack.dev/diffstack/internal/tui"
)

// resolveCommits expands the positional arguments into commits, oldest-first.
// No arguments means HEAD.
func resolveCommits(rctx *runtime.Context, args []string) ([]*git.Commit, error) {
	if len(args) == 0 {
		args = []string{"HEAD"}
	}
	return git.ExpandArgs(rctx.Git, args)
}

// requireCleanTree refuses to proceed on a dirty working tree. Commands that
// move the checkout around would otherwise carry uncommitted changes along.
func requireCleanTree(ctx context.Context, rctx *runtime.Context) error {
	clean, err := rctx.Git.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: commit or stash your changes first", diffstackerrors.ErrDirtyWorkingTree)
	}
	return nil
}

// confirmerFor picks the confirmation strategy: assume-yes (flag or config)
// answers yes without asking, otherwise the user is prompted.
func confirmerFor(cfg *config.Config, assumeYes bool) review.Confirmer {
	if assumeYes || cfg.AssumeYes {
		return func(string) (bool, error) { return true, nil }
	}
	return func(prompt string) (bool, error) {
		return tui.PromptConfirm(prompt, true)
	}
}
