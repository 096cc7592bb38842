package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// Position is a saved working-tree location: either a named branch or, when
// detached, the exact commit.
type Position struct {
	Branch   string
	SHA      string
	Detached bool
}

// Ref returns the checkout target that restores this position.
func (p Position) Ref() string {
	if p.Detached {
		return p.SHA
	}
	return p.Branch
}

func (r *repoRunner) CurrentPosition() (Position, error) {
	head, err := r.repo.Head()
	if err != nil {
		return Position{}, fmt.Errorf("failed to get HEAD: %w", err)
	}

	if head.Name() == plumbing.HEAD {
		return Position{SHA: head.Hash().String(), Detached: true}, nil
	}
	return Position{Branch: head.Name().Short(), SHA: head.Hash().String()}, nil
}

func (r *repoRunner) Checkout(ctx context.Context, ref string) error {
	if _, err := r.run.Run(ctx, "checkout", "--quiet", ref); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

func (r *repoRunner) CreateAndCheckoutBranch(ctx context.Context, name, base string) error {
	if _, err := r.run.Run(ctx, "checkout", "--quiet", "-b", name, base); err != nil {
		return fmt.Errorf("failed to create branch %s from %s: %w", name, base, err)
	}
	return nil
}

func (r *repoRunner) BranchExists(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

func (r *repoRunner) IsClean(ctx context.Context) (bool, error) {
	out, err := r.run.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

func (r *repoRunner) CherryPickNoCommit(ctx context.Context, sha string) error {
	if _, err := r.run.Run(ctx, "cherry-pick", "--no-commit", sha); err != nil {
		return fmt.Errorf("failed to cherry-pick %s: %w", sha, err)
	}
	return nil
}

func (r *repoRunner) Commit(ctx context.Context, message string, edit bool) error {
	if edit {
		return r.run.RunInteractive(ctx, "commit", "--edit", "-m", message)
	}
	_, err := r.run.Run(ctx, "commit", "-m", message)
	return err
}

// Guard checkpoints the caller's working-tree position so it can be restored
// after operations that move HEAD. Restore runs on every exit path; bracket
// usage is:
//
//	guard, err := git.SaveGuard(runner)
//	defer guard.Restore(ctx)
type Guard struct {
	runner   Runner
	saved    Position
	restored bool
}

// SaveGuard captures the current branch, or the exact commit if detached.
func SaveGuard(r Runner) (*Guard, error) {
	pos, err := r.CurrentPosition()
	if err != nil {
		return nil, err
	}
	return &Guard{runner: r, saved: pos}, nil
}

// Saved returns the checkpointed position.
func (g *Guard) Saved() Position {
	return g.saved
}

// Restore checks the saved position back out. It is idempotent so it can be
// deferred and also called explicitly.
func (g *Guard) Restore(ctx context.Context) error {
	if g.restored {
		return nil
	}
	g.restored = true
	return g.runner.Checkout(ctx, g.saved.Ref())
}
