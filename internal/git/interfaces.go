package git

import "context"

// Runner is the version-control surface the review engine depends on. It is
// an interface so the engine can be tested against fakes without a git
// process boundary.
type Runner interface {
	// ResolveCommit resolves a single commit specifier to a commit snapshot.
	ResolveCommit(spec string) (*Commit, error)

	// ResolveRange returns the commits reachable from upper but not from
	// lower, ordered oldest-first. The lower endpoint is excluded.
	ResolveRange(lower, upper string) ([]*Commit, error)

	// ParentSHA returns the first parent of the given commit.
	ParentSHA(sha string) (string, error)

	// CurrentPosition reports the checked-out branch, or the exact commit if
	// HEAD is detached.
	CurrentPosition() (Position, error)

	// Checkout checks out a branch name or revision.
	Checkout(ctx context.Context, ref string) error

	// CreateAndCheckoutBranch creates name starting at base and checks it out.
	CreateAndCheckoutBranch(ctx context.Context, name, base string) error

	// BranchExists reports whether a local branch exists.
	BranchExists(name string) (bool, error)

	// IsClean reports whether the working tree has no uncommitted changes.
	IsClean(ctx context.Context) (bool, error)

	// CherryPickNoCommit applies a commit's changes onto the current HEAD
	// without creating a commit.
	CherryPickNoCommit(ctx context.Context, sha string) error

	// Commit finalizes the staged changes with the given message. When edit
	// is true the message is opened in the user's editor first.
	Commit(ctx context.Context, message string, edit bool) error
}
