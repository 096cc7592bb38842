package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	diffstackerrors "diffstack.dev/diffstack/internal/errors"
)

// Commit is a read-only snapshot of a commit taken at the start of an
// operation.
type Commit struct {
	SHA     string
	Subject string
	Message string
}

// ShortSHA returns the abbreviated hash used in listings.
func (c *Commit) ShortSHA() string {
	if len(c.SHA) < 8 {
		return c.SHA
	}
	return c.SHA[:8]
}

// repoRunner implements Runner on top of a go-git repository for reads and a
// CommandRunner for operations that mutate the working tree.
type repoRunner struct {
	repo *gogit.Repository
	run  *CommandRunner
	root string
}

// NewRunner opens the repository at root and returns a Runner bound to it.
func NewRunner(root string) (Runner, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &repoRunner{
		repo: repo,
		run:  NewCommandRunner(root),
		root: root,
	}, nil
}

func (r *repoRunner) ResolveCommit(spec string) (*Commit, error) {
	hash, err := r.resolveHash(spec)
	if err != nil {
		return nil, diffstackerrors.NewInvalidCommitError(spec, err)
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, diffstackerrors.NewInvalidCommitError(spec, err)
	}

	return newSnapshot(commit), nil
}

func (r *repoRunner) ResolveRange(lower, upper string) ([]*Commit, error) {
	lowerHash, err := r.resolveHash(lower)
	if err != nil {
		return nil, diffstackerrors.NewInvalidCommitError(lower, err)
	}
	upperHash, err := r.resolveHash(upper)
	if err != nil {
		return nil, diffstackerrors.NewInvalidCommitError(upper, err)
	}

	excluded, err := r.reachableFrom(lowerHash)
	if err != nil {
		return nil, diffstackerrors.NewInvalidCommitError(lower, err)
	}

	// Walk newest-first from upper, skipping everything reachable from lower.
	var commits []*Commit
	visited := make(map[plumbing.Hash]bool)
	queue := []plumbing.Hash{upperHash}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if visited[hash] || excluded[hash] {
			continue
		}
		visited[hash] = true

		commit, err := r.repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
		}

		commits = append(commits, newSnapshot(commit))
		queue = append(queue, commit.ParentHashes...)
	}

	// Oldest first.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	return commits, nil
}

func (r *repoRunner) ParentSHA(sha string) (string, error) {
	hash, err := r.resolveHash(sha)
	if err != nil {
		return "", diffstackerrors.NewInvalidCommitError(sha, err)
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return "", diffstackerrors.NewInvalidCommitError(sha, err)
	}

	if commit.NumParents() == 0 {
		return "", fmt.Errorf("commit %s has no parent", sha)
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return "", fmt.Errorf("failed to get parent of %s: %w", sha, err)
	}

	return parent.Hash.String(), nil
}

// reachableFrom returns the set of commit hashes reachable from start,
// start included.
func (r *repoRunner) reachableFrom(start plumbing.Hash) (map[plumbing.Hash]bool, error) {
	reachable := make(map[plumbing.Hash]bool)
	queue := []plumbing.Hash{start}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if reachable[hash] {
			continue
		}
		reachable[hash] = true

		commit, err := r.repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return reachable, nil
}

// resolveHash resolves a branch name, SHA, or revision expression to a hash.
func (r *repoRunner) resolveHash(ref string) (plumbing.Hash, error) {
	if ref := r.tryReference(ref); ref != nil {
		return ref.Hash(), nil
	}

	// Handles SHAs, short SHAs, and expressions like HEAD~1.
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: reference not found", ref)
	}
	return *hash, nil
}

func (r *repoRunner) tryReference(ref string) *plumbing.Reference {
	for _, name := range []string{ref, "refs/heads/" + ref, "refs/tags/" + ref} {
		if resolved, err := r.repo.Reference(plumbing.ReferenceName(name), true); err == nil {
			return resolved
		}
	}
	return nil
}

func newSnapshot(commit *object.Commit) *Commit {
	message := strings.TrimSpace(commit.Message)
	subject := strings.SplitN(message, "\n", 2)[0]
	return &Commit{
		SHA:     commit.Hash.String(),
		Subject: strings.TrimSpace(subject),
		Message: message,
	}
}

// ExpandArgs expands commit specifiers into an ordered, oldest-first commit
// sequence. A single commit expands to itself; "<a>..<b>" expands to the
// commits reachable from b but not a. Multiple arguments concatenate their
// expansions in argument order.
func ExpandArgs(r Runner, args []string) ([]*Commit, error) {
	var commits []*Commit
	for _, arg := range args {
		if lower, upper, ok := strings.Cut(arg, ".."); ok {
			if lower == "" || upper == "" {
				return nil, diffstackerrors.NewInvalidCommitError(arg, fmt.Errorf("range needs two endpoints"))
			}
			expanded, err := r.ResolveRange(lower, strings.TrimPrefix(upper, "."))
			if err != nil {
				return nil, err
			}
			commits = append(commits, expanded...)
			continue
		}

		commit, err := r.ResolveCommit(arg)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}
