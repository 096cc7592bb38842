package review

import (
	"context"
	"fmt"

	"diffstack.dev/diffstack/internal/conduit"
	diffstackerrors "diffstack.dev/diffstack/internal/errors"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/output"
)

// Confirmer asks the user a yes/no question. Implementations decide how
// (terminal prompt, assume-yes, test stub).
type Confirmer func(prompt string) (bool, error)

// Reconciler creates and updates revisions for commits, chaining each new
// revision to its predecessor.
type Reconciler struct {
	git        git.Runner
	conduit    conduit.Client
	identifier *Identifier
	splog      *output.Splog
	confirm    Confirmer

	// Browse, when set, is invoked with the URI of every newly created
	// revision.
	Browse func(uri string)

	// EditDraft, when set, lets the user revise a new revision's draft
	// message before submission.
	EditDraft func(draft string) (string, error)
}

// NewReconciler creates a Reconciler.
func NewReconciler(g git.Runner, c conduit.Client, splog *output.Splog, confirm Confirmer) *Reconciler {
	return &Reconciler{
		git:        g,
		conduit:    c,
		identifier: NewIdentifier(c),
		splog:      splog,
		confirm:    confirm,
	}
}

// ChainOptions configures CreateChain.
type ChainOptions struct {
	Reviewers   []string
	Subscribers []string

	// ListMode asks a single up-front confirmation for the whole list
	// instead of one per commit.
	ListMode bool
}

// link carries the previous iteration's outcome into the next one. A commit
// that was skipped or failed leaves Revision at zero and therefore
// contributes no parent to its successor: the chain resets there instead of
// silently splicing across the gap.
type link struct {
	Revision int
}

// CreateChain walks the commits oldest-first, creating or updating a
// revision per commit and declaring each predecessor's revision as the
// parent of its successor's. A per-commit failure degrades the chain but
// does not abort the batch. The caller's checkout is restored afterwards
// regardless of per-commit outcomes.
func (r *Reconciler) CreateChain(ctx context.Context, commits []*git.Commit, opts ChainOptions) error {
	if len(commits) == 0 {
		return nil
	}

	if opts.ListMode {
		for _, commit := range commits {
			r.splog.Info("%s %s", output.Dim(commit.ShortSHA()), commit.Subject)
		}
		ok, err := r.confirm(fmt.Sprintf("Submit %d commits for review?", len(commits)))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	guard, err := git.SaveGuard(r.git)
	if err != nil {
		return err
	}
	defer guard.Restore(ctx)

	prev := link{}
	for _, commit := range commits {
		if !opts.ListMode {
			r.splog.Info("%s %s", output.Dim(commit.ShortSHA()), commit.Subject)
			ok, err := r.confirm("Submit this commit for review?")
			if err != nil {
				return err
			}
			if !ok {
				// A declined confirmation is a deliberate skip, not an error,
				// but it still resets the chain.
				prev = link{}
				continue
			}
		}

		id, err := r.submitOne(ctx, commit, prev, opts)
		if err != nil {
			r.splog.Warn("skipping %s: %v", commit.ShortSHA(), err)
			prev = link{}
			continue
		}
		prev = link{Revision: id}
	}

	return guard.Restore(ctx)
}

// submitOne creates or updates the revision for a single commit and links it
// to the predecessor's revision.
func (r *Reconciler) submitOne(ctx context.Context, commit *git.Commit, prev link, opts ChainOptions) (int, error) {
	existing, found, err := r.identifier.Resolve(ctx, commit)
	if err != nil {
		return 0, err
	}

	parent, err := r.git.ParentSHA(commit.SHA)
	if err != nil {
		return 0, err
	}

	if err := r.git.Checkout(ctx, commit.SHA); err != nil {
		return 0, err
	}

	submit := conduit.SubmitDiffOptions{
		BaseRevision: parent,
		HeadRevision: commit.SHA,
	}
	if found {
		submit.UpdateRevision = existing
	} else {
		draft := composeDraft(commit, opts.Reviewers, opts.Subscribers)
		if r.EditDraft != nil {
			if draft, err = r.EditDraft(draft); err != nil {
				return 0, err
			}
		}
		submit.Message = draft
	}

	id, err := r.conduit.SubmitDiff(ctx, submit)
	if err != nil {
		return 0, err
	}

	if found {
		r.splog.Info("updated %s", conduit.FormatRevisionID(id))
	} else {
		r.splog.Info("created %s", conduit.FormatRevisionID(id))
		if r.Browse != nil {
			if revision, err := r.conduit.GetRevision(ctx, id); err == nil {
				r.Browse(revision.URI)
			}
		}
	}

	if prev.Revision != 0 {
		if err := r.linkToParent(ctx, id, prev.Revision); err != nil {
			return 0, err
		}
	}

	return id, nil
}

// linkToParent declares parentID's revision as a dependency of childID's.
// Links are issued exactly once per adjacent pair, in increasing chain
// order, so the chain is non-cyclic by construction.
func (r *Reconciler) linkToParent(ctx context.Context, childID, parentID int) error {
	childPHID, err := r.conduit.LookupPHID(ctx, childID)
	if err != nil {
		return err
	}
	parentPHID, err := r.conduit.LookupPHID(ctx, parentID)
	if err != nil {
		return err
	}

	return r.conduit.EditRevision(ctx, childPHID, []conduit.Transaction{
		{Type: "parents.add", Value: []string{parentPHID}},
	})
}

// Update resubmits a single commit's diff against its existing revision.
// The commit must resolve to a revision; finding none is an error here.
func (r *Reconciler) Update(ctx context.Context, commit *git.Commit) error {
	id, found, err := r.identifier.Resolve(ctx, commit)
	if err != nil {
		return err
	}
	if !found {
		return diffstackerrors.NewNoReviewFoundError(commit.Subject)
	}

	r.splog.Info("%s %s -> %s", output.Dim(commit.ShortSHA()), commit.Subject, conduit.FormatRevisionID(id))
	ok, err := r.confirm(fmt.Sprintf("Update %s with this commit?", conduit.FormatRevisionID(id)))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	parent, err := r.git.ParentSHA(commit.SHA)
	if err != nil {
		return err
	}

	guard, err := git.SaveGuard(r.git)
	if err != nil {
		return err
	}
	defer guard.Restore(ctx)

	if err := r.git.Checkout(ctx, commit.SHA); err != nil {
		return err
	}

	if _, err := r.conduit.SubmitDiff(ctx, conduit.SubmitDiffOptions{
		UpdateRevision: id,
		BaseRevision:   parent,
		HeadRevision:   commit.SHA,
	}); err != nil {
		return err
	}

	r.splog.Info("updated %s", conduit.FormatRevisionID(id))
	return guard.Restore(ctx)
}
