package review

import (
	"context"
	"errors"
	"fmt"

	"diffstack.dev/diffstack/internal/conduit"
	diffstackerrors "diffstack.dev/diffstack/internal/errors"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/output"
)

// Stager replays reviewed commits onto a target branch, enriching each
// commit message with reviewer and revision trailers. It never closes or
// deletes the source revisions: the replay produces new commit objects only.
type Stager struct {
	git        git.Runner
	conduit    conduit.Client
	identifier *Identifier
	reporter   *Reporter
	splog      *output.Splog

	// Trunk is the integration branch a missing target branch is created
	// from.
	Trunk string

	// EditMessages opens each composed message in the editor before the
	// commit is finalized.
	EditMessages bool
}

// NewStager creates a Stager.
func NewStager(g git.Runner, c conduit.Client, splog *output.Splog, trunk string) *Stager {
	return &Stager{
		git:          g,
		conduit:      c,
		identifier:   NewIdentifier(c),
		reporter:     NewReporter(c),
		splog:        splog,
		Trunk:        trunk,
		EditMessages: true,
	}
}

// Stage replays the commits, oldest-first, onto targetBranch. The branch is
// created from the trunk if it does not exist. The caller's original
// checkout is restored afterwards regardless of outcome.
func (s *Stager) Stage(ctx context.Context, commits []*git.Commit, targetBranch string) (err error) {
	guard, err := git.SaveGuard(s.git)
	if err != nil {
		return err
	}
	defer func() {
		if restoreErr := guard.Restore(ctx); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()

	exists, err := s.git.BranchExists(targetBranch)
	if err != nil {
		return err
	}
	if exists {
		if err := s.git.Checkout(ctx, targetBranch); err != nil {
			return err
		}
	} else {
		s.splog.Info("creating branch %s from %s", targetBranch, s.Trunk)
		if err := s.git.CreateAndCheckoutBranch(ctx, targetBranch, s.Trunk); err != nil {
			return err
		}
	}

	for _, commit := range commits {
		if err := s.stageOne(ctx, commit); err != nil {
			return fmt.Errorf("staging %s: %w", commit.ShortSHA(), err)
		}
	}

	return nil
}

func (s *Stager) stageOne(ctx context.Context, commit *git.Commit) error {
	message := commit.Message

	// A unique matching review contributes trailers; no match or an
	// ambiguous match stages the commit as-is.
	id, found, err := s.identifier.Resolve(ctx, commit)
	if err != nil && !errors.Is(err, diffstackerrors.ErrAmbiguousReview) {
		return err
	}
	if err == nil && found {
		revision, err := s.conduit.GetRevision(ctx, id)
		if err != nil {
			return err
		}
		acceptedBy, err := s.reporter.AcceptedReviewers(ctx, id)
		if err != nil {
			return err
		}
		message = composeStaged(message, acceptedBy, revision.Name(), revision.URI)
	}

	if err := s.git.CherryPickNoCommit(ctx, commit.SHA); err != nil {
		return err
	}

	s.splog.Info("staging %s %s", output.Dim(commit.ShortSHA()), commit.Subject)
	return s.git.Commit(ctx, message, s.EditMessages)
}
