package review

import (
	"context"

	"diffstack.dev/diffstack/internal/conduit"
	diffstackerrors "diffstack.dev/diffstack/internal/errors"
	"diffstack.dev/diffstack/internal/git"
)

// Identifier maps commits to revisions. The trailer in the commit message is
// authoritative; a title search over open revisions is the explicit fallback.
type Identifier struct {
	conduit conduit.Client
}

// NewIdentifier creates an Identifier backed by the given client.
func NewIdentifier(c conduit.Client) *Identifier {
	return &Identifier{conduit: c}
}

// Resolve returns the revision associated with the commit, if any. A single
// well-formed trailer answers without contacting the service; two or more
// trailer lines are treated as no trailer at all. Otherwise the commit's
// subject is matched against open revision titles: zero matches is "no
// review" (not an error), more than one is an AmbiguousReviewError naming
// every candidate.
func (i *Identifier) Resolve(ctx context.Context, commit *git.Commit) (int, bool, error) {
	if ids := TrailerIDs(commit.Message); len(ids) == 1 {
		id, err := conduit.ParseRevisionID(ids[0])
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	}

	matches, err := i.searchByTitle(ctx, commit.Subject)
	if err != nil {
		return 0, false, err
	}

	switch len(matches) {
	case 0:
		return 0, false, nil
	case 1:
		return matches[0].ID, true, nil
	default:
		candidates := make([]string, len(matches))
		for j, match := range matches {
			candidates[j] = match.Name()
		}
		return 0, false, diffstackerrors.NewAmbiguousReviewError(commit.Subject, candidates)
	}
}

// searchByTitle returns the open revisions whose title equals the subject.
func (i *Identifier) searchByTitle(ctx context.Context, subject string) ([]*conduit.Revision, error) {
	revisions, err := i.conduit.SearchOpenRevisions(ctx, subject)
	if err != nil {
		return nil, err
	}

	var matches []*conduit.Revision
	for _, revision := range revisions {
		if revision.Title == subject {
			matches = append(matches, revision)
		}
	}
	return matches, nil
}

// Translate resolves a D<number> identifier to its object handle.
func (i *Identifier) Translate(ctx context.Context, name string) (string, error) {
	id, err := conduit.ParseRevisionID(name)
	if err != nil {
		return "", err
	}
	return i.conduit.LookupPHID(ctx, id)
}

// Status returns the revision's status and canonical title.
func (i *Identifier) Status(ctx context.Context, name string) (conduit.Status, string, error) {
	id, err := conduit.ParseRevisionID(name)
	if err != nil {
		return conduit.StatusUnknown, "", err
	}

	revision, err := i.conduit.GetRevision(ctx, id)
	if err != nil {
		return conduit.StatusUnknown, "", err
	}
	return revision.Status, revision.Title, nil
}
