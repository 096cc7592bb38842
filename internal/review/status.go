package review

import (
	"context"

	"diffstack.dev/diffstack/internal/conduit"
	"diffstack.dev/diffstack/internal/git"
)

// Row is the per-commit outcome of a status listing. Exactly one of the
// three shapes holds: a resolved review (Review non-empty), no review, or an
// ambiguous set of candidates. Ambiguity is a reportable state here, unlike
// Identifier.Resolve where uniqueness is required.
type Row struct {
	Commit    *git.Commit
	Review    string
	Status    conduit.Status
	Title     string
	Ambiguous []string
}

// HasReview reports whether the row resolved to a single revision.
func (r Row) HasReview() bool {
	return r.Review != ""
}

// Reporter answers read-only status queries.
type Reporter struct {
	conduit    conduit.Client
	identifier *Identifier
}

// NewReporter creates a Reporter backed by the given client.
func NewReporter(c conduit.Client) *Reporter {
	return &Reporter{conduit: c, identifier: NewIdentifier(c)}
}

// Report produces one row per commit, in input order.
func (r *Reporter) Report(ctx context.Context, commits []*git.Commit) ([]Row, error) {
	rows := make([]Row, 0, len(commits))
	for _, commit := range commits {
		row, err := r.report(ctx, commit)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Reporter) report(ctx context.Context, commit *git.Commit) (Row, error) {
	row := Row{Commit: commit}

	if ids := TrailerIDs(commit.Message); len(ids) == 1 {
		id, err := conduit.ParseRevisionID(ids[0])
		if err != nil {
			return Row{}, err
		}
		revision, err := r.conduit.GetRevision(ctx, id)
		if err != nil {
			return Row{}, err
		}
		row.Review = revision.Name()
		row.Status = revision.Status
		row.Title = revision.Title
		return row, nil
	}

	matches, err := r.identifier.searchByTitle(ctx, commit.Subject)
	if err != nil {
		return Row{}, err
	}

	switch len(matches) {
	case 0:
		// No review: reported, not an error.
	case 1:
		row.Review = matches[0].Name()
		row.Status = matches[0].Status
		row.Title = matches[0].Title
	default:
		for _, match := range matches {
			row.Ambiguous = append(row.Ambiguous, match.Name())
		}
	}
	return row, nil
}

// AcceptedReviewers returns the usernames of reviewers whose approval on the
// revision is recorded as accepted. Empty when none accepted.
func (r *Reporter) AcceptedReviewers(ctx context.Context, id int) ([]string, error) {
	revision, err := r.conduit.GetRevision(ctx, id)
	if err != nil {
		return nil, err
	}

	var phids []string
	for _, reviewer := range revision.Reviewers {
		if reviewer.Accepted() {
			phids = append(phids, reviewer.PHID)
		}
	}
	if len(phids) == 0 {
		return nil, nil
	}

	return r.conduit.ResolveUsernames(ctx, phids)
}
