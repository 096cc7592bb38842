// Package conduit provides a client for the Phabricator Differential review
// service: typed Conduit API calls plus diff submission through arcanist.
package conduit

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	diffstackerrors "diffstack.dev/diffstack/internal/errors"
)

// Status is the review lifecycle state as this tool classifies it.
type Status string

const (
	StatusOpen        Status = "open"
	StatusAccepted    Status = "accepted"
	StatusNeedsReview Status = "needs-review"
	StatusRejected    Status = "rejected"
	StatusClosed      Status = "closed"
	StatusAbandoned   Status = "abandoned"
	StatusUnknown     Status = "unknown"
)

// statusFromWire maps Conduit status values onto the local enum.
func statusFromWire(value string) Status {
	switch value {
	case "accepted":
		return StatusAccepted
	case "needs-review":
		return StatusNeedsReview
	case "needs-revision", "rejected":
		return StatusRejected
	case "published", "closed":
		return StatusClosed
	case "abandoned":
		return StatusAbandoned
	case "draft", "changes-planned":
		return StatusOpen
	default:
		return StatusUnknown
	}
}

// Reviewer is a reviewer entry on a revision. Status is the raw approval
// state recorded by the service ("accepted", "added", "rejected", ...).
type Reviewer struct {
	PHID   string
	Status string
}

// Accepted reports whether this reviewer's recorded approval is "accepted".
func (r Reviewer) Accepted() bool {
	return r.Status == "accepted"
}

// Revision is a remote review object. PHID is the opaque object handle used
// for mutation calls; ID is the human-readable number behind "D<ID>".
type Revision struct {
	ID        int
	PHID      string
	Title     string
	Status    Status
	URI       string
	Reviewers []Reviewer
}

// Name returns the human-readable identifier, e.g. "D12345".
func (r *Revision) Name() string {
	return FormatRevisionID(r.ID)
}

// Transaction is a single edit applied to a revision.
type Transaction struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// SubmitDiffOptions describes a diff submission.
type SubmitDiffOptions struct {
	// UpdateRevision targets an existing revision when non-zero; zero creates
	// a new one.
	UpdateRevision int

	// BaseRevision is the commit the diff is taken against, normally the
	// submitted commit's immediate parent.
	BaseRevision string

	// HeadRevision is the commit being submitted.
	HeadRevision string

	// Message is the draft revision message used on create.
	Message string
}

// Client is the review-service surface the engine depends on. The real
// implementation talks to Conduit over HTTP and to arcanist for diff
// transport; tests use fakes.
type Client interface {
	// SearchOpenRevisions returns open revisions, optionally constrained by a
	// title query. An empty query returns all open revisions.
	SearchOpenRevisions(ctx context.Context, query string) ([]*Revision, error)

	// GetRevision fetches one revision by numeric identifier.
	GetRevision(ctx context.Context, id int) (*Revision, error)

	// LookupPHID translates a numeric identifier to the object handle.
	LookupPHID(ctx context.Context, id int) (string, error)

	// EditRevision applies transactions to the revision behind objectPHID.
	EditRevision(ctx context.Context, objectPHID string, txns []Transaction) error

	// ResolveUsernames translates user object handles to usernames, batched.
	ResolveUsernames(ctx context.Context, phids []string) ([]string, error)

	// SubmitDiff uploads a diff, creating or updating a revision, and returns
	// the revision's numeric identifier.
	SubmitDiff(ctx context.Context, opts SubmitDiffOptions) (int, error)

	// ApplyPatch applies a revision's diff to the working tree.
	ApplyPatch(ctx context.Context, id int) error
}

var revisionIDPattern = regexp.MustCompile(`^D([1-9][0-9]*)$`)

// ParseRevisionID parses an identifier of the form D<positive-integer>.
func ParseRevisionID(name string) (int, error) {
	m := revisionIDPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, diffstackerrors.NewInvalidReviewIDError(name)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, diffstackerrors.NewInvalidReviewIDError(name)
	}
	return id, nil
}

// FormatRevisionID renders a numeric identifier as D<id>.
func FormatRevisionID(id int) string {
	return fmt.Sprintf("D%d", id)
}
