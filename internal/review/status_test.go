package review_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"diffstack.dev/diffstack/internal/conduit"
	"diffstack.dev/diffstack/internal/errors"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/review"
)

func TestReport(t *testing.T) {
	fake := newFakeConduit()
	accepted := fake.addOpenRevision(3, "Linked change")
	accepted.Status = conduit.StatusAccepted
	fake.addOpenRevision(5, "Searched change")
	fake.addOpenRevision(7, "Duplicated change")
	fake.addOpenRevision(9, "Duplicated change")

	commits := []*git.Commit{
		{SHA: "aaa", Subject: "Linked change", Message: "Linked change\n\nDifferential Revision: D3"},
		{SHA: "bbb", Subject: "Searched change", Message: "Searched change"},
		{SHA: "ccc", Subject: "Unreviewed change", Message: "Unreviewed change"},
		{SHA: "ddd", Subject: "Duplicated change", Message: "Duplicated change"},
	}

	rows, err := review.NewReporter(fake).Report(context.Background(), commits)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	require.True(t, rows[0].HasReview())
	require.Equal(t, "D3", rows[0].Review)
	require.Equal(t, conduit.StatusAccepted, rows[0].Status)
	require.Equal(t, "Linked change", rows[0].Title)

	require.True(t, rows[1].HasReview())
	require.Equal(t, "D5", rows[1].Review)
	require.Equal(t, conduit.StatusNeedsReview, rows[1].Status)

	require.False(t, rows[2].HasReview())
	require.Empty(t, rows[2].Ambiguous)

	require.False(t, rows[3].HasReview())
	require.Equal(t, []string{"D7", "D9"}, rows[3].Ambiguous)
}

func TestReportDanglingTrailer(t *testing.T) {
	fake := newFakeConduit()

	commits := []*git.Commit{
		{SHA: "aaa", Subject: "Gone", Message: "Gone\n\nDifferential Revision: D404"},
	}

	_, err := review.NewReporter(fake).Report(context.Background(), commits)
	require.ErrorIs(t, err, errors.ErrRemoteCall)
}

func TestAcceptedReviewers(t *testing.T) {
	fake := newFakeConduit()
	fake.addOpenRevision(3, "Linked change",
		conduit.Reviewer{PHID: "PHID-USER-1", Status: "accepted"},
		conduit.Reviewer{PHID: "PHID-USER-2", Status: "added"},
		conduit.Reviewer{PHID: "PHID-USER-3", Status: "accepted"},
	)
	fake.usernames["PHID-USER-1"] = "alice"
	fake.usernames["PHID-USER-3"] = "carol"

	reporter := review.NewReporter(fake)

	names, err := reporter.AcceptedReviewers(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "carol"}, names)

	t.Run("no accepted reviewers yields nil", func(t *testing.T) {
		fake.addOpenRevision(4, "Pending change",
			conduit.Reviewer{PHID: "PHID-USER-2", Status: "added"})

		names, err := reporter.AcceptedReviewers(context.Background(), 4)
		require.NoError(t, err)
		require.Nil(t, names)
	})
}
