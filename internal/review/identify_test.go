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

func TestResolveTrailer(t *testing.T) {
	t.Run("unique trailer answers without a search", func(t *testing.T) {
		fake := newFakeConduit()
		identifier := review.NewIdentifier(fake)

		commit := &git.Commit{
			Subject: "Add widget",
			Message: "Add widget\n\nDifferential Revision: D42",
		}

		id, found, err := identifier.Resolve(context.Background(), commit)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 42, id)
		require.Zero(t, fake.searchCalls, "trailer path must not contact the search path")
	})

	t.Run("duplicate trailers fall back to title search", func(t *testing.T) {
		fake := newFakeConduit()
		fake.addOpenRevision(7, "Add widget")
		identifier := review.NewIdentifier(fake)

		commit := &git.Commit{
			Subject: "Add widget",
			Message: "Add widget\n\nDifferential Revision: D1\nDifferential Revision: D2",
		}

		id, found, err := identifier.Resolve(context.Background(), commit)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 7, id)
		require.Equal(t, 1, fake.searchCalls)
	})
}

func TestResolveTitleSearch(t *testing.T) {
	commit := &git.Commit{Subject: "Add widget", Message: "Add widget"}

	t.Run("no match is not an error", func(t *testing.T) {
		fake := newFakeConduit()
		identifier := review.NewIdentifier(fake)

		_, found, err := identifier.Resolve(context.Background(), commit)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("single exact match", func(t *testing.T) {
		fake := newFakeConduit()
		fake.addOpenRevision(7, "Add widget")
		fake.addOpenRevision(8, "Add widget polish") // contains but not equal
		identifier := review.NewIdentifier(fake)

		id, found, err := identifier.Resolve(context.Background(), commit)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 7, id)
	})

	t.Run("multiple matches are fatal with all candidates", func(t *testing.T) {
		fake := newFakeConduit()
		fake.addOpenRevision(7, "Add widget")
		fake.addOpenRevision(9, "Add widget")
		identifier := review.NewIdentifier(fake)

		_, _, err := identifier.Resolve(context.Background(), commit)
		require.ErrorIs(t, err, errors.ErrAmbiguousReview)

		var ambiguous *errors.AmbiguousReviewError
		require.ErrorAs(t, err, &ambiguous)
		require.Equal(t, []string{"D7", "D9"}, ambiguous.Candidates)
	})
}

func TestTranslate(t *testing.T) {
	fake := newFakeConduit()
	fake.addOpenRevision(12, "Add widget")
	identifier := review.NewIdentifier(fake)

	phid, err := identifier.Translate(context.Background(), "D12")
	require.NoError(t, err)
	require.Equal(t, "PHID-DREV-12", phid)

	_, err = identifier.Translate(context.Background(), "12")
	require.ErrorIs(t, err, errors.ErrInvalidReviewID)
}

func TestStatus(t *testing.T) {
	fake := newFakeConduit()
	revision := fake.addOpenRevision(12, "Add widget")
	revision.Status = conduit.StatusAccepted
	identifier := review.NewIdentifier(fake)

	status, title, err := identifier.Status(context.Background(), "D12")
	require.NoError(t, err)
	require.Equal(t, conduit.StatusAccepted, status)
	require.Equal(t, "Add widget", title)

	_, _, err = identifier.Status(context.Background(), "Dx")
	require.ErrorIs(t, err, errors.ErrInvalidReviewID)

	_, _, err = identifier.Status(context.Background(), "D999")
	require.ErrorIs(t, err, errors.ErrRemoteCall)
}
