package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"diffstack.dev/diffstack/internal/conduit"
	"diffstack.dev/diffstack/internal/config"
	"diffstack.dev/diffstack/internal/git"
	"diffstack.dev/diffstack/internal/review"
)

func TestRenderRow(t *testing.T) {
	commit := &git.Commit{SHA: "a1b2c3d4e5f6", Subject: "Add widget"}

	t.Run("resolved review", func(t *testing.T) {
		line := renderRow(review.Row{
			Commit: commit,
			Review: "D12",
			Status: conduit.StatusAccepted,
			Title:  "Add widget",
		})
		require.Contains(t, line, "a1b2c3d4")
		require.Contains(t, line, "D12")
		require.Contains(t, line, "accepted")
		require.Contains(t, line, "Add widget")
	})

	t.Run("no review", func(t *testing.T) {
		line := renderRow(review.Row{Commit: commit})
		require.Contains(t, line, "No Review")
	})

	t.Run("ambiguous candidates all named", func(t *testing.T) {
		line := renderRow(review.Row{Commit: commit, Ambiguous: []string{"D7", "D9"}})
		require.Contains(t, line, "Ambiguous Reviews: D7, D9")
	})
}

func TestConfirmerFor(t *testing.T) {
	t.Run("flag assumes yes", func(t *testing.T) {
		confirm := confirmerFor(&config.Config{}, true)
		ok, err := confirm("Proceed?")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("config assumes yes", func(t *testing.T) {
		confirm := confirmerFor(&config.Config{AssumeYes: true}, false)
		ok, err := confirm("Proceed?")
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestRootCmdWiring(t *testing.T) {
	root := NewRootCmd("test", "none", "today")

	for _, name := range []string{"create", "list", "patch", "stage", "update"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, cmd.Name())
	}

	require.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, root.PersistentFlags().Lookup("yes"))
}
