package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"alice", "bob"}, SplitList("alice, bob"))
	require.Equal(t, []string{"alice"}, SplitList(" alice "))
	require.Equal(t, []string{"alice", "bob"}, SplitList("alice,,bob,"))
	require.Nil(t, SplitList(""))
	require.Nil(t, SplitList(" , "))
}

func TestPromptsDisabledForTests(t *testing.T) {
	t.Setenv("DIFFSTACK_TEST_NO_INTERACTIVE", "1")

	_, err := PromptConfirm("Proceed?", false)
	require.ErrorIs(t, err, ErrInteractiveDisabled)

	_, err = PromptUsernames("Reviewers")
	require.ErrorIs(t, err, ErrInteractiveDisabled)
}
