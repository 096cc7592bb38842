// Package review implements the commit-to-review reconciliation engine:
// resolving commits to revisions, creating and chaining revisions, reporting
// status, and replaying reviewed commits onto an integration branch.
package review

import (
	"regexp"
	"strings"

	"diffstack.dev/diffstack/internal/git"
)

// trailerPattern matches a structured commit-message trailer pointing at a
// revision. Case-sensitive, anchored to the start of a line.
var trailerPattern = regexp.MustCompile(`^Differential Revision:\s*(?:https://[^\s]*/)?(D[1-9][0-9]*)$`)

// TrailerIDs returns every revision identifier referenced by a trailer line
// in the message, in order of appearance.
func TrailerIDs(message string) []string {
	var ids []string
	for _, line := range strings.Split(message, "\n") {
		if m := trailerPattern.FindStringSubmatch(line); m != nil {
			ids = append(ids, m[1])
		}
	}
	return ids
}

// composeDraft builds the draft revision message for a new submission: the
// original commit message followed by an empty Test Plan section and the
// reviewer and subscriber lists.
func composeDraft(commit *git.Commit, reviewers, subscribers []string) string {
	var b strings.Builder
	b.WriteString(commit.Message)
	b.WriteString("\n\nTest Plan:\n")
	b.WriteString("\nReviewers: ")
	b.WriteString(strings.Join(reviewers, ", "))
	b.WriteString("\nSubscribers: ")
	b.WriteString(strings.Join(subscribers, ", "))
	b.WriteString("\n")
	return b.String()
}

// composeStaged builds the commit message used when replaying a reviewed
// commit: the original message plus reviewer and revision trailers. An
// already-present trailer for the same revision is not duplicated.
func composeStaged(message string, acceptedBy []string, revisionName, uri string) string {
	var extra []string
	if len(acceptedBy) > 0 {
		extra = append(extra, "Reviewed by: "+strings.Join(acceptedBy, ", "))
	}

	alreadyLinked := false
	for _, id := range TrailerIDs(message) {
		if id == revisionName {
			alreadyLinked = true
			break
		}
	}
	if !alreadyLinked && uri != "" {
		extra = append(extra, "Differential Revision: "+uri)
	}

	if len(extra) == 0 {
		return message
	}
	return message + "\n\n" + strings.Join(extra, "\n")
}
