package output

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	acceptedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4dca7d"))
	needsWorkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c800"))
	rejectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f46251"))
	closedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9f83e4"))
	neutralStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ccbf1"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

// StatusCell renders a review status word with its conventional color.
func StatusCell(status string) string {
	switch status {
	case "accepted":
		return acceptedStyle.Render(status)
	case "needs-review", "open":
		return needsWorkStyle.Render(status)
	case "rejected":
		return rejectedStyle.Render(status)
	case "closed", "abandoned":
		return closedStyle.Render(status)
	default:
		return neutralStyle.Render(status)
	}
}

// Dim renders de-emphasized text, used for commit hashes in listings.
func Dim(text string) string {
	return dimStyle.Render(text)
}
