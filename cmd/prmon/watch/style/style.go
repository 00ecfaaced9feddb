package style

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wangxiyuan/pr-notification/monitor"
)

var White = lipgloss.Color("15")
var Red = lipgloss.Color("9")
var Green = lipgloss.Color("29")
var Orange = lipgloss.Color("208")
var Yellow = lipgloss.Color("11")
var Purple = lipgloss.Color("99")
var Contrast = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}
var Highlight = lipgloss.Color("#30BA78")

// Badge renders the provided text as centered in a color background.
func Badge(text string, color lipgloss.TerminalColor) string {
	if len(text) > 12 {
		return lipgloss.NewStyle().Background(color).Width(12).Render(text)
	}
	return lipgloss.NewStyle().Background(color).Align(lipgloss.Center).Width(12).Render(text)
}

// StateBadge renders the lifecycle state of a pull request.
func StateBadge(s monitor.State, draft bool) string {
	switch {
	case draft && s == monitor.StateOpen:
		return Badge("draft", Yellow)
	case s == monitor.StateOpen:
		return Badge("open", Green)
	case s == monitor.StateMerged:
		return Badge("merged", Purple)
	case s == monitor.StateClosed:
		return Badge("closed", Red)
	default:
		return Badge(string(s), Contrast)
	}
}

// CheckMarker renders the aggregate CI result as a single marker:
// green check, red cross, orange dot.
func CheckMarker(s monitor.CIState) string {
	switch s {
	case monitor.CISuccess:
		return lipgloss.NewStyle().Foreground(Green).Render("✔")
	case monitor.CIFailure:
		return lipgloss.NewStyle().Foreground(Red).Render("✘")
	case monitor.CIPending:
		return lipgloss.NewStyle().Foreground(Orange).Render("•")
	}
	return ""
}

// ReviewBadge renders the reduced review decision.
func ReviewBadge(s monitor.ReviewState) string {
	switch s {
	case monitor.ReviewApproved:
		return Badge("approved", Green)
	case monitor.ReviewChangesRequested:
		return Badge("changes", Red)
	case monitor.ReviewPending:
		return Badge("review wait", Orange)
	case monitor.ReviewNone:
		return Badge("no reviews", Contrast)
	}
	return Badge(string(s), Contrast)
}

// FormatDuration returns a short string representation of a duration.
func FormatDuration(d time.Duration) string {
	totalMinutes := int(d.Minutes())
	days := totalMinutes / (24 * 60)
	hours := (totalMinutes % (24 * 60)) / 60
	minutes := totalMinutes % 60

	if days >= 365 {
		return fmt.Sprintf("%dy", days/365)
	}
	if days >= 2 {
		return fmt.Sprintf("%dd", days)
	}
	if days > 0 {
		return fmt.Sprintf("%dd%dh", days, hours)
	}
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
