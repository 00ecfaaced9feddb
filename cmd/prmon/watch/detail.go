package watch

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wangxiyuan/pr-notification/cmd/prmon/watch/style"
)

var (
	detailLabel = lipgloss.NewStyle().Foreground(style.Contrast).Bold(true).Width(12)
	detailDim   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(style.Red)
)

func detailRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, detailLabel.Render(label), value)
}

func (m Model) detailContent() string {
	selected := m.list.SelectedItem()
	if selected == nil {
		return detailDim.Render("Nothing selected.")
	}
	i := selected.(item)

	rows := []string{
		detailRow("pull", i.ref.String()),
		"",
	}

	if i.status == nil {
		rows = append(rows, detailDim.Render("No status fetched yet."))
	} else {
		s := i.status
		ci := string(s.CIState)
		if check := style.CheckMarker(s.CIState); check != "" {
			ci += " " + check
		}
		rows = append(rows,
			detailRow("title", s.Title),
			detailRow("author", s.Author),
			detailRow("state", style.StateBadge(s.State, s.Draft)),
			detailRow("checks", ci),
			detailRow("review", style.ReviewBadge(s.ReviewState)),
			detailRow("mergeable", string(s.Mergeable)),
			detailRow("created", s.CreatedAt.Local().Format(time.DateTime)),
			detailRow("updated", s.UpdatedAt.Local().Format(time.DateTime)+" ("+style.FormatDuration(time.Since(s.UpdatedAt))+" ago)"),
			detailRow("url", s.URL),
		)
	}

	if i.err != nil {
		rows = append(rows, "", detailRow("error", errorStyle.Render(i.err.Error())))
	}

	rows = append(rows, "", detailDim.Render("esc to go back"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
