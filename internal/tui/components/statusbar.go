package components

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar shows on its right-hand side.
type StatusInfo struct {
	Owner   string
	Alerts  int
	Backend string
	Busy    string // spinner frame plus label while work is in flight
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [p]ay  [r]efresh  [?]help  [q]uit"

	right := ""
	if info.Busy != "" {
		right += info.Busy + "  "
	}
	if info.Alerts > 0 {
		alert := lipgloss.NewStyle().Foreground(t.Amber).Background(t.Surface).Bold(true)
		right += alert.Render(fmt.Sprintf("%d alert(s)", info.Alerts)) + "  "
	}
	if info.Backend != "" {
		right += info.Backend + "  "
	}
	if info.Owner != "" {
		right += info.Owner + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")
	return style.Render(left + gap + right)
}
