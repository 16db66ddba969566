package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Slice is one row of a distribution chart.
type Slice struct {
	Label   string
	Value   float64
	Display string // formatted value shown after the bar
	Color   lipgloss.Color
}

// DistributionChart renders one horizontal bar per slice, scaled to the
// largest value, followed by each slice's share of the total.
func DistributionChart(slices []Slice, width int) string {
	if len(slices) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	displayW := 0
	total := 0.0
	peak := 0.0
	for _, s := range slices {
		labelW = max(labelW, lipgloss.Width(s.Label))
		displayW = max(displayW, lipgloss.Width(s.Display))
		total += s.Value
		peak = max(peak, s.Value)
	}

	// label, space, bar, space, display, space, share "100%"
	barW := width - labelW - displayW - 8
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(slices))
	for _, s := range slices {
		filled := 0
		if peak > 0 {
			filled = int(s.Value / peak * float64(barW))
		}
		if s.Value > 0 && filled == 0 {
			filled = 1
		}

		share := 0.0
		if total > 0 {
			share = s.Value / total * 100
		}

		barStyle := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface)
		line := labelStyle.Render(fmt.Sprintf("%-*s", labelW, s.Label)) +
			spaceStyle.Render(" ") +
			barStyle.Render(strings.Repeat("█", filled)) +
			emptyStyle.Render(strings.Repeat("░", barW-filled)) +
			spaceStyle.Render(" ") +
			valueStyle.Render(fmt.Sprintf("%*s", displayW, s.Display)) +
			spaceStyle.Render(" ") +
			dimStyle.Render(fmt.Sprintf("%3.0f%%", share))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
