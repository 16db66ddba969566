package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(state model.LedgerState, alerts []notify.Notification, cw int) string {
	t := theme.Active
	totals := ledger.Summarize(state)
	var b strings.Builder

	// Row 1: Metric cards
	balanceColor := t.TextPrimary
	if state.TotalBalance.IsNegative() {
		balanceColor = t.Red
	}
	metrics := []components.Metric{
		{Label: "Balance", Value: cli.FormatMoney(state.TotalBalance), Note: "available", Color: balanceColor},
		{Label: "Emergency Fund", Value: cli.FormatMoney(state.EmergencyFund), Note: "set aside"},
		{Label: "Savings Goal", Value: cli.FormatMoney(state.SavingsGoal), Note: "target"},
		{
			Label: "Spent",
			Value: cli.FormatMoney(totals.Spent),
			Note:  "of " + cli.FormatMoney(totals.Limit) + " budgeted",
			Color: theme.LevelColor(model.ProgressPercent(totals.Spent, totals.Limit).InexactFloat64()),
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: Distribution + Alerts
	// Row 3: Recent + Tips
	var halves []int
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	} else {
		halves = components.LayoutRow(cw, 2)
	}

	distCard := components.ContentCard("Spending Distribution",
		renderDistribution(state, components.CardInnerWidth(halves[0])), halves[0])
	alertCard := components.ContentCard(fmt.Sprintf("Alerts (%d)", len(alerts)),
		a.renderAlerts(alerts, components.CardInnerWidth(halves[1])), halves[1])
	recentCard := components.ContentCard("Recent Transactions",
		renderTransactions(ledger.RecentTransactions(state, 5), components.CardInnerWidth(halves[0]), true), halves[0])
	tipsCard := components.ContentCard("Quick Tips",
		a.renderTips(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(distCard + "\n" + alertCard + "\n" + recentCard + "\n" + tipsCard)
	} else {
		b.WriteString(components.CardRow([]string{distCard, alertCard}))
		b.WriteString("\n")
		b.WriteString(components.CardRow([]string{recentCard, tipsCard}))
	}
	b.WriteString("\n")

	// Row 4: AI insight
	b.WriteString(a.renderInsightCard(a.insightCat, cw))

	return b.String()
}

func renderDistribution(state model.LedgerState, width int) string {
	t := theme.Active
	shares := ledger.Distribution(state)

	slices := make([]components.Slice, 0, len(shares))
	for i, s := range shares {
		slices = append(slices, components.Slice{
			Label:   s.Category.String(),
			Value:   s.Spent.InexactFloat64(),
			Display: cli.FormatMoney(s.Spent),
			Color:   t.CategoryColor[i%len(t.CategoryColor)],
		})
	}
	return components.DistributionChart(slices, width)
}

func (a App) renderAlerts(alerts []notify.Notification, width int) string {
	t := theme.Active
	if len(alerts) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("All categories within budget")
	}

	lines := make([]string, 0, len(alerts)+1)
	for i, n := range alerts {
		lines = append(lines, renderAlertLine(n, i == a.alertCursor, width))
	}
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	lines = append(lines, hint.Render("j/k select · x dismiss"))
	return strings.Join(lines, "\n")
}

// renderAlertLine renders one notification, with a cursor marker when
// selected. A positive width pads or wraps the line to that width.
func renderAlertLine(n notify.Notification, selected bool, width int) string {
	t := theme.Active
	color := t.Amber
	if n.Severity == notify.Critical {
		color = t.Red
	}

	bg := t.Surface
	if selected {
		bg = t.SurfaceHover
	}
	marker := "  "
	if selected {
		marker = "▸ "
	}

	style := lipgloss.NewStyle().Foreground(color).Background(bg)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(marker + n.Text())
}

func (a App) renderTips(width int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if a.tipsLoading && len(a.tips) == 0 {
		return a.spinner.View() + dim.Render(" Loading tips...")
	}
	if len(a.tips) == 0 {
		return dim.Render("Press r to load tips")
	}

	bullet := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(width - 2)

	lines := make([]string, 0, len(a.tips))
	for _, tip := range a.tips {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, bullet.Render("• "), text.Render(tip)))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderInsightCard(c model.Category, cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var body string
	text, ok := a.insights[c]
	switch {
	case a.insightLoading && a.insightCat == c:
		body = a.spinner.View() + dim.Render(" Asking "+a.svc.Backend()+"...")
	case ok:
		body = lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner).Render(text)
	default:
		body = dim.Render("Press i to get an insight for " + c.String())
	}

	return components.ContentCard("AI Insight · "+c.String(), body, cw)
}

// renderTransactions lists transactions one per line; withCategory adds
// the category column used on the dashboard.
func renderTransactions(txs []model.Transaction, width int, withCategory bool) string {
	t := theme.Active
	if len(txs) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No transactions yet")
	}

	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	const (
		dateW   = 10
		amountW = 10
		metaW   = 10
	)
	descW := width - dateW - amountW - 3
	if withCategory {
		descW -= metaW + 1
	}
	if descW < 8 {
		descW = 8
	}

	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		desc := tx.Description
		if tx.SubCategory != "" && !withCategory {
			desc += " · " + tx.SubCategory
		}
		line := dateStyle.Render(tx.Date.String()) + spaceStyle.Render(" ") +
			descStyle.Render(fmt.Sprintf("%-*s", descW, cli.Truncate(desc, descW)))
		if withCategory {
			line += spaceStyle.Render(" ") + metaStyle.Render(fmt.Sprintf("%-*s", metaW, tx.Category))
		}
		line += spaceStyle.Render(" ") +
			amountStyle.Render(fmt.Sprintf("%*s", amountW, "-"+cli.FormatMoney(tx.Amount)))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
