package tui

import (
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoryTab(state model.LedgerState, c model.Category, cw int) string {
	t := theme.Active
	cs, _ := state.Category(c)
	pct := ledger.Progress(cs)
	var b strings.Builder

	remainingColor := t.Green
	if ledger.Remaining(cs).IsZero() {
		remainingColor = t.Red
	}

	metrics := []components.Metric{
		{Label: "Spent", Value: cli.FormatMoney(cs.Spent), Note: cli.FormatNumber(int64(len(cs.Transactions))) + " transactions"},
		{Label: "Limit", Value: cli.FormatMoney(cs.Limit), Note: "monthly"},
		{Label: "Remaining", Value: cli.FormatMoney(ledger.Remaining(cs)), Color: remainingColor},
		{Label: "Used", Value: cli.FormatPercent(pct), Color: theme.LevelColor(pct)},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	bar := components.LabeledBudgetBar(c.String(), pct, 10, inner)
	status := lipgloss.NewStyle().Foreground(theme.LevelColor(pct)).Background(t.Surface)
	var note string
	switch {
	case pct >= 100:
		note = "Over budget. Payments here still go through."
	case pct >= 80:
		note = "Approaching the limit."
	default:
		note = "On track."
	}
	b.WriteString(components.ContentCard("Budget", bar+"\n"+status.Render(note), cw))
	b.WriteString("\n")

	var halves []int
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	} else {
		halves = components.LayoutRow(cw, 2)
	}

	txCard := components.ContentCard("Transactions",
		renderTransactions(cs.Transactions, components.CardInnerWidth(halves[0]), false), halves[0])
	insightCard := a.renderInsightCard(c, halves[1])

	if a.isCompactLayout() {
		b.WriteString(txCard + "\n" + insightCard)
	} else {
		b.WriteString(components.CardRow([]string{txCard, insightCard}))
	}

	return b.String()
}
