// Package tui provides the interactive Bubble Tea dashboard for fintrack.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/insight"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/session"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// InsightMsg carries the text for one category insight request.
type InsightMsg struct {
	Gen      uint64
	Category model.Category
	Text     string
}

// AllInsightsMsg carries a fan-out fetch of every category insight.
type AllInsightsMsg struct {
	Gen      uint64
	Insights map[model.Category]string
}

// TipsMsg carries the quick tips list.
type TipsMsg struct {
	Gen  uint64
	Tips []string
}

type paymentProcessedMsg struct{}

// paymentDoneMsg closes the success screen opened for payment Seq.
type paymentDoneMsg struct{ Seq int }

type payStage int

const (
	payIdle payStage = iota
	payEditing
	payProcessing
	payDone
)

// Options configures the TUI.
type Options struct {
	Payment  config.PaymentConfig
	SkipAuth bool
	Logger   *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	sess *session.Session
	svc  *insight.Service
	log  *slog.Logger
	pay  config.PaymentConfig

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	alertCursor int

	// Login / sign-up (huh form)
	authForm *huh.Form
	authVals *authValues

	// Payment flow
	payForm    *huh.Form
	payVals    *paymentValues
	payStage   payStage
	paySeq     int
	payPending ledger.Payment
	payResult  string
	payAlert   *notify.Notification
	payErr     error

	// Insights; generations drop answers to superseded requests.
	insights       map[model.Category]string
	insightCat     model.Category
	insightLoading bool
	insightGen     *insight.Tracker
	tips           []string
	tipsLoading    bool
	tipsGen        *insight.Tracker

	spinner  spinner.Model
	spinning bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5 // minimum content area height
)

// NewApp creates a new TUI app model over sess. svc may be nil, in which
// case the built-in advice is shown.
func NewApp(sess *session.Session, svc *insight.Service, opts Options) App {
	if svc == nil {
		svc = insight.NewService(insight.Offline{})
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		sess:       sess,
		svc:        svc,
		log:        log,
		pay:        opts.Payment,
		authVals:   &authValues{},
		payVals:    &paymentValues{},
		insights:   make(map[model.Category]string),
		insightCat: model.Living,
		insightGen: &insight.Tracker{},
		tipsGen:    &insight.Tracker{},
		spinner:    sp,
	}
	if !opts.SkipAuth {
		a.authForm = newAuthForm(a.authVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.authForm != nil {
		cmds = append(cmds, a.authForm.Init())
	}
	return tea.Batch(cmds...)
}

// initialLoad fetches the quick tips and the first category insight.
func (a *App) initialLoad() tea.Cmd {
	return tea.Batch(a.fetchTips(), a.fetchInsight(model.Living))
}

func (a *App) fetchInsight(c model.Category) tea.Cmd {
	gen := a.insightGen.Begin()
	a.insightCat = c
	a.insightLoading = true
	svc, state := a.svc, a.sess.Snapshot()
	fetch := func() tea.Msg {
		return InsightMsg{Gen: gen, Category: c, Text: svc.FetchCategoryInsight(context.Background(), state, c)}
	}
	return tea.Batch(fetch, a.startSpinner())
}

func (a *App) fetchAllInsights() tea.Cmd {
	gen := a.insightGen.Begin()
	a.insightLoading = true
	svc, state := a.svc, a.sess.Snapshot()
	fetch := func() tea.Msg {
		return AllInsightsMsg{Gen: gen, Insights: svc.FetchAll(context.Background(), state)}
	}
	return tea.Batch(fetch, a.startSpinner())
}

func (a *App) fetchTips() tea.Cmd {
	gen := a.tipsGen.Begin()
	a.tipsLoading = true
	svc := a.svc
	fetch := func() tea.Msg {
		return TipsMsg{Gen: gen, Tips: svc.FetchQuickTips(context.Background())}
	}
	return tea.Batch(fetch, a.startSpinner())
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a App) busy() bool {
	return a.insightLoading || a.tipsLoading || a.payStage == payProcessing
}

// activeCategory is the category shown by the current tab, if any.
func (a App) activeCategory() (model.Category, bool) {
	if a.activeTab <= 0 || a.activeTab > len(model.AllCategories) {
		return 0, false
	}
	return model.AllCategories[a.activeTab-1], true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.authForm != nil {
			a.authForm = a.authForm.WithWidth(formWidth(msg.Width))
		}
		if a.payForm != nil {
			a.payForm = a.payForm.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if a.authForm != nil || a.payStage != payIdle || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.selectTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.authForm != nil {
			if key == "esc" {
				a.authForm = nil
				cmd := a.initialLoad()
				return a, cmd
			}
			return a.updateAuthForm(msg)
		}

		switch a.payStage {
		case payEditing:
			if key == "esc" {
				a.payForm = nil
				a.payStage = payIdle
				return a, nil
			}
			return a.updatePayForm(msg)
		case payProcessing:
			return a, nil
		case payDone:
			// Any key skips the success screen.
			a.payStage = payIdle
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.handleKey(key)

	case InsightMsg:
		if !a.insightGen.Accept(msg.Gen) {
			a.log.Debug("dropped stale insight",
				"gen", msg.Gen,
				"latest", a.insightGen.Current(),
				"category", msg.Category.String(),
			)
			return a, nil
		}
		a.insightLoading = false
		a.insights[msg.Category] = msg.Text
		return a, nil

	case AllInsightsMsg:
		if !a.insightGen.Accept(msg.Gen) {
			return a, nil
		}
		a.insightLoading = false
		for c, text := range msg.Insights {
			a.insights[c] = text
		}
		return a, nil

	case TipsMsg:
		if !a.tipsGen.Accept(msg.Gen) {
			return a, nil
		}
		a.tipsLoading = false
		a.tips = msg.Tips
		return a, nil

	case paymentProcessedMsg:
		return a.completePayment()

	case paymentDoneMsg:
		if a.payStage == payDone && msg.Seq == a.paySeq {
			a.payStage = payIdle
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Forward unhandled messages (cursor blinks, etc.) to an open form.
	if a.authForm != nil {
		return a.updateAuthForm(msg)
	}
	if a.payStage == payEditing && a.payForm != nil {
		return a.updatePayForm(msg)
	}

	return a, nil
}

func (a App) handleKey(key string) (tea.Model, tea.Cmd) {
	alerts := a.sess.Notifications()

	switch key {
	case "q":
		return a, tea.Quit
	case "p":
		return a.openPayForm()
	case "r":
		cmds := []tea.Cmd{a.fetchTips()}
		if c, ok := a.activeCategory(); ok {
			cmds = append(cmds, a.fetchInsight(c))
		} else {
			cmds = append(cmds, a.fetchInsight(a.insightCat))
		}
		return a, tea.Batch(cmds...)
	case "i":
		c := a.insightCat
		if ac, ok := a.activeCategory(); ok {
			c = ac
		}
		cmd := a.fetchInsight(c)
		return a, cmd
	case "a":
		cmd := a.fetchAllInsights()
		return a, cmd
	case "j", "down":
		if a.alertCursor < len(alerts)-1 {
			a.alertCursor++
		}
		return a, nil
	case "k", "up":
		if a.alertCursor > 0 {
			a.alertCursor--
		}
		return a, nil
	case "x":
		if a.sess.DismissAt(a.alertCursor) {
			if a.alertCursor >= len(alerts)-1 && a.alertCursor > 0 {
				a.alertCursor--
			}
		}
		return a, nil
	case "left", "shift+tab":
		return a.selectTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.selectTab((a.activeTab + 1) % len(components.Tabs))
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			return a.selectTab(tab)
		}
	}
	return a, nil
}

// selectTab switches tabs; landing on a category tab fetches its insight.
func (a App) selectTab(tab int) (tea.Model, tea.Cmd) {
	if tab == a.activeTab {
		return a, nil
	}
	a.activeTab = tab
	if c, ok := a.activeCategory(); ok {
		cmd := a.fetchInsight(c)
		return a, cmd
	}
	return a, nil
}

func (a App) updateAuthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.authForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.authForm = f
	}

	switch a.authForm.State {
	case huh.StateCompleted:
		if name := a.authVals.OwnerName(); name != "" {
			a.sess.SetOwner(name)
		}
		a.log.Info("signed in", "mode", a.authVals.Mode)
		a.authForm = nil
		cmd := a.initialLoad()
		return a, cmd
	case huh.StateAborted:
		a.authForm = nil
		cmd := a.initialLoad()
		return a, cmd
	}

	return a, cmd
}

func (a App) openPayForm() (tea.Model, tea.Cmd) {
	c := model.Living
	if ac, ok := a.activeCategory(); ok {
		c = ac
	}
	*a.payVals = paymentValues{
		Counterparty: a.pay.DefaultCounterparty,
		Category:     c.String(),
	}
	a.payForm = newPaymentForm(a.payVals).WithWidth(formWidth(a.width))
	a.payStage = payEditing
	a.payErr = nil
	a.payAlert = nil
	return a, a.payForm.Init()
}

func (a App) updatePayForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.payForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.payForm = f
	}

	switch a.payForm.State {
	case huh.StateCompleted:
		a.payForm = nil
		p, err := a.payVals.Payment()
		if err != nil {
			a.payErr = err
			a.payStage = payDone
			cmd := a.resultTick()
			return a, cmd
		}
		a.payPending = p
		a.payStage = payProcessing
		spin := a.startSpinner()
		return a, tea.Batch(
			tea.Tick(a.pay.ProcessingDelay(), func(time.Time) tea.Msg { return paymentProcessedMsg{} }),
			spin,
		)
	case huh.StateAborted:
		a.payForm = nil
		a.payStage = payIdle
		return a, nil
	}

	return a, cmd
}

// completePayment applies the pending payment once the mock processing
// delay has elapsed.
func (a App) completePayment() (tea.Model, tea.Cmd) {
	if a.payStage != payProcessing {
		return a, nil
	}
	p := a.payPending
	a.payStage = payDone

	res, err := a.sess.Pay(p)
	if err != nil {
		a.log.Warn("payment rejected", logging.FieldError, err)
		a.payErr = err
	} else {
		a.log.Info("payment applied",
			"category", p.Category.String(),
			"amount", p.Amount.StringFixed(2),
			"id", res.Transaction.ID,
		)
		a.payResult = fmt.Sprintf("Deducted %s from %s", cli.FormatMoney(p.Amount), p.Category)
		a.payAlert = res.Notification
	}

	tick := a.resultTick()
	if err != nil {
		return a, tick
	}
	// Refetch advice against the new snapshot.
	insightCmd := a.fetchInsight(p.Category)
	tipsCmd := a.fetchTips()
	return a, tea.Batch(tick, insightCmd, tipsCmd)
}

// resultTick numbers the result screen and schedules its close. Ticks from
// earlier screens no longer match paySeq and are ignored.
func (a *App) resultTick() tea.Cmd {
	a.paySeq++
	seq := a.paySeq
	return tea.Tick(a.pay.SuccessDelay(), func(time.Time) tea.Msg { return paymentDoneMsg{Seq: seq} })
}

func formWidth(termWidth int) int {
	w := termWidth - 8
	if w > 60 {
		w = 60
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.authForm != nil {
		return a.viewOverlay(a.authForm.View())
	}

	switch a.payStage {
	case payEditing:
		if a.payForm != nil {
			return a.viewOverlay(a.viewPayHeader() + "\n\n" + a.payForm.View())
		}
	case payProcessing:
		return a.viewOverlay(a.viewProcessing())
	case payDone:
		return a.viewOverlay(a.viewPayResult())
	}

	if a.showHelp {
		return a.viewOverlay(a.viewHelp())
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fintrack needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

// viewOverlay centers body in an accent-bordered card.
func (a App) viewOverlay(body string) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewPayHeader() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	return title.Render("◈ New Payment") + "\n" +
		dim.Render("Balance "+cli.FormatMoney(a.sess.Snapshot().TotalBalance)+" · esc to cancel")
}

func (a App) viewProcessing() string {
	t := theme.Active
	text := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dim := lipgloss.NewStyle().Foreground(t.TextMuted)
	return a.spinner.View() + text.Render(" Processing payment...") + "\n\n" +
		dim.Render(fmt.Sprintf("%s to %s", cli.FormatMoney(a.payPending.Amount), a.payPending.CounterpartyID))
}

func (a App) viewPayResult() string {
	t := theme.Active
	if a.payErr != nil {
		red := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
		dim := lipgloss.NewStyle().Foreground(t.TextMuted)
		return red.Render("✗ Payment failed") + "\n\n" + dim.Render(a.payErr.Error())
	}

	green := lipgloss.NewStyle().Foreground(t.Green).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(green.Render("✓ Payment Successful"))
	b.WriteString("\n\n")
	b.WriteString(text.Render(a.payResult))
	if a.payAlert != nil {
		b.WriteString("\n\n")
		b.WriteString(renderAlertLine(*a.payAlert, false, 0))
	}
	return b.String()
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"d l t f e", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through alerts"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"p", "Make a payment"},
			{"i", "Get insight for this category"},
			{"a", "Fetch insights for all categories"},
			{"r", "Refresh tips and insight"},
			{"x", "Dismiss selected alert"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))
	return b.String()
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height
	state := a.sess.Snapshot()
	alerts := a.sess.Notifications()

	// 1. Header: tab bar + greeting row
	greetStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	greeting := greetStyle.Render(" Hi, ") + accentStyle.Render(state.OwnerName) +
		greetStyle.Render("  ·  Balance ") + accentStyle.Render(cli.FormatMoney(state.TotalBalance))
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(greeting)

	// 2. Status bar
	info := components.StatusInfo{
		Owner:   state.OwnerName,
		Alerts:  len(alerts),
		Backend: a.svc.Backend(),
	}
	if a.busy() {
		info.Busy = a.spinner.View() + " loading"
	}
	statusBar := components.RenderStatusBar(w, info)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	if c, ok := a.activeCategory(); ok {
		content = a.renderCategoryTab(state, c, cw)
	} else {
		content = a.renderDashboardTab(state, alerts, cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
