// Package theme defines color themes for the fintrack TUI.
package theme

import (
	"github.com/theirongolddev/fintrack/internal/notify"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Highlighted surface (active tab, selected row)
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // Accent-colored borders for focus states
	TextDim       lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted     lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color // Primary accent (active tab, links)
	AccentBright  lipgloss.Color
	Green         lipgloss.Color // Under budget
	Amber         lipgloss.Color // Near limit
	Red           lipgloss.Color // Over limit
	CategoryColor [4]lipgloss.Color
}

// Active is the currently selected theme.
var Active = Fintrack

// Fintrack is the default theme: indigo accents on dark slate.
var Fintrack = Theme{
	Name:         "fintrack",
	Background:   lipgloss.Color("#0F172A"),
	Surface:      lipgloss.Color("#1E293B"),
	SurfaceHover: lipgloss.Color("#334155"),
	Border:       lipgloss.Color("#334155"),
	BorderAccent: lipgloss.Color("#6366F1"),
	TextDim:      lipgloss.Color("#64748B"),
	TextMuted:    lipgloss.Color("#94A3B8"),
	TextPrimary:  lipgloss.Color("#F8FAFC"),
	Accent:       lipgloss.Color("#818CF8"),
	AccentBright: lipgloss.Color("#A5B4FC"),
	Green:        lipgloss.Color("#34D399"),
	Amber:        lipgloss.Color("#F59E0B"),
	Red:          lipgloss.Color("#EF4444"),
	CategoryColor: [4]lipgloss.Color{
		lipgloss.Color("#6366F1"),
		lipgloss.Color("#22D3EE"),
		lipgloss.Color("#34D399"),
		lipgloss.Color("#F472B6"),
	},
}

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Amber:        lipgloss.Color("#D0A215"),
	Red:          lipgloss.Color("#D14D41"),
	CategoryColor: [4]lipgloss.Color{
		lipgloss.Color("#4385BE"),
		lipgloss.Color("#DA702C"),
		lipgloss.Color("#879A39"),
		lipgloss.Color("#CE5D97"),
	},
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("5"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("5"),
	AccentBright: lipgloss.Color("13"),
	Green:        lipgloss.Color("2"),
	Amber:        lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
	CategoryColor: [4]lipgloss.Color{
		lipgloss.Color("4"),
		lipgloss.Color("6"),
		lipgloss.Color("2"),
		lipgloss.Color("5"),
	},
}

// All available themes.
var All = []Theme{Fintrack, FlexokiDark, Terminal}

// ByName returns a theme by its name, defaulting to Fintrack.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Fintrack
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// LevelColor maps a budget percentage (0-100, may exceed 100) to green,
// amber at 80 and red at 100.
func LevelColor(pct float64) lipgloss.Color {
	sev, ok := notify.LevelForPercent(pct)
	switch {
	case !ok:
		return Active.Green
	case sev == notify.Critical:
		return Active.Red
	default:
		return Active.Amber
	}
}
