// Package notify decides when a payment warrants a budget alert and keeps
// the dismissible list of alerts raised during a session.
package notify

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// Severity orders notifications by urgency.
type Severity int

const (
	Warning Severity = iota + 1
	Critical
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "warning":
		*s = Warning
	case "critical":
		*s = Critical
	default:
		return fmt.Errorf("notify: unknown severity %q", b)
	}
	return nil
}

// Thresholds in percent of the category limit.
const (
	WarnPercent     = 80
	CriticalPercent = 100
)

// Notification is one budget alert.
type Notification struct {
	ID        int64          `json:"id"`
	Severity  Severity       `json:"severity"`
	Category  model.Category `json:"category"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
}

// Text is the user-facing wording of the alert.
func (n Notification) Text() string {
	if n.Severity == Critical {
		return fmt.Sprintf("CRITICAL: You have exceeded your %s limit!", n.Category)
	}
	return fmt.Sprintf("Warning: You have used 80%% of your %s budget.", n.Category)
}

// Level classifies spent against limit. It reports false below the warning
// threshold or when limit is not positive. The comparison is exact:
// spent*100 >= limit*threshold, with no intermediate division.
func Level(spent, limit decimal.Decimal) (Severity, bool) {
	if !limit.IsPositive() {
		return 0, false
	}
	scaled := spent.Mul(decimal.NewFromInt(100))
	switch {
	case scaled.GreaterThanOrEqual(limit.Mul(decimal.NewFromInt(CriticalPercent))):
		return Critical, true
	case scaled.GreaterThanOrEqual(limit.Mul(decimal.NewFromInt(WarnPercent))):
		return Warning, true
	}
	return 0, false
}

// LevelForPercent classifies an already computed progress percentage, for
// display code that only has the float.
func LevelForPercent(pct float64) (Severity, bool) {
	switch {
	case pct >= CriticalPercent:
		return Critical, true
	case pct >= WarnPercent:
		return Warning, true
	}
	return 0, false
}

// Evaluate checks the post-payment level of a category. It fires on every
// payment that leaves the category at or above a threshold, not only on the
// payment that crosses it, so the pre-payment spend is not consulted.
func Evaluate(_, newSpent, limit decimal.Decimal, c model.Category) (Notification, bool) {
	sev, ok := Level(newSpent, limit)
	if !ok {
		return Notification{}, false
	}
	if sev == Critical {
		return Notification{
			Severity: Critical,
			Category: c,
			Message:  "exceeded limit for " + c.String(),
		}, true
	}
	return Notification{
		Severity: Warning,
		Category: c,
		Message:  "80% of budget used for " + c.String(),
	}, true
}
