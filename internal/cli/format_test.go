package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/fintrack/internal/notify"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2450", "$2,450.00"},
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-550", "-$550.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(150); got != "150.0%" {
		t.Errorf("FormatPercent(150) = %q", got)
	}
	if got := FormatPercent(43.125); got != "43.1%" {
		t.Errorf("FormatPercent(43.125) = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	for in, want := range map[int64]string{0: "0", 999: "999", 1000: "1,000", -1234567: "-1,234,567"} {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Uber to Campus", 8); got != "Uber to…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Bus", 8); got != "Bus" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestSeverityColor(t *testing.T) {
	if SeverityColor(notify.LevelForPercent(105)) != ColorRed ||
		SeverityColor(notify.LevelForPercent(80)) != ColorAmber ||
		SeverityColor(notify.LevelForPercent(79.9)) != ColorIndigo {
		t.Error("SeverityColor thresholds wrong")
	}
}

func TestRenderTable_ContainsCells(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Budgets",
		Headers: []string{"Category", "Spent"},
		Rows:    [][]string{{"Living", "$345.00"}, {"---"}, {"Total", "$425.00"}},
	})
	for _, want := range []string{"Budgets", "Category", "Living", "$345.00", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
