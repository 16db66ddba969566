package theme

import "testing"

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("nope"); got.Name != Fintrack.Name {
		t.Fatalf("ByName(nope) = %q, want %q", got.Name, Fintrack.Name)
	}
	for _, th := range All {
		if got := ByName(th.Name); got.Name != th.Name {
			t.Errorf("ByName(%q) = %q", th.Name, got.Name)
		}
	}
}

func TestLevelColor(t *testing.T) {
	Active = Fintrack
	tests := []struct {
		pct  float64
		want string
	}{
		{0, string(Fintrack.Green)},
		{79.9, string(Fintrack.Green)},
		{80, string(Fintrack.Amber)},
		{99.99, string(Fintrack.Amber)},
		{100, string(Fintrack.Red)},
		{250, string(Fintrack.Red)},
	}
	for _, tt := range tests {
		if got := string(LevelColor(tt.pct)); got != tt.want {
			t.Errorf("LevelColor(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
