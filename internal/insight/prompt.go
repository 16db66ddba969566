package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/model"
)

// TipsPrompt asks for general student finance tips.
const TipsPrompt = "Generate 3 quick, short financial tips for a college student. Each tip should be under 15 words."

const recentForPrompt = 5

// CategoryPrompt builds the advice request for category c.
func CategoryPrompt(state model.LedgerState, c model.Category) (string, error) {
	cs, ok := state.Category(c)
	if !ok {
		return "", fmt.Errorf("%w: %d", model.ErrUnknownCategory, int(c))
	}
	recent := cs.Transactions
	if len(recent) > recentForPrompt {
		recent = recent[:recentForPrompt]
	}
	if recent == nil {
		recent = []model.Transaction{}
	}
	txJSON, err := json.Marshal(recent)
	if err != nil {
		return "", fmt.Errorf("encoding transactions: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a friendly financial assistant for college students.\n")
	fmt.Fprintf(&b, "Analyze the following data for the %s category:\n", c)
	fmt.Fprintf(&b, "- Current Spending: $%s\n", cs.Spent)
	fmt.Fprintf(&b, "- Monthly Limit: $%s\n", cs.Limit)
	fmt.Fprintf(&b, "- Recent Transactions: %s\n", txJSON)
	fmt.Fprintf(&b, "- Emergency Fund: $%s\n\n", state.EmergencyFund)
	b.WriteString("Provide a short, 2-sentence piece of advice or an insight to help this student manage their money better in this specific category. ")
	b.WriteString("Be supportive and practical. Use a helpful tone.")
	return b.String(), nil
}

// parseTips decodes a JSON array of strings, tolerating markdown code fences
// and surrounding prose. Blank entries are dropped.
func parseTips(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parsing tips: %w", err)
	}
	tips := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
	}
	return tips, nil
}
