package forecast

import (
	"sort"
	"strings"
	"time"
)

// ValidateForecast combines projected transactions into a well-formed
// Forecast: sorted ascending by date, deduplicated on (date, merchant,
// cent amount), dates clamped to the window, and every derived field
// recomputed from the final date and amount so entries are internally
// consistent. It is exported as a boundary function so forecasts produced
// outside the engine (a model-generated one, say) can be held to the same
// invariants before being trusted.
func ValidateForecast(preds []PredictedTransaction, now time.Time) Forecast {
	today := midnight(now)
	windowStart := today.AddDate(0, 0, 1)
	windowEnd := today.AddDate(0, 0, ForecastPeriodDays+1)

	seen := make(map[string]bool, len(preds))
	out := make([]PredictedTransaction, 0, len(preds))
	for _, p := range preds {
		if p.Amount == 0 || p.Date.IsZero() || strings.TrimSpace(p.Merchant) == "" {
			continue
		}

		date := midnight(p.Date)
		if date.Before(windowStart) {
			date = windowStart
		}
		if date.After(windowEnd) {
			date = windowEnd
		}

		key := dedupKey(date, p.Merchant, p.Amount)
		if seen[key] {
			continue
		}
		seen[key] = true

		p.Date = date
		p.DayOfWeek = date.Weekday().String()
		if p.Amount < 0 {
			p.Type = TypeExpense
		} else {
			p.Type = TypeIncome
		}
		if p.ConfidenceScore == "" {
			p.ConfidenceScore = ConfidenceMedium
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Merchant < out[j].Merchant
	})

	return Forecast{
		ForecastPeriodDays:    ForecastPeriodDays,
		PredictedTransactions: out,
	}
}
