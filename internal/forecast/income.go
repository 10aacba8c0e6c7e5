package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/cashcast/backend/internal/merchant"
)

const (
	variableIncomeLookbackDays = 90
	variableIncomeMinDeposits  = 3
	variableIncomeMinMedian    = 25.0
	// Deposit dates jitter by at most this many days either side of the
	// even spacing; amounts jitter by at most this fraction of the median.
	variableIncomeDateJitter   = 2
	variableIncomeAmountJitter = 0.25
)

// DetectVariableIncome catches irregular but real income — gig, hourly,
// freelance deposits — that fails strict cadence detection. It requires
// enough qualifying deposits in the trailing 90 days and labels the
// pattern with the most frequent payer.
func DetectVariableIncome(clean []CleanTransaction, series []RecurringSeries, now time.Time) (VariableIncomePattern, bool) {
	recurringMerchants := make(map[string]bool, len(series))
	for _, s := range series {
		recurringMerchants[s.Merchant] = true
	}

	today := midnight(now)
	cutoff := today.AddDate(0, 0, -variableIncomeLookbackDays)

	var deposits []CleanTransaction
	for _, tx := range clean {
		if tx.Amount <= 0 || tx.Date.Before(cutoff) {
			continue
		}
		if tx.Category == merchant.CategoryTransfer {
			continue
		}
		if recurringMerchants[tx.Merchant] || merchant.IsNeverRecurring(tx.Merchant) {
			continue
		}
		deposits = append(deposits, tx)
	}
	if len(deposits) < variableIncomeMinDeposits {
		return VariableIncomePattern{}, false
	}

	amounts := make([]float64, len(deposits))
	for i, tx := range deposits {
		amounts[i] = tx.Amount
	}
	med := median(amounts)
	weeklyRate := float64(len(deposits)) / (variableIncomeLookbackDays / 7.0)
	if med < variableIncomeMinMedian || weeklyRate <= 0 {
		return VariableIncomePattern{}, false
	}

	return VariableIncomePattern{
		Merchant:     mostFrequentPayer(deposits),
		MedianAmount: round2(med),
		WeeklyRate:   weeklyRate,
		Count:        len(deposits),
	}, true
}

// ProjectVariableIncome spreads predicted deposits evenly across the
// forecast window with small date and amount jitter, tagged low
// confidence. Jitter comes from the shared seeded generator so the
// projection is stable within a day.
func ProjectVariableIncome(p VariableIncomePattern, now time.Time, rng *lcg) []PredictedTransaction {
	expected := int(math.Round(p.WeeklyRate * ForecastPeriodDays / 7.0))
	if expected <= 0 {
		return nil
	}

	start := midnight(now).AddDate(0, 0, 1)
	interval := float64(ForecastPeriodDays) / float64(expected)

	preds := make([]PredictedTransaction, 0, expected)
	for i := 0; i < expected; i++ {
		offset := int(math.Round(float64(i)*interval + interval/2))
		offset += rng.Intn(2*variableIncomeDateJitter+1) - variableIncomeDateJitter
		if offset < 0 {
			offset = 0
		}
		if offset >= ForecastPeriodDays {
			offset = ForecastPeriodDays - 1
		}
		date := start.AddDate(0, 0, offset)

		jitter := (rng.Float64()*2 - 1) * variableIncomeAmountJitter
		amount := round2(p.MedianAmount * (1 + jitter))

		preds = append(preds, PredictedTransaction{
			Date:            date,
			DayOfWeek:       date.Weekday().String(),
			Merchant:        p.Merchant,
			Amount:          amount,
			Category:        merchant.CategoryIncome,
			Type:            TypeIncome,
			ConfidenceScore: ConfidenceLow,
		})
	}
	return preds
}

func mostFrequentPayer(deposits []CleanTransaction) string {
	counts := make(map[string]int)
	for _, tx := range deposits {
		counts[tx.Merchant]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names[0]
}
