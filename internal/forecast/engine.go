package forecast

import (
	"math"
	"time"

	"github.com/cashcast/backend/internal/merchant"
)

// Engine runs the forecast pipeline. It holds no state between calls:
// every invocation recomputes from the supplied history, and concurrent
// calls share nothing.
type Engine struct{}

// NewEngine returns a forecast engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Forecast produces the 90-day schedule of predicted transactions for the
// given raw history, analyzed as of now. Output is deterministic for a
// given history and calendar day.
func (e *Engine) Forecast(raw []RawTransaction, now time.Time) Forecast {
	clean := Normalize(raw)
	merged := MergeSplitPayments(clean)

	series := DetectRecurringSeries(merged, now)
	patterns := DetectDiscretionaryPatterns(merged, series, now)

	rng := newLCG(dateSeed(now.Year(), int(now.Month()), now.Day()))

	preds := ScheduleRecurring(series, now)
	preds = append(preds, ScheduleDiscretionary(patterns, now, rng)...)
	if income, ok := DetectVariableIncome(merged, series, now); ok {
		preds = append(preds, ProjectVariableIncome(income, now, rng)...)
	}

	return ValidateForecast(preds, now)
}

// Profile summarizes the detected financial structure for external
// collaborators (commentary generation, clarification prompts). The
// engine neither depends on nor waits for those collaborators.
func (e *Engine) Profile(raw []RawTransaction, now time.Time) FinancialProfile {
	clean := Normalize(raw)
	merged := MergeSplitPayments(clean)

	series := DetectRecurringSeries(merged, now)
	patterns := DetectDiscretionaryPatterns(merged, series, now)

	incomeMedian, expenseMedian := monthlyMedians(merged)

	tail := merged
	if len(tail) > 50 {
		tail = tail[len(tail)-50:]
	}
	recent := make([]CleanTransaction, len(tail))
	copy(recent, tail)

	if series == nil {
		series = []RecurringSeries{}
	}
	if patterns == nil {
		patterns = []DiscretionaryPattern{}
	}
	return FinancialProfile{
		RecurringSeries:       series,
		DiscretionaryPatterns: patterns,
		MonthlyIncomeMedian:   incomeMedian,
		MonthlyExpenseMedian:  expenseMedian,
		RecentTransactions:    recent,
	}
}

// monthlyMedians computes the median per-calendar-month income and expense
// totals across the history. Transfers are excluded from both.
func monthlyMedians(clean []CleanTransaction) (income, expense float64) {
	type month struct {
		year int
		mon  time.Month
	}
	incomeByMonth := make(map[month]float64)
	expenseByMonth := make(map[month]float64)
	for _, tx := range clean {
		if tx.Category == merchant.CategoryTransfer {
			continue
		}
		m := month{tx.Date.Year(), tx.Date.Month()}
		if tx.Amount > 0 {
			incomeByMonth[m] += tx.Amount
		} else {
			expenseByMonth[m] += math.Abs(tx.Amount)
		}
	}

	collect := func(byMonth map[month]float64) []float64 {
		vals := make([]float64, 0, len(byMonth))
		for _, v := range byMonth {
			vals = append(vals, v)
		}
		return vals
	}
	return round2(median(collect(incomeByMonth))), round2(median(collect(expenseByMonth)))
}
