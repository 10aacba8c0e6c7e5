package forecast

import (
	"math"
	"sort"
	"time"
)

// maxForwardSteps bounds the forward iteration per cadence. The bound must
// cover a series sitting just under the staleness threshold: a monthly
// series can be ~75 days behind and still owe occurrences at the far end
// of the 90-day window, so monthly needs 6 steps and quarterly 4.
var maxForwardSteps = map[Cadence]int{
	CadenceWeekly:    18,
	CadenceBiweekly:  9,
	CadenceMonthly:   6,
	CadenceQuarterly: 4,
}

// Trend-driven amount adjustment never exceeds this fraction of the base.
const maxTrendAdjustment = 0.30

// ScheduleRecurring deterministically projects each recurring series to
// concrete dated transactions inside the forecast window.
func ScheduleRecurring(series []RecurringSeries, now time.Time) []PredictedTransaction {
	today := midnight(now)
	windowStart := today.AddDate(0, 0, 1)
	windowEnd := today.AddDate(0, 0, ForecastPeriodDays+1)

	var preds []PredictedTransaction
	for _, s := range series {
		preds = append(preds, scheduleSeries(s, windowStart, windowEnd)...)
	}
	return preds
}

func scheduleSeries(s RecurringSeries, windowStart, windowEnd time.Time) []PredictedTransaction {
	var preds []PredictedTransaction
	for step := 1; step <= maxForwardSteps[s.Cadence]; step++ {
		date := nextOccurrence(s, step)
		if date.After(windowEnd) {
			break
		}
		if date.Before(windowStart) {
			continue
		}

		posted := date
		// ACH-style billers pull on business days; subscription merchants
		// charge on the exact calendar day.
		if !s.IsSubscription {
			switch posted.Weekday() {
			case time.Saturday:
				posted = posted.AddDate(0, 0, -1)
			case time.Sunday:
				posted = posted.AddDate(0, 0, 1)
			}
		}
		if posted.Before(windowStart) || posted.After(windowEnd) {
			continue
		}

		amount := occurrenceAmount(s, step)
		if s.Type == TypeExpense {
			amount = -amount
		}

		preds = append(preds, PredictedTransaction{
			Date:            posted,
			DayOfWeek:       posted.Weekday().String(),
			Merchant:        s.Merchant,
			Amount:          amount,
			Category:        s.Category,
			Type:            s.Type,
			ConfidenceScore: s.Confidence,
		})
	}
	return preds
}

// nextOccurrence computes the step'th occurrence after the last real one.
// Weekly and biweekly series step by fixed day counts, realigned to the
// anchor weekday; monthly and quarterly series step by calendar months on
// the anchor day-of-month, clamped to the target month's length.
func nextOccurrence(s RecurringSeries, step int) time.Time {
	last := midnight(s.LastOccurrence)
	switch s.Cadence {
	case CadenceWeekly, CadenceBiweekly:
		days := 7 * step
		if s.Cadence == CadenceBiweekly {
			days = 14 * step
		}
		date := last.AddDate(0, 0, days)
		if s.Cadence == CadenceWeekly {
			date = alignWeekday(date, time.Weekday(s.AnchorDay))
		}
		return date
	case CadenceQuarterly:
		return monthStep(last, 3*step, s.AnchorDay)
	default:
		return monthStep(last, step, s.AnchorDay)
	}
}

// alignWeekday nudges a date by at most three days to land on the target
// weekday.
func alignWeekday(date time.Time, target time.Weekday) time.Time {
	diff := (int(target) - int(date.Weekday()) + 7) % 7
	if diff > 3 {
		diff -= 7
	}
	return date.AddDate(0, 0, diff)
}

// monthStep advances by whole calendar months and pins the anchor day,
// clamped so Jan 31 + 1 month lands on the last day of February rather
// than spilling into March.
func monthStep(last time.Time, months, anchorDay int) time.Time {
	target := time.Date(last.Year(), last.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := target.AddDate(0, 1, -1).Day()
	day := anchorDay
	if day < 1 {
		day = last.Day()
	}
	if day > lastDay {
		day = lastDay
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

// occurrenceAmount applies the series trend to variable amounts as a
// per-occurrence monthly-equivalent multiplier, capped at ±30% total.
func occurrenceAmount(s RecurringSeries, step int) float64 {
	base := s.TypicalAmount
	if !s.AmountIsFixed {
		base = s.RecentAmount
		perOccurrence := s.AmountTrend * s.Cadence.Days() / 30.0
		mult := 1 + perOccurrence*float64(step)
		if mult > 1+maxTrendAdjustment {
			mult = 1 + maxTrendAdjustment
		}
		if mult < 1-maxTrendAdjustment {
			mult = 1 - maxTrendAdjustment
		}
		base *= mult
	}
	return round2(base)
}

// ScheduleDiscretionary statistically samples dated transactions for each
// discretionary pattern using the seeded generator, so output is
// reproducible for a given analysis date.
func ScheduleDiscretionary(patterns []DiscretionaryPattern, now time.Time, rng *lcg) []PredictedTransaction {
	today := midnight(now)
	start := today.AddDate(0, 0, 1)

	ordered := make([]DiscretionaryPattern, len(patterns))
	copy(ordered, patterns)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Category < ordered[j].Category })

	var preds []PredictedTransaction
	for _, p := range ordered {
		preds = append(preds, samplePattern(p, start, rng)...)
	}
	return preds
}

func samplePattern(p DiscretionaryPattern, start time.Time, rng *lcg) []PredictedTransaction {
	expected := int(math.Round(p.AvgWeeklyCount * ForecastPeriodDays / 7.0))
	if expected <= 0 {
		return nil
	}

	// Build a pool of day offsets where each day appears proportionally
	// to its day-of-week weight, then sample distinct days from it.
	pool := make([]int, 0, ForecastPeriodDays*10)
	for offset := 0; offset < ForecastPeriodDays; offset++ {
		weekday := int(start.AddDate(0, 0, offset).Weekday())
		reps := int(math.Round(p.DayOfWeekWeights[weekday] * 70))
		for r := 0; r < reps; r++ {
			pool = append(pool, offset)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	chosen := make(map[int]bool)
	offsets := make([]int, 0, expected)
	for attempts := 0; len(offsets) < expected && attempts < expected*10; attempts++ {
		offset := pool[rng.Intn(len(pool))]
		if chosen[offset] {
			continue
		}
		chosen[offset] = true
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	preds := make([]PredictedTransaction, 0, len(offsets))
	for i, offset := range offsets {
		date := start.AddDate(0, 0, offset)

		base := p.RecentAvgAmount
		if base == 0 {
			base = p.AvgAmount
		}
		amount := base + rng.Norm()*p.AmountStdDev/2
		// Noise never flips an expense into income.
		if amount < base*0.1 {
			amount = base * 0.1
		}
		amount = round2(amount)

		name := string(p.Category)
		if len(p.TypicalMerchants) > 0 {
			name = p.TypicalMerchants[i%len(p.TypicalMerchants)]
		}

		preds = append(preds, PredictedTransaction{
			Date:            date,
			DayOfWeek:       date.Weekday().String(),
			Merchant:        name,
			Amount:          -amount,
			Category:        p.Category,
			Type:            TypeExpense,
			ConfidenceScore: ConfidenceMedium,
		})
	}
	return preds
}
