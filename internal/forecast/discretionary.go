package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/cashcast/backend/internal/merchant"
)

const (
	discretionaryLookbackMonths = 6
	discretionaryMinOccurrences = 3
	// Holiday-season transactions are excluded from frequency and
	// day-of-week weighting once this many non-holiday points exist.
	holidayFilterMinPoints = 10
	maxTypicalMerchants    = 8
)

// DetectDiscretionaryPatterns models spending that recurring detection did
// not absorb: per-category weekly frequency, amount distribution,
// day-of-week distribution, and a ranked merchant rotation list. Income,
// transfers, never-recurring merchants, and the Travel category (too
// event-driven to schedule statistically) are excluded.
func DetectDiscretionaryPatterns(clean []CleanTransaction, series []RecurringSeries, now time.Time) []DiscretionaryPattern {
	recurringMerchants := make(map[string]bool, len(series))
	for _, s := range series {
		recurringMerchants[s.Merchant] = true
	}

	today := midnight(now)
	cutoff := today.AddDate(0, -discretionaryLookbackMonths, 0)

	byCategory := make(map[merchant.Category][]CleanTransaction)
	for _, tx := range clean {
		if tx.Amount >= 0 {
			continue
		}
		if tx.Date.Before(cutoff) {
			continue
		}
		switch tx.Category {
		case merchant.CategoryTransfer, merchant.CategoryIncome, merchant.CategoryTravel:
			continue
		}
		if recurringMerchants[tx.Merchant] || merchant.IsNeverRecurring(tx.Merchant) {
			continue
		}
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}

	categories := make([]merchant.Category, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	var patterns []DiscretionaryPattern
	for _, cat := range categories {
		group := byCategory[cat]
		if len(group) < discretionaryMinOccurrences {
			continue
		}
		patterns = append(patterns, buildPattern(cat, group, today))
	}
	return patterns
}

func buildPattern(cat merchant.Category, group []CleanTransaction, today time.Time) DiscretionaryPattern {
	// November/December spending skews the rest of the year; drop it from
	// frequency and day-of-week weighting when enough other data exists.
	// The same filter applies to both the count and the span denominator.
	nonHoliday := make([]CleanTransaction, 0, len(group))
	for _, tx := range group {
		if m := tx.Date.Month(); m != time.November && m != time.December {
			nonHoliday = append(nonHoliday, tx)
		}
	}
	frequencySet := group
	holidayFiltered := false
	if len(nonHoliday) >= holidayFilterMinPoints {
		frequencySet = nonHoliday
		holidayFiltered = true
	}

	earliest := frequencySet[0].Date
	for _, tx := range frequencySet {
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
	}
	spanDays := countedSpanDays(earliest, today, holidayFiltered)
	weeklyCount := float64(len(frequencySet)) / (spanDays / 7)

	absAmounts := make([]float64, len(group))
	for i, tx := range group {
		absAmounts[i] = math.Abs(tx.Amount)
	}

	var weights [7]float64
	for _, tx := range frequencySet {
		weights[int(tx.Date.Weekday())]++
	}
	for i := range weights {
		weights[i] /= float64(len(frequencySet))
	}

	return DiscretionaryPattern{
		Category:         cat,
		AvgWeeklyCount:   math.Round(weeklyCount*100) / 100,
		AvgAmount:        round2(median(absAmounts)),
		RecentAvgAmount:  round2(recencyWeightedMean(absAmounts)),
		AmountStdDev:     round2(stdDev(absAmounts)),
		TypicalMerchants: rankMerchants(group),
		DayOfWeekWeights: weights,
	}
}

// countedSpanDays measures the observation span in days; when the holiday
// filter is active, November and December days are excluded from the span
// so the denominator matches the filtered count.
func countedSpanDays(from, to time.Time, holidayFiltered bool) float64 {
	days := 0.0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if holidayFiltered {
			if m := d.Month(); m == time.November || m == time.December {
				continue
			}
		}
		days++
	}
	if days < 7 {
		days = 7
	}
	return days
}

// rankMerchants returns up to maxTypicalMerchants names ordered by
// descending frequency, ties broken alphabetically.
func rankMerchants(group []CleanTransaction) []string {
	counts := make(map[string]int)
	for _, tx := range group {
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
	if len(names) > maxTypicalMerchants {
		names = names[:maxTypicalMerchants]
	}
	return names
}
