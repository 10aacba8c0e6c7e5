package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/cashcast/backend/internal/merchant"
)

// cadenceBand defines the inter-occurrence gap band for one cadence and
// the ceiling on gap dispersion before the series is rejected as noise.
type cadenceBand struct {
	cadence      Cadence
	minGap       float64
	maxGap       float64
	stdevCeiling float64
}

var cadenceBands = []cadenceBand{
	{CadenceWeekly, 4, 10, 4},
	{CadenceBiweekly, 11, 18, 6},
	{CadenceMonthly, 22, 40, 10},
	{CadenceQuarterly, 75, 110, 20},
}

// stalenessFactor: a series whose last occurrence is further back than
// this multiple of its cadence is presumed cancelled.
const stalenessFactor = 2.5

// eventDrivenCategories need more occurrences before a cadence is
// believed; these categories repeat by coincidence.
var eventDrivenCategories = map[merchant.Category]bool{
	merchant.CategoryTravel:        true,
	merchant.CategoryEntertainment: true,
	merchant.CategoryShopping:      true,
	merchant.CategoryPersonalCare:  true,
	merchant.CategoryGifts:         true,
}

// DetectRecurringSeries groups cleaned transactions by merchant and
// direction, fits a cadence to each group, and returns the series that
// pass the occurrence, consistency, and staleness tests.
func DetectRecurringSeries(clean []CleanTransaction, now time.Time) []RecurringSeries {
	type groupKey struct {
		merchant string
		income   bool
	}
	groups := make(map[groupKey][]CleanTransaction)
	order := make([]groupKey, 0)
	for _, tx := range clean {
		key := groupKey{tx.Merchant, tx.Amount > 0}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	today := midnight(now)
	var series []RecurringSeries
	for _, key := range order {
		group := groups[key]
		if merchant.IsNeverRecurring(key.merchant) {
			continue
		}
		if s, ok := fitSeries(key.merchant, key.income, group, today); ok {
			series = append(series, s)
		}
	}
	return series
}

func fitSeries(name string, income bool, group []CleanTransaction, today time.Time) (RecurringSeries, bool) {
	category := dominantCategory(group)
	isSub := merchant.IsSubscription(name)

	minOccurrences := 3
	switch {
	case income || isSub:
		minOccurrences = 2
	case eventDrivenCategories[category]:
		minOccurrences = 4
	}
	if len(group) < minOccurrences {
		return RecurringSeries{}, false
	}

	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Date.Before(group[j].Date)
	})

	gaps := make([]float64, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		days := group[i].Date.Sub(group[i-1].Date).Hours() / 24
		if days > 0 {
			gaps = append(gaps, days)
		}
	}
	if len(gaps) == 0 {
		return RecurringSeries{}, false
	}

	medianGap := median(gaps)
	gapStdev := stdDev(gaps)

	var band *cadenceBand
	for i := range cadenceBands {
		b := &cadenceBands[i]
		if medianGap >= b.minGap && medianGap <= b.maxGap {
			band = b
			break
		}
	}
	if band == nil || gapStdev > band.stdevCeiling {
		return RecurringSeries{}, false
	}

	last := group[len(group)-1].Date
	daysSinceLast := today.Sub(last).Hours() / 24
	cadenceDays := band.cadence.Days()
	if daysSinceLast > stalenessFactor*cadenceDays {
		return RecurringSeries{}, false
	}

	consistency := 0.0
	if medianGap > 0 {
		consistency = math.Max(0, 1-gapStdev/medianGap)
	}
	freshness := math.Max(0, 1-daysSinceLast/(stalenessFactor*cadenceDays))
	composite := 0.7*consistency + 0.3*freshness
	confidence := ConfidenceLow
	switch {
	case composite > 0.65:
		confidence = ConfidenceHigh
	case composite > 0.4:
		confidence = ConfidenceMedium
	}

	absAmounts := make([]float64, len(group))
	for i, tx := range group {
		absAmounts[i] = math.Abs(tx.Amount)
	}
	cleaned := removeOutliersIQR(absAmounts)

	typical := median(cleaned)
	recent := recencyWeightedMean(cleaned)
	fixed := false
	if m := mean(cleaned); m > 0 {
		fixed = stdDev(cleaned)/m < 0.08
	}

	txType := TypeExpense
	if income {
		txType = TypeIncome
	}

	return RecurringSeries{
		Merchant:       name,
		Category:       category,
		Type:           txType,
		Cadence:        band.cadence,
		AnchorDay:      anchorDay(band.cadence, group),
		TypicalAmount:  round2(typical),
		RecentAmount:   round2(recent),
		AmountTrend:    amountTrend(absAmounts),
		AmountIsFixed:  fixed,
		IsSubscription: isSub,
		LastOccurrence: last,
		Count:          len(group),
		Confidence:     confidence,
	}, true
}

// anchorDay picks the canonical scheduling day: the mode of day-of-week
// for weekly/biweekly series, the mode of day-of-month for monthly and
// quarterly ones. Using the mode rather than the last occurrence keeps a
// single late or early payment from skewing every projected date.
func anchorDay(cadence Cadence, group []CleanTransaction) int {
	days := make([]int, len(group))
	for i, tx := range group {
		if cadence == CadenceWeekly || cadence == CadenceBiweekly {
			days[i] = int(tx.Date.Weekday())
		} else {
			days[i] = tx.Date.Day()
		}
	}
	return modeInt(days)
}

// amountTrend is the relative change between the average of all-but-last-
// three occurrences and the average of the last three, on absolute values,
// so a rising trend always means "costing more" for either direction.
func amountTrend(absAmounts []float64) float64 {
	if len(absAmounts) < 4 {
		return 0
	}
	earlier := mean(absAmounts[:len(absAmounts)-3])
	latest := mean(absAmounts[len(absAmounts)-3:])
	if earlier == 0 {
		return 0
	}
	return round4((latest - earlier) / earlier)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func dominantCategory(group []CleanTransaction) merchant.Category {
	counts := make(map[merchant.Category]int)
	for _, tx := range group {
		counts[tx.Category]++
	}
	best := merchant.CategoryOther
	bestCount := 0
	for cat, count := range counts {
		if count > bestCount || (count == bestCount && cat < best) {
			best, bestCount = cat, count
		}
	}
	return best
}
