package forecast

import (
	"math"
	"sort"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdDev is the sample standard deviation; fewer than two values yields 0.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// removeOutliersIQR drops values outside 1.5× the interquartile range.
// Too few values to form quartiles are returned unchanged.
func removeOutliersIQR(values []float64) []float64 {
	if len(values) < 4 {
		return values
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return values
	}
	return kept
}

// quantile interpolates linearly on an already-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// recencyWeightedMean weights values by 1.5^index so the newest (last)
// value counts most.
func recencyWeightedMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var weighted, total float64
	for i, v := range values {
		w := math.Pow(1.5, float64(i))
		weighted += v * w
		total += w
	}
	return weighted / total
}

// modeInt returns the most frequent value; ties break toward the smaller
// value for determinism.
func modeInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := values[0], 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
