package forecast

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcast/backend/internal/merchant"
)

// Normalize converts raw feed transactions into clean internal ones:
// flips the sign convention (feed positive = expense, internal negative =
// expense), strips noise merchants, reclassifies mislabeled transfers, and
// deduplicates cross-account postings of the same real-world event.
// Malformed or unusable records are silently filtered, never propagated.
func Normalize(raw []RawTransaction) []CleanTransaction {
	clean := make([]CleanTransaction, 0, len(raw))
	seen := make(map[string]bool)

	for _, r := range raw {
		if r.Pending {
			continue
		}
		date, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		if r.Amount == 0 {
			continue
		}

		rawName := strings.TrimSpace(r.MerchantName)
		if rawName == "" {
			rawName = strings.TrimSpace(r.Name)
		}
		if rawName == "" {
			continue
		}
		// Noise check runs on the raw string and again after cleanup:
		// processor prefixes sometimes hide the noise keyword.
		if merchant.IsNoise(rawName) {
			continue
		}
		name := merchant.Clean(rawName)
		if merchant.IsNoise(name) {
			continue
		}

		// Feed convention is positive = expense; flip it.
		amount := -r.Amount
		category := merchant.Categorize(rawName, r.Category)

		if category == merchant.CategoryTransfer {
			switch {
			case amount > 0 && merchant.LooksLikeIncome(rawName, r.Category):
				// Direct deposits commonly arrive labeled as bare transfers.
				category = merchant.CategoryIncome
			case amount < 0 && merchant.LooksLikePayDown(rawName):
				// Paying down a balance double-counts the charges it settles.
				continue
			}
		}

		key := dedupKey(date, name, amount)
		if seen[key] {
			continue
		}
		seen[key] = true

		clean = append(clean, CleanTransaction{
			Date:      midnight(date),
			Merchant:  name,
			Amount:    amount,
			Category:  category,
			DayOfWeek: date.Weekday().String(),
		})
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.Before(clean[j].Date)
	})
	return clean
}

// dedupKey identifies a transaction by calendar day, merchant, and
// cent-rounded amount. Amounts go through decimal so float representation
// noise cannot split or collide keys.
func dedupKey(date time.Time, name string, amount float64) string {
	cents := decimal.NewFromFloat(amount).Round(2).StringFixed(2)
	return date.Format("2006-01-02") + "|" + strings.ToLower(name) + "|" + cents
}
