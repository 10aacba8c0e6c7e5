package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// A new charge joins a cluster when it lands within this many days of
	// the previous member.
	splitMemberGapDays = 3
	// A cluster never spans more than this many days end to end.
	splitClusterSpanDays = 7
)

// MergeSplitPayments collapses same-merchant charges posted within a short
// window into one logical transaction — a payment split across cards or
// posted in parts. Two guards keep real recurring charges apart: income is
// never merged (distinct paychecks from one employer are distinct events),
// and a charge whose amount is cent-identical to one already in the cluster
// starts a new cluster instead (two equal subscription charges close
// together are two charges, not a split).
func MergeSplitPayments(clean []CleanTransaction) []CleanTransaction {
	byMerchant := make(map[string][]CleanTransaction)
	order := make([]string, 0)
	for _, tx := range clean {
		if _, ok := byMerchant[tx.Merchant]; !ok {
			order = append(order, tx.Merchant)
		}
		byMerchant[tx.Merchant] = append(byMerchant[tx.Merchant], tx)
	}

	merged := make([]CleanTransaction, 0, len(clean))
	for _, name := range order {
		group := byMerchant[name]
		var cluster []CleanTransaction
		for _, tx := range group {
			if len(cluster) > 0 && belongsToCluster(cluster, tx) {
				cluster = append(cluster, tx)
				continue
			}
			if len(cluster) > 0 {
				merged = append(merged, collapseCluster(cluster))
			}
			cluster = []CleanTransaction{tx}
		}
		if len(cluster) > 0 {
			merged = append(merged, collapseCluster(cluster))
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

func belongsToCluster(cluster []CleanTransaction, tx CleanTransaction) bool {
	// Income stays unmerged.
	if tx.Amount > 0 || cluster[0].Amount > 0 {
		return false
	}
	last := cluster[len(cluster)-1]
	if daysBetween(last.Date, tx.Date) > splitMemberGapDays {
		return false
	}
	if daysBetween(cluster[0].Date, tx.Date) > splitClusterSpanDays {
		return false
	}
	txCents := decimal.NewFromFloat(tx.Amount).Round(2)
	for _, member := range cluster {
		if decimal.NewFromFloat(member.Amount).Round(2).Equal(txCents) {
			return false
		}
	}
	return true
}

func collapseCluster(cluster []CleanTransaction) CleanTransaction {
	if len(cluster) == 1 {
		return cluster[0]
	}
	total := decimal.Zero
	for _, tx := range cluster {
		total = total.Add(decimal.NewFromFloat(tx.Amount))
	}
	out := cluster[0] // earliest date, merchant, category
	amount, _ := total.Round(2).Float64()
	out.Amount = amount
	return out
}

func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
