package forecast

import (
	"testing"

	"github.com/cashcast/backend/internal/merchant"
)

func TestDetectVariableIncome(t *testing.T) {
	history := []CleanTransaction{
		cleanTx("2026-06-05", "Upwork", 300, merchant.CategoryIncome),
		cleanTx("2026-06-20", "Upwork", 150, merchant.CategoryIncome),
		cleanTx("2026-07-08", "Venmo", 450, merchant.CategoryIncome),
		cleanTx("2026-07-30", "Upwork", 200, merchant.CategoryIncome),
		cleanTx("2026-08-15", "Venmo", 380, merchant.CategoryIncome),
	}
	p, ok := DetectVariableIncome(history, nil, date("2026-08-30"))
	if !ok {
		t.Fatal("got ok=false, want a pattern")
	}
	if p.Merchant != "Upwork" {
		t.Errorf("merchant = %q, want most frequent payer Upwork", p.Merchant)
	}
	if p.MedianAmount != 300 {
		t.Errorf("median_amount = %v, want 300", p.MedianAmount)
	}
	if p.Count != 5 {
		t.Errorf("count = %d, want 5", p.Count)
	}
	if p.WeeklyRate <= 0 {
		t.Errorf("weekly_rate = %v, want positive", p.WeeklyRate)
	}
}

func TestDetectVariableIncome_Rejections(t *testing.T) {
	now := date("2026-08-30")

	// Too few deposits.
	few := []CleanTransaction{
		cleanTx("2026-07-08", "Upwork", 300, merchant.CategoryIncome),
		cleanTx("2026-08-15", "Upwork", 380, merchant.CategoryIncome),
	}
	if _, ok := DetectVariableIncome(few, nil, now); ok {
		t.Error("two deposits should not form a pattern")
	}

	// Median below the floor: pocket-change deposits are ignored.
	tiny := []CleanTransaction{
		cleanTx("2026-07-01", "Venmo", 10, merchant.CategoryIncome),
		cleanTx("2026-07-15", "Venmo", 12, merchant.CategoryIncome),
		cleanTx("2026-08-01", "Venmo", 8, merchant.CategoryIncome),
	}
	if _, ok := DetectVariableIncome(tiny, nil, now); ok {
		t.Error("sub-$25 median should not form a pattern")
	}

	// Transfers never count as income.
	transfers := []CleanTransaction{
		cleanTx("2026-07-01", "Wire From Savings", 500, merchant.CategoryTransfer),
		cleanTx("2026-07-15", "Wire From Savings", 500, merchant.CategoryTransfer),
		cleanTx("2026-08-01", "Wire From Savings", 500, merchant.CategoryTransfer),
	}
	if _, ok := DetectVariableIncome(transfers, nil, now); ok {
		t.Error("transfers should not form a pattern")
	}

	// Deposits already claimed by a recurring series.
	claimed := []CleanTransaction{
		cleanTx("2026-07-01", "Acme Payroll", 2400, merchant.CategoryIncome),
		cleanTx("2026-07-15", "Acme Payroll", 2400, merchant.CategoryIncome),
		cleanTx("2026-08-01", "Acme Payroll", 2400, merchant.CategoryIncome),
	}
	series := []RecurringSeries{{Merchant: "Acme Payroll"}}
	if _, ok := DetectVariableIncome(claimed, series, now); ok {
		t.Error("recurring payer should not form a pattern")
	}

	// Deposits older than the 90-day lookback.
	stale := []CleanTransaction{
		cleanTx("2026-01-05", "Upwork", 300, merchant.CategoryIncome),
		cleanTx("2026-02-05", "Upwork", 300, merchant.CategoryIncome),
		cleanTx("2026-03-05", "Upwork", 300, merchant.CategoryIncome),
	}
	if _, ok := DetectVariableIncome(stale, nil, now); ok {
		t.Error("stale deposits should not form a pattern")
	}
}

func TestProjectVariableIncome(t *testing.T) {
	p := VariableIncomePattern{
		Merchant:     "Upwork",
		MedianAmount: 300,
		WeeklyRate:   0.7,
		Count:        9,
	}
	now := date("2026-08-30")

	first := ProjectVariableIncome(p, now, newLCG(dateSeed(2026, 8, 30)))
	second := ProjectVariableIncome(p, now, newLCG(dateSeed(2026, 8, 30)))

	// 0.7/week over 90 days rounds to 9 deposits.
	if len(first) != 9 {
		t.Fatalf("got %d deposits, want 9", len(first))
	}
	if len(second) != len(first) {
		t.Fatalf("runs differ in length: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	windowStart := date("2026-08-31")
	windowEnd := date("2026-11-28")
	for _, d := range first {
		if d.Date.Before(windowStart) || d.Date.After(windowEnd) {
			t.Errorf("%v outside forecast window", d.Date)
		}
		if d.Amount < 225 || d.Amount > 375 {
			t.Errorf("%v: amount = %v, want within ±25%% of the median", d.Date, d.Amount)
		}
		if d.Type != TypeIncome || d.Category != merchant.CategoryIncome {
			t.Errorf("%v: type/category = %q/%q, want income", d.Date, d.Type, d.Category)
		}
		if d.ConfidenceScore != ConfidenceLow {
			t.Errorf("%v: confidence = %q, want low", d.Date, d.ConfidenceScore)
		}
	}
}

func TestMostFrequentPayer_TiesBreakAlphabetically(t *testing.T) {
	deposits := []CleanTransaction{
		cleanTx("2026-08-01", "Venmo", 100, merchant.CategoryIncome),
		cleanTx("2026-08-10", "Cash App", 100, merchant.CategoryIncome),
	}
	if got := mostFrequentPayer(deposits); got != "Cash App" {
		t.Errorf("payer = %q, want Cash App", got)
	}
}
