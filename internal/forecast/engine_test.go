package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

// sampleHistory builds eight months of feed history in the feed's sign
// convention (positive = expense, negative = income): a monthly streaming
// subscription, a biweekly paycheck, and a coffee run every few days.
func sampleHistory() []RawTransaction {
	var raw []RawTransaction

	for m := time.January; m <= time.August; m++ {
		raw = append(raw, RawTransaction{
			Date:         fmt.Sprintf("2026-%02d-10", m),
			Amount:       15.49,
			MerchantName: "Netflix",
		})
	}

	// Paydays are every other Friday; 2026-01-02 is one.
	for d := date("2026-01-02"); !d.After(date("2026-08-28")); d = d.AddDate(0, 0, 14) {
		raw = append(raw, RawTransaction{
			Date:         d.Format("2006-01-02"),
			Amount:       -2400,
			MerchantName: "ACME CORP PAYROLL",
		})
	}

	for i, d := 0, date("2026-06-01"); !d.After(date("2026-08-25")); i, d = i+1, d.AddDate(0, 0, 3) {
		raw = append(raw, RawTransaction{
			Date:         d.Format("2006-01-02"),
			Amount:       4.50 + float64(i%3),
			MerchantName: "STARBUCKS STORE 08234",
		})
	}

	return raw
}

func TestEngine_ForecastDeterministic(t *testing.T) {
	e := NewEngine()
	now := date("2026-08-30")
	raw := sampleHistory()

	first, err := json.Marshal(e.Forecast(raw, now))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(e.Forecast(raw, now))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("same history and date produced different forecasts")
	}
}

func TestEngine_ForecastInvariants(t *testing.T) {
	e := NewEngine()
	now := date("2026-08-30")

	f := e.Forecast(sampleHistory(), now)
	if f.ForecastPeriodDays != 90 {
		t.Errorf("forecast_period_days = %d, want 90", f.ForecastPeriodDays)
	}
	if len(f.PredictedTransactions) == 0 {
		t.Fatal("got an empty forecast from a rich history")
	}

	windowStart := date("2026-08-31")
	windowEnd := date("2026-11-29")
	seen := make(map[string]bool)
	var last time.Time
	for _, p := range f.PredictedTransactions {
		if p.Date.Before(windowStart) || p.Date.After(windowEnd) {
			t.Errorf("%v outside forecast window", p.Date)
		}
		if p.Amount == 0 {
			t.Errorf("%v %s: zero amount", p.Date, p.Merchant)
		}
		if (p.Amount < 0) != (p.Type == TypeExpense) {
			t.Errorf("%v %s: sign disagrees with type %q", p.Date, p.Merchant, p.Type)
		}
		key := fmt.Sprintf("%s|%s|%.2f", p.Date.Format("2006-01-02"), p.Merchant, p.Amount)
		if seen[key] {
			t.Errorf("duplicate prediction %s", key)
		}
		seen[key] = true
		if p.Date.Before(last) {
			t.Errorf("predictions out of order at %v", p.Date)
		}
		last = p.Date
	}
}

func TestEngine_ForecastFindsKnownSeries(t *testing.T) {
	e := NewEngine()
	f := e.Forecast(sampleHistory(), date("2026-08-30"))

	var netflixDates []string
	var paychecks int
	for _, p := range f.PredictedTransactions {
		switch p.Merchant {
		case "Netflix":
			netflixDates = append(netflixDates, p.Date.Format("2006-01-02"))
			if p.Amount != -15.49 {
				t.Errorf("Netflix amount = %v, want -15.49", p.Amount)
			}
		case "Acme Corp Payroll":
			paychecks++
			if p.Amount <= 0 {
				t.Errorf("paycheck amount = %v, want positive", p.Amount)
			}
			if p.Type != TypeIncome {
				t.Errorf("paycheck type = %q, want income", p.Type)
			}
		}
	}

	// Subscriptions bill on the exact anchor day, weekends included.
	want := []string{"2026-09-10", "2026-10-10", "2026-11-10"}
	if len(netflixDates) != len(want) {
		t.Fatalf("Netflix projections = %v, want %v", netflixDates, want)
	}
	for i := range want {
		if netflixDates[i] != want[i] {
			t.Fatalf("Netflix projections = %v, want %v", netflixDates, want)
		}
	}

	if paychecks == 0 {
		t.Error("no projected paychecks")
	}
}

func TestEngine_EmptyHistory(t *testing.T) {
	e := NewEngine()
	f := e.Forecast(nil, date("2026-08-30"))
	if f.ForecastPeriodDays != 90 {
		t.Errorf("forecast_period_days = %d, want 90", f.ForecastPeriodDays)
	}
	if len(f.PredictedTransactions) != 0 {
		t.Errorf("got %d predictions from empty history, want 0", len(f.PredictedTransactions))
	}
}

func TestEngine_Profile(t *testing.T) {
	e := NewEngine()
	p := e.Profile(sampleHistory(), date("2026-08-30"))

	if len(p.RecurringSeries) == 0 {
		t.Error("profile has no recurring series")
	}
	if len(p.DiscretionaryPatterns) == 0 {
		t.Error("profile has no discretionary patterns")
	}
	if p.MonthlyIncomeMedian <= 0 {
		t.Errorf("monthly_income_median = %v, want positive", p.MonthlyIncomeMedian)
	}
	if p.MonthlyExpenseMedian <= 0 {
		t.Errorf("monthly_expense_median = %v, want positive", p.MonthlyExpenseMedian)
	}
	if len(p.RecentTransactions) == 0 || len(p.RecentTransactions) > 50 {
		t.Errorf("recent_transactions length = %d, want 1..50", len(p.RecentTransactions))
	}
}

func TestEngine_ProfileEmptyHistory(t *testing.T) {
	e := NewEngine()
	p := e.Profile(nil, date("2026-08-30"))
	if p.RecurringSeries == nil || p.DiscretionaryPatterns == nil {
		t.Error("profile slices should be empty, not nil, for JSON encoding")
	}
	if len(p.RecurringSeries) != 0 || len(p.DiscretionaryPatterns) != 0 {
		t.Error("empty history should yield empty profile")
	}
}
