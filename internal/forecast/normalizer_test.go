package forecast

import (
	"testing"

	"github.com/cashcast/backend/internal/merchant"
)

func TestNormalize_SignFlip(t *testing.T) {
	clean := Normalize([]RawTransaction{
		{Date: "2026-03-02", Amount: 42.50, MerchantName: "STARBUCKS STORE 08234"},
		{Date: "2026-03-06", Amount: -2500, MerchantName: "ACME CORP PAYROLL"},
	})
	if len(clean) != 2 {
		t.Fatalf("got %d transactions, want 2", len(clean))
	}
	if clean[0].Amount != -42.50 {
		t.Errorf("expense amount = %v, want -42.50", clean[0].Amount)
	}
	if clean[1].Amount != 2500.0 {
		t.Errorf("income amount = %v, want 2500", clean[1].Amount)
	}
	if clean[0].DayOfWeek != "Monday" {
		t.Errorf("day_of_week = %q, want Monday", clean[0].DayOfWeek)
	}
}

func TestNormalize_DropsUnusable(t *testing.T) {
	clean := Normalize([]RawTransaction{
		{Date: "2026-03-02", Amount: 10, MerchantName: "Starbucks", Pending: true},
		{Date: "not-a-date", Amount: 10, MerchantName: "Starbucks"},
		{Date: "2026-03-02", Amount: 0, MerchantName: "Starbucks"},
		{Date: "2026-03-02", Amount: 10, MerchantName: ""},
		{Date: "2026-03-02", Amount: 120, MerchantName: "CREDIT CARD PAYMENT"},
		{Date: "2026-03-03", Amount: 55, MerchantName: "AUTOPAY RECEIVED"},
	})
	if len(clean) != 0 {
		t.Fatalf("got %d transactions, want 0", len(clean))
	}
}

func TestNormalize_TransferReclassification(t *testing.T) {
	clean := Normalize([]RawTransaction{
		// Feed negative = deposit; payroll vocabulary promotes it to Income.
		{Date: "2026-03-06", Amount: -1800, MerchantName: "ACME DIRECT DEP", Category: CategoryHints{"Transfer"}},
		// Outgoing pay-down of a card balance is dropped.
		{Date: "2026-03-07", Amount: 600, MerchantName: "CHASE EPAY", Category: CategoryHints{"Transfer"}},
		// A plain transfer stays a transfer.
		{Date: "2026-03-08", Amount: 300, MerchantName: "WIRE TO BROKERAGE", Category: CategoryHints{"Transfer"}},
	})
	if len(clean) != 2 {
		t.Fatalf("got %d transactions, want 2", len(clean))
	}
	if clean[0].Category != merchant.CategoryIncome {
		t.Errorf("deposit category = %q, want Income", clean[0].Category)
	}
	if clean[1].Category != merchant.CategoryTransfer {
		t.Errorf("wire category = %q, want Transfer", clean[1].Category)
	}
}

func TestNormalize_Deduplicates(t *testing.T) {
	// The same real-world event posted on two linked accounts.
	clean := Normalize([]RawTransaction{
		{Date: "2026-03-02", Amount: 42.50, MerchantName: "Starbucks"},
		{Date: "2026-03-02", Amount: 42.50, MerchantName: "Starbucks"},
		{Date: "2026-03-02", Amount: 42.51, MerchantName: "Starbucks"},
	})
	if len(clean) != 2 {
		t.Fatalf("got %d transactions, want 2 (one duplicate removed)", len(clean))
	}
}

func TestNormalize_SortsByDate(t *testing.T) {
	clean := Normalize([]RawTransaction{
		{Date: "2026-03-09", Amount: 10, MerchantName: "Starbucks"},
		{Date: "2026-03-02", Amount: 12, MerchantName: "Starbucks"},
		{Date: "2026-03-05", Amount: 11, MerchantName: "Starbucks"},
	})
	if len(clean) != 3 {
		t.Fatalf("got %d transactions, want 3", len(clean))
	}
	for i := 1; i < len(clean); i++ {
		if clean[i].Date.Before(clean[i-1].Date) {
			t.Fatalf("transactions out of order at %d: %v before %v", i, clean[i].Date, clean[i-1].Date)
		}
	}
}
