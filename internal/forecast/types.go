// Package forecast implements the cash-flow forecasting engine: it
// normalizes raw feed transactions, detects recurring and discretionary
// spending patterns, and projects a 90-day schedule of predicted
// transactions. The engine is a pure computation — no I/O, no shared
// state, and deterministic for a given input and analysis date.
package forecast

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cashcast/backend/internal/merchant"
)

// ForecastPeriodDays is the length of the projection window.
const ForecastPeriodDays = 90

// Cadence is the detected repeating interval of a recurring series.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
)

// Days returns the nominal cadence length in days.
func (c Cadence) Days() float64 {
	switch c {
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	case CadenceMonthly:
		return 30
	case CadenceQuarterly:
		return 91
	default:
		return 30
	}
}

// TransactionType classifies a transaction by direction.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// Confidence is a coarse reliability tag.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CategoryHints accepts the feed's category field, which may be a single
// string or an array of strings.
type CategoryHints []string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CategoryHints) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*c = nil
			return nil
		}
		*c = CategoryHints{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*c = CategoryHints(many)
	return nil
}

// RawTransaction is the input contract consumed from the transaction-sync
// collaborator. Feed sign convention: positive = expense, negative = income.
type RawTransaction struct {
	Date         string        `json:"date"`
	Amount       float64       `json:"amount"`
	MerchantName string        `json:"merchant_name"`
	Name         string        `json:"name"`
	Category     CategoryHints `json:"category,omitempty"`
	Pending      bool          `json:"pending"`
}

// CleanTransaction is a normalized transaction in the internal sign
// convention (negative = expense, positive = income). Immutable once built.
type CleanTransaction struct {
	Date      time.Time         `json:"date"`
	Merchant  string            `json:"merchant"`
	Amount    float64           `json:"amount"`
	Category  merchant.Category `json:"category"`
	DayOfWeek string            `json:"day_of_week"`
}

// RecurringSeries describes one detected merchant+direction pattern with a
// consistent cadence.
type RecurringSeries struct {
	Merchant       string            `json:"merchant"`
	Category       merchant.Category `json:"category"`
	Type           TransactionType   `json:"type"`
	Cadence        Cadence           `json:"cadence"`
	AnchorDay      int               `json:"anchor_day"`
	TypicalAmount  float64           `json:"typical_amount"`
	RecentAmount   float64           `json:"recent_amount"`
	AmountTrend    float64           `json:"amount_trend"`
	AmountIsFixed  bool              `json:"amount_is_fixed"`
	IsSubscription bool              `json:"is_subscription"`
	LastOccurrence time.Time         `json:"last_occurrence"`
	Count          int               `json:"count"`
	Confidence     Confidence        `json:"confidence"`
}

// DiscretionaryPattern describes category-level spending that is real but
// not schedulable as a fixed series.
type DiscretionaryPattern struct {
	Category         merchant.Category `json:"category"`
	AvgWeeklyCount   float64           `json:"avg_weekly_count"`
	AvgAmount        float64           `json:"avg_amount"`
	RecentAvgAmount  float64           `json:"recent_avg_amount"`
	AmountStdDev     float64           `json:"amount_std_dev"`
	TypicalMerchants []string          `json:"typical_merchants"`
	DayOfWeekWeights [7]float64        `json:"day_of_week_weights"`
}

// VariableIncomePattern captures irregular but real income (gig, hourly,
// freelance) that fails strict cadence detection.
type VariableIncomePattern struct {
	Merchant     string  `json:"merchant"`
	MedianAmount float64 `json:"median_amount"`
	WeeklyRate   float64 `json:"weekly_rate"`
	Count        int     `json:"count"`
}

// PredictedTransaction is one entry of the forecast. Never mutated after
// validation.
type PredictedTransaction struct {
	Date            time.Time         `json:"-"`
	DayOfWeek       string            `json:"day_of_week"`
	Merchant        string            `json:"merchant"`
	Amount          float64           `json:"amount"`
	Category        merchant.Category `json:"category"`
	Type            TransactionType   `json:"type"`
	ConfidenceScore Confidence        `json:"confidence_score"`
}

// predictedTransactionJSON is the wire form: dates serialize as calendar
// days, not timestamps.
type predictedTransactionJSON struct {
	Date            string            `json:"date"`
	DayOfWeek       string            `json:"day_of_week"`
	Merchant        string            `json:"merchant"`
	Amount          float64           `json:"amount"`
	Category        merchant.Category `json:"category"`
	Type            TransactionType   `json:"type"`
	ConfidenceScore Confidence        `json:"confidence_score"`
}

// MarshalJSON implements json.Marshaler.
func (p PredictedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(predictedTransactionJSON{
		Date:            p.Date.Format("2006-01-02"),
		DayOfWeek:       p.DayOfWeek,
		Merchant:        p.Merchant,
		Amount:          p.Amount,
		Category:        p.Category,
		Type:            p.Type,
		ConfidenceScore: p.ConfidenceScore,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable dates are left
// zero; the validator drops them.
func (p *PredictedTransaction) UnmarshalJSON(data []byte) error {
	var w predictedTransactionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	date, _ := parseDate(w.Date)
	*p = PredictedTransaction{
		Date:            date,
		DayOfWeek:       w.DayOfWeek,
		Merchant:        w.Merchant,
		Amount:          w.Amount,
		Category:        w.Category,
		Type:            w.Type,
		ConfidenceScore: w.ConfidenceScore,
	}
	return nil
}

// Forecast is the engine's output contract.
type Forecast struct {
	ForecastPeriodDays    int                    `json:"forecast_period_days"`
	PredictedTransactions []PredictedTransaction `json:"predicted_transactions"`
}

// FinancialProfile is a summary exposed for external commentary
// collaborators. The engine does not depend on such a collaborator.
type FinancialProfile struct {
	RecurringSeries       []RecurringSeries      `json:"recurring_series"`
	DiscretionaryPatterns []DiscretionaryPattern `json:"discretionary_patterns"`
	MonthlyIncomeMedian   float64                `json:"monthly_income_median"`
	MonthlyExpenseMedian  float64                `json:"monthly_expense_median"`
	RecentTransactions    []CleanTransaction     `json:"recent_transactions"`
}

// parseDate accepts ISO calendar dates, tolerating a trailing timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// midnight truncates a time to its calendar day in UTC.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
