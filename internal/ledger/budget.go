package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const (
	StatusExceeded = "exceeded"
	StatusWarning  = "warning"
	StatusOnTrack  = "on_track"
	StatusGood     = "good"
)

var BudgetStatuses = []string{StatusExceeded, StatusWarning, StatusOnTrack, StatusGood}

var (
	hundred          = decimal.NewFromInt(100)
	warningFloor     = decimal.NewFromInt(80)
	onTrackFloor     = decimal.NewFromInt(50)
	percentPrecision = int32(2)
)

const hoursPerDay = 24

// BudgetEvaluation is the read-time view of a budget against live spending.
type BudgetEvaluation struct {
	Spent         decimal.Decimal
	Remaining     decimal.Decimal
	Percentage    decimal.Decimal
	Status        string
	Exceeded      bool
	DaysRemaining *int
}

// RoundedPercentage is the percentage as shown to clients.
func (e BudgetEvaluation) RoundedPercentage() decimal.Decimal {
	return e.Percentage.Round(percentPrecision)
}

// EvaluateBudget derives the computed budget fields from the amount spent
// inside the budget window. Status is bucketed on the unrounded percentage.
func EvaluateBudget(b *models.Budget, spent decimal.Decimal, today time.Time) BudgetEvaluation {
	pct := Percentage(spent, b.Amount)
	return BudgetEvaluation{
		Spent:         spent,
		Remaining:     b.Amount.Sub(spent),
		Percentage:    pct,
		Status:        StatusFor(pct),
		Exceeded:      spent.GreaterThan(b.Amount),
		DaysRemaining: DaysRemaining(b.EndDate, today),
	}
}

func Percentage(spent, amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	return spent.Div(amount).Mul(hundred)
}

func StatusFor(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return StatusExceeded
	case pct.GreaterThanOrEqual(warningFloor):
		return StatusWarning
	case pct.GreaterThanOrEqual(onTrackFloor):
		return StatusOnTrack
	default:
		return StatusGood
	}
}

func ValidBudgetStatus(s string) bool {
	for _, v := range BudgetStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// DaysRemaining is nil for open-ended budgets and never negative.
func DaysRemaining(end *time.Time, today time.Time) *int {
	if end == nil {
		return nil
	}
	e, t := DateOf(*end), DateOf(today)
	days := 0
	if !t.After(e) {
		days = int(e.Sub(t).Hours()) / hoursPerDay
	}
	return &days
}

// InWindow reports whether a transaction dated d counts toward b.
func InWindow(b *models.Budget, d time.Time) bool {
	d = DateOf(d)
	if d.Before(DateOf(b.StartDate)) {
		return false
	}
	if b.EndDate != nil && d.After(DateOf(*b.EndDate)) {
		return false
	}
	return true
}

// Counts reports whether tx is spending for b.
func Counts(b *models.Budget, tx *models.Transaction) bool {
	return tx.IsActive &&
		tx.UserID == b.UserID &&
		tx.CategoryID == b.CategoryID &&
		tx.Type == models.TypeExpense &&
		InWindow(b, tx.TransactionDate)
}
