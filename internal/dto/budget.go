package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type CreateBudgetRequest struct {
	CategoryID string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	PeriodType string          `json:"periodType"`
	StartDate  string          `json:"startDate"`
	EndDate    *string         `json:"endDate,omitempty"`
}

// UpdateBudgetRequest changes only the fields that are present. An empty
// end date makes the budget open-ended.
type UpdateBudgetRequest struct {
	CategoryID *string          `json:"category,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	PeriodType *string          `json:"periodType,omitempty"`
	StartDate  *string          `json:"startDate,omitempty"`
	EndDate    *string          `json:"endDate,omitempty"`
}

type BudgetQuery struct {
	PeriodType *string
	CategoryID *string
	Status     *string
}

// EvaluatedBudget pairs a stored budget with its read-time evaluation.
type EvaluatedBudget struct {
	Budget     *models.Budget
	Evaluation ledger.BudgetEvaluation
}

type BudgetListItem struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"category"`
	CategoryName   string          `json:"categoryName"`
	Amount         decimal.Decimal `json:"amount"`
	PeriodType     string          `json:"periodType"`
	StartDate      string          `json:"startDate"`
	EndDate        *string         `json:"endDate"`
	SpentAmount    decimal.Decimal `json:"spentAmount"`
	PercentageUsed decimal.Decimal `json:"percentageUsed"`
	Status         string          `json:"status"`
	IsExceeded     bool            `json:"isExceeded"`
}

type BudgetDetail struct {
	BudgetListItem
	CategoryType       string                  `json:"categoryType"`
	RemainingAmount    decimal.Decimal         `json:"remainingAmount"`
	DaysRemaining      *int                    `json:"daysRemaining"`
	RecentTransactions []RecentTransactionItem `json:"recentTransactions"`
	IsActive           bool                    `json:"isActive"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

type BudgetSummary struct {
	TotalBudgets           int             `json:"totalBudgets"`
	TotalBudgetAmount      decimal.Decimal `json:"totalBudgetAmount"`
	TotalSpent             decimal.Decimal `json:"totalSpent"`
	TotalRemaining         decimal.Decimal `json:"totalRemaining"`
	BudgetsExceeded        int             `json:"budgetsExceeded"`
	BudgetsWarning         int             `json:"budgetsWarning"`
	BudgetsOnTrack         int             `json:"budgetsOnTrack"`
	BudgetsGood            int             `json:"budgetsGood"`
	AverageUsagePercentage decimal.Decimal `json:"averageUsagePercentage"`
}

type CategoryAnalysisItem struct {
	CategoryID     string          `json:"categoryId"`
	CategoryName   string          `json:"categoryName"`
	BudgetAmount   decimal.Decimal `json:"budgetAmount"`
	SpentAmount    decimal.Decimal `json:"spentAmount"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed decimal.Decimal `json:"percentageUsed"`
	Status         string          `json:"status"`
	PeriodType     string          `json:"periodType"`
	StartDate      string          `json:"startDate"`
	EndDate        *string         `json:"endDate"`
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func NewBudgetListItem(eb EvaluatedBudget) BudgetListItem {
	b, ev := eb.Budget, eb.Evaluation
	return BudgetListItem{
		ID:             b.ID,
		CategoryID:     b.CategoryID,
		CategoryName:   b.CategoryName,
		Amount:         b.Amount,
		PeriodType:     b.PeriodType,
		StartDate:      b.StartDate.Format(dateLayout),
		EndDate:        formatOptionalDate(b.EndDate),
		SpentAmount:    ev.Spent,
		PercentageUsed: ev.RoundedPercentage(),
		Status:         ev.Status,
		IsExceeded:     ev.Exceeded,
	}
}

func NewBudgetList(ebs []EvaluatedBudget) []BudgetListItem {
	out := make([]BudgetListItem, 0, len(ebs))
	for _, eb := range ebs {
		out = append(out, NewBudgetListItem(eb))
	}
	return out
}

func NewBudgetDetail(eb EvaluatedBudget, recent []*models.TransactionDetail) BudgetDetail {
	items := NewRecentTransactions(recent)
	for i := range items {
		items[i].Type = ""
		items[i].Category = ""
	}
	return BudgetDetail{
		BudgetListItem:     NewBudgetListItem(eb),
		CategoryType:       eb.Budget.CategoryType,
		RemainingAmount:    eb.Evaluation.Remaining,
		DaysRemaining:      eb.Evaluation.DaysRemaining,
		RecentTransactions: items,
		IsActive:           eb.Budget.IsActive,
		CreatedAt:          eb.Budget.CreatedAt,
		UpdatedAt:          eb.Budget.UpdatedAt,
	}
}

// NewBudgetSummary totals the evaluated budgets. The average usage is the
// mean of the unrounded percentages, rounded once at the end.
func NewBudgetSummary(ebs []EvaluatedBudget) BudgetSummary {
	s := BudgetSummary{
		TotalBudgets:           len(ebs),
		TotalBudgetAmount:      decimal.Zero,
		TotalSpent:             decimal.Zero,
		TotalRemaining:         decimal.Zero,
		AverageUsagePercentage: decimal.Zero,
	}
	pctSum := decimal.Zero
	for _, eb := range ebs {
		s.TotalBudgetAmount = s.TotalBudgetAmount.Add(eb.Budget.Amount)
		s.TotalSpent = s.TotalSpent.Add(eb.Evaluation.Spent)
		s.TotalRemaining = s.TotalRemaining.Add(eb.Evaluation.Remaining)
		pctSum = pctSum.Add(eb.Evaluation.Percentage)
		switch eb.Evaluation.Status {
		case ledger.StatusExceeded:
			s.BudgetsExceeded++
		case ledger.StatusWarning:
			s.BudgetsWarning++
		case ledger.StatusOnTrack:
			s.BudgetsOnTrack++
		default:
			s.BudgetsGood++
		}
	}
	if len(ebs) > 0 {
		s.AverageUsagePercentage = pctSum.Div(decimal.NewFromInt(int64(len(ebs)))).Round(2)
	}
	return s
}

// NewCategoryAnalysis lists one entry per budget, highest usage first.
func NewCategoryAnalysis(ebs []EvaluatedBudget) []CategoryAnalysisItem {
	out := make([]CategoryAnalysisItem, 0, len(ebs))
	for _, eb := range ebs {
		b, ev := eb.Budget, eb.Evaluation
		out = append(out, CategoryAnalysisItem{
			CategoryID:     b.CategoryID,
			CategoryName:   b.CategoryName,
			BudgetAmount:   b.Amount,
			SpentAmount:    ev.Spent,
			Remaining:      ev.Remaining,
			PercentageUsed: ev.RoundedPercentage(),
			Status:         ev.Status,
			PeriodType:     b.PeriodType,
			StartDate:      b.StartDate.Format(dateLayout),
			EndDate:        formatOptionalDate(b.EndDate),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentageUsed.GreaterThan(out[j].PercentageUsed)
	})
	return out
}
