package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const dateLayout = "2006-01-02"

type CreateTransactionRequest struct {
	AccountID       *string         `json:"account,omitempty"`
	CategoryID      string          `json:"category"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Notes           *string         `json:"notes,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	TagIDs          []string        `json:"tags,omitempty"`
}

// UpdateTransactionRequest changes only the fields that are present.
// An empty account id unlinks the account; a present tags list replaces the set.
type UpdateTransactionRequest struct {
	AccountID       *string          `json:"account,omitempty"`
	CategoryID      *string          `json:"category,omitempty"`
	Type            *string          `json:"type,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	TransactionDate *string          `json:"transactionDate,omitempty"`
	TagIDs          *[]string        `json:"tags,omitempty"`
}

// Ordering columns accepted by the transaction list.
const (
	OrderTransactionDate = "transactionDate"
	OrderAmount          = "amount"
	OrderCreatedAt       = "createdAt"
)

type OrderField struct {
	Field string
	Desc  bool
}

// DefaultTransactionOrdering is newest first.
var DefaultTransactionOrdering = []OrderField{
	{Field: OrderTransactionDate, Desc: true},
	{Field: OrderCreatedAt, Desc: true},
}

type TransactionQuery struct {
	Type       *string
	CategoryID *string
	AccountID  *string
	TagID      *string
	DateFrom   *time.Time
	DateTo     *time.Time
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal
	Search     *string
	Ordering   []OrderField
	Limit      int
}

type TransactionListItem struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transactionDate"`
	CategoryName    string          `json:"categoryName"`
	AccountName     *string         `json:"accountName"`
}

type TransactionDetail struct {
	ID              string           `json:"id"`
	AccountID       *string          `json:"account"`
	AccountName     *string          `json:"accountName"`
	AccountBalance  *decimal.Decimal `json:"accountBalance"`
	CategoryID      string           `json:"category"`
	CategoryName    string           `json:"categoryName"`
	CategoryType    string           `json:"categoryType"`
	Type            string           `json:"type"`
	Amount          decimal.Decimal  `json:"amount"`
	Description     string           `json:"description"`
	Notes           *string          `json:"notes"`
	TransactionDate string           `json:"transactionDate"`
	Tags            []TagOutput      `json:"tags"`
	ReceiptCount    int              `json:"receiptCount"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// RecentTransactionItem is the compact entry embedded in account and budget details.
type RecentTransactionItem struct {
	ID              string          `json:"id"`
	Type            string          `json:"type,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Category        string          `json:"category,omitempty"`
	TransactionDate string          `json:"transactionDate"`
}

type TransactionStats struct {
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	NetAmount          decimal.Decimal `json:"netAmount"`
	TransactionCount   int             `json:"transactionCount"`
	IncomeCount        int             `json:"incomeCount"`
	ExpenseCount       int             `json:"expenseCount"`
	AverageTransaction decimal.Decimal `json:"averageTransaction"`
}

func NewTransactionListItem(t *models.TransactionDetail) TransactionListItem {
	return TransactionListItem{
		ID:              t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.Format(dateLayout),
		CategoryName:    t.CategoryName,
		AccountName:     t.AccountName,
	}
}

func NewTransactionList(txs []*models.TransactionDetail) []TransactionListItem {
	out := make([]TransactionListItem, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionListItem(t))
	}
	return out
}

func NewTransactionDetail(t *models.TransactionDetail) TransactionDetail {
	tags := make([]TagOutput, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tags = append(tags, NewTagOutput(tag))
	}
	return TransactionDetail{
		ID:              t.ID,
		AccountID:       t.AccountID,
		AccountName:     t.AccountName,
		AccountBalance:  t.AccountBalance,
		CategoryID:      t.CategoryID,
		CategoryName:    t.CategoryName,
		CategoryType:    t.CategoryType,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Description,
		Notes:           t.Notes,
		TransactionDate: t.TransactionDate.Format(dateLayout),
		Tags:            tags,
		ReceiptCount:    t.ReceiptCount,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func NewRecentTransactions(txs []*models.TransactionDetail) []RecentTransactionItem {
	out := make([]RecentTransactionItem, 0, len(txs))
	for _, t := range txs {
		out = append(out, RecentTransactionItem{
			ID:              t.ID,
			Type:            t.Type,
			Amount:          t.Amount,
			Description:     t.Description,
			Category:        t.CategoryName,
			TransactionDate: t.TransactionDate.Format(dateLayout),
		})
	}
	return out
}

func NewTransactionStats(s models.TransactionStats) TransactionStats {
	return TransactionStats{
		TotalIncome:        s.TotalIncome,
		TotalExpense:       s.TotalExpense,
		NetAmount:          s.TotalIncome.Sub(s.TotalExpense),
		TransactionCount:   s.IncomeCount + s.ExpenseCount,
		IncomeCount:        s.IncomeCount,
		ExpenseCount:       s.ExpenseCount,
		AverageTransaction: s.Average.Round(2),
	}
}
