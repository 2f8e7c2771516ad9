package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	Base
	UserID          string
	AccountID       *string
	CategoryID      string
	Type            string
	Amount          decimal.Decimal
	Description     string
	Notes           *string
	TransactionDate time.Time
	TagIDs          []string
}

// TransactionDetail is a transaction joined with the names of what it references.
type TransactionDetail struct {
	Transaction
	CategoryName   string
	CategoryType   string
	AccountName    *string
	AccountBalance *decimal.Decimal
	Tags           []*Tag
	ReceiptCount   int
}

// TransactionStats aggregates active transactions of one user.
type TransactionStats struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	IncomeCount  int
	ExpenseCount int
	Average      decimal.Decimal
}
