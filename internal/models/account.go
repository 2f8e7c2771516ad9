package models

import "github.com/shopspring/decimal"

const (
	AccountTypeCash       = "cash"
	AccountTypeBank       = "bank"
	AccountTypeCreditCard = "credit_card"
	AccountTypeInvestment = "investment"
	AccountTypeOther      = "other"
)

var AccountTypes = []string{
	AccountTypeCash,
	AccountTypeBank,
	AccountTypeCreditCard,
	AccountTypeInvestment,
	AccountTypeOther,
}

type Account struct {
	Base
	UserID      string
	Name        string
	AccountType string
	// Balance is maintained by the ledger reconciler only.
	Balance     decimal.Decimal
	Currency    string
	Description *string
}

// AccountTypeTotal is one row of the per-type account rollup.
type AccountTypeTotal struct {
	AccountType  string
	Count        int
	TotalBalance decimal.Decimal
}

// CurrencyTotal is one row of the per-currency balance rollup.
type CurrencyTotal struct {
	Currency string
	Total    decimal.Decimal
}
