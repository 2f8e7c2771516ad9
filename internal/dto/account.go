package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// Balance is not accepted from clients; unknown fields are ignored.
type CreateAccountRequest struct {
	Name        string  `json:"name"`
	AccountType string  `json:"accountType"`
	Currency    string  `json:"currency"`
	Description *string `json:"description,omitempty"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	AccountType *string `json:"accountType,omitempty"`
	Currency    *string `json:"currency,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AccountQuery struct {
	AccountType *string
	Currency    *string
	Search      *string
}

type AccountListItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balanceDisplay"`
	Currency       string          `json:"currency"`
}

type AccountDetail struct {
	AccountListItem
	Description        *string                 `json:"description"`
	TransactionCount   int                     `json:"transactionCount"`
	RecentTransactions []RecentTransactionItem `json:"recentTransactions"`
	IsActive           bool                    `json:"isActive"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

type AccountTypeSummary struct {
	Count        int             `json:"count"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

type AccountSummary struct {
	TotalAccounts      int                           `json:"totalAccounts"`
	BalancesByCurrency map[string]decimal.Decimal    `json:"balancesByCurrency"`
	AccountsByType     map[string]AccountTypeSummary `json:"accountsByType"`
}

func NewAccountListItem(a *models.Account) AccountListItem {
	return AccountListItem{
		ID:             a.ID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		Balance:        a.Balance,
		BalanceDisplay: FormatBalance(a.Balance, a.Currency),
		Currency:       a.Currency,
	}
}

func NewAccountList(accounts []*models.Account) []AccountListItem {
	out := make([]AccountListItem, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewAccountListItem(a))
	}
	return out
}

func NewAccountDetail(a *models.Account, txCount int, recent []*models.TransactionDetail) AccountDetail {
	return AccountDetail{
		AccountListItem:    NewAccountListItem(a),
		Description:        a.Description,
		TransactionCount:   txCount,
		RecentTransactions: NewRecentTransactions(recent),
		IsActive:           a.IsActive,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func NewAccountSummary(byType []models.AccountTypeTotal, byCurrency []models.CurrencyTotal) AccountSummary {
	s := AccountSummary{
		BalancesByCurrency: make(map[string]decimal.Decimal, len(byCurrency)),
		AccountsByType:     make(map[string]AccountTypeSummary, len(byType)),
	}
	for _, t := range byType {
		s.TotalAccounts += t.Count
		s.AccountsByType[t.AccountType] = AccountTypeSummary{Count: t.Count, TotalBalance: t.TotalBalance}
	}
	for _, c := range byCurrency {
		s.BalancesByCurrency[c.Currency] = c.Total
	}
	return s
}
