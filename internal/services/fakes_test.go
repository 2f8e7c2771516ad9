package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// memLedger is an in-memory stand-in for the Postgres stores. Transaction
// writes move balances through the ledger deltas like the real store.
type memLedger struct {
	accounts   map[string]*models.Account
	categories map[string]*models.Category
	tags       map[string]*models.Tag
	txs        map[string]*models.Transaction
	budgets    map[string]*models.Budget
	receipts   map[string]*models.Receipt
	seq        int
}

func newMemLedger() *memLedger {
	return &memLedger{
		accounts:   map[string]*models.Account{},
		categories: map[string]*models.Category{},
		tags:       map[string]*models.Tag{},
		txs:        map[string]*models.Transaction{},
		budgets:    map[string]*models.Budget{},
		receipts:   map[string]*models.Receipt{},
	}
}

func (m *memLedger) stamp(b *models.Base) {
	m.seq++
	ts := time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = ts
	}
	b.UpdatedAt = ts
}

func (m *memLedger) apply(ds []ledger.Delta) {
	for _, d := range ds {
		a := m.accounts[d.AccountID]
		a.Balance = a.Balance.Add(d.Amount)
	}
}

func notFound(entity string) error { return errs.NewNotFoundError(entity + " not found") }

// seed helpers

func (m *memLedger) addAccount(id, uid string, balance string) *models.Account {
	a := &models.Account{UserID: uid, Name: id, AccountType: models.AccountTypeBank, Currency: "XAF", Balance: decimal.RequireFromString(balance)}
	a.ID, a.IsActive = id, true
	m.stamp(&a.Base)
	m.accounts[id] = a
	return a
}

func (m *memLedger) addCategory(id string, uid *string, typ string) *models.Category {
	c := &models.Category{UserID: uid, Name: id, Type: typ}
	c.ID, c.IsActive = id, true
	m.stamp(&c.Base)
	m.categories[id] = c
	return c
}

func (m *memLedger) addTag(id, uid string) *models.Tag {
	t := &models.Tag{UserID: uid, Name: id}
	t.ID, t.IsActive = id, true
	m.stamp(&t.Base)
	m.tags[id] = t
	return t
}

func (m *memLedger) addBudget(id, uid, categoryID, amount string, start time.Time, end *time.Time) *models.Budget {
	b := &models.Budget{UserID: uid, CategoryID: categoryID, Amount: decimal.RequireFromString(amount), PeriodType: models.PeriodMonthly, StartDate: start, EndDate: end}
	b.ID, b.IsActive = id, true
	m.stamp(&b.Base)
	m.budgets[id] = b
	return b
}

func (m *memLedger) balance(id string) decimal.Decimal { return m.accounts[id].Balance }

// accounts

type memAccounts struct{ *memLedger }

func (s memAccounts) Create(_ context.Context, a *models.Account) error {
	for _, o := range s.accounts {
		if o.UserID == a.UserID && strings.EqualFold(o.Name, a.Name) {
			return errs.NewFieldValidationError("name", "You already have an account named '"+a.Name+"'.")
		}
	}
	s.stamp(&a.Base)
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s memAccounts) Get(_ context.Context, id string) (*models.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, notFound("account")
	}
	cp := *a
	return &cp, nil
}

func (s memAccounts) List(_ context.Context, uid string, q dto.AccountQuery) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range s.accounts {
		if a.UserID != uid || !a.IsActive {
			continue
		}
		if q.AccountType != nil && a.AccountType != *q.AccountType {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memAccounts) Update(_ context.Context, a *models.Account) error {
	cur := s.accounts[a.ID]
	balance := cur.Balance
	cp := *a
	cp.Balance = balance
	s.stamp(&cp.Base)
	s.accounts[a.ID] = &cp
	return nil
}

func (s memAccounts) Deactivate(ctx context.Context, id string) error {
	n, _ := s.CountTransactions(ctx, id)
	if n > 0 {
		return errs.NewConflictError("Cannot delete account with active transactions.")
	}
	s.accounts[id].IsActive = false
	return nil
}

func (s memAccounts) SetActive(_ context.Context, id string, active bool) error {
	s.accounts[id].IsActive = active
	return nil
}

func (s memAccounts) CountTransactions(_ context.Context, id string) (int, error) {
	n := 0
	for _, t := range s.txs {
		if t.IsActive && t.AccountID != nil && *t.AccountID == id {
			n++
		}
	}
	return n, nil
}

func (s memAccounts) Summary(_ context.Context, uid string) ([]models.AccountTypeTotal, []models.CurrencyTotal, error) {
	byType := map[string]*models.AccountTypeTotal{}
	byCur := map[string]decimal.Decimal{}
	for _, a := range s.accounts {
		if a.UserID != uid || !a.IsActive {
			continue
		}
		tt, ok := byType[a.AccountType]
		if !ok {
			tt = &models.AccountTypeTotal{AccountType: a.AccountType}
			byType[a.AccountType] = tt
		}
		tt.Count++
		tt.TotalBalance = tt.TotalBalance.Add(a.Balance)
		byCur[a.Currency] = byCur[a.Currency].Add(a.Balance)
	}
	var types []models.AccountTypeTotal
	for _, tt := range byType {
		types = append(types, *tt)
	}
	var curs []models.CurrencyTotal
	for c, total := range byCur {
		curs = append(curs, models.CurrencyTotal{Currency: c, Total: total})
	}
	return types, curs, nil
}

// categories

type memCategories struct{ *memLedger }

func (s memCategories) Create(_ context.Context, c *models.Category) error {
	s.stamp(&c.Base)
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s memCategories) EnsureSystem(_ context.Context, c *models.Category) (bool, error) {
	for _, o := range s.categories {
		if o.IsSystem() && strings.EqualFold(o.Name, c.Name) && o.Type == c.Type {
			return false, nil
		}
	}
	cp := *c
	s.categories[c.ID] = &cp
	return true, nil
}

func (s memCategories) Get(_ context.Context, id string) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, notFound("category")
	}
	cp := *c
	return &cp, nil
}

func (s memCategories) List(_ context.Context, uid string, q dto.CategoryQuery) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range s.categories {
		if !c.IsActive || !c.VisibleTo(uid) {
			continue
		}
		if q.Scope == dto.ScopeSystem && !c.IsSystem() || q.Scope == dto.ScopeMine && c.IsSystem() {
			continue
		}
		if q.Type != nil && c.Type != *q.Type {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memCategories) Update(_ context.Context, c *models.Category) error {
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s memCategories) SetActive(_ context.Context, id string, active bool) error {
	s.categories[id].IsActive = active
	return nil
}

func (s memCategories) Usage(_ context.Context, id, uid string, includeDeleted bool) (int, int, error) {
	txs, budgets := 0, 0
	for _, t := range s.txs {
		if (t.IsActive || includeDeleted) && t.CategoryID == id && t.UserID == uid {
			txs++
		}
	}
	for _, b := range s.budgets {
		if (b.IsActive || includeDeleted) && b.CategoryID == id && b.UserID == uid {
			budgets++
		}
	}
	return txs, budgets, nil
}

// tags

type memTags struct{ *memLedger }

func (s memTags) Create(_ context.Context, t *models.Tag) error {
	for _, o := range s.tags {
		if o.UserID == t.UserID && o.Name == t.Name {
			return errs.NewFieldValidationError("name", "You already have a tag named '"+t.Name+"'.")
		}
	}
	s.stamp(&t.Base)
	cp := *t
	s.tags[t.ID] = &cp
	return nil
}

func (s memTags) Get(_ context.Context, id string) (*models.Tag, error) {
	t, ok := s.tags[id]
	if !ok {
		return nil, notFound("tag")
	}
	cp := *t
	return &cp, nil
}

func (s memTags) GetMany(_ context.Context, ids []string) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, id := range ids {
		if t, ok := s.tags[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memTags) List(_ context.Context, uid string, _ *string) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, t := range s.tags {
		if t.UserID == uid && t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memTags) Update(_ context.Context, t *models.Tag) error {
	cp := *t
	s.tags[t.ID] = &cp
	return nil
}

func (s memTags) SetActive(_ context.Context, id string, active bool) error {
	s.tags[id].IsActive = active
	return nil
}

// transactions

type memTxs struct{ *memLedger }

func (s memTxs) Create(_ context.Context, t *models.Transaction) error {
	s.stamp(&t.Base)
	cp := *t
	s.apply(ledger.Apply(&cp))
	s.txs[t.ID] = &cp
	return nil
}

func (s memTxs) Update(_ context.Context, next *models.Transaction) error {
	prev := s.txs[next.ID]
	cp := *next
	cp.IsActive, cp.CreatedAt = prev.IsActive, prev.CreatedAt
	s.stamp(&cp.Base)
	s.apply(ledger.Reapply(prev, &cp))
	s.txs[next.ID] = &cp
	return nil
}

func (s memTxs) SetActive(_ context.Context, id string, active bool) error {
	prev := s.txs[id]
	next := *prev
	next.IsActive = active
	s.apply(ledger.Reapply(prev, &next))
	s.txs[id] = &next
	return nil
}

func (s memTxs) Get(_ context.Context, id string) (*models.Transaction, error) {
	t, ok := s.txs[id]
	if !ok {
		return nil, notFound("transaction")
	}
	cp := *t
	return &cp, nil
}

func (s memTxs) detail(t *models.Transaction) *models.TransactionDetail {
	d := &models.TransactionDetail{Transaction: *t}
	if c, ok := s.categories[t.CategoryID]; ok {
		d.CategoryName, d.CategoryType = c.Name, c.Type
	}
	if t.AccountID != nil {
		if a, ok := s.accounts[*t.AccountID]; ok {
			name, bal := a.Name, a.Balance
			d.AccountName, d.AccountBalance = &name, &bal
		}
	}
	for _, id := range t.TagIDs {
		d.Tags = append(d.Tags, s.tags[id])
	}
	for _, r := range s.receipts {
		if r.TransactionID == t.ID && r.IsActive {
			d.ReceiptCount++
		}
	}
	return d
}

func (s memTxs) Detail(_ context.Context, id string) (*models.TransactionDetail, error) {
	t, ok := s.txs[id]
	if !ok {
		return nil, notFound("transaction")
	}
	return s.detail(t), nil
}

func (s memTxs) List(_ context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error) {
	var out []*models.TransactionDetail
	for _, t := range s.txs {
		if t.UserID != uid || !t.IsActive {
			continue
		}
		if q.Type != nil && t.Type != *q.Type ||
			q.CategoryID != nil && t.CategoryID != *q.CategoryID ||
			q.AccountID != nil && (t.AccountID == nil || *t.AccountID != *q.AccountID) ||
			q.DateFrom != nil && t.TransactionDate.Before(*q.DateFrom) ||
			q.DateTo != nil && t.TransactionDate.After(*q.DateTo) {
			continue
		}
		out = append(out, s.detail(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s memTxs) Stats(_ context.Context, uid string, _, _ *time.Time) (models.TransactionStats, error) {
	var st models.TransactionStats
	total := decimal.Zero
	for _, t := range s.txs {
		if t.UserID != uid || !t.IsActive {
			continue
		}
		total = total.Add(t.Amount)
		if t.Type == models.TypeIncome {
			st.TotalIncome = st.TotalIncome.Add(t.Amount)
			st.IncomeCount++
		} else {
			st.TotalExpense = st.TotalExpense.Add(t.Amount)
			st.ExpenseCount++
		}
	}
	if n := st.IncomeCount + st.ExpenseCount; n > 0 {
		st.Average = total.Div(decimal.NewFromInt(int64(n)))
	}
	return st, nil
}

// budgets

type memBudgets struct{ *memLedger }

func (s memBudgets) Create(_ context.Context, b *models.Budget) error {
	for _, o := range s.budgets {
		if o.UserID == b.UserID && o.CategoryID == b.CategoryID && o.PeriodType == b.PeriodType && o.StartDate.Equal(b.StartDate) {
			return errs.NewFieldValidationError("category", "A budget already exists for this category and period.")
		}
	}
	s.stamp(&b.Base)
	cp := *b
	s.budgets[b.ID] = &cp
	return nil
}

func (s memBudgets) Get(_ context.Context, id string) (*models.Budget, error) {
	b, ok := s.budgets[id]
	if !ok {
		return nil, notFound("budget")
	}
	cp := *b
	if c, ok := s.categories[b.CategoryID]; ok {
		cp.CategoryName, cp.CategoryType = c.Name, c.Type
	}
	return &cp, nil
}

func (s memBudgets) List(ctx context.Context, uid string, q dto.BudgetQuery) ([]*models.Budget, error) {
	var out []*models.Budget
	for id, b := range s.budgets {
		if c := s.categories[b.CategoryID]; b.UserID != uid || !b.IsActive || c == nil || !c.IsActive {
			continue
		}
		if q.PeriodType != nil && b.PeriodType != *q.PeriodType || q.CategoryID != nil && b.CategoryID != *q.CategoryID {
			continue
		}
		cp, _ := s.Get(ctx, id)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memBudgets) Update(_ context.Context, b *models.Budget) error {
	cp := *b
	s.budgets[b.ID] = &cp
	return nil
}

func (s memBudgets) SetActive(_ context.Context, id string, active bool) error {
	s.budgets[id].IsActive = active
	return nil
}

func (s memBudgets) Spent(_ context.Context, b *models.Budget) (decimal.Decimal, error) {
	spent := decimal.Zero
	for _, t := range s.txs {
		if ledger.Counts(b, t) {
			spent = spent.Add(t.Amount)
		}
	}
	return spent, nil
}

// receipts

type memReceipts struct{ *memLedger }

func (s memReceipts) Create(_ context.Context, r *models.Receipt) error {
	s.stamp(&r.Base)
	cp := *r
	s.receipts[r.ID] = &cp
	return nil
}

func (s memReceipts) Get(_ context.Context, id string) (*models.Receipt, error) {
	r, ok := s.receipts[id]
	if !ok {
		return nil, notFound("receipt")
	}
	cp := *r
	return &cp, nil
}

func (s memReceipts) ListByTransaction(_ context.Context, transactionID string) ([]*models.Receipt, error) {
	var out []*models.Receipt
	for _, r := range s.receipts {
		if r.TransactionID == transactionID && r.IsActive {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memReceipts) SetActive(_ context.Context, id string, active bool) error {
	s.receipts[id].IsActive = active
	return nil
}
