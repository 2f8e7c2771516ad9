// Package ledger holds the bookkeeping rules of the finance tracker: the
// signed balance effect of transactions, budget evaluation and the field
// validation shared by the services.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// Delta is a signed change to one account balance.
type Delta struct {
	AccountID string
	Amount    decimal.Decimal
}

// SignedAmount is the amount a transaction contributes to its account:
// positive for income, negative for expense.
func SignedAmount(tx *models.Transaction) decimal.Decimal {
	if tx.Type == models.TypeIncome {
		return tx.Amount
	}
	return tx.Amount.Neg()
}

// Apply returns the balance change caused by tx. Transactions without an
// account, and inactive transactions, have no effect.
func Apply(tx *models.Transaction) []Delta {
	return merge(effect(tx, false))
}

// Revert returns the inverse of Apply(tx).
func Revert(tx *models.Transaction) []Delta {
	return merge(effect(tx, true))
}

// Reapply reverts the stored snapshot prev and applies next. Deltas on the
// same account are netted, so an amount edit yields only the difference and
// moving a transaction between accounts touches both. The result is ordered
// by account id, which is also the order rows must be locked in.
func Reapply(prev, next *models.Transaction) []Delta {
	var ds []Delta
	ds = append(ds, effect(prev, true)...)
	ds = append(ds, effect(next, false)...)
	return merge(ds)
}

// OnHardDelete returns the deltas needed when the stored row is removed.
func OnHardDelete(tx *models.Transaction) []Delta {
	return Revert(tx)
}

// AccountIDs lists the accounts touched by ds, in lock order.
func AccountIDs(ds []Delta) []string {
	ids := make([]string, 0, len(ds))
	for _, d := range ds {
		ids = append(ids, d.AccountID)
	}
	return ids
}

func effect(tx *models.Transaction, invert bool) []Delta {
	if tx == nil || tx.AccountID == nil || !tx.IsActive {
		return nil
	}
	amt := SignedAmount(tx)
	if invert {
		amt = amt.Neg()
	}
	return []Delta{{AccountID: *tx.AccountID, Amount: amt}}
}

func merge(ds []Delta) []Delta {
	if len(ds) == 0 {
		return nil
	}
	sums := make(map[string]decimal.Decimal, len(ds))
	for _, d := range ds {
		sums[d.AccountID] = sums[d.AccountID].Add(d.Amount)
	}
	out := make([]Delta, 0, len(sums))
	for id, amt := range sums {
		if amt.IsZero() {
			continue
		}
		out = append(out, Delta{AccountID: id, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}
