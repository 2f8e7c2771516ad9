package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTx(txType, amount string, accountID *string) *models.Transaction {
	tx := &models.Transaction{
		Type:      txType,
		Amount:    dec(amount),
		AccountID: accountID,
	}
	tx.IsActive = true
	return tx
}

// applyAll folds deltas into a balance map the way the store does.
func applyAll(balances map[string]decimal.Decimal, ds []Delta) {
	for _, d := range ds {
		balances[d.AccountID] = balances[d.AccountID].Add(d.Amount)
	}
}

func TestApplyIncomeAndExpense(t *testing.T) {
	acc := helpers.Ptr("acc-1")

	got := Apply(newTx(models.TypeIncome, "500", acc))
	if len(got) != 1 || got[0].AccountID != "acc-1" || !got[0].Amount.Equal(dec("500")) {
		t.Fatalf("Apply(income) = %+v, want +500 on acc-1", got)
	}

	got = Apply(newTx(models.TypeExpense, "120", acc))
	if len(got) != 1 || !got[0].Amount.Equal(dec("-120")) {
		t.Fatalf("Apply(expense) = %+v, want -120", got)
	}
}

func TestApplyWithoutAccountIsNoop(t *testing.T) {
	if got := Apply(newTx(models.TypeIncome, "10", nil)); len(got) != 0 {
		t.Fatalf("expected no deltas, got %+v", got)
	}
}

func TestApplyInactiveIsNoop(t *testing.T) {
	tx := newTx(models.TypeIncome, "10", helpers.Ptr("acc-1"))
	tx.IsActive = false
	if got := Apply(tx); len(got) != 0 {
		t.Fatalf("expected no deltas for inactive transaction, got %+v", got)
	}
}

func TestRevertIsInverseOfApply(t *testing.T) {
	tx := newTx(models.TypeExpense, "42.50", helpers.Ptr("acc-1"))
	balances := map[string]decimal.Decimal{"acc-1": dec("100")}
	applyAll(balances, Apply(tx))
	applyAll(balances, Revert(tx))
	if !balances["acc-1"].Equal(dec("100")) {
		t.Fatalf("balance = %s, want 100", balances["acc-1"])
	}
}

func TestReapplySameAccountNetsToDelta(t *testing.T) {
	acc := helpers.Ptr("acc-1")
	prev := newTx(models.TypeExpense, "120", acc)
	next := newTx(models.TypeExpense, "200", acc)

	got := Reapply(prev, next)
	if len(got) != 1 || !got[0].Amount.Equal(dec("-80")) {
		t.Fatalf("Reapply = %+v, want single -80 delta", got)
	}
}

func TestReapplyUnchangedProducesNoDeltas(t *testing.T) {
	acc := helpers.Ptr("acc-1")
	if got := Reapply(newTx(models.TypeIncome, "5", acc), newTx(models.TypeIncome, "5", acc)); len(got) != 0 {
		t.Fatalf("expected no deltas, got %+v", got)
	}
}

func TestReapplyMovesBetweenAccounts(t *testing.T) {
	prev := newTx(models.TypeIncome, "300", helpers.Ptr("acc-b"))
	next := newTx(models.TypeIncome, "300", helpers.Ptr("acc-a"))

	got := Reapply(prev, next)
	if len(got) != 2 {
		t.Fatalf("expected 2 deltas, got %+v", got)
	}
	if got[0].AccountID != "acc-a" || !got[0].Amount.Equal(dec("300")) {
		t.Fatalf("first delta = %+v, want +300 on acc-a", got[0])
	}
	if got[1].AccountID != "acc-b" || !got[1].Amount.Equal(dec("-300")) {
		t.Fatalf("second delta = %+v, want -300 on acc-b", got[1])
	}
}

func TestReapplyTypeFlip(t *testing.T) {
	acc := helpers.Ptr("acc-1")
	got := Reapply(newTx(models.TypeIncome, "50", acc), newTx(models.TypeExpense, "50", acc))
	if len(got) != 1 || !got[0].Amount.Equal(dec("-100")) {
		t.Fatalf("Reapply = %+v, want -100", got)
	}
}

func TestReapplyDeactivationReverts(t *testing.T) {
	acc := helpers.Ptr("acc-1")
	prev := newTx(models.TypeIncome, "75", acc)
	next := *prev
	next.IsActive = false

	got := Reapply(prev, &next)
	if len(got) != 1 || !got[0].Amount.Equal(dec("-75")) {
		t.Fatalf("Reapply = %+v, want -75", got)
	}
}

func TestScenarioIncomeExpenseEdit(t *testing.T) {
	acc := helpers.Ptr("acc-1")
	balances := map[string]decimal.Decimal{"acc-1": decimal.Zero}

	income := newTx(models.TypeIncome, "500", acc)
	applyAll(balances, Apply(income))
	if !balances["acc-1"].Equal(dec("500")) {
		t.Fatalf("after income balance = %s, want 500", balances["acc-1"])
	}

	expense := newTx(models.TypeExpense, "120", acc)
	applyAll(balances, Apply(expense))
	if !balances["acc-1"].Equal(dec("380")) {
		t.Fatalf("after expense balance = %s, want 380", balances["acc-1"])
	}

	edited := *expense
	edited.Amount = dec("200")
	applyAll(balances, Reapply(expense, &edited))
	if !balances["acc-1"].Equal(dec("300")) {
		t.Fatalf("after edit balance = %s, want 300", balances["acc-1"])
	}
}

func TestEditSequenceOnlyFinalStateCounts(t *testing.T) {
	a, b := helpers.Ptr("acc-a"), helpers.Ptr("acc-b")
	balances := map[string]decimal.Decimal{}

	states := []*models.Transaction{
		newTx(models.TypeIncome, "10", a),
		newTx(models.TypeExpense, "35.25", a),
		newTx(models.TypeExpense, "7", b),
		newTx(models.TypeIncome, "99.99", nil),
		newTx(models.TypeIncome, "12", b),
	}
	applyAll(balances, Apply(states[0]))
	for i := 1; i < len(states); i++ {
		applyAll(balances, Reapply(states[i-1], states[i]))
	}

	if !balances["acc-a"].IsZero() {
		t.Fatalf("acc-a = %s, want 0", balances["acc-a"])
	}
	if !balances["acc-b"].Equal(dec("12")) {
		t.Fatalf("acc-b = %s, want 12", balances["acc-b"])
	}

	applyAll(balances, OnHardDelete(states[len(states)-1]))
	if !balances["acc-b"].IsZero() {
		t.Fatalf("after hard delete acc-b = %s, want 0", balances["acc-b"])
	}
}

func TestAccountIDsFollowDeltaOrder(t *testing.T) {
	ds := Reapply(newTx(models.TypeIncome, "1", helpers.Ptr("z")), newTx(models.TypeIncome, "1", helpers.Ptr("m")))
	ids := AccountIDs(ds)
	if len(ids) != 2 || ids[0] != "m" || ids[1] != "z" {
		t.Fatalf("AccountIDs = %v, want [m z]", ids)
	}
}
