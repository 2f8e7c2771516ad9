package services

import (
	"errors"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

func TestSystemCategoriesAreImmutable(t *testing.T) {
	m := newLedgerFixture()
	svc := NewCategoryService(memCategories{m})
	ctx := helpers.TestCtx()

	var pe *errs.PermissionError
	if _, err := svc.UpdateCategory(ctx, uidAlice, "cat-food", dto.UpdateCategoryRequest{Name: helpers.Ptr("Food")}); !errors.As(err, &pe) {
		t.Fatalf("update system: expected PermissionError, got %v", err)
	}
	if err := svc.DeleteCategory(ctx, uidAlice, "cat-food"); !errors.As(err, &pe) {
		t.Fatalf("delete system: expected PermissionError, got %v", err)
	}
	if _, err := svc.RestoreCategory(ctx, uidAlice, "cat-food"); !errors.As(err, &pe) {
		t.Fatalf("restore system: expected PermissionError, got %v", err)
	}
	if err := svc.DeleteCategory(ctx, uidAlice, "cat-bob"); !errors.As(err, &pe) {
		t.Fatalf("delete foreign: expected PermissionError, got %v", err)
	}
}

func TestCreateCategoryNormalizesColor(t *testing.T) {
	m := newMemLedger()
	svc := NewCategoryService(memCategories{m})

	c, err := svc.CreateCategory(helpers.TestCtx(), uidAlice, dto.CreateCategoryRequest{
		Name:  " Pets ",
		Type:  models.TypeExpense,
		Color: helpers.Ptr("#ff5733"),
	})
	if err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}
	if c.Name != "Pets" || c.Color == nil || *c.Color != "#FF5733" || c.IsSystem() {
		t.Fatalf("unexpected category: %+v", c)
	}

	_, err = svc.CreateCategory(helpers.TestCtx(), uidAlice, dto.CreateCategoryRequest{Name: "x", Type: models.TypeExpense, Color: helpers.Ptr("FF5733")})
	wantValidation(t, err, "color")
}

func TestCategoryTypeChangeBlockedByUsage(t *testing.T) {
	m := newLedgerFixture()
	txs := newTestTransactionService(m)
	svc := NewCategoryService(memCategories{m})
	ctx := helpers.TestCtx()

	income := dto.CreateTransactionRequest{
		CategoryID:      "cat-salary",
		Type:            models.TypeIncome,
		Amount:          dec("10"),
		Description:     "bonus",
		TransactionDate: "2025-06-01",
	}
	if _, err := txs.CreateTransaction(ctx, uidAlice, income); err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	_, err := svc.UpdateCategory(ctx, uidAlice, "cat-salary", dto.UpdateCategoryRequest{Type: helpers.Ptr(models.TypeExpense)})
	wantValidation(t, err, "type")

	c, err := svc.UpdateCategory(ctx, uidAlice, "cat-salary", dto.UpdateCategoryRequest{Name: helpers.Ptr("Wages")})
	if err != nil || c.Name != "Wages" {
		t.Fatalf("rename: %v, %+v", err, c)
	}
}

func TestGetCategoryVisibility(t *testing.T) {
	m := newLedgerFixture()
	svc := NewCategoryService(memCategories{m})
	ctx := helpers.TestCtx()

	if _, err := svc.GetCategory(ctx, uidAlice, "cat-food"); err != nil {
		t.Fatalf("system category should be visible: %v", err)
	}
	var nf *errs.NotFoundError
	if _, err := svc.GetCategory(ctx, uidAlice, "cat-bob"); !errors.As(err, &nf) {
		t.Fatalf("foreign category: expected NotFoundError, got %v", err)
	}
}

func TestSeedSystemCategoriesIsIdempotent(t *testing.T) {
	m := newMemLedger()
	svc := NewCategoryService(memCategories{m})
	ctx := helpers.TestCtx()

	created, skipped, err := svc.SeedSystemCategories(ctx)
	if err != nil {
		t.Fatalf("SeedSystemCategories returned error: %v", err)
	}
	if created != len(defaultCategories) || skipped != 0 {
		t.Fatalf("first seed created/skipped = %d/%d", created, skipped)
	}

	created, skipped, err = svc.SeedSystemCategories(ctx)
	if err != nil {
		t.Fatalf("SeedSystemCategories returned error: %v", err)
	}
	if created != 0 || skipped != len(defaultCategories) {
		t.Fatalf("second seed created/skipped = %d/%d", created, skipped)
	}

	mine := dto.CategoryQuery{Scope: dto.ScopeMine}
	list, err := svc.ListCategories(ctx, uidAlice, mine)
	if err != nil || len(list) != 0 {
		t.Fatalf("mine scope returned %d categories, err %v", len(list), err)
	}
}
