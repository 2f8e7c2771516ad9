package services

import (
	"errors"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

func TestTagLifecycle(t *testing.T) {
	m := newMemLedger()
	svc := NewTagService(memTags{m})
	ctx := helpers.TestCtx()

	tag, err := svc.CreateTag(ctx, uidAlice, dto.TagRequest{Name: "  Groceries "})
	if err != nil {
		t.Fatalf("CreateTag returned error: %v", err)
	}
	if tag.Name != "groceries" {
		t.Fatalf("tag name = %q, want groceries", tag.Name)
	}

	_, err = svc.CreateTag(ctx, uidAlice, dto.TagRequest{Name: "GROCERIES"})
	wantValidation(t, err, "name")

	var pe *errs.PermissionError
	if _, err := svc.UpdateTag(ctx, uidBob, tag.ID, dto.TagRequest{Name: "x"}); !errors.As(err, &pe) {
		t.Fatalf("foreign update: expected PermissionError, got %v", err)
	}

	if err := svc.DeleteTag(ctx, uidAlice, tag.ID); err != nil {
		t.Fatalf("DeleteTag returned error: %v", err)
	}
	var nf *errs.NotFoundError
	if _, err := svc.GetTag(ctx, uidAlice, tag.ID); !errors.As(err, &nf) {
		t.Fatalf("deleted tag: expected NotFoundError, got %v", err)
	}
	restored, err := svc.RestoreTag(ctx, uidAlice, tag.ID)
	if err != nil || !restored.IsActive {
		t.Fatalf("RestoreTag: %v, %+v", err, restored)
	}
}
