package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type stubCategoryService struct {
	lastQuery  *dto.CategoryQuery
	lastID     string
	lastUpdate dto.UpdateCategoryRequest
	category   *models.Category
	err        error
}

func (s *stubCategoryService) ListCategories(_ context.Context, _ string, q dto.CategoryQuery) ([]*models.Category, error) {
	s.lastQuery = &q
	return []*models.Category{s.category}, s.err
}

func (s *stubCategoryService) GetCategory(_ context.Context, _, id string) (dto.CategoryDetail, error) {
	s.lastID = id
	return dto.CategoryDetail{}, s.err
}

func (s *stubCategoryService) CreateCategory(_ context.Context, _ string, _ dto.CreateCategoryRequest) (*models.Category, error) {
	return s.category, s.err
}

func (s *stubCategoryService) UpdateCategory(_ context.Context, _, id string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	s.lastID = id
	s.lastUpdate = req
	return s.category, s.err
}

func (s *stubCategoryService) DeleteCategory(_ context.Context, _, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubCategoryService) RestoreCategory(_ context.Context, _, id string) (*models.Category, error) {
	s.lastID = id
	return s.category, s.err
}

func sampleCategory() *models.Category {
	c := &models.Category{Name: "Food", Type: models.TypeExpense}
	c.ID, c.IsActive = "cat-food", true
	return c
}

func TestCategoryFixedRoutesAreNotIDs(t *testing.T) {
	tests := []struct {
		path      string
		wantScope dto.CategoryScope
		wantType  string
	}{
		{"/system", dto.ScopeSystem, ""},
		{"/mine", dto.ScopeMine, ""},
		{"/income", dto.ScopeAll, models.TypeIncome},
		{"/expense?type=income", dto.ScopeAll, models.TypeExpense},
	}
	for _, tt := range tests {
		svc := &stubCategoryService{category: sampleCategory()}
		h := NewCategoryHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, CategorySvc: svc})

		req := withUID(httptest.NewRequest(http.MethodGet, tt.path, nil), "uid1")
		h.CategoryRoutes().ServeHTTP(httptest.NewRecorder(), req)

		if svc.lastID != "" || svc.lastQuery == nil {
			t.Fatalf("%s: routed to get id=%q", tt.path, svc.lastID)
		}
		if svc.lastQuery.Scope != tt.wantScope {
			t.Errorf("%s: scope = %q, want %q", tt.path, svc.lastQuery.Scope, tt.wantScope)
		}
		gotType := ""
		if svc.lastQuery.Type != nil {
			gotType = *svc.lastQuery.Type
		}
		if gotType != tt.wantType {
			t.Errorf("%s: type = %q, want %q", tt.path, gotType, tt.wantType)
		}
	}
}

func TestGetCategoryRoute(t *testing.T) {
	svc := &stubCategoryService{}
	h := NewCategoryHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, CategorySvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/cat-food", nil), "uid1")
	h.CategoryRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastID != "cat-food" || svc.lastQuery != nil {
		t.Fatalf("get id=%q, list called=%v", svc.lastID, svc.lastQuery != nil)
	}
}

func TestUpdateCategory_DecodesPartialBody(t *testing.T) {
	svc := &stubCategoryService{category: sampleCategory()}
	resp := &stubResponseHandler{}
	h := NewCategoryHandlers(&Deps{ResponseHandler: resp, CategorySvc: svc})

	req := withUID(httptest.NewRequest(http.MethodPut, "/cat-food", strings.NewReader(`{"color":"#ff5733"}`)), "uid1")
	h.CategoryRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastUpdate.Color == nil || *svc.lastUpdate.Color != "#ff5733" || svc.lastUpdate.Name != nil {
		t.Fatalf("unexpected update request: %+v", svc.lastUpdate)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.writeSuccessStatus)
	}
}

func TestRestoreCategory_Conflict(t *testing.T) {
	svc := &stubCategoryService{err: errs.NewConflictError("Category is already active.")}
	resp := &stubResponseHandler{}
	h := NewCategoryHandlers(&Deps{ResponseHandler: resp, CategorySvc: svc})

	req := withUID(httptest.NewRequest(http.MethodPost, "/cat-food/restore", nil), "uid1")
	h.CategoryRoutes().ServeHTTP(httptest.NewRecorder(), req)

	var ce *errs.ConflictError
	if svc.lastID != "cat-food" || !resp.handleErrorCalled || !errors.As(resp.handleError, &ce) {
		t.Fatalf("id=%q, handled error=%v", svc.lastID, resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess called on conflict")
	}
}
