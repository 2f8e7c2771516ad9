package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type stubAccountService struct {
	lastQuery   dto.AccountQuery
	lastType    string
	lastID      string
	lastCreate  dto.CreateAccountRequest
	summaryHits int
	err         error
}

func sampleAccount() *models.Account {
	a := &models.Account{Name: "Wallet", AccountType: models.AccountTypeCash, Currency: "USD", Balance: decimal.RequireFromString("1234.5")}
	a.ID = "acc-1"
	return a
}

func (s *stubAccountService) ListAccounts(_ context.Context, _ string, q dto.AccountQuery) ([]*models.Account, error) {
	s.lastQuery = q
	return []*models.Account{sampleAccount()}, s.err
}

func (s *stubAccountService) ListByType(_ context.Context, _, accountType string) ([]*models.Account, error) {
	s.lastType = accountType
	return nil, s.err
}

func (s *stubAccountService) GetAccount(_ context.Context, _, id string) (dto.AccountDetail, error) {
	s.lastID = id
	return dto.AccountDetail{}, s.err
}

func (s *stubAccountService) CreateAccount(_ context.Context, _ string, req dto.CreateAccountRequest) (*models.Account, error) {
	s.lastCreate = req
	return sampleAccount(), s.err
}

func (s *stubAccountService) UpdateAccount(_ context.Context, _, id string, _ dto.UpdateAccountRequest) (*models.Account, error) {
	s.lastID = id
	return sampleAccount(), s.err
}

func (s *stubAccountService) DeleteAccount(_ context.Context, _, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubAccountService) RestoreAccount(_ context.Context, _, id string) (*models.Account, error) {
	s.lastID = id
	return sampleAccount(), s.err
}

func (s *stubAccountService) Summary(_ context.Context, _ string) (dto.AccountSummary, error) {
	s.summaryHits++
	return dto.AccountSummary{}, s.err
}

func TestListAccounts_BalanceDisplay(t *testing.T) {
	svc := &stubAccountService{}
	resp := &stubResponseHandler{}
	h := NewAccountHandlers(&Deps{ResponseHandler: resp, AccountSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/accounts?type=cash&search=wal", nil), "uid1")
	h.ListAccounts(httptest.NewRecorder(), req)

	if svc.lastQuery.AccountType == nil || *svc.lastQuery.AccountType != "cash" || *svc.lastQuery.Search != "wal" {
		t.Fatalf("unexpected query: %+v", svc.lastQuery)
	}
	items, ok := resp.writeSuccessData.([]dto.AccountListItem)
	if !ok || len(items) != 1 || items[0].BalanceDisplay != "$1,234.50" {
		t.Fatalf("unexpected response data: %#v", resp.writeSuccessData)
	}
}

func TestAccountRoutes(t *testing.T) {
	svc := &stubAccountService{}
	h := NewAccountHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, AccountSvc: svc})
	router := h.AccountRoutes()

	router.ServeHTTP(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/summary", nil), "uid1"))
	router.ServeHTTP(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/by-type/credit_card", nil), "uid1"))
	router.ServeHTTP(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodPost, "/acc-7/restore", nil), "uid1"))

	if svc.summaryHits != 1 || svc.lastType != "credit_card" || svc.lastID != "acc-7" {
		t.Fatalf("summary=%d type=%q id=%q", svc.summaryHits, svc.lastType, svc.lastID)
	}
}

func TestCreateAccount_OK(t *testing.T) {
	svc := &stubAccountService{}
	resp := &stubResponseHandler{}
	h := NewAccountHandlers(&Deps{ResponseHandler: resp, AccountSvc: svc})

	body := `{"name":"Wallet","accountType":"cash","currency":"usd"}`
	req := withUID(httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body)), "uid1")
	h.CreateAccount(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201")
	}
	if svc.lastCreate.Name != "Wallet" || svc.lastCreate.Currency != "usd" {
		t.Fatalf("unexpected request passed to service: %+v", svc.lastCreate)
	}
}

func TestDeleteAccount_Conflict(t *testing.T) {
	svc := &stubAccountService{err: errs.NewConflictError("Cannot delete account with active transactions.")}
	resp := &stubResponseHandler{}
	h := NewAccountHandlers(&Deps{ResponseHandler: resp, AccountSvc: svc})

	req := withChiParam(withUID(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil), "uid1"), "accountId", "acc-1")
	h.DeleteAccount(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected HandleError on conflict")
	}
}
