package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

const recentTransactionLimit = 5

type accountASStore interface {
	Create(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, uid string, q dto.AccountQuery) ([]*models.Account, error)
	Update(ctx context.Context, a *models.Account) error
	Deactivate(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	CountTransactions(ctx context.Context, id string) (int, error)
	Summary(ctx context.Context, uid string) ([]models.AccountTypeTotal, []models.CurrencyTotal, error)
}

type transactionASReader interface {
	List(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error)
}

type accountService struct {
	accounts        accountASStore
	txs             transactionASReader
	defaultCurrency string
}

func NewAccountService(accounts accountASStore, txs transactionASReader, defaultCurrency string) *accountService {
	return &accountService{accounts: accounts, txs: txs, defaultCurrency: defaultCurrency}
}

func (s *accountService) ListAccounts(ctx context.Context, uid string, q dto.AccountQuery) ([]*models.Account, error) {
	return s.accounts.List(ctx, uid, q)
}

// ListByType rejects unknown account types instead of returning an empty list.
func (s *accountService) ListByType(ctx context.Context, uid, accountType string) ([]*models.Account, error) {
	if err := ledger.ValidateAccountType(accountType); err != nil {
		return nil, err
	}
	return s.accounts.List(ctx, uid, dto.AccountQuery{AccountType: &accountType})
}

func (s *accountService) GetAccount(ctx context.Context, uid, id string) (dto.AccountDetail, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return dto.AccountDetail{}, err
	}
	if err := checkReadable(a.UserID, uid, a.IsActive, "account"); err != nil {
		return dto.AccountDetail{}, err
	}

	count, err := s.accounts.CountTransactions(ctx, id)
	if err != nil {
		return dto.AccountDetail{}, err
	}
	recent, err := s.txs.List(ctx, uid, dto.TransactionQuery{AccountID: &id, Limit: recentTransactionLimit})
	if err != nil {
		return dto.AccountDetail{}, err
	}
	return dto.NewAccountDetail(a, count, recent), nil
}

func (s *accountService) CreateAccount(ctx context.Context, uid string, req dto.CreateAccountRequest) (*models.Account, error) {
	log := logger.FromContext(ctx)

	name, err := ledger.NormalizeName("name", req.Name)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateAccountType(req.AccountType); err != nil {
		return nil, err
	}
	currency, err := ledger.NormalizeCurrency(req.Currency, s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	a := &models.Account{
		UserID:      uid,
		Name:        name,
		AccountType: req.AccountType,
		Currency:    currency,
		Description: helpers.TrimmedOrNil(req.Description),
	}
	a.ID = uuid.New().String()
	a.IsActive = true

	if err := s.accounts.Create(ctx, a); err != nil {
		log.Warn("failed to create account", "error", err)
		return nil, err
	}
	log.Info("account created", "account_id", a.ID, "account_type", a.AccountType)
	return a, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, uid, id string, req dto.UpdateAccountRequest) (*models.Account, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkWritable(a.UserID, uid, a.IsActive, "account"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if a.Name, err = ledger.NormalizeName("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.AccountType != nil {
		if err := ledger.ValidateAccountType(*req.AccountType); err != nil {
			return nil, err
		}
		a.AccountType = *req.AccountType
	}
	if req.Currency != nil {
		if a.Currency, err = ledger.NormalizeCurrency(*req.Currency, a.Currency); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		a.Description = helpers.TrimmedOrNil(req.Description)
	}

	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("account updated", "account_id", id)
	return a, nil
}

// DeleteAccount soft-deletes the account. Accounts still referenced by an
// active transaction are kept and a ConflictError is returned.
func (s *accountService) DeleteAccount(ctx context.Context, uid, id string) error {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkWritable(a.UserID, uid, a.IsActive, "account"); err != nil {
		return err
	}
	if err := s.accounts.Deactivate(ctx, id); err != nil {
		logger.FromContext(ctx).Warn("account delete rejected", "account_id", id, "error", err)
		return err
	}
	logger.FromContext(ctx).Info("account deleted", "account_id", id)
	return nil
}

func (s *accountService) RestoreAccount(ctx context.Context, uid, id string) (*models.Account, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkRestorable(a.UserID, uid, a.IsActive, "account"); err != nil {
		return nil, err
	}
	if err := s.accounts.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	a.IsActive = true
	logger.FromContext(ctx).Info("account restored", "account_id", id)
	return a, nil
}

func (s *accountService) Summary(ctx context.Context, uid string) (dto.AccountSummary, error) {
	byType, byCurrency, err := s.accounts.Summary(ctx, uid)
	if err != nil {
		return dto.AccountSummary{}, err
	}
	return dto.NewAccountSummary(byType, byCurrency), nil
}
