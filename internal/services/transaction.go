package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type transactionTSStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	Update(ctx context.Context, t *models.Transaction) error
	SetActive(ctx context.Context, id string, active bool) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Detail(ctx context.Context, id string) (*models.TransactionDetail, error)
	List(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error)
	Stats(ctx context.Context, uid string, from, to *time.Time) (models.TransactionStats, error)
}

type categoryTSReader interface {
	Get(ctx context.Context, id string) (*models.Category, error)
}

type accountTSReader interface {
	Get(ctx context.Context, id string) (*models.Account, error)
}

type tagTSReader interface {
	GetMany(ctx context.Context, ids []string) ([]*models.Tag, error)
}

type transactionService struct {
	txs        transactionTSStore
	categories categoryTSReader
	accounts   accountTSReader
	tags       tagTSReader
	clockNow   func() time.Time
}

func NewTransactionService(txs transactionTSStore, categories categoryTSReader, accounts accountTSReader, tags tagTSReader) *transactionService {
	return &transactionService{
		txs:        txs,
		categories: categories,
		accounts:   accounts,
		tags:       tags,
		clockNow:   utcNow,
	}
}

func (s *transactionService) ListTransactions(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error) {
	return s.txs.List(ctx, uid, q)
}

func (s *transactionService) GetTransaction(ctx context.Context, uid, id string) (*models.TransactionDetail, error) {
	d, err := s.txs.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkReadable(d.UserID, uid, d.IsActive, "transaction"); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateTransaction validates every reference before the store applies the
// balance change, so a rejected request never moves a balance.
func (s *transactionService) CreateTransaction(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.TransactionDetail, error) {
	log := logger.FromContext(ctx)

	date, err := ledger.ParseDate("transactionDate", req.TransactionDate)
	if err != nil {
		return nil, err
	}
	t := &models.Transaction{
		UserID:          uid,
		AccountID:       nonEmpty(req.AccountID),
		CategoryID:      req.CategoryID,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		Notes:           helpers.TrimmedOrNil(req.Notes),
		TransactionDate: date,
		TagIDs:          req.TagIDs,
	}
	t.ID = uuid.New().String()
	t.IsActive = true

	if err := s.validate(ctx, uid, t, true); err != nil {
		log.Warn("transaction rejected", "error", err)
		return nil, err
	}
	if err := s.txs.Create(ctx, t); err != nil {
		return nil, err
	}

	log.Info("transaction created", "transaction_id", t.ID, "type", t.Type, "amount", t.Amount)
	if logger.IsDebugEnabled(ctx) {
		log.Debug("transaction created with full details", "transaction", t)
	}
	return s.txs.Detail(ctx, t.ID)
}

// UpdateTransaction applies the present fields onto the stored row. The
// store reverts the stored snapshot and applies the result atomically.
func (s *transactionService) UpdateTransaction(ctx context.Context, uid, id string, req dto.UpdateTransactionRequest) (*models.TransactionDetail, error) {
	log := logger.FromContext(ctx)

	t, err := s.txs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkWritable(t.UserID, uid, t.IsActive, "transaction"); err != nil {
		return nil, err
	}

	if req.AccountID != nil {
		t.AccountID = nonEmpty(req.AccountID)
	}
	if req.CategoryID != nil {
		t.CategoryID = *req.CategoryID
	}
	if req.Type != nil {
		t.Type = *req.Type
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Notes != nil {
		t.Notes = helpers.TrimmedOrNil(req.Notes)
	}
	if req.TransactionDate != nil {
		if t.TransactionDate, err = ledger.ParseDate("transactionDate", *req.TransactionDate); err != nil {
			return nil, err
		}
	}
	if req.TagIDs != nil {
		t.TagIDs = *req.TagIDs
	}

	// stored links may point at tags deleted since; only a new set is checked
	if err := s.validate(ctx, uid, t, req.TagIDs != nil); err != nil {
		log.Warn("transaction update rejected", "transaction_id", id, "error", err)
		return nil, err
	}
	if err := s.txs.Update(ctx, t); err != nil {
		return nil, err
	}
	log.Info("transaction updated", "transaction_id", id)
	return s.txs.Detail(ctx, id)
}

// DeleteTransaction soft-deletes and reverts the balance effect.
func (s *transactionService) DeleteTransaction(ctx context.Context, uid, id string) error {
	t, err := s.txs.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkWritable(t.UserID, uid, t.IsActive, "transaction"); err != nil {
		return err
	}
	if err := s.txs.SetActive(ctx, id, false); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", id)
	return nil
}

// RestoreTransaction re-activates and re-applies the balance effect. The
// category and account are checked again since either may have changed
// while the transaction was deleted.
func (s *transactionService) RestoreTransaction(ctx context.Context, uid, id string) (*models.TransactionDetail, error) {
	t, err := s.txs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkRestorable(t.UserID, uid, t.IsActive, "transaction"); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, uid, t); err != nil {
		logger.FromContext(ctx).Warn("transaction restore rejected", "transaction_id", id, "error", err)
		return nil, err
	}
	if err := s.txs.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("transaction restored", "transaction_id", id)
	return s.txs.Detail(ctx, id)
}

func (s *transactionService) Stats(ctx context.Context, uid string, from, to *time.Time) (dto.TransactionStats, error) {
	st, err := s.txs.Stats(ctx, uid, from, to)
	if err != nil {
		return dto.TransactionStats{}, err
	}
	return dto.NewTransactionStats(st), nil
}

// validate normalises t in place and checks it against its references.
// Tags are checked only when withTags is set.
func (s *transactionService) validate(ctx context.Context, uid string, t *models.Transaction, withTags bool) error {
	if err := ledger.ValidateEntryType("type", t.Type); err != nil {
		return err
	}
	if err := ledger.ValidateAmount("amount", t.Amount); err != nil {
		return err
	}
	if err := ledger.ValidateTransactionDate(t.TransactionDate, s.clockNow()); err != nil {
		return err
	}
	desc, err := ledger.NormalizeDescription(t.Description)
	if err != nil {
		return err
	}
	t.Description = desc

	if err := s.checkReferences(ctx, uid, t); err != nil {
		return err
	}
	if !withTags {
		return nil
	}
	return s.checkTags(ctx, uid, t)
}

func (s *transactionService) checkReferences(ctx context.Context, uid string, t *models.Transaction) error {
	if err := s.checkCategory(ctx, uid, t); err != nil {
		return err
	}
	return s.checkAccount(ctx, uid, t)
}

func (s *transactionService) checkCategory(ctx context.Context, uid string, t *models.Transaction) error {
	if strings.TrimSpace(t.CategoryID) == "" {
		return errs.NewFieldValidationError("category", "category is required.")
	}
	cat, err := s.categories.Get(ctx, t.CategoryID)
	if isNotFound(err) {
		return errs.NewFieldValidationError("category", "Category does not exist.")
	}
	if err != nil {
		return err
	}
	if !cat.VisibleTo(uid) {
		return errs.NewFieldValidationError("category", "You can only use your own categories or system categories.")
	}
	if !cat.IsActive {
		return errs.NewFieldValidationError("category", "Category is inactive.")
	}
	return ledger.CheckCategoryType(cat, t.Type)
}

func (s *transactionService) checkAccount(ctx context.Context, uid string, t *models.Transaction) error {
	if t.AccountID == nil {
		return nil
	}
	acc, err := s.accounts.Get(ctx, *t.AccountID)
	if isNotFound(err) {
		return errs.NewFieldValidationError("account", "You can only use your own accounts.")
	}
	if err != nil {
		return err
	}
	if acc.UserID != uid {
		return errs.NewFieldValidationError("account", "You can only use your own accounts.")
	}
	if !acc.IsActive {
		return errs.NewFieldValidationError("account", "Account is inactive.")
	}
	return nil
}

// checkTags de-duplicates t.TagIDs and requires each to be an active tag of uid.
func (s *transactionService) checkTags(ctx context.Context, uid string, t *models.Transaction) error {
	if len(t.TagIDs) == 0 {
		t.TagIDs = nil
		return nil
	}
	seen := make(map[string]bool, len(t.TagIDs))
	ids := make([]string, 0, len(t.TagIDs))
	for _, id := range t.TagIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	t.TagIDs = ids

	tags, err := s.tags.GetMany(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]*models.Tag, len(tags))
	for _, tag := range tags {
		found[tag.ID] = tag
	}
	for _, id := range ids {
		tag, ok := found[id]
		if !ok || tag.UserID != uid {
			return errs.NewFieldValidationError("tags", "Tag "+id+" does not belong to you.")
		}
		if !tag.IsActive {
			return errs.NewFieldValidationError("tags", "Tag \""+tag.Name+"\" is inactive.")
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
