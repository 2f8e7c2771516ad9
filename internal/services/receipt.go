package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type receiptRSStore interface {
	Create(ctx context.Context, r *models.Receipt) error
	Get(ctx context.Context, id string) (*models.Receipt, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*models.Receipt, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type transactionRSReader interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
}

type receiptService struct {
	receipts receiptRSStore
	txs      transactionRSReader
}

func NewReceiptService(receipts receiptRSStore, txs transactionRSReader) *receiptService {
	return &receiptService{receipts: receipts, txs: txs}
}

func (s *receiptService) ListReceipts(ctx context.Context, uid, transactionID string) ([]*models.Receipt, error) {
	t, err := s.txs.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := checkReadable(t.UserID, uid, t.IsActive, "transaction"); err != nil {
		return nil, err
	}
	return s.receipts.ListByTransaction(ctx, transactionID)
}

// AddReceipt records metadata for a file stored elsewhere.
func (s *receiptService) AddReceipt(ctx context.Context, uid, transactionID string, req dto.CreateReceiptRequest) (*models.Receipt, error) {
	t, err := s.txs.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := checkWritable(t.UserID, uid, t.IsActive, "transaction"); err != nil {
		return nil, err
	}

	r := &models.Receipt{
		TransactionID: transactionID,
		FilePath:      strings.TrimSpace(req.FilePath),
		FileName:      strings.TrimSpace(req.FileName),
		FileSize:      req.FileSize,
		MimeType:      strings.TrimSpace(req.MimeType),
	}
	switch {
	case r.FilePath == "":
		return nil, errs.NewFieldValidationError("file", "file is required.")
	case r.FileName == "":
		return nil, errs.NewFieldValidationError("fileName", "fileName is required.")
	case r.FileSize <= 0:
		return nil, errs.NewFieldValidationError("fileSize", "File size must be greater than zero.")
	case r.MimeType == "":
		return nil, errs.NewFieldValidationError("mimeType", "mimeType is required.")
	}
	r.ID = uuid.New().String()
	r.IsActive = true

	if err := s.receipts.Create(ctx, r); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("receipt added", "transaction_id", transactionID, "receipt_id", r.ID, "file_size", r.FileSize)
	return r, nil
}

func (s *receiptService) DeleteReceipt(ctx context.Context, uid, transactionID, receiptID string) error {
	t, err := s.txs.Get(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := checkWritable(t.UserID, uid, t.IsActive, "transaction"); err != nil {
		return err
	}
	r, err := s.receipts.Get(ctx, receiptID)
	if err != nil {
		return err
	}
	if r.TransactionID != transactionID || !r.IsActive {
		return errs.NewNotFoundError("receipt not found")
	}
	if err := s.receipts.SetActive(ctx, receiptID, false); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("receipt deleted", "transaction_id", transactionID, "receipt_id", receiptID)
	return nil
}
