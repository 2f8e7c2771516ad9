package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const receiptColumns = `id, transaction_id, file_path, file_name, file_size, mime_type, is_active, created_at, updated_at`

type receiptStore struct {
	pool *pgxpool.Pool
}

func NewReceiptStore(pool *pgxpool.Pool) *receiptStore {
	return &receiptStore{pool: pool}
}

func scanReceipt(row pgx.Row) (*models.Receipt, error) {
	var r models.Receipt
	err := row.Scan(&r.ID, &r.TransactionID, &r.FilePath, &r.FileName, &r.FileSize, &r.MimeType,
		&r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *receiptStore) Create(ctx context.Context, r *models.Receipt) error {
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO receipts (`+receiptColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.TransactionID, r.FilePath, r.FileName, r.FileSize, r.MimeType, r.IsActive, r.CreatedAt, r.UpdatedAt)
	return translate(err, "receipt", "create")
}

func (s *receiptStore) Get(ctx context.Context, id string) (*models.Receipt, error) {
	r, err := scanReceipt(s.pool.QueryRow(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id))
	return r, translate(err, "receipt", "read")
}

func (s *receiptStore) ListByTransaction(ctx context.Context, transactionID string) ([]*models.Receipt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE transaction_id = $1 AND is_active ORDER BY created_at DESC`,
		transactionID)
	if err != nil {
		return nil, translate(err, "receipt", "list")
	}
	defer rows.Close()

	var out []*models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, translate(err, "receipt", "list")
		}
		out = append(out, r)
	}
	return out, translate(rows.Err(), "receipt", "list")
}

func (s *receiptStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, s.pool, "receipts", "receipt", id, active)
}
