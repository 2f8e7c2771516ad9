package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

const transactionColumns = `t.id, t.user_id, t.account_id, t.category_id, t.type, t.amount, t.description,
	t.notes, t.transaction_date, t.is_active, t.created_at, t.updated_at`

const transactionDetailSelect = `SELECT ` + transactionColumns + `,
	c.name, c.type, a.name, a.balance,
	(SELECT COUNT(*) FROM receipts r WHERE r.transaction_id = t.id AND r.is_active)
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	LEFT JOIN accounts a ON a.id = t.account_id`

var orderColumns = map[string]string{
	dto.OrderTransactionDate: "t.transaction_date",
	dto.OrderAmount:          "t.amount",
	dto.OrderCreatedAt:       "t.created_at",
}

type transactionStore struct {
	pool *pgxpool.Pool
}

func NewTransactionStore(pool *pgxpool.Pool) *transactionStore {
	return &transactionStore{pool: pool}
}

func scanTransaction(row pgx.Row, extra ...any) (*models.Transaction, error) {
	var t models.Transaction
	dest := []any{&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Type, &t.Amount, &t.Description,
		&t.Notes, &t.TransactionDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTransactionDetail(row pgx.Row) (*models.TransactionDetail, error) {
	var (
		d       models.TransactionDetail
		balance decimal.NullDecimal
	)
	t, err := scanTransaction(row, &d.CategoryName, &d.CategoryType, &d.AccountName, &balance, &d.ReceiptCount)
	if err != nil {
		return nil, err
	}
	d.Transaction = *t
	if balance.Valid {
		d.AccountBalance = &balance.Decimal
	}
	return &d, nil
}

// Create inserts t and applies its balance effect in the same database
// transaction.
func (s *transactionStore) Create(ctx context.Context, t *models.Transaction) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	return inTx(ctx, s.pool, "transaction", "create", func(tx pgx.Tx) error {
		deltas := ledger.Apply(t)
		if err := lockAndApply(ctx, tx, t, deltas); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO transactions (id, user_id, account_id, category_id, type, amount, description, notes,
			   transaction_date, is_active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			t.ID, t.UserID, t.AccountID, t.CategoryID, t.Type, t.Amount, t.Description, t.Notes,
			t.TransactionDate, t.IsActive, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return err
		}
		return replaceTags(ctx, tx, t.ID, t.TagIDs)
	})
}

// Update replaces the stored row with next. The stored row is locked and
// used as the snapshot to revert, so the balance change is exactly
// Revert(stored) + Apply(next).
func (s *transactionStore) Update(ctx context.Context, next *models.Transaction) error {
	next.UpdatedAt = time.Now().UTC()
	return inTx(ctx, s.pool, "transaction", "update", func(tx pgx.Tx) error {
		prev, err := lockTransaction(ctx, tx, next.ID)
		if err != nil {
			return err
		}
		next.IsActive = prev.IsActive
		next.CreatedAt = prev.CreatedAt
		if err := lockAndApply(ctx, tx, next, ledger.Reapply(prev, next)); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE transactions SET account_id = $2, category_id = $3, type = $4, amount = $5, description = $6,
			   notes = $7, transaction_date = $8, updated_at = $9
			 WHERE id = $1`,
			next.ID, next.AccountID, next.CategoryID, next.Type, next.Amount, next.Description,
			next.Notes, next.TransactionDate, next.UpdatedAt)
		if err != nil {
			return err
		}
		return replaceTags(ctx, tx, next.ID, next.TagIDs)
	})
}

// SetActive soft-deletes or restores a transaction. Deactivation reverts the
// balance effect and restoring re-applies it.
func (s *transactionStore) SetActive(ctx context.Context, id string, active bool) error {
	return inTx(ctx, s.pool, "transaction", "update", func(tx pgx.Tx) error {
		prev, err := lockTransaction(ctx, tx, id)
		if err != nil {
			return err
		}
		next := *prev
		next.IsActive = active
		if err := lockAndApply(ctx, tx, &next, ledger.Reapply(prev, &next)); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE transactions SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
		return err
	})
}

// PurgeInactive hard-deletes transactions soft-deleted before cutoff. Each
// removal goes through the hard-delete cleanup, which reverts the balance
// effect of rows that are still active.
func (s *transactionStore) PurgeInactive(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM transactions WHERE NOT is_active AND updated_at < $1 ORDER BY id`, cutoff)
	if err != nil {
		return 0, translate(err, "transaction", "purge")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, translate(err, "transaction", "purge")
	}

	purged := 0
	for _, id := range ids {
		deleted := false
		err := inTx(ctx, s.pool, "transaction", "purge", func(tx pgx.Tx) error {
			prev, err := lockTransaction(ctx, tx, id)
			if err != nil {
				return err
			}
			if prev.IsActive {
				// restored since selection
				return nil
			}
			if err := lockAndApply(ctx, tx, nil, ledger.OnHardDelete(prev)); err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
			deleted = err == nil
			return err
		})
		if err != nil {
			return purged, err
		}
		if deleted {
			purged++
		}
	}
	logger.FromContext(ctx).Info("purged inactive transactions", "count", purged, "cutoff", cutoff)
	return purged, nil
}

func (s *transactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := scanTransaction(s.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions t WHERE t.id = $1`, id))
	if err != nil {
		return nil, translate(err, "transaction", "read")
	}
	t.TagIDs, err = s.tagIDs(ctx, id)
	return t, err
}

// Detail returns the transaction joined with its category, account, tags
// and active receipt count.
func (s *transactionStore) Detail(ctx context.Context, id string) (*models.TransactionDetail, error) {
	d, err := scanTransactionDetail(s.pool.QueryRow(ctx, transactionDetailSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, translate(err, "transaction", "read")
	}

	rows, err := s.pool.Query(ctx, tagSelect+`
		JOIN transaction_tags x ON x.tag_id = g.id
		WHERE x.transaction_id = $1 ORDER BY g.name`, id)
	if err != nil {
		return nil, translate(err, "transaction", "read")
	}
	defer rows.Close()
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, translate(err, "transaction", "read")
		}
		d.Tags = append(d.Tags, tag)
		d.TagIDs = append(d.TagIDs, tag.ID)
	}
	return d, translate(rows.Err(), "transaction", "read")
}

// List returns the active transactions of uid matching q.
func (s *transactionStore) List(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error) {
	var f filter
	f.where("t.user_id = " + f.arg(uid))
	f.where("t.is_active")
	if q.Type != nil {
		f.where("t.type = " + f.arg(*q.Type))
	}
	if q.CategoryID != nil {
		f.where("t.category_id = " + f.arg(*q.CategoryID))
	}
	if q.AccountID != nil {
		f.where("t.account_id = " + f.arg(*q.AccountID))
	}
	if q.TagID != nil {
		f.where("EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = t.id AND tt.tag_id = " + f.arg(*q.TagID) + ")")
	}
	if q.DateFrom != nil {
		f.where("t.transaction_date >= " + f.arg(*q.DateFrom))
	}
	if q.DateTo != nil {
		f.where("t.transaction_date <= " + f.arg(*q.DateTo))
	}
	if q.AmountMin != nil {
		f.where("t.amount >= " + f.arg(*q.AmountMin))
	}
	if q.AmountMax != nil {
		f.where("t.amount <= " + f.arg(*q.AmountMax))
	}
	if q.Search != nil {
		p := f.arg(*q.Search)
		f.where("(t.description ILIKE '%' || " + p + " || '%' OR t.notes ILIKE '%' || " + p + " || '%')")
	}

	sql := transactionDetailSelect + f.sql() + orderBy(q.Ordering)
	if q.Limit > 0 {
		sql += " LIMIT " + f.arg(q.Limit)
	}

	rows, err := s.pool.Query(ctx, sql, f.args...)
	if err != nil {
		return nil, translate(err, "transaction", "list")
	}
	defer rows.Close()

	var out []*models.TransactionDetail
	for rows.Next() {
		d, err := scanTransactionDetail(rows)
		if err != nil {
			return nil, translate(err, "transaction", "list")
		}
		out = append(out, d)
	}
	return out, translate(rows.Err(), "transaction", "list")
}

func orderBy(fields []dto.OrderField) string {
	if len(fields) == 0 {
		fields = dto.DefaultTransactionOrdering
	}
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		col, ok := orderColumns[f.Field]
		if !ok {
			continue
		}
		if f.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	parts = append(parts, "t.id")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// Stats aggregates the active transactions of uid, optionally bounded by date.
func (s *transactionStore) Stats(ctx context.Context, uid string, from, to *time.Time) (models.TransactionStats, error) {
	var f filter
	f.where("user_id = " + f.arg(uid))
	f.where("is_active")
	if from != nil {
		f.where("transaction_date >= " + f.arg(*from))
	}
	if to != nil {
		f.where("transaction_date <= " + f.arg(*to))
	}

	var st models.TransactionStats
	err := s.pool.QueryRow(ctx,
		`SELECT
		   COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		   COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
		   COUNT(*) FILTER (WHERE type = 'income'),
		   COUNT(*) FILTER (WHERE type = 'expense'),
		   COALESCE(AVG(amount), 0)
		 FROM transactions`+f.sql(), f.args...).
		Scan(&st.TotalIncome, &st.TotalExpense, &st.IncomeCount, &st.ExpenseCount, &st.Average)
	return st, translate(err, "transaction", "summarize")
}

func (s *transactionStore) tagIDs(ctx context.Context, id string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT tag_id FROM transaction_tags WHERE transaction_id = $1 ORDER BY tag_id`, id)
	if err != nil {
		return nil, translate(err, "transaction", "read")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, translate(err, "transaction", "read")
}

func lockTransaction(ctx context.Context, tx pgx.Tx, id string) (*models.Transaction, error) {
	return scanTransaction(tx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.id = $1 FOR UPDATE`, id))
}

// lockAndApply locks every account touched by deltas, plus the account next
// will point at, in id order. It rejects a next account that is missing,
// foreign or inactive, then moves the balances.
func lockAndApply(ctx context.Context, tx pgx.Tx, next *models.Transaction, deltas []ledger.Delta) error {
	ids := ledger.AccountIDs(deltas)
	if next != nil && next.AccountID != nil && next.IsActive {
		ids = append(ids, *next.AccountID)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	rows, err := tx.Query(ctx,
		`SELECT id, user_id, is_active FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return err
	}
	type lockedAccount struct {
		userID string
		active bool
	}
	locked := make(map[string]lockedAccount, len(ids))
	for rows.Next() {
		var id string
		var la lockedAccount
		if err := rows.Scan(&id, &la.userID, &la.active); err != nil {
			rows.Close()
			return err
		}
		locked[id] = la
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if next != nil && next.AccountID != nil && next.IsActive {
		la, ok := locked[*next.AccountID]
		if !ok || la.userID != next.UserID {
			return errs.NewFieldValidationError("account", "You can only use your own accounts.")
		}
		if !la.active {
			return errs.NewFieldValidationError("account", "Account is inactive.")
		}
	}

	for _, d := range deltas {
		if _, ok := locked[d.AccountID]; !ok {
			return errs.NewNotFoundError("account not found")
		}
		if _, err := tx.Exec(ctx,
			`UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE id = $1`,
			d.AccountID, d.Amount); err != nil {
			return err
		}
	}
	return nil
}

func replaceTags(ctx context.Context, tx pgx.Tx, transactionID string, tagIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1`, transactionID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO transaction_tags (transaction_id, tag_id)
		 SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`, transactionID, tagIDs)
	return err
}
