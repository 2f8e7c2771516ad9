package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const accountColumns = `id, user_id, name, account_type, balance, currency, description, is_active, created_at, updated_at`

type accountStore struct {
	pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *accountStore {
	return &accountStore{pool: pool}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.AccountType, &a.Balance, &a.Currency,
		&a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a with a zero balance; the balance only ever moves through
// transaction writes.
func (s *accountStore) Create(ctx context.Context, a *models.Account) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, user_id, name, account_type, balance, currency, description, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.Name, a.AccountType, a.Currency, a.Description, a.IsActive, a.CreatedAt, a.UpdatedAt)
	return translate(err, "account", "create")
}

func (s *accountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	return a, translate(err, "account", "read")
}

func (s *accountStore) List(ctx context.Context, uid string, q dto.AccountQuery) ([]*models.Account, error) {
	var f filter
	f.where("user_id = " + f.arg(uid))
	f.where("is_active")
	if q.AccountType != nil {
		f.where("account_type = " + f.arg(*q.AccountType))
	}
	if q.Currency != nil {
		f.where("currency = " + f.arg(*q.Currency))
	}
	if q.Search != nil {
		p := f.arg(*q.Search)
		f.where("(name ILIKE '%' || " + p + " || '%' OR description ILIKE '%' || " + p + " || '%')")
	}

	rows, err := s.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts`+f.sql()+` ORDER BY name, id`, f.args...)
	if err != nil {
		return nil, translate(err, "account", "list")
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, translate(err, "account", "list")
		}
		out = append(out, a)
	}
	return out, translate(rows.Err(), "account", "list")
}

// Update writes the user-editable fields. Balance is never written here.
func (s *accountStore) Update(ctx context.Context, a *models.Account) error {
	a.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET name = $2, account_type = $3, currency = $4, description = $5, updated_at = $6
		 WHERE id = $1`,
		a.ID, a.Name, a.AccountType, a.Currency, a.Description, a.UpdatedAt)
	if err != nil {
		return translate(err, "account", "update")
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError("account not found")
	}
	return nil
}

// Deactivate soft-deletes an account that no active transaction references.
// The account row stays locked while the references are counted, so a
// concurrent transaction write cannot slip in between.
func (s *accountStore) Deactivate(ctx context.Context, id string) error {
	return inTx(ctx, s.pool, "account", "delete", func(tx pgx.Tx) error {
		var active bool
		if err := tx.QueryRow(ctx, `SELECT is_active FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&active); err != nil {
			return err
		}
		if !active {
			return errs.NewNotFoundError("account not found")
		}

		var n int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND is_active`, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return errs.NewConflictError("Cannot delete account with existing transactions. Please delete or reassign transactions first.")
		}

		_, err := tx.Exec(ctx, `UPDATE accounts SET is_active = false, updated_at = now() WHERE id = $1`, id)
		return err
	})
}

func (s *accountStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, s.pool, "accounts", "account", id, active)
}

func (s *accountStore) CountTransactions(ctx context.Context, id string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND is_active`, id).Scan(&n)
	return n, translate(err, "account", "read")
}

// Summary rolls up the active accounts of uid per type and per currency.
func (s *accountStore) Summary(ctx context.Context, uid string) ([]models.AccountTypeTotal, []models.CurrencyTotal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT account_type, COUNT(*), COALESCE(SUM(balance), 0)
		 FROM accounts WHERE user_id = $1 AND is_active
		 GROUP BY account_type ORDER BY account_type`, uid)
	if err != nil {
		return nil, nil, translate(err, "account", "summarize")
	}
	var byType []models.AccountTypeTotal
	for rows.Next() {
		var t models.AccountTypeTotal
		if err := rows.Scan(&t.AccountType, &t.Count, &t.TotalBalance); err != nil {
			rows.Close()
			return nil, nil, translate(err, "account", "summarize")
		}
		byType = append(byType, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, translate(err, "account", "summarize")
	}

	rows, err = s.pool.Query(ctx,
		`SELECT currency, COALESCE(SUM(balance), 0)
		 FROM accounts WHERE user_id = $1 AND is_active
		 GROUP BY currency ORDER BY currency`, uid)
	if err != nil {
		return nil, nil, translate(err, "account", "summarize")
	}
	defer rows.Close()
	var byCurrency []models.CurrencyTotal
	for rows.Next() {
		var c models.CurrencyTotal
		if err := rows.Scan(&c.Currency, &c.Total); err != nil {
			return nil, nil, translate(err, "account", "summarize")
		}
		byCurrency = append(byCurrency, c)
	}
	return byType, byCurrency, translate(rows.Err(), "account", "summarize")
}

// setActive flips is_active on a row of table. Restoring an active row or
// deleting an inactive one is not an error here; services check state first.
func setActive(ctx context.Context, q querier, table, entity, id string, active bool) error {
	tag, err := q.Exec(ctx, `UPDATE `+table+` SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return translate(err, entity, "update")
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError(entity + " not found")
	}
	return nil
}
