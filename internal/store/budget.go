package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const budgetSelect = `SELECT b.id, b.user_id, b.category_id, c.name, c.type, b.amount, b.period_type,
	b.start_date, b.end_date, b.is_active, b.created_at, b.updated_at
	FROM budgets b
	JOIN categories c ON c.id = b.category_id`

type budgetStore struct {
	pool *pgxpool.Pool
}

func NewBudgetStore(pool *pgxpool.Pool) *budgetStore {
	return &budgetStore{pool: pool}
}

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.CategoryType, &b.Amount, &b.PeriodType,
		&b.StartDate, &b.EndDate, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *budgetStore) Create(ctx context.Context, b *models.Budget) error {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO budgets (id, user_id, category_id, amount, period_type, start_date, end_date, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.UserID, b.CategoryID, b.Amount, b.PeriodType, b.StartDate, b.EndDate, b.IsActive, b.CreatedAt, b.UpdatedAt)
	return translate(err, "budget", "create")
}

func (s *budgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	b, err := scanBudget(s.pool.QueryRow(ctx, budgetSelect+` WHERE b.id = $1`, id))
	return b, translate(err, "budget", "read")
}

// List returns the active budgets of uid. Status filtering needs spending
// and happens in the service.
func (s *budgetStore) List(ctx context.Context, uid string, q dto.BudgetQuery) ([]*models.Budget, error) {
	var f filter
	f.where("b.user_id = " + f.arg(uid))
	f.where("b.is_active")
	// budgets on a deleted category stay reachable by id only
	f.where("c.is_active")
	if q.PeriodType != nil {
		f.where("b.period_type = " + f.arg(*q.PeriodType))
	}
	if q.CategoryID != nil {
		f.where("b.category_id = " + f.arg(*q.CategoryID))
	}

	rows, err := s.pool.Query(ctx, budgetSelect+f.sql()+` ORDER BY b.start_date DESC, b.created_at DESC`, f.args...)
	if err != nil {
		return nil, translate(err, "budget", "list")
	}
	defer rows.Close()

	var out []*models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, translate(err, "budget", "list")
		}
		out = append(out, b)
	}
	return out, translate(rows.Err(), "budget", "list")
}

func (s *budgetStore) Update(ctx context.Context, b *models.Budget) error {
	b.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE budgets SET category_id = $2, amount = $3, period_type = $4, start_date = $5, end_date = $6, updated_at = $7
		 WHERE id = $1`,
		b.ID, b.CategoryID, b.Amount, b.PeriodType, b.StartDate, b.EndDate, b.UpdatedAt)
	if err != nil {
		return translate(err, "budget", "update")
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError("budget not found")
	}
	return nil
}

func (s *budgetStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, s.pool, "budgets", "budget", id, active)
}

// Spent sums the active expense transactions of the budget owner in the
// budget category and window. It is computed on every read.
func (s *budgetStore) Spent(ctx context.Context, b *models.Budget) (decimal.Decimal, error) {
	var f filter
	f.where("user_id = " + f.arg(b.UserID))
	f.where("category_id = " + f.arg(b.CategoryID))
	f.where("type = 'expense'")
	f.where("is_active")
	f.where("transaction_date >= " + f.arg(b.StartDate))
	if b.EndDate != nil {
		f.where("transaction_date <= " + f.arg(*b.EndDate))
	}

	var spent decimal.Decimal
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions`+f.sql(), f.args...).Scan(&spent)
	return spent, translate(err, "budget", "read")
}
