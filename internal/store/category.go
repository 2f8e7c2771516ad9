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

const categoryColumns = `id, user_id, name, type, icon, color, is_active, created_at, updated_at`

type categoryStore struct {
	pool *pgxpool.Pool
}

func NewCategoryStore(pool *pgxpool.Pool) *categoryStore {
	return &categoryStore{pool: pool}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *categoryStore) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.UserID, c.Name, c.Type, c.Icon, c.Color, c.IsActive, c.CreatedAt, c.UpdatedAt)
	return translate(err, "category", "create")
}

// EnsureSystem inserts a system category unless one with the same name and
// type already exists. It reports whether a row was created.
func (s *categoryStore) EnsureSystem(ctx context.Context, c *models.Category) (bool, error) {
	now := time.Now().UTC()
	c.UserID = nil
	c.CreatedAt, c.UpdatedAt = now, now
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES ($1, NULL, $2, $3, $4, $5, true, $6, $7)
		 ON CONFLICT (lower(name), type) WHERE user_id IS NULL DO NOTHING`,
		c.ID, c.Name, c.Type, c.Icon, c.Color, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return false, translate(err, "category", "create")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *categoryStore) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := scanCategory(s.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return c, translate(err, "category", "read")
}

// List returns the active categories visible to uid, system ones first.
func (s *categoryStore) List(ctx context.Context, uid string, q dto.CategoryQuery) ([]*models.Category, error) {
	var f filter
	switch q.Scope {
	case dto.ScopeSystem:
		f.where("user_id IS NULL")
	case dto.ScopeMine:
		f.where("user_id = " + f.arg(uid))
	default:
		f.where("(user_id IS NULL OR user_id = " + f.arg(uid) + ")")
	}
	f.where("is_active")
	if q.Type != nil {
		f.where("type = " + f.arg(*q.Type))
	}
	if q.Search != nil {
		f.where("name ILIKE '%' || " + f.arg(*q.Search) + " || '%'")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories`+f.sql()+` ORDER BY user_id NULLS FIRST, type, name`, f.args...)
	if err != nil {
		return nil, translate(err, "category", "list")
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, translate(err, "category", "list")
		}
		out = append(out, c)
	}
	return out, translate(rows.Err(), "category", "list")
}

func (s *categoryStore) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET name = $2, type = $3, icon = $4, color = $5, updated_at = $6 WHERE id = $1`,
		c.ID, c.Name, c.Type, c.Icon, c.Color, c.UpdatedAt)
	if err != nil {
		return translate(err, "category", "update")
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError("category not found")
	}
	return nil
}

func (s *categoryStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, s.pool, "categories", "category", id, active)
}

// Usage counts the transactions and budgets of uid that reference a category.
// Soft-deleted rows count only when includeDeleted is set.
func (s *categoryStore) Usage(ctx context.Context, id, uid string, includeDeleted bool) (transactions, budgets int, err error) {
	err = s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM transactions WHERE category_id = $1 AND user_id = $2 AND (is_active OR $3)),
		   (SELECT COUNT(*) FROM budgets WHERE category_id = $1 AND user_id = $2 AND (is_active OR $3))`, id, uid, includeDeleted).
		Scan(&transactions, &budgets)
	return transactions, budgets, translate(err, "category", "read")
}
