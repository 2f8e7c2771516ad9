package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// tagSelect includes the number of active transactions carrying the tag.
const tagSelect = `SELECT g.id, g.user_id, g.name, g.is_active, g.created_at, g.updated_at,
	(SELECT COUNT(*) FROM transaction_tags tt JOIN transactions t ON t.id = tt.transaction_id
	 WHERE tt.tag_id = g.id AND t.is_active)
	FROM tags g`

type tagStore struct {
	pool *pgxpool.Pool
}

func NewTagStore(pool *pgxpool.Pool) *tagStore {
	return &tagStore{pool: pool}
}

func scanTag(row pgx.Row) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt, &t.TransactionCount); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *tagStore) Create(ctx context.Context, t *models.Tag) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tags (id, user_id, name, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Name, t.IsActive, t.CreatedAt, t.UpdatedAt)
	return translate(err, "tag", "create")
}

func (s *tagStore) Get(ctx context.Context, id string) (*models.Tag, error) {
	t, err := scanTag(s.pool.QueryRow(ctx, tagSelect+` WHERE g.id = $1`, id))
	return t, translate(err, "tag", "read")
}

// GetMany returns the tags with the given ids; missing ids are simply absent.
func (s *tagStore) GetMany(ctx context.Context, ids []string) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.query(ctx, tagSelect+` WHERE g.id = ANY($1) ORDER BY g.name`, ids)
}

func (s *tagStore) List(ctx context.Context, uid string, search *string) ([]*models.Tag, error) {
	var f filter
	f.where("g.user_id = " + f.arg(uid))
	f.where("g.is_active")
	if search != nil {
		f.where("g.name ILIKE '%' || " + f.arg(*search) + " || '%'")
	}
	return s.query(ctx, tagSelect+f.sql()+` ORDER BY g.name`, f.args...)
}

func (s *tagStore) query(ctx context.Context, sql string, args ...any) ([]*models.Tag, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, "tag", "list")
	}
	defer rows.Close()

	var out []*models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, translate(err, "tag", "list")
		}
		out = append(out, t)
	}
	return out, translate(rows.Err(), "tag", "list")
}

func (s *tagStore) Update(ctx context.Context, t *models.Tag) error {
	t.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `UPDATE tags SET name = $2, updated_at = $3 WHERE id = $1`, t.ID, t.Name, t.UpdatedAt)
	if err != nil {
		return translate(err, "tag", "update")
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError("tag not found")
	}
	return nil
}

func (s *tagStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, s.pool, "tags", "tag", id, active)
}
