package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var uniqueMessages = map[string]struct{ field, message string }{
	"accounts_user_name_key":                 {"name", "You already have an account with this name."},
	"categories_user_name_type_key":          {"name", "You already have a category with this name and type."},
	"categories_system_name_type_key":        {"name", "A system category with this name and type already exists."},
	"tags_user_name_key":                     {"name", "You already have a tag with this name."},
	"budgets_user_category_period_start_key": {"category", "A budget for this category, period and start date already exists."},
}

func NewPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// inTx runs fn in one read-committed transaction. Any error rolls the whole
// unit back; domain errors raised inside fn are returned unchanged.
func inTx(ctx context.Context, pool *pgxpool.Pool, entity, op string, fn func(pgx.Tx) error) error {
	err := pgx.BeginFunc(ctx, pool, fn)
	return translate(err, entity, op)
}

// translate maps driver errors to domain errors.
func translate(err error, entity, op string) error {
	if err == nil || isDomain(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError(entity + " not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if m, ok := uniqueMessages[pgErr.ConstraintName]; ok {
				return errs.NewFieldValidationError(m.field, m.message)
			}
			return errs.NewValidationError("duplicate " + entity)
		case pgForeignKeyViolation:
			return errs.NewValidationError("referenced record does not exist")
		case pgCheckViolation:
			return errs.NewValidationError("invalid " + entity + " value")
		}
	}
	return errs.NewDatabaseError(op, fmt.Sprintf("failed to %s %s", op, entity), err)
}

func isDomain(err error) bool {
	var (
		nf  *errs.NotFoundError
		ae  *errs.AlreadyExistsError
		ve  *errs.ValidationError
		pe  *errs.PermissionError
		ce  *errs.ConflictError
		dbe *errs.DatabaseError
	)
	return errors.As(err, &nf) || errors.As(err, &ae) || errors.As(err, &ve) ||
		errors.As(err, &pe) || errors.As(err, &ce) || errors.As(err, &dbe)
}

// filter accumulates WHERE conditions with positional arguments.
type filter struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (f *filter) arg(v any) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

func (f *filter) where(cond string) {
	f.conds = append(f.conds, cond)
}

func (f *filter) sql() string {
	if len(f.conds) == 0 {
		return ""
	}
	out := " WHERE " + f.conds[0]
	for _, c := range f.conds[1:] {
		out += " AND " + c
	}
	return out
}
