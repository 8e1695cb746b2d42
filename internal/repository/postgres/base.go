package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *BaseRepository) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, stmt, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *BaseRepository) exists(ctx context.Context, b sq.SelectBuilder) (bool, error) {
	stmt, args, err := b.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}
	var ok bool
	if err := r.db.GetContext(ctx, &ok, stmt, args...); err != nil {
		return false, err
	}
	return ok, nil
}

// execAffected runs a write and reports whether it touched any row.
func execAffected(ctx context.Context, ext sqlx.ExecerContext, b sq.Sqlizer) (bool, error) {
	stmt, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build statement: %w", err)
	}
	result, err := ext.ExecContext(ctx, stmt, args...)
	if err != nil {
		return false, mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// insertReturningID runs an INSERT ... RETURNING id.
func insertReturningID(ctx context.Context, q sqlx.QueryerContext, b sq.InsertBuilder) (int64, error) {
	stmt, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}
	var id int64
	if err := q.QueryRowxContext(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// withPredicate expands the named binds of a compiled predicate into
// positional arguments and attaches it as the WHERE clause. The match-all
// sentinel adds nothing.
func withPredicate(b sq.SelectBuilder, where query.Predicate) (sq.SelectBuilder, error) {
	if where.MatchesAll() || where.Clause == "" {
		return b, nil
	}
	clause, args, err := sqlx.Named(where.Clause, where.Binds)
	if err != nil {
		return b, fmt.Errorf("failed to bind predicate: %w", err)
	}
	return b.Where(clause, args...), nil
}

func withPage(b sq.SelectBuilder, page repository.Page) (sq.SelectBuilder, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return b, fmt.Errorf("invalid page window: limit %d offset %d", page.Limit, page.Offset)
	}
	if page.Limit > 0 {
		b = b.Limit(uint64(page.Limit)).Offset(uint64(page.Offset))
	}
	return b, nil
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return &repository.ConstraintError{Err: repository.ErrDuplicate, Constraint: pqErr.Constraint}
		case pqForeignKeyViolation:
			return &repository.ConstraintError{Err: repository.ErrForeignKey, Constraint: pqErr.Constraint}
		}
	}
	return err
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
