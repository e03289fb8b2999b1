package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/microservices/crm/internal/entity"
	"github.com/samandr77/microservices/crm/internal/service"
)

var _ service.Repository = (*Repository)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		db: pool,
	}
}

type txKey struct{}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn returns the transaction started by InTx when ctx carries one, the pool otherwise.
func (r *Repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}

	return r.db
}

// InTx commits when fn returns nil and rolls back otherwise. A nested call joins the outer transaction.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// missed explains why a conditional write touched no row: the row is gone, or its guard did not hold.
func (r *Repository) missed(ctx context.Context, table string, orgID entity.OrganizationID, id uuid.UUID, guardErr error) error {
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE organization_id = $1 AND id = $2)", table)

	var exists bool

	err := r.conn(ctx).QueryRow(ctx, q, orgID.String(), id).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return entity.ErrNotFound
	}

	return guardErr
}

// mapPgErr turns constraint violations into the validation errors the service would have reported.
func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23503":
		return entity.NewValidationError("clientId", entity.ErrMsgClientNotFound)
	case "23514":
		switch pgErr.ConstraintName {
		case "projects_end_date_check":
			return entity.NewValidationError("endDate", entity.ErrMsgEndBeforeStart)
		case "projects_budget_check":
			return entity.NewValidationError("budget", entity.ErrMsgNotPositive)
		case "projects_status_check":
			return entity.NewValidationError("status", entity.ErrMsgInvalidStatus)
		}
	}

	return err
}

func nullUUID(id *entity.ClientID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: id.UUID(), Valid: true}
}
