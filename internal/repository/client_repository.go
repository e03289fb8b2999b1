package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func (r *Repository) CreateClient(ctx context.Context, c entity.Client) error {
	const q = `
	INSERT INTO clients (
		id,
		organization_id,
		company_name,
		contact_person,
		email,
		phone,
		address,
		notes,
		version,
		deleted_at,
		created_at,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.conn(ctx).Exec(
		ctx,
		q,
		c.ID.UUID(),
		c.OrganizationID.String(),
		c.CompanyName,
		c.ContactPerson,
		c.Email,
		c.Phone,
		c.Address,
		c.Notes,
		c.Version,
		c.DeletedAt,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return mapPgErr(err)
	}

	return nil
}

func (r *Repository) Clients(ctx context.Context, orgID entity.OrganizationID, f entity.ClientFilter) ([]entity.Client, error) {
	stmt := psql.Select(clientColumns).
		From(clientsTable).
		Where(clientConditions(orgID, f)).
		OrderBy("company_name ASC", "id ASC")

	stmt = paginate(stmt, f.Limit, f.Offset)

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]entity.Client, 0)

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (r *Repository) ClientByID(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	q := selectClient + " WHERE organization_id = $1 AND id = $2"
	return scanClient(r.conn(ctx).QueryRow(ctx, q, orgID.String(), id.UUID()))
}

// LockActiveClient holds a share lock on the client row until the transaction ends.
// Deleted clients are reported as not found.
func (r *Repository) LockActiveClient(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	q := selectClient + " WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL FOR SHARE"
	return scanClient(r.conn(ctx).QueryRow(ctx, q, orgID.String(), id.UUID()))
}

func (r *Repository) UpdateClient(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	p entity.ClientPatch,
	expectedVersion int,
	updatedAt time.Time,
) (entity.Client, error) {
	stmt := psql.Update(clientsTable).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", updatedAt).
		Where(sq.Eq{
			"organization_id": orgID.String(),
			"id":              id.String(),
			"version":         expectedVersion,
		}).
		Suffix("RETURNING " + clientColumns)

	if p.CompanyName != nil {
		stmt = stmt.Set("company_name", *p.CompanyName)
	}

	if p.ContactPerson != nil {
		stmt = stmt.Set("contact_person", *p.ContactPerson)
	}

	if p.Email != nil {
		stmt = stmt.Set("email", *p.Email)
	}

	if p.Phone != nil {
		stmt = stmt.Set("phone", *p.Phone)
	}

	if p.Address.IsSet {
		stmt = stmt.Set("address", p.Address.Ptr())
	}

	if p.Notes.IsSet {
		stmt = stmt.Set("notes", p.Notes.Ptr())
	}

	return r.writeClient(ctx, stmt, orgID, id, entity.ErrConflict)
}

func (r *Repository) MarkClientDeleted(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	deletedAt time.Time,
) (entity.Client, error) {
	stmt := psql.Update(clientsTable).
		Set("deleted_at", deletedAt).
		Set("updated_at", deletedAt).
		Where(sq.Eq{"organization_id": orgID.String(), "id": id.String(), "deleted_at": nil}).
		Suffix("RETURNING " + clientColumns)

	return r.writeClient(ctx, stmt, orgID, id, entity.ErrAlreadyDeleted)
}

func (r *Repository) RestoreClient(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	updatedAt time.Time,
) (entity.Client, error) {
	stmt := psql.Update(clientsTable).
		Set("deleted_at", nil).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"organization_id": orgID.String(), "id": id.String()}).
		Where(sq.NotEq{"deleted_at": nil}).
		Suffix("RETURNING " + clientColumns)

	return r.writeClient(ctx, stmt, orgID, id, entity.ErrNotDeleted)
}

// writeClient runs a guarded UPDATE ... RETURNING. When no row comes back, guardErr is
// reported if the client exists and ErrNotFound otherwise.
func (r *Repository) writeClient(
	ctx context.Context,
	stmt sq.UpdateBuilder,
	orgID entity.OrganizationID,
	id entity.ClientID,
	guardErr error,
) (entity.Client, error) {
	sql, args, err := stmt.ToSql()
	if err != nil {
		return entity.Client{}, err
	}

	c, err := scanClient(r.conn(ctx).QueryRow(ctx, sql, args...))
	if errors.Is(err, entity.ErrNotFound) {
		return entity.Client{}, r.missed(ctx, clientsTable, orgID, id.UUID(), guardErr)
	}

	if err != nil {
		return entity.Client{}, mapPgErr(err)
	}

	return c, nil
}

func scanClient(row pgx.Row) (entity.Client, error) {
	var (
		c     entity.Client
		id    uuid.UUID
		orgID string
	)

	err := row.Scan(
		&id,
		&orgID,
		&c.CompanyName,
		&c.ContactPerson,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.Notes,
		&c.Version,
		&c.DeletedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Client{}, entity.ErrNotFound
		}

		return entity.Client{}, err
	}

	c.ID = entity.ClientID(id)
	c.OrganizationID = entity.OrganizationID(orgID)
	c.DeletedAt = utcPtr(c.DeletedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()

	return c, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := t.UTC()

	return &v
}
