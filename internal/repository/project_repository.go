package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func (r *Repository) CreateProject(ctx context.Context, p entity.Project) error {
	const q = `
	INSERT INTO projects (
		id,
		organization_id,
		name,
		description,
		client_id,
		status,
		start_date,
		end_date,
		budget,
		notes,
		version,
		created_at,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.conn(ctx).Exec(
		ctx,
		q,
		p.ID.UUID(),
		p.OrganizationID.String(),
		p.Name,
		p.Description,
		nullUUID(p.ClientID),
		p.Status.String(),
		p.StartDate,
		p.EndDate,
		nullDecimal(p.Budget),
		p.Notes,
		p.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return mapPgErr(err)
	}

	return nil
}

func (r *Repository) Projects(ctx context.Context, orgID entity.OrganizationID, f entity.ProjectFilter) ([]entity.Project, error) {
	stmt := psql.Select(projectColumns).
		From(projectsTable).
		Where(projectConditions(orgID, f)).
		OrderBy("created_at DESC", "id ASC")

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

	projects := make([]entity.Project, 0)

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}

		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (r *Repository) ProjectByID(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) (entity.Project, error) {
	q := selectProject + " WHERE organization_id = $1 AND id = $2"
	return scanProject(r.conn(ctx).QueryRow(ctx, q, orgID.String(), id.UUID()))
}

// UpdateProject writes only the patched columns, so columns changed by other writers in between
// (such as a detached client) are never written back.
func (r *Repository) UpdateProject(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ProjectID,
	p entity.ProjectPatch,
	expectedVersion int,
	updatedAt time.Time,
) (entity.Project, error) {
	stmt := psql.Update(projectsTable).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", updatedAt).
		Where(sq.Eq{
			"organization_id": orgID.String(),
			"id":              id.String(),
			"version":         expectedVersion,
		}).
		Suffix("RETURNING " + projectColumns)

	if p.Name != nil {
		stmt = stmt.Set("name", *p.Name)
	}

	if p.Description.IsSet {
		stmt = stmt.Set("description", p.Description.Ptr())
	}

	if p.ClientID.IsSet {
		stmt = stmt.Set("client_id", nullUUID(p.ClientID.Ptr()))
	}

	if p.Status != nil {
		stmt = stmt.Set("status", p.Status.String())
	}

	if p.StartDate != nil {
		stmt = stmt.Set("start_date", *p.StartDate)
	}

	if p.EndDate.IsSet {
		stmt = stmt.Set("end_date", p.EndDate.Ptr())
	}

	if p.Budget.IsSet {
		stmt = stmt.Set("budget", nullDecimal(p.Budget.Ptr()))
	}

	if p.Notes.IsSet {
		stmt = stmt.Set("notes", p.Notes.Ptr())
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return entity.Project{}, err
	}

	project, err := scanProject(r.conn(ctx).QueryRow(ctx, sql, args...))
	if errors.Is(err, entity.ErrNotFound) {
		return entity.Project{}, r.missed(ctx, projectsTable, orgID, id.UUID(), entity.ErrConflict)
	}

	if err != nil {
		return entity.Project{}, mapPgErr(err)
	}

	return project, nil
}

func (r *Repository) DeleteProject(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) error {
	const q = `DELETE FROM projects WHERE organization_id = $1 AND id = $2`

	result, err := r.conn(ctx).Exec(ctx, q, orgID.String(), id.UUID())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// DetachClient clears client_id on the organization's projects that reference clientID.
// Version and updated_at are left alone: the project itself was not edited.
func (r *Repository) DetachClient(ctx context.Context, orgID entity.OrganizationID, clientID entity.ClientID) (int64, error) {
	const q = `UPDATE projects SET client_id = NULL WHERE organization_id = $1 AND client_id = $2`

	result, err := r.conn(ctx).Exec(ctx, q, orgID.String(), clientID.UUID())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func scanProject(row pgx.Row) (entity.Project, error) {
	var (
		p        entity.Project
		id       uuid.UUID
		orgID    string
		clientID uuid.NullUUID
		status   string
		budget   decimal.NullDecimal
	)

	err := row.Scan(
		&id,
		&orgID,
		&p.Name,
		&p.Description,
		&clientID,
		&status,
		&p.StartDate,
		&p.EndDate,
		&budget,
		&p.Notes,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Project{}, entity.ErrNotFound
		}

		return entity.Project{}, err
	}

	p.ID = entity.ProjectID(id)
	p.OrganizationID = entity.OrganizationID(orgID)
	p.Status = entity.ProjectStatus(status)
	p.StartDate = entity.Date(p.StartDate)
	p.EndDate = entity.DatePtr(p.EndDate)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	if clientID.Valid {
		cid := entity.ClientID(clientID.UUID)
		p.ClientID = &cid
	}

	if budget.Valid {
		b := budget.Decimal
		p.Budget = &b
	}

	return p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
