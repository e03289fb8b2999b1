package repository

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/samandr77/microservices/crm/internal/entity"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE wildcards in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func clientConditions(orgID entity.OrganizationID, f entity.ClientFilter) sq.And {
	conds := sq.And{sq.Eq{"organization_id": orgID.String()}}

	if !f.IncludeDeleted {
		conds = append(conds, sq.Eq{"deleted_at": nil})
	}

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		conds = append(conds, sq.Or{
			sq.ILike{"company_name": pattern},
			sq.ILike{"contact_person": pattern},
		})
	}

	return conds
}

// projectConditions mirrors entity.ProjectFilter.Match. NULL end dates fail the end date comparisons on their own.
func projectConditions(orgID entity.OrganizationID, f entity.ProjectFilter) sq.And {
	conds := sq.And{sq.Eq{"organization_id": orgID.String()}}

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		conds = append(conds, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}

	if f.ClientID != nil {
		conds = append(conds, sq.Eq{"client_id": f.ClientID.String()})
	}

	if f.Status != nil {
		conds = append(conds, sq.Eq{"status": f.Status.String()})
	}

	if f.StartDateFrom != nil {
		conds = append(conds, sq.GtOrEq{"start_date": *f.StartDateFrom})
	}

	if f.StartDateTo != nil {
		conds = append(conds, sq.LtOrEq{"start_date": *f.StartDateTo})
	}

	if f.EndDateFrom != nil {
		conds = append(conds, sq.GtOrEq{"end_date": *f.EndDateFrom})
	}

	if f.EndDateTo != nil {
		conds = append(conds, sq.LtOrEq{"end_date": *f.EndDateTo})
	}

	return conds
}

func paginate(stmt sq.SelectBuilder, limit, offset uint64) sq.SelectBuilder {
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	if offset > 0 {
		stmt = stmt.Offset(offset)
	}

	return stmt
}
