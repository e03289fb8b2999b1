package memory

import (
	"context"
	"time"

	"github.com/samandr77/microservices/crm/internal/entity"
)

// CreateProject rejects references to clients the organization does not have, like the foreign key does.
func (s *Store) CreateProject(ctx context.Context, p entity.Project) error {
	defer s.write(ctx)()

	if err := s.checkClientRef(p.OrganizationID, p.ClientID); err != nil {
		return err
	}

	s.projects[projectKey{p.OrganizationID, p.ID}] = cloneProject(p)

	return nil
}

func (s *Store) Projects(ctx context.Context, orgID entity.OrganizationID, f entity.ProjectFilter) ([]entity.Project, error) {
	defer s.read(ctx)()

	projects := make([]entity.Project, 0)

	for key, p := range s.projects {
		if key.orgID == orgID && f.Match(p) {
			projects = append(projects, cloneProject(p))
		}
	}

	sortProjects(projects)

	return page(projects, f.Limit, f.Offset), nil
}

func (s *Store) ProjectByID(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) (entity.Project, error) {
	defer s.read(ctx)()

	p, ok := s.projects[projectKey{orgID, id}]
	if !ok {
		return entity.Project{}, entity.ErrNotFound
	}

	return cloneProject(p), nil
}

func (s *Store) UpdateProject(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ProjectID,
	patch entity.ProjectPatch,
	expectedVersion int,
	updatedAt time.Time,
) (entity.Project, error) {
	defer s.write(ctx)()

	key := projectKey{orgID, id}

	p, ok := s.projects[key]
	if !ok {
		return entity.Project{}, entity.ErrNotFound
	}

	if p.Version != expectedVersion {
		return entity.Project{}, entity.ErrConflict
	}

	p = patch.Apply(cloneProject(p))

	if patch.ClientID.IsSet {
		if err := s.checkClientRef(orgID, p.ClientID); err != nil {
			return entity.Project{}, err
		}
	}

	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return entity.Project{}, entity.NewValidationError("endDate", entity.ErrMsgEndBeforeStart)
	}

	p.Version++
	p.UpdatedAt = updatedAt
	s.projects[key] = p

	return cloneProject(p), nil
}

func (s *Store) DeleteProject(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) error {
	defer s.write(ctx)()

	key := projectKey{orgID, id}

	if _, ok := s.projects[key]; !ok {
		return entity.ErrNotFound
	}

	delete(s.projects, key)

	return nil
}

func (s *Store) DetachClient(ctx context.Context, orgID entity.OrganizationID, clientID entity.ClientID) (int64, error) {
	defer s.write(ctx)()

	var n int64

	for key, p := range s.projects {
		if key.orgID != orgID || p.ClientID == nil || *p.ClientID != clientID {
			continue
		}

		p.ClientID = nil
		s.projects[key] = p
		n++
	}

	return n, nil
}

func (s *Store) checkClientRef(orgID entity.OrganizationID, clientID *entity.ClientID) error {
	if clientID == nil {
		return nil
	}

	if _, ok := s.clients[clientKey{orgID, *clientID}]; !ok {
		return entity.NewValidationError("clientId", entity.ErrMsgClientNotFound)
	}

	return nil
}

func cloneProject(p entity.Project) entity.Project {
	p.Description = clonePtr(p.Description)
	p.ClientID = clonePtr(p.ClientID)
	p.EndDate = clonePtr(p.EndDate)
	p.Budget = clonePtr(p.Budget)
	p.Notes = clonePtr(p.Notes)

	return p
}
