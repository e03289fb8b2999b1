package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func (s *Service) CreateProject(ctx context.Context, orgID entity.OrganizationID, in entity.CreateProjectInput) (entity.Project, error) {
	ctx = scope(ctx, orgID)
	in = normalizeProjectInput(in)

	verr := &entity.ValidationError{}
	checkOrg(verr, orgID)
	validateCreateProject(verr, in)

	if err := verr.OrNil(); err != nil {
		slog.DebugContext(ctx, "create project rejected", "error", err)
		return entity.Project{}, err
	}

	createdAt := s.now()

	project := entity.Project{
		ID:             entity.NewProjectID(),
		OrganizationID: orgID,
		Name:           in.Name,
		Description:    in.Description,
		ClientID:       in.ClientID,
		Status:         in.Status,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Budget:         in.Budget,
		Notes:          in.Notes,
		Version:        1,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		if project.ClientID != nil {
			if err := s.ensureClientReference(ctx, orgID, *project.ClientID); err != nil {
				return err
			}
		}

		return s.repo.CreateProject(ctx, project)
	})
	if err != nil {
		return entity.Project{}, s.storageErr(ctx, "create project", err)
	}

	slog.InfoContext(ctx, "project created", "project_id", project.ID)
	s.publisher.Publish(ctx, entity.ProjectEvent(entity.EventProjectCreated, project, createdAt))

	return project, nil
}

func (s *Service) ListProjects(ctx context.Context, orgID entity.OrganizationID, filter entity.ProjectFilter) ([]entity.Project, error) {
	ctx = scope(ctx, orgID)
	filter = filter.Normalize()

	verr := &entity.ValidationError{}
	checkOrg(verr, orgID)

	var filterErr *entity.ValidationError
	if errors.As(filter.Validate(), &filterErr) {
		for field, msg := range filterErr.Fields {
			verr.Add(field, msg)
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	projects, err := s.repo.Projects(ctx, orgID, filter)
	if err != nil {
		return nil, s.storageErr(ctx, "list projects", err)
	}

	return projects, nil
}

func (s *Service) ProjectByID(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) (entity.Project, error) {
	ctx = scope(ctx, orgID)

	if orgID.IsEmpty() {
		return entity.Project{}, entity.ErrNotFound
	}

	project, err := s.repo.ProjectByID(ctx, orgID, id)
	if err != nil {
		return entity.Project{}, s.storageErr(ctx, "get project", err)
	}

	return project, nil
}

// ProjectsByClient returns every project linked to the client, whatever its status.
func (s *Service) ProjectsByClient(ctx context.Context, orgID entity.OrganizationID, clientID entity.ClientID) ([]entity.Project, error) {
	return s.ListProjects(ctx, orgID, entity.ProjectFilter{ClientID: &clientID})
}

// UpdateProject applies patch when the stored version still equals expectedVersion.
// Date ordering is checked against the merged record, so changing only one side of the range is covered too.
func (s *Service) UpdateProject(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ProjectID,
	patch entity.ProjectPatch,
	expectedVersion int,
) (entity.Project, error) {
	ctx = scope(ctx, orgID)
	patch = normalizeProjectPatch(patch)

	verr := &entity.ValidationError{}
	checkOrg(verr, orgID)
	checkVersion(verr, expectedVersion)
	validateProjectPatch(verr, patch)

	if err := verr.OrNil(); err != nil {
		slog.DebugContext(ctx, "update project rejected", "project_id", id, "error", err)
		return entity.Project{}, err
	}

	var project entity.Project

	updatedAt := s.now()

	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.ProjectByID(ctx, orgID, id)
		if err != nil {
			return err
		}

		if current.Version != expectedVersion {
			return entity.ErrConflict
		}

		merged := patch.Apply(current)

		verr := &entity.ValidationError{}
		validateDates(verr, merged.StartDate, merged.EndDate)

		if err := verr.OrNil(); err != nil {
			return err
		}

		// Relinking the current client still takes the lock: a soft delete may have detached it since the read.
		if patch.ClientID.HasValue() {
			if err := s.ensureClientReference(ctx, orgID, patch.ClientID.Value); err != nil {
				return err
			}
		}

		project, err = s.repo.UpdateProject(ctx, orgID, id, patch, expectedVersion, updatedAt)

		return err
	})
	if err != nil {
		return entity.Project{}, s.storageErr(ctx, "update project", err)
	}

	slog.InfoContext(ctx, "project updated", "project_id", id, "version", project.Version)
	s.publisher.Publish(ctx, entity.ProjectEvent(entity.EventProjectUpdated, project, updatedAt))

	return project, nil
}

// UpdateProjectStatus is UpdateProject with only the status changed. Any status may follow any other.
func (s *Service) UpdateProjectStatus(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ProjectID,
	status entity.ProjectStatus,
	expectedVersion int,
) (entity.Project, error) {
	return s.UpdateProject(ctx, orgID, id, entity.ProjectPatch{Status: &status}, expectedVersion)
}

func (s *Service) DeleteProject(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) error {
	ctx = scope(ctx, orgID)

	if orgID.IsEmpty() {
		return entity.ErrNotFound
	}

	err := s.repo.DeleteProject(ctx, orgID, id)
	if err != nil {
		return s.storageErr(ctx, "delete project", err)
	}

	slog.InfoContext(ctx, "project deleted", "project_id", id)
	s.publisher.Publish(ctx, entity.Event{
		Type:           entity.EventProjectDeleted,
		OrganizationID: orgID,
		EntityID:       id.String(),
		OccurredAt:     s.now(),
	})

	return nil
}
