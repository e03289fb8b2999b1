package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samandr77/microservices/crm/internal/entity"
	"github.com/samandr77/microservices/crm/pkg/logger"
)

// Transactor runs fn in one unit of work. Repository calls made with the ctx passed to fn join it.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ClientRepository interface {
	CreateClient(ctx context.Context, client entity.Client) error
	Clients(ctx context.Context, orgID entity.OrganizationID, filter entity.ClientFilter) ([]entity.Client, error)
	ClientByID(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error)
	LockActiveClient(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error)
	UpdateClient(
		ctx context.Context,
		orgID entity.OrganizationID,
		id entity.ClientID,
		patch entity.ClientPatch,
		expectedVersion int,
		updatedAt time.Time,
	) (entity.Client, error)
	MarkClientDeleted(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID, deletedAt time.Time) (entity.Client, error)
	RestoreClient(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID, updatedAt time.Time) (entity.Client, error)
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project entity.Project) error
	Projects(ctx context.Context, orgID entity.OrganizationID, filter entity.ProjectFilter) ([]entity.Project, error)
	ProjectByID(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) (entity.Project, error)
	UpdateProject(
		ctx context.Context,
		orgID entity.OrganizationID,
		id entity.ProjectID,
		patch entity.ProjectPatch,
		expectedVersion int,
		updatedAt time.Time,
	) (entity.Project, error)
	DeleteProject(ctx context.Context, orgID entity.OrganizationID, id entity.ProjectID) error
	DetachClient(ctx context.Context, orgID entity.OrganizationID, clientID entity.ClientID) (int64, error)
}

type Repository interface {
	Transactor
	ClientRepository
	ProjectRepository
}

type Service struct {
	repo      Repository
	publisher Publisher
	now       func() time.Time
}

func New(repo Repository, publisher Publisher) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}

	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       now,
	}
}

// now is truncated to the storage precision so returned records equal what a later read yields.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func scope(ctx context.Context, orgID entity.OrganizationID) context.Context {
	return logger.SetOrganizationID(ctx, orgID.String())
}

func checkOrg(verr *entity.ValidationError, orgID entity.OrganizationID) {
	if orgID.IsEmpty() {
		verr.Add("organizationId", entity.ErrMsgRequired)
	}
}

func checkVersion(verr *entity.ValidationError, expectedVersion int) {
	if expectedVersion < 1 {
		verr.Add("version", "must be at least 1")
	}
}

// storageErr passes business outcomes through and turns anything else into a logged DatabaseError.
func (s *Service) storageErr(ctx context.Context, op string, err error) error {
	if entity.IsBusiness(err) {
		if errors.Is(err, entity.ErrConflict) {
			slog.WarnContext(ctx, "optimistic lock rejected write", "op", op)
		}

		return err
	}

	var dbErr *entity.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	slog.ErrorContext(ctx, "storage failure", "op", op, "error", err)

	return &entity.DatabaseError{Op: op, Err: err}
}
