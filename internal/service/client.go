package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func (s *Service) CreateClient(ctx context.Context, orgID entity.OrganizationID, in entity.CreateClientInput) (entity.Client, error) {
	ctx = scope(ctx, orgID)
	in = normalizeClientInput(in)

	verr := &entity.ValidationError{}
	checkOrg(verr, orgID)
	validateStruct(verr, in)

	if err := verr.OrNil(); err != nil {
		slog.DebugContext(ctx, "create client rejected", "error", err)
		return entity.Client{}, err
	}

	createdAt := s.now()

	client := entity.Client{
		ID:             entity.NewClientID(),
		OrganizationID: orgID,
		CompanyName:    in.CompanyName,
		ContactPerson:  in.ContactPerson,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		Notes:          in.Notes,
		Version:        1,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return entity.Client{}, s.storageErr(ctx, "create client", err)
	}

	slog.InfoContext(ctx, "client created", "client_id", client.ID)
	s.publisher.Publish(ctx, entity.ClientEvent(entity.EventClientCreated, client, createdAt))

	return client, nil
}

func (s *Service) ListClients(ctx context.Context, orgID entity.OrganizationID, filter entity.ClientFilter) ([]entity.Client, error) {
	ctx = scope(ctx, orgID)

	verr := &entity.ValidationError{}
	checkOrg(verr, orgID)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	clients, err := s.repo.Clients(ctx, orgID, filter.Normalize())
	if err != nil {
		return nil, s.storageErr(ctx, "list clients", err)
	}

	return clients, nil
}

// ClientByID also returns soft-deleted clients.
func (s *Service) ClientByID(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	ctx = scope(ctx, orgID)

	if orgID.IsEmpty() {
		return entity.Client{}, entity.ErrNotFound
	}

	client, err := s.repo.ClientByID(ctx, orgID, id)
	if err != nil {
		return entity.Client{}, s.storageErr(ctx, "get client", err)
	}

	return client, nil
}

func (s *Service) UpdateClient(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	patch entity.ClientPatch,
	expectedVersion int,
) (entity.Client, error) {
	ctx = scope(ctx, orgID)
	patch = normalizeClientPatch(patch)

	verr := &entity.ValidationError{}
	checkOrg(verr, orgID)
	checkVersion(verr, expectedVersion)
	validateClientPatch(verr, patch)

	if err := verr.OrNil(); err != nil {
		slog.DebugContext(ctx, "update client rejected", "client_id", id, "error", err)
		return entity.Client{}, err
	}

	updatedAt := s.now()

	client, err := s.repo.UpdateClient(ctx, orgID, id, patch, expectedVersion, updatedAt)
	if err != nil {
		return entity.Client{}, s.storageErr(ctx, "update client", err)
	}

	slog.InfoContext(ctx, "client updated", "client_id", id, "version", client.Version)
	s.publisher.Publish(ctx, entity.ClientEvent(entity.EventClientUpdated, client, updatedAt))

	return client, nil
}

// SoftDeleteClient marks the client deleted and detaches its projects in one transaction.
// The version is left as is. Deleting an already deleted client fails with ErrAlreadyDeleted.
func (s *Service) SoftDeleteClient(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	ctx = scope(ctx, orgID)

	if orgID.IsEmpty() {
		return entity.Client{}, entity.ErrNotFound
	}

	var (
		client   entity.Client
		detached int64
	)

	deletedAt := s.now()

	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		var err error

		client, err = s.repo.MarkClientDeleted(ctx, orgID, id, deletedAt)
		if err != nil {
			return err
		}

		detached, err = s.detachProjects(ctx, orgID, id)

		return err
	})
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyDeleted) {
			slog.WarnContext(ctx, "client is already deleted", "client_id", id)
		}

		return entity.Client{}, s.storageErr(ctx, "soft delete client", err)
	}

	slog.InfoContext(ctx, "client deleted", "client_id", id, "detached_projects", detached)

	event := entity.ClientEvent(entity.EventClientDeleted, client, deletedAt)
	event.DetachedProjects = detached
	s.publisher.Publish(ctx, event)

	return client, nil
}

// RestoreClient clears deletedAt. Projects detached by the deletion stay detached.
func (s *Service) RestoreClient(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	ctx = scope(ctx, orgID)

	if orgID.IsEmpty() {
		return entity.Client{}, entity.ErrNotFound
	}

	restoredAt := s.now()

	client, err := s.repo.RestoreClient(ctx, orgID, id, restoredAt)
	if err != nil {
		if errors.Is(err, entity.ErrNotDeleted) {
			slog.WarnContext(ctx, "client is not deleted", "client_id", id)
		}

		return entity.Client{}, s.storageErr(ctx, "restore client", err)
	}

	slog.InfoContext(ctx, "client restored", "client_id", id)
	s.publisher.Publish(ctx, entity.ClientEvent(entity.EventClientRestored, client, restoredAt))

	return client, nil
}
