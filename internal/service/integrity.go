package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samandr77/microservices/crm/internal/entity"
)

// ensureClientReference checks that clientID names an active client of the organization.
// The row stays locked until the surrounding transaction ends, so a concurrent soft delete
// cannot slip in between the check and the write.
func (s *Service) ensureClientReference(ctx context.Context, orgID entity.OrganizationID, clientID entity.ClientID) error {
	_, err := s.repo.LockActiveClient(ctx, orgID, clientID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.NewValidationError("clientId", entity.ErrMsgClientNotFound)
	}

	return err
}

// detachProjects clears the client reference on every project of the organization that points at clientID.
// It must run in the transaction that marks the client deleted.
func (s *Service) detachProjects(ctx context.Context, orgID entity.OrganizationID, clientID entity.ClientID) (int64, error) {
	n, err := s.repo.DetachClient(ctx, orgID, clientID)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		slog.DebugContext(ctx, "projects detached from client", "client_id", clientID, "count", n)
	}

	return n, nil
}
