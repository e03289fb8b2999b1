package memory

import (
	"context"
	"time"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func (s *Store) CreateClient(ctx context.Context, c entity.Client) error {
	defer s.write(ctx)()

	s.clients[clientKey{c.OrganizationID, c.ID}] = cloneClient(c)

	return nil
}

func (s *Store) Clients(ctx context.Context, orgID entity.OrganizationID, f entity.ClientFilter) ([]entity.Client, error) {
	defer s.read(ctx)()

	clients := make([]entity.Client, 0)

	for key, c := range s.clients {
		if key.orgID == orgID && f.Match(c) {
			clients = append(clients, cloneClient(c))
		}
	}

	sortClients(clients)

	return page(clients, f.Limit, f.Offset), nil
}

func (s *Store) ClientByID(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	defer s.read(ctx)()

	c, ok := s.clients[clientKey{orgID, id}]
	if !ok {
		return entity.Client{}, entity.ErrNotFound
	}

	return cloneClient(c), nil
}

// LockActiveClient needs no row lock here: transactions already run one at a time.
func (s *Store) LockActiveClient(ctx context.Context, orgID entity.OrganizationID, id entity.ClientID) (entity.Client, error) {
	c, err := s.ClientByID(ctx, orgID, id)
	if err != nil {
		return entity.Client{}, err
	}

	if !c.IsActive() {
		return entity.Client{}, entity.ErrNotFound
	}

	return c, nil
}

func (s *Store) UpdateClient(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	p entity.ClientPatch,
	expectedVersion int,
	updatedAt time.Time,
) (entity.Client, error) {
	return s.modifyClient(ctx, orgID, id, func(c entity.Client) (entity.Client, error) {
		if c.Version != expectedVersion {
			return entity.Client{}, entity.ErrConflict
		}

		c = p.Apply(c)
		c.Version++
		c.UpdatedAt = updatedAt

		return c, nil
	})
}

func (s *Store) MarkClientDeleted(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	deletedAt time.Time,
) (entity.Client, error) {
	return s.modifyClient(ctx, orgID, id, func(c entity.Client) (entity.Client, error) {
		if !c.IsActive() {
			return entity.Client{}, entity.ErrAlreadyDeleted
		}

		c.DeletedAt = &deletedAt
		c.UpdatedAt = deletedAt

		return c, nil
	})
}

func (s *Store) RestoreClient(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	updatedAt time.Time,
) (entity.Client, error) {
	return s.modifyClient(ctx, orgID, id, func(c entity.Client) (entity.Client, error) {
		if c.IsActive() {
			return entity.Client{}, entity.ErrNotDeleted
		}

		c.DeletedAt = nil
		c.UpdatedAt = updatedAt

		return c, nil
	})
}

func (s *Store) modifyClient(
	ctx context.Context,
	orgID entity.OrganizationID,
	id entity.ClientID,
	fn func(c entity.Client) (entity.Client, error),
) (entity.Client, error) {
	defer s.write(ctx)()

	key := clientKey{orgID, id}

	c, ok := s.clients[key]
	if !ok {
		return entity.Client{}, entity.ErrNotFound
	}

	c, err := fn(cloneClient(c))
	if err != nil {
		return entity.Client{}, err
	}

	s.clients[key] = c

	return cloneClient(c), nil
}

func cloneClient(c entity.Client) entity.Client {
	c.Address = clonePtr(c.Address)
	c.Notes = clonePtr(c.Notes)
	c.DeletedAt = clonePtr(c.DeletedAt)

	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
