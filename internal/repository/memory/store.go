// Package memory keeps clients and projects in process memory. It honours the same
// contract as the Postgres repository and backs tests and STORAGE_DRIVER=memory runs.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/samandr77/microservices/crm/internal/entity"
	"github.com/samandr77/microservices/crm/internal/service"
)

var _ service.Repository = (*Store)(nil)

type clientKey struct {
	orgID entity.OrganizationID
	id    entity.ClientID
}

type projectKey struct {
	orgID entity.OrganizationID
	id    entity.ProjectID
}

type txKey struct{}

type Store struct {
	mu       sync.RWMutex
	clients  map[clientKey]entity.Client
	projects map[projectKey]entity.Project
}

func New() *Store {
	return &Store{
		clients:  make(map[clientKey]entity.Client),
		projects: make(map[projectKey]entity.Project),
	}
}

// InTx holds the write lock for the whole of fn and restores the pre-fn state when fn fails.
// Calls made with the ctx given to fn run under that lock.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients := maps.Clone(s.clients)
	projects := maps.Clone(s.projects)

	err := fn(context.WithValue(ctx, txKey{}, true))
	if err != nil {
		s.clients = clients
		s.projects = projects

		return err
	}

	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) read(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}

	s.mu.RLock()

	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}

	s.mu.Lock()

	return s.mu.Unlock
}

func page[T any](items []T, limit, offset uint64) []T {
	if offset >= uint64(len(items)) {
		return items[:0]
	}

	items = items[offset:]

	if limit > 0 && limit < uint64(len(items)) {
		items = items[:limit]
	}

	return items
}

func sortClients(clients []entity.Client) {
	slices.SortFunc(clients, func(a, b entity.Client) int {
		return cmp.Or(
			cmp.Compare(a.CompanyName, b.CompanyName),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
}

func sortProjects(projects []entity.Project) {
	slices.SortFunc(projects, func(a, b entity.Project) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
}
