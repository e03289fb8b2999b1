package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/crm/internal/entity"
	"github.com/samandr77/microservices/crm/internal/mocks"
	"github.com/samandr77/microservices/crm/internal/repository/memory"
	"github.com/samandr77/microservices/crm/internal/service"
)

func TestService_CreateClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	var event entity.Event

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e entity.Event) {
		event = e
	})

	s := service.New(memory.New(), publisher)

	in := acmeInput()
	in.CompanyName = "  Acme  "
	in.Address = ptr("   ")

	client, err := s.CreateClient(ctx, org1, in)
	require.NoError(t, err)
	require.Equal(t, "Acme", client.CompanyName)
	require.Nil(t, client.Address)
	require.Equal(t, 1, client.Version)
	require.Nil(t, client.DeletedAt)
	require.Equal(t, org1, client.OrganizationID)
	require.False(t, client.ID.IsNil())
	require.Equal(t, client.CreatedAt, client.UpdatedAt)

	require.Equal(t, entity.EventClientCreated, event.Type)
	require.Equal(t, client.ID.String(), event.EntityID)
	require.Equal(t, org1, event.OrganizationID)
}

func TestService_CreateClientValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(in *entity.CreateClientInput)
		field  string
		msg    string
	}{
		{
			name:   "blank company name",
			modify: func(in *entity.CreateClientInput) { in.CompanyName = "   " },
			field:  "companyName",
			msg:    entity.ErrMsgRequired,
		},
		{
			name:   "company name too long",
			modify: func(in *entity.CreateClientInput) { in.CompanyName = strings.Repeat("a", 201) },
			field:  "companyName",
			msg:    "must be at most 200 characters",
		},
		{
			name:   "contact person too long",
			modify: func(in *entity.CreateClientInput) { in.ContactPerson = strings.Repeat("a", 101) },
			field:  "contactPerson",
			msg:    "must be at most 100 characters",
		},
		{
			name:   "invalid email",
			modify: func(in *entity.CreateClientInput) { in.Email = "not-an-email" },
			field:  "email",
			msg:    entity.ErrMsgInvalidEmail,
		},
		{
			name:   "missing phone",
			modify: func(in *entity.CreateClientInput) { in.Phone = "" },
			field:  "phone",
			msg:    entity.ErrMsgRequired,
		},
		{
			name:   "address too long",
			modify: func(in *entity.CreateClientInput) { in.Address = ptr(strings.Repeat("a", 501)) },
			field:  "address",
			msg:    "must be at most 500 characters",
		},
		{
			name:   "notes too long",
			modify: func(in *entity.CreateClientInput) { in.Notes = ptr(strings.Repeat("a", 2001)) },
			field:  "notes",
			msg:    "must be at most 2000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, store := newService(t)
			in := acmeInput()
			tt.modify(&in)

			_, err := s.CreateClient(context.Background(), org1, in)

			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.msg, verr.Fields[tt.field])

			clients, err := store.Clients(context.Background(), org1, entity.ClientFilter{IncludeDeleted: true})
			require.NoError(t, err)
			require.Empty(t, clients)
		})
	}
}

func TestService_ClientTenantIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	client, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	_, crossErr := s.ClientByID(ctx, org2, client.ID)
	_, missingErr := s.ClientByID(ctx, org1, entity.NewClientID())
	require.ErrorIs(t, crossErr, entity.ErrNotFound)
	require.Equal(t, missingErr, crossErr)
	require.Equal(t, entity.ErrorBodyOf(missingErr), entity.ErrorBodyOf(crossErr))

	_, err = s.UpdateClient(ctx, org2, client.ID, entity.ClientPatch{Notes: entity.Set("x")}, 1)
	require.ErrorIs(t, err, entity.ErrNotFound)

	_, err = s.SoftDeleteClient(ctx, org2, client.ID)
	require.ErrorIs(t, err, entity.ErrNotFound)

	listed, err := s.ListClients(ctx, org2, entity.ClientFilter{})
	require.NoError(t, err)
	require.Empty(t, listed)

	got, err := s.ClientByID(ctx, org1, client.ID)
	require.NoError(t, err)
	require.Equal(t, client, got)
}

func TestService_UpdateClientOptimisticLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	client, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	updated, err := s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Notes: entity.Set("x")}, 1)
	require.NoError(t, err)
	require.Equal(t, 2, updated.Version)
	require.Equal(t, "x", *updated.Notes)
	require.Equal(t, client.CompanyName, updated.CompanyName)
	require.False(t, updated.UpdatedAt.Before(client.UpdatedAt))

	_, err = s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Notes: entity.Set("y")}, 1)
	require.ErrorIs(t, err, entity.ErrConflict)
	require.Equal(t, entity.KindConflict, entity.KindOf(err))
	require.Equal(t, entity.ErrConflict.Error(), entity.ErrorBodyOf(err).Message)

	got, err := s.ClientByID(ctx, org1, client.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)

	cleared, err := s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Notes: entity.Null[string]()}, 2)
	require.NoError(t, err)
	require.Nil(t, cleared.Notes)
	require.Equal(t, 3, cleared.Version)
}

func TestService_UpdateClientValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	client, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	_, err = s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{}, 1)
	requireFields(t, err, "input")

	_, err = s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Email: ptr("bad")}, 1)
	requireFields(t, err, "email")

	_, err = s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{CompanyName: ptr("  ")}, 1)
	requireFields(t, err, "companyName")

	_, err = s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Notes: entity.Set("x")}, 0)
	requireFields(t, err, "version")

	_, err = s.UpdateClient(ctx, org1, entity.NewClientID(), entity.ClientPatch{Notes: entity.Set("x")}, 1)
	require.ErrorIs(t, err, entity.ErrNotFound)

	got, err := s.ClientByID(ctx, org1, client.ID)
	require.NoError(t, err)
	require.Equal(t, client, got)
}

func TestService_ListClients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	acme, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	globex := acmeInput()
	globex.CompanyName = "Globex"
	globex.ContactPerson = "Hank Scorpio"

	_, err = s.CreateClient(ctx, org1, globex)
	require.NoError(t, err)

	found, err := s.ListClients(ctx, org1, entity.ClientFilter{Search: "  SCORP "})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Globex", found[0].CompanyName)

	_, err = s.SoftDeleteClient(ctx, org1, acme.ID)
	require.NoError(t, err)

	active, err := s.ListClients(ctx, org1, entity.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Globex", active[0].CompanyName)

	all, err := s.ListClients(ctx, org1, entity.ClientFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Acme", all[0].CompanyName)
}

func TestService_SoftDeleteClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	var events []entity.Event

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e entity.Event) {
		events = append(events, e)
	}).AnyTimes()

	store := memory.New()
	s := service.New(store, publisher)

	acme, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	other, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	redesign, err := s.CreateProject(ctx, org1, entity.CreateProjectInput{
		Name:      "Redesign",
		ClientID:  &acme.ID,
		StartDate: date(2025, 10, 15),
		EndDate:   ptr(date(2025, 12, 31)),
	})
	require.NoError(t, err)

	audit, err := s.CreateProject(ctx, org1, entity.CreateProjectInput{
		Name:      "Audit",
		ClientID:  &acme.ID,
		Status:    entity.ProjectStatusCompleted,
		StartDate: date(2025, 1, 1),
	})
	require.NoError(t, err)

	untouched, err := s.CreateProject(ctx, org1, entity.CreateProjectInput{
		Name:      "Other",
		ClientID:  &other.ID,
		StartDate: date(2025, 1, 1),
	})
	require.NoError(t, err)

	// Same client id under another tenant.
	foreign := acme
	foreign.OrganizationID = org2
	foreign.DeletedAt = nil
	require.NoError(t, store.CreateClient(ctx, foreign))

	foreignProject, err := s.CreateProject(ctx, org2, entity.CreateProjectInput{
		Name:      "Foreign",
		ClientID:  &acme.ID,
		StartDate: date(2025, 1, 1),
	})
	require.NoError(t, err)

	deleted, err := s.SoftDeleteClient(ctx, org1, acme.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	require.Equal(t, acme.Version, deleted.Version)

	last := events[len(events)-1]
	require.Equal(t, entity.EventClientDeleted, last.Type)
	require.EqualValues(t, 2, last.DetachedProjects)

	for _, before := range []entity.Project{redesign, audit} {
		after, err := s.ProjectByID(ctx, org1, before.ID)
		require.NoError(t, err)
		require.Nil(t, after.ClientID)

		before.ClientID = nil
		require.Equal(t, before, after)
	}

	got, err := s.ProjectByID(ctx, org1, untouched.ID)
	require.NoError(t, err)
	require.Equal(t, untouched, got)

	got, err = s.ProjectByID(ctx, org2, foreignProject.ID)
	require.NoError(t, err)
	require.Equal(t, foreignProject, got)

	_, err = s.SoftDeleteClient(ctx, org1, acme.ID)
	require.ErrorIs(t, err, entity.ErrAlreadyDeleted)
	require.Equal(t, entity.KindInvalidState, entity.KindOf(err))
	require.Equal(t, entity.ErrAlreadyDeleted.Error(), entity.ErrorBodyOf(err).Message)

	_, err = s.SoftDeleteClient(ctx, org1, entity.NewClientID())
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_SoftDeleteWithoutProjects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	client, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	deleted, err := s.SoftDeleteClient(ctx, org1, client.ID)
	require.NoError(t, err)
	require.False(t, deleted.IsActive())

	got, err := s.ClientByID(ctx, org1, client.ID)
	require.NoError(t, err)
	require.Equal(t, deleted, got)
}

func TestService_UpdateAfterSoftDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	client, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	_, err = s.SoftDeleteClient(ctx, org1, client.ID)
	require.NoError(t, err)

	updated, err := s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Notes: entity.Set("x")}, 1)
	require.NoError(t, err)
	require.Equal(t, 2, updated.Version)
	require.NotNil(t, updated.DeletedAt)

	_, err = s.UpdateClient(ctx, org1, client.ID, entity.ClientPatch{Notes: entity.Set("x")}, 1)
	require.ErrorIs(t, err, entity.ErrConflict)
}

func TestService_RestoreClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newService(t)

	client, err := s.CreateClient(ctx, org1, acmeInput())
	require.NoError(t, err)

	project, err := s.CreateProject(ctx, org1, entity.CreateProjectInput{
		Name:      "Redesign",
		ClientID:  &client.ID,
		StartDate: date(2025, 10, 15),
	})
	require.NoError(t, err)

	_, err = s.RestoreClient(ctx, org1, client.ID)
	require.ErrorIs(t, err, entity.ErrNotDeleted)
	require.Equal(t, entity.KindInvalidState, entity.KindOf(err))

	_, err = s.SoftDeleteClient(ctx, org1, client.ID)
	require.NoError(t, err)

	restored, err := s.RestoreClient(ctx, org1, client.ID)
	require.NoError(t, err)
	require.Nil(t, restored.DeletedAt)
	require.Equal(t, client.Version, restored.Version)

	got, err := s.ProjectByID(ctx, org1, project.ID)
	require.NoError(t, err)
	require.Nil(t, got.ClientID)

	_, err = s.RestoreClient(ctx, org2, client.ID)
	require.ErrorIs(t, err, entity.ErrNotFound)
}
