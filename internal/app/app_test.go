package app_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/crm/internal/app"
	"github.com/samandr77/microservices/crm/internal/entity"
	"github.com/samandr77/microservices/crm/pkg/config"
)

func TestNew_MemoryDriver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := app.New(ctx, config.Config{StorageDriver: config.StorageDriverMemory}, l)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	client, err := a.Service.CreateClient(ctx, "org-1", entity.CreateClientInput{
		CompanyName:   "Acme",
		ContactPerson: "Jane Doe",
		Email:         "jane@acme.test",
		Phone:         "+1 555 0100",
	})
	require.NoError(t, err)

	project, err := a.Service.CreateProject(ctx, "org-1", entity.CreateProjectInput{
		Name:      "Redesign",
		ClientID:  &client.ID,
		StartDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = a.Service.SoftDeleteClient(ctx, "org-1", client.ID)
	require.NoError(t, err)

	got, err := a.Service.ProjectByID(ctx, "org-1", project.ID)
	require.NoError(t, err)
	require.Nil(t, got.ClientID)
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := app.New(context.Background(), config.Config{StorageDriver: "sqlite"}, l)
	require.ErrorContains(t, err, "sqlite")
}
