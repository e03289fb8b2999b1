package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClientFilter_Match(t *testing.T) {
	t.Parallel()

	deletedAt := day(2025, 1, 1)
	acme := entity.Client{CompanyName: "Acme Corp", ContactPerson: "Wile E. Coyote"}
	gone := entity.Client{CompanyName: "Gone Ltd", ContactPerson: "Nobody", DeletedAt: &deletedAt}

	for _, tt := range []struct {
		name   string
		filter entity.ClientFilter
		client entity.Client
		want   bool
	}{
		{name: "no filter", client: acme, want: true},
		{name: "deleted hidden by default", client: gone, want: false},
		{name: "deleted included", filter: entity.ClientFilter{IncludeDeleted: true}, client: gone, want: true},
		{name: "company name", filter: entity.ClientFilter{Search: "acme"}, client: acme, want: true},
		{name: "contact person", filter: entity.ClientFilter{Search: "COYOTE"}, client: acme, want: true},
		{name: "no match", filter: entity.ClientFilter{Search: "globex"}, client: acme, want: false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tt.filter.Normalize().Match(tt.client))
		})
	}
}

func TestProjectFilter_Match(t *testing.T) {
	t.Parallel()

	clientID := entity.NewClientID()
	otherID := entity.NewClientID()
	end := day(2025, 12, 31)
	active := entity.ProjectStatusActive
	planning := entity.ProjectStatusPlanning

	project := entity.Project{
		Name:        "Redesign",
		Description: ptr("Landing pages"),
		ClientID:    &clientID,
		Status:      entity.ProjectStatusActive,
		StartDate:   day(2025, 10, 15),
		EndDate:     &end,
	}

	noEnd := project
	noEnd.EndDate = nil

	for _, tt := range []struct {
		name    string
		filter  entity.ProjectFilter
		project entity.Project
		want    bool
	}{
		{name: "no filter", project: project, want: true},
		{name: "search in description", filter: entity.ProjectFilter{Search: "LANDING"}, project: project, want: true},
		{name: "search misses", filter: entity.ProjectFilter{Search: "audit"}, project: project, want: false},
		{name: "client", filter: entity.ProjectFilter{ClientID: &clientID}, project: project, want: true},
		{name: "other client", filter: entity.ProjectFilter{ClientID: &otherID}, project: project, want: false},
		{name: "status", filter: entity.ProjectFilter{Status: &active}, project: project, want: true},
		{name: "other status", filter: entity.ProjectFilter{Status: &planning}, project: project, want: false},
		{
			name:    "start bounds inclusive",
			filter:  entity.ProjectFilter{StartDateFrom: ptr(day(2025, 10, 15)), StartDateTo: ptr(day(2025, 10, 15))},
			project: project,
			want:    true,
		},
		{name: "start before lower bound", filter: entity.ProjectFilter{StartDateFrom: ptr(day(2025, 10, 16))}, project: project, want: false},
		{name: "start after upper bound", filter: entity.ProjectFilter{StartDateTo: ptr(day(2025, 10, 14))}, project: project, want: false},
		{name: "end upper bound", filter: entity.ProjectFilter{EndDateTo: ptr(day(2025, 12, 31))}, project: project, want: true},
		{name: "end range needs an end date", filter: entity.ProjectFilter{EndDateFrom: ptr(day(2000, 1, 1))}, project: noEnd, want: false},
		{name: "no end filter keeps open projects", filter: entity.ProjectFilter{}, project: noEnd, want: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tt.filter.Normalize().Match(tt.project))
		})
	}
}

func TestProjectFilter_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, entity.ProjectFilter{}.Validate())
	require.NoError(t, entity.ProjectFilter{StartDateFrom: ptr(day(2025, 1, 1)), StartDateTo: ptr(day(2025, 1, 1))}.Validate())

	err := entity.ProjectFilter{
		EndDateFrom: ptr(day(2025, 2, 1)),
		EndDateTo:   ptr(day(2025, 1, 1)),
		Status:      ptr(entity.ProjectStatus("unknown")),
	}.Validate()

	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, entity.ErrMsgRangeInverted, verr.Fields["endDateTo"])
	require.Equal(t, entity.ErrMsgInvalidStatus, verr.Fields["status"])
}

func TestProjectFilter_NormalizeTruncatesDates(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 10, 15, 23, 59, 0, 0, time.UTC)
	f := entity.ProjectFilter{Search: "  x ", StartDateFrom: &from}.Normalize()

	require.Equal(t, "x", f.Search)
	require.Equal(t, day(2025, 10, 15), *f.StartDateFrom)
	require.Equal(t, 23, from.Hour())
}
