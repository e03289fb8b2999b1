package entity_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/crm/internal/entity"
)

func ptr[T any](v T) *T {
	return &v
}

func TestIDs(t *testing.T) {
	t.Parallel()

	id := entity.NewClientID()
	require.False(t, id.IsNil())

	parsed, err := entity.ParseClientID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = entity.ParseProjectID("not-a-uuid")
	require.Error(t, err)

	b, err := json.Marshal(struct {
		ID entity.ProjectID `json:"id"`
	}{ID: entity.ProjectID(id.UUID())})
	require.NoError(t, err)
	require.JSONEq(t, fmt.Sprintf(`{"id":%q}`, id.String()), string(b))

	var decoded struct {
		ID entity.ClientID `json:"id"`
	}

	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, id, decoded.ID)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		err  error
		want entity.ErrorKind
	}{
		{name: "validation", err: entity.NewValidationError("email", entity.ErrMsgInvalidEmail), want: entity.KindValidation},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", entity.ErrNotFound), want: entity.KindNotFound},
		{name: "conflict", err: entity.ErrConflict, want: entity.KindConflict},
		{name: "already deleted", err: entity.ErrAlreadyDeleted, want: entity.KindInvalidState},
		{name: "not deleted", err: entity.ErrNotDeleted, want: entity.KindInvalidState},
		{name: "database", err: &entity.DatabaseError{Op: "op", Err: errors.New("boom")}, want: entity.KindDatabase},
		{name: "unknown", err: errors.New("boom"), want: entity.KindDatabase},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, entity.KindOf(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := &entity.ValidationError{}
	require.NoError(t, verr.OrNil())

	verr.Add("phone", entity.ErrMsgRequired)
	verr.Add("email", entity.ErrMsgInvalidEmail)
	verr.Add("email", "second message is dropped")

	err := verr.OrNil()
	require.ErrorIs(t, err, entity.ErrValidation)
	require.Equal(t, "validation failed: email must be a valid email address; phone is required", err.Error())
}

func TestResult(t *testing.T) {
	t.Parallel()

	ok := entity.ResultOf(42, nil)
	require.True(t, ok.Success)
	require.Equal(t, 42, *ok.Data)

	b, err := json.Marshal(ok)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":true,"data":42}`, string(b))

	failed := entity.Fail[int](entity.NewValidationError("endDate", entity.ErrMsgEndBeforeStart))
	require.False(t, failed.Success)
	require.Equal(t, entity.KindValidation, failed.Error.Type)
	require.Equal(t, map[string]string{"endDate": entity.ErrMsgEndBeforeStart}, failed.Error.Fields)

	b, err = json.Marshal(failed)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"success":false,"error":{"type":"ValidationError","message":"validation failed","fields":{"endDate":"must not be before startDate"}}}`,
		string(b),
	)

	missing := entity.ResultOf(entity.Client{}, entity.ErrNotFound)
	require.Nil(t, missing.Data)

	b, err = json.Marshal(missing)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"error":{"type":"NotFoundError","message":"`+entity.ErrNotFound.Error()+`"}}`, string(b))

	hidden := entity.Fail[int](&entity.DatabaseError{Op: "list clients", Err: errors.New("password authentication failed")})
	require.Equal(t, entity.KindDatabase, hidden.Error.Type)
	require.Equal(t, entity.ErrMsgInternal, hidden.Error.Message)
}

func TestPatch_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var patch entity.ProjectPatch

	require.NoError(t, json.Unmarshal([]byte(`{"name":"New","endDate":null,"notes":"hi"}`), &patch))
	require.Equal(t, "New", *patch.Name)
	require.True(t, patch.EndDate.IsSet)
	require.True(t, patch.EndDate.IsNull)
	require.Equal(t, entity.Set("hi"), patch.Notes)
	require.False(t, patch.Description.IsSet)
	require.False(t, patch.Budget.IsSet)
	require.False(t, patch.IsEmpty())

	var empty entity.ClientPatch

	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	require.True(t, empty.IsEmpty())
}

func TestClientPatch_Apply(t *testing.T) {
	t.Parallel()

	c := entity.Client{CompanyName: "Acme", Address: ptr("Main St"), Notes: ptr("keep"), Version: 3}

	got := entity.ClientPatch{
		CompanyName: ptr("Acme Inc"),
		Address:     entity.Null[string](),
	}.Apply(c)

	require.Equal(t, "Acme Inc", got.CompanyName)
	require.Nil(t, got.Address)
	require.Equal(t, "keep", *got.Notes)
	require.Equal(t, 3, got.Version)
}

func TestProjectStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []entity.ProjectStatus{
		entity.ProjectStatusPlanning,
		entity.ProjectStatusActive,
		entity.ProjectStatusOnHold,
		entity.ProjectStatusCompleted,
		entity.ProjectStatusCancelled,
	} {
		require.True(t, s.IsValid(), s)
	}

	require.False(t, entity.ProjectStatus("OnHold").IsValid())
	require.False(t, entity.ProjectStatus("").IsValid())
}
