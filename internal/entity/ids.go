package entity

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// OrganizationID identifies a tenant. It is resolved by the calling layer and trusted as is.
type OrganizationID string

func (o OrganizationID) String() string {
	return string(o)
}

func (o OrganizationID) IsEmpty() bool {
	return o == ""
}

type ClientID uuid.UUID

func NewClientID() ClientID {
	return ClientID(uuid.Must(uuid.NewV4()))
}

func ParseClientID(s string) (ClientID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return ClientID{}, fmt.Errorf("parse client id: %w", err)
	}

	return ClientID(id), nil
}

func (id ClientID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id ClientID) String() string {
	return uuid.UUID(id).String()
}

func (id ClientID) IsNil() bool {
	return uuid.UUID(id).IsNil()
}

func (id ClientID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ClientID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

type ProjectID uuid.UUID

func NewProjectID() ProjectID {
	return ProjectID(uuid.Must(uuid.NewV4()))
}

func ParseProjectID(s string) (ProjectID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return ProjectID{}, fmt.Errorf("parse project id: %w", err)
	}

	return ProjectID(id), nil
}

func (id ProjectID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id ProjectID) String() string {
	return uuid.UUID(id).String()
}

func (id ProjectID) IsNil() bool {
	return uuid.UUID(id).IsNil()
}

func (id ProjectID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ProjectID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
