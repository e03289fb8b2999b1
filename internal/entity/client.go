package entity

import "time"

type Client struct {
	ID             ClientID       `json:"id"`
	OrganizationID OrganizationID `json:"organizationId"`
	CompanyName    string         `json:"companyName"`
	ContactPerson  string         `json:"contactPerson"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Address        *string        `json:"address,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	Version        int            `json:"version"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (c Client) IsActive() bool {
	return c.DeletedAt == nil
}

type CreateClientInput struct {
	CompanyName   string  `json:"companyName" validate:"required,max=200"`
	ContactPerson string  `json:"contactPerson" validate:"required,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ClientPatch lists the fields an update changes. Nil pointers and unset patches are left alone.
type ClientPatch struct {
	CompanyName   *string       `json:"companyName,omitempty"`
	ContactPerson *string       `json:"contactPerson,omitempty"`
	Email         *string       `json:"email,omitempty"`
	Phone         *string       `json:"phone,omitempty"`
	Address       Patch[string] `json:"address"`
	Notes         Patch[string] `json:"notes"`
}

func (p ClientPatch) IsEmpty() bool {
	return p.CompanyName == nil &&
		p.ContactPerson == nil &&
		p.Email == nil &&
		p.Phone == nil &&
		!p.Address.IsSet &&
		!p.Notes.IsSet
}

// Apply returns c with the patch applied. Version and timestamps are the store's business.
func (p ClientPatch) Apply(c Client) Client {
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}

	if p.ContactPerson != nil {
		c.ContactPerson = *p.ContactPerson
	}

	if p.Email != nil {
		c.Email = *p.Email
	}

	if p.Phone != nil {
		c.Phone = *p.Phone
	}

	c.Address = p.Address.Apply(c.Address)
	c.Notes = p.Notes.Apply(c.Notes)

	return c
}
