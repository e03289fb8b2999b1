package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) String() string {
	return string(s)
}

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}

	return false
}

type Project struct {
	ID             ProjectID        `json:"id"`
	OrganizationID OrganizationID   `json:"organizationId"`
	Name           string           `json:"name"`
	Description    *string          `json:"description,omitempty"`
	ClientID       *ClientID        `json:"clientId"`
	Status         ProjectStatus    `json:"status"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	Budget         *decimal.Decimal `json:"budget,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Version        int              `json:"version"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type CreateProjectInput struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	ClientID    *ClientID        `json:"clientId,omitempty"`
	Status      ProjectStatus    `json:"status,omitempty"`
	StartDate   time.Time        `json:"startDate" validate:"required"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	Notes       *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ProjectPatch struct {
	Name        *string                `json:"name,omitempty"`
	Description Patch[string]          `json:"description"`
	ClientID    Patch[ClientID]        `json:"clientId"`
	Status      *ProjectStatus         `json:"status,omitempty"`
	StartDate   *time.Time             `json:"startDate,omitempty"`
	EndDate     Patch[time.Time]       `json:"endDate"`
	Budget      Patch[decimal.Decimal] `json:"budget"`
	Notes       Patch[string]          `json:"notes"`
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil &&
		!p.Description.IsSet &&
		!p.ClientID.IsSet &&
		p.Status == nil &&
		p.StartDate == nil &&
		!p.EndDate.IsSet &&
		!p.Budget.IsSet &&
		!p.Notes.IsSet
}

func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}

	if p.Status != nil {
		pr.Status = *p.Status
	}

	if p.StartDate != nil {
		pr.StartDate = *p.StartDate
	}

	pr.Description = p.Description.Apply(pr.Description)
	pr.ClientID = p.ClientID.Apply(pr.ClientID)
	pr.EndDate = p.EndDate.Apply(pr.EndDate)
	pr.Budget = p.Budget.Apply(pr.Budget)
	pr.Notes = p.Notes.Apply(pr.Notes)

	return pr
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	d := Date(*t)

	return &d
}
