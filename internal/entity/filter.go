package entity

import (
	"strings"
	"time"
)

const ErrMsgRangeInverted = "must not be before the lower bound"

type ClientFilter struct {
	Search         string `json:"search,omitempty"`
	IncludeDeleted bool   `json:"includeDeleted,omitempty"`
	Limit          uint64 `json:"limit,omitempty"`
	Offset         uint64 `json:"offset,omitempty"`
}

// Normalize trims the search term; a blank term means no search.
func (f ClientFilter) Normalize() ClientFilter {
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func (f ClientFilter) Match(c Client) bool {
	if !f.IncludeDeleted && !c.IsActive() {
		return false
	}

	if f.Search != "" && !containsFold(c.CompanyName, f.Search) && !containsFold(c.ContactPerson, f.Search) {
		return false
	}

	return true
}

// ProjectFilter predicates are combined with AND; nil fields add no constraint.
type ProjectFilter struct {
	Search        string         `json:"search,omitempty"`
	ClientID      *ClientID      `json:"clientId,omitempty"`
	Status        *ProjectStatus `json:"status,omitempty"`
	StartDateFrom *time.Time     `json:"startDateFrom,omitempty"`
	StartDateTo   *time.Time     `json:"startDateTo,omitempty"`
	EndDateFrom   *time.Time     `json:"endDateFrom,omitempty"`
	EndDateTo     *time.Time     `json:"endDateTo,omitempty"`
	Limit         uint64         `json:"limit,omitempty"`
	Offset        uint64         `json:"offset,omitempty"`
}

func (f ProjectFilter) Normalize() ProjectFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.StartDateFrom = DatePtr(f.StartDateFrom)
	f.StartDateTo = DatePtr(f.StartDateTo)
	f.EndDateFrom = DatePtr(f.EndDateFrom)
	f.EndDateTo = DatePtr(f.EndDateTo)

	return f
}

func (f ProjectFilter) Validate() error {
	verr := &ValidationError{}

	if f.Status != nil && !f.Status.IsValid() {
		verr.Add("status", ErrMsgInvalidStatus)
	}

	if f.StartDateFrom != nil && f.StartDateTo != nil && f.StartDateTo.Before(*f.StartDateFrom) {
		verr.Add("startDateTo", ErrMsgRangeInverted)
	}

	if f.EndDateFrom != nil && f.EndDateTo != nil && f.EndDateTo.Before(*f.EndDateFrom) {
		verr.Add("endDateTo", ErrMsgRangeInverted)
	}

	return verr.OrNil()
}

func (f ProjectFilter) Match(p Project) bool {
	if f.Search != "" && !containsFold(p.Name, f.Search) && (p.Description == nil || !containsFold(*p.Description, f.Search)) {
		return false
	}

	if f.ClientID != nil && (p.ClientID == nil || *p.ClientID != *f.ClientID) {
		return false
	}

	if f.Status != nil && p.Status != *f.Status {
		return false
	}

	if !inRange(&p.StartDate, f.StartDateFrom, f.StartDateTo) {
		return false
	}

	if (f.EndDateFrom != nil || f.EndDateTo != nil) && !inRange(p.EndDate, f.EndDateFrom, f.EndDateTo) {
		return false
	}

	return true
}

// inRange is inclusive on both ends; a nil value never matches a bounded range.
func inRange(v, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}

	if v == nil {
		return false
	}

	if from != nil && v.Before(*from) {
		return false
	}

	if to != nil && v.After(*to) {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
