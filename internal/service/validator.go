package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/samandr77/microservices/crm/internal/entity"
)

const (
	CompanyNameMaxLen   = 200
	ContactPersonMaxLen = 100
	AddressMaxLen       = 500
	NotesMaxLen         = 2000
	ProjectNameMaxLen   = 200
	DescriptionMaxLen   = 2000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so field keys match what the caller sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func validateStruct(verr *entity.ValidationError, s any) {
	addValidatorErrs(verr, "", validate.Struct(s))
}

func validateVar(verr *entity.ValidationError, field string, value any, tag string) {
	addValidatorErrs(verr, field, validate.Var(value, tag))
}

func addValidatorErrs(verr *entity.ValidationError, field string, err error) {
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("input", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		name := field
		if name == "" {
			name = fe.Field()
		}

		verr.Add(name, validationMessage(fe.Tag(), fe.Param()))
	}
}

func validationMessage(tag, param string) string {
	switch tag {
	case "required":
		return entity.ErrMsgRequired
	case "min":
		if param == "1" {
			return entity.ErrMsgRequired
		}

		return fmt.Sprintf("must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "email":
		return entity.ErrMsgInvalidEmail
	default:
		return fmt.Sprintf("failed on the %q rule", tag)
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)

	return &v
}

// optional trims an optional text field; blank text is stored as null.
func optional(s *string) *string {
	s = trimPtr(s)
	if s == nil || *s == "" {
		return nil
	}

	return s
}

func optionalPatch(p entity.Patch[string]) entity.Patch[string] {
	if !p.HasValue() {
		return p
	}

	v := strings.TrimSpace(p.Value)
	if v == "" {
		return entity.Null[string]()
	}

	return entity.Set(v)
}

func normalizeClientInput(in entity.CreateClientInput) entity.CreateClientInput {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = optional(in.Address)
	in.Notes = optional(in.Notes)

	return in
}

func normalizeClientPatch(p entity.ClientPatch) entity.ClientPatch {
	p.CompanyName = trimPtr(p.CompanyName)
	p.ContactPerson = trimPtr(p.ContactPerson)
	p.Email = trimPtr(p.Email)
	p.Phone = trimPtr(p.Phone)
	p.Address = optionalPatch(p.Address)
	p.Notes = optionalPatch(p.Notes)

	return p
}

func validateClientPatch(verr *entity.ValidationError, p entity.ClientPatch) {
	if p.IsEmpty() {
		verr.Add("input", entity.ErrMsgNoFields)
		return
	}

	if p.CompanyName != nil {
		validateVar(verr, "companyName", *p.CompanyName, fmt.Sprintf("min=1,max=%d", CompanyNameMaxLen))
	}

	if p.ContactPerson != nil {
		validateVar(verr, "contactPerson", *p.ContactPerson, fmt.Sprintf("min=1,max=%d", ContactPersonMaxLen))
	}

	if p.Email != nil {
		validateVar(verr, "email", *p.Email, "required,email")
	}

	if p.Phone != nil {
		validateVar(verr, "phone", *p.Phone, "required")
	}

	if p.Address.HasValue() {
		validateVar(verr, "address", p.Address.Value, fmt.Sprintf("max=%d", AddressMaxLen))
	}

	if p.Notes.HasValue() {
		validateVar(verr, "notes", p.Notes.Value, fmt.Sprintf("max=%d", NotesMaxLen))
	}
}

func normalizeProjectInput(in entity.CreateProjectInput) entity.CreateProjectInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = optional(in.Description)
	in.Notes = optional(in.Notes)

	if in.Status == "" {
		in.Status = entity.ProjectStatusPlanning
	}

	if !in.StartDate.IsZero() {
		in.StartDate = entity.Date(in.StartDate)
	}

	in.EndDate = entity.DatePtr(in.EndDate)

	if in.ClientID != nil && in.ClientID.IsNil() {
		in.ClientID = nil
	}

	return in
}

func validateCreateProject(verr *entity.ValidationError, in entity.CreateProjectInput) {
	validateStruct(verr, in)

	if !in.Status.IsValid() {
		verr.Add("status", entity.ErrMsgInvalidStatus)
	}

	if in.Budget != nil && !in.Budget.IsPositive() {
		verr.Add("budget", entity.ErrMsgNotPositive)
	}

	if !in.StartDate.IsZero() {
		validateDates(verr, in.StartDate, in.EndDate)
	}
}

func normalizeProjectPatch(p entity.ProjectPatch) entity.ProjectPatch {
	p.Name = trimPtr(p.Name)
	p.Description = optionalPatch(p.Description)
	p.Notes = optionalPatch(p.Notes)

	if p.StartDate != nil {
		p.StartDate = entity.DatePtr(p.StartDate)
	}

	if p.EndDate.HasValue() {
		p.EndDate = entity.Set(entity.Date(p.EndDate.Value))
	}

	if p.ClientID.HasValue() && p.ClientID.Value.IsNil() {
		p.ClientID = entity.Null[entity.ClientID]()
	}

	return p
}

// validateProjectPatch checks each changed field on its own; rules spanning fields run on the merged record.
func validateProjectPatch(verr *entity.ValidationError, p entity.ProjectPatch) {
	if p.IsEmpty() {
		verr.Add("input", entity.ErrMsgNoFields)
		return
	}

	if p.Name != nil {
		validateVar(verr, "name", *p.Name, fmt.Sprintf("min=1,max=%d", ProjectNameMaxLen))
	}

	if p.Description.HasValue() {
		validateVar(verr, "description", p.Description.Value, fmt.Sprintf("max=%d", DescriptionMaxLen))
	}

	if p.Notes.HasValue() {
		validateVar(verr, "notes", p.Notes.Value, fmt.Sprintf("max=%d", NotesMaxLen))
	}

	if p.Status != nil && !p.Status.IsValid() {
		verr.Add("status", entity.ErrMsgInvalidStatus)
	}

	if p.StartDate != nil && p.StartDate.IsZero() {
		verr.Add("startDate", entity.ErrMsgRequired)
	}

	if p.Budget.HasValue() && !p.Budget.Value.IsPositive() {
		verr.Add("budget", entity.ErrMsgNotPositive)
	}
}

func validateDates(verr *entity.ValidationError, start time.Time, end *time.Time) {
	if end != nil && end.Before(start) {
		verr.Add("endDate", entity.ErrMsgEndBeforeStart)
	}
}
