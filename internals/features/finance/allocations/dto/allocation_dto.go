package dto

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"hopefoundation_backend/internals/features/finance/allocations/model"
	"hopefoundation_backend/internals/features/finance/errs"
	helper "hopefoundation_backend/internals/helpers"
)

/* ===================== Utilization ratios ===================== */

// SetUtilizationRatiosRequest takes whole percentages; all three are required.
type SetUtilizationRatiosRequest struct {
	Education  *int `json:"education" validate:"required,gte=0,lte=100"`
	Nutrition  *int `json:"nutrition" validate:"required,gte=0,lte=100"`
	Healthcare *int `json:"healthcare" validate:"required,gte=0,lte=100"`
}

// Validate returns a ValidationError for malformed input, otherwise an
// AllocationMismatchError when the three do not add up to 100.
func (r *SetUtilizationRatiosRequest) Validate() error {
	v := errs.NewValidation()
	helper.CollectValidation(r, v)
	if err := v.OrNil(); err != nil {
		return err
	}
	if sum := *r.Education + *r.Nutrition + *r.Healthcare; sum != model.FullAllocation {
		return &errs.AllocationMismatchError{Actual: sum}
	}
	return nil
}

func (r *SetUtilizationRatiosRequest) Percents() map[string]int {
	return map[string]int{
		model.SectorEducation:  *r.Education,
		model.SectorNutrition:  *r.Nutrition,
		model.SectorHealthcare: *r.Healthcare,
	}
}

/* ===================== Institution allocations ===================== */

type InstitutionAllocationItem struct {
	InstitutionID string `json:"institution_id" validate:"required,uuid"`
	Allocation    *int   `json:"allocation" validate:"required,gte=0,lte=100"`
}

type SetInstitutionAllocationsRequest struct {
	Allocations []InstitutionAllocationItem `json:"allocations" validate:"required,min=1,dive"`
}

func (r *SetInstitutionAllocationsRequest) Validate() error {
	v := errs.NewValidation()
	helper.CollectValidation(r, v)
	if err := v.OrNil(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(r.Allocations))
	sum := 0
	for _, it := range r.Allocations {
		id := strings.ToLower(it.InstitutionID)
		if seen[id] {
			v.Add("institution %s is listed more than once", it.InstitutionID)
		}
		seen[id] = true
		sum += *it.Allocation
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if sum != model.FullAllocation {
		return &errs.AllocationMismatchError{Actual: sum}
	}
	return nil
}

// Parsed returns id → allocation. Call after Validate.
func (r *SetInstitutionAllocationsRequest) Parsed() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(r.Allocations))
	for _, it := range r.Allocations {
		out[uuid.MustParse(it.InstitutionID)] = *it.Allocation
	}
	return out
}

/* ===================== Institution CRUD ===================== */

type CreateInstitutionRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	City          string  `json:"city" validate:"required,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Sector        string  `json:"sector" validate:"required,oneof=Education Nutrition Healthcare Shelter Other"`
	Allocation    *int    `json:"allocation" validate:"omitempty,gte=0,lte=100"`
	Impact        *string `json:"impact" validate:"omitempty,max=1000"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=100"`
	ContactEmail  *string `json:"contact_email" validate:"omitempty,email,max=150"`
	ContactPhone  *string `json:"contact_phone" validate:"omitempty,max=20"`
	Status        string  `json:"status" validate:"omitempty,oneof=Active Inactive Pending"`
}

func (r *CreateInstitutionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.City = strings.TrimSpace(r.City)
	r.Sector = strings.TrimSpace(r.Sector)
	r.Status = strings.TrimSpace(r.Status)
	r.Address = trimPtr(r.Address, false)
	r.Impact = trimPtr(r.Impact, false)
	r.ContactPerson = trimPtr(r.ContactPerson, false)
	r.ContactEmail = trimPtr(r.ContactEmail, true)
	r.ContactPhone = trimPtr(r.ContactPhone, false)
	if r.Status == "" {
		r.Status = model.InstitutionStatusActive
	}
}

func (r *CreateInstitutionRequest) Validate() error {
	v := errs.NewValidation()
	helper.CollectValidation(r, v)
	return v.OrNil()
}

func (r *CreateInstitutionRequest) ToModel() model.Institution {
	alloc := 0
	if r.Allocation != nil {
		alloc = *r.Allocation
	}
	return model.Institution{
		InstitutionName:          r.Name,
		InstitutionCity:          r.City,
		InstitutionAddress:       r.Address,
		InstitutionSector:        r.Sector,
		InstitutionAllocation:    alloc,
		InstitutionImpact:        r.Impact,
		InstitutionContactPerson: r.ContactPerson,
		InstitutionContactEmail:  r.ContactEmail,
		InstitutionContactPhone:  r.ContactPhone,
		InstitutionStatus:        r.Status,
	}
}

// UpdateInstitutionRequest is a partial update; nil fields are left alone.
type UpdateInstitutionRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=150"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Sector        *string `json:"sector" validate:"omitempty,oneof=Education Nutrition Healthcare Shelter Other"`
	Allocation    *int    `json:"allocation" validate:"omitempty,gte=0,lte=100"`
	Impact        *string `json:"impact" validate:"omitempty,max=1000"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=100"`
	ContactEmail  *string `json:"contact_email" validate:"omitempty,email,max=150"`
	ContactPhone  *string `json:"contact_phone" validate:"omitempty,max=20"`
	Status        *string `json:"status" validate:"omitempty,oneof=Active Inactive Pending"`
}

func (r *UpdateInstitutionRequest) Validate() error {
	v := errs.NewValidation()
	for _, p := range []**string{&r.Name, &r.City, &r.Sector, &r.Status} {
		if *p != nil {
			s := strings.TrimSpace(**p)
			*p = &s
		}
	}
	r.ContactEmail = trimPtr(r.ContactEmail, true)
	if r.Name != nil && *r.Name == "" {
		v.Add("name must not be empty")
	}
	helper.CollectValidation(r, v)
	return v.OrNil()
}

// Changes lists the columns to write.
func (r *UpdateInstitutionRequest) Changes() map[string]any {
	m := map[string]any{}
	set := func(col string, p *string) {
		if p != nil {
			m[col] = *p
		}
	}
	set("institution_name", r.Name)
	set("institution_city", r.City)
	set("institution_address", r.Address)
	set("institution_sector", r.Sector)
	set("institution_impact", r.Impact)
	set("institution_contact_person", r.ContactPerson)
	set("institution_contact_email", r.ContactEmail)
	set("institution_contact_phone", r.ContactPhone)
	set("institution_status", r.Status)
	if r.Allocation != nil {
		m["institution_allocation"] = *r.Allocation
	}
	return m
}

type InstitutionFilter struct {
	Sector string `query:"sector"`
	Status string `query:"status"`
	City   string `query:"city"`
}

func (f *InstitutionFilter) Validate() error {
	v := errs.NewValidation()
	f.Sector = strings.TrimSpace(f.Sector)
	f.Status = strings.TrimSpace(f.Status)
	f.City = strings.TrimSpace(f.City)
	if f.Sector != "" && !slices.Contains(model.Sectors, f.Sector) {
		v.Add("sector must be one of: %s", strings.Join(model.Sectors, ", "))
	}
	if f.Status != "" && !slices.Contains(model.InstitutionStatuses, f.Status) {
		v.Add("status must be one of: %s", strings.Join(model.InstitutionStatuses, ", "))
	}
	return v.OrNil()
}

/* ===================== Responses ===================== */

// AllocationState is attached to every institution mutation so the admin
// always sees whether Active allocations still add up to 100.
type AllocationState struct {
	AllocationTotal int  `json:"allocation_total"`
	Balanced        bool `json:"balanced"`
}

func NewAllocationState(total int) AllocationState {
	return AllocationState{AllocationTotal: total, Balanced: total == model.FullAllocation}
}

type InstitutionResponse struct {
	Institution *model.Institution `json:"institution"`
	AllocationState
}

type InstitutionsResponse struct {
	Institutions []model.Institution `json:"institutions"`
	AllocationState
}

type SectorStat struct {
	Sector     string `json:"sector"`
	Count      int    `json:"count"`
	Allocation int    `json:"allocation"`
}

type InstitutionStats struct {
	Total    int          `json:"total"`
	Active   int          `json:"active"`
	BySector []SectorStat `json:"by_sector"`
	AllocationState
}

func trimPtr(p *string, lower bool) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	if lower {
		s = strings.ToLower(s)
	}
	return &s
}
