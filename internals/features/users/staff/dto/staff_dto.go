package dto

import (
	"strings"

	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/features/users/staff/model"
	helper "hopefoundation_backend/internals/helpers"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	v := errs.NewValidation()
	helper.CollectValidation(r, v)
	return v.OrNil()
}

type CreateStaffRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Email      string  `json:"email" validate:"required,email,max=150"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Role       string  `json:"role" validate:"required,oneof=admin staff manager"`
	Department *string `json:"department" validate:"omitempty,max=100"`
}

func (r *CreateStaffRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Department != nil {
		d := strings.TrimSpace(*r.Department)
		r.Department = &d
		if d == "" {
			r.Department = nil
		}
	}
	v := errs.NewValidation()
	helper.CollectValidation(r, v)
	return v.OrNil()
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
	Staff       *model.Staff `json:"staff"`
}
