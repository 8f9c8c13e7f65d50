package dto

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/features/finance/ledger/model"
	helper "hopefoundation_backend/internals/helpers"
	"hopefoundation_backend/internals/helpers/dbtime"
)

type CreateDisbursementRequest struct {
	Recipient   string          `json:"recipient" validate:"required,max=150"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description" validate:"required,max=1000"`
	Date        string          `json:"date"`        // YYYY-MM-DD atau RFC3339; kosong = sekarang
	ApprovedBy  *string         `json:"approved_by"` // staff id; kosong = pemanggil
}

func (r *CreateDisbursementRequest) Normalize() {
	r.Recipient = strings.TrimSpace(r.Recipient)
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
	r.Date = strings.TrimSpace(r.Date)
	r.ApprovedBy = trimPtr(r.ApprovedBy, false)
}

func (r *CreateDisbursementRequest) Validate() error {
	v := errs.NewValidation()
	helper.CollectValidation(r, v)

	if r.Amount.LessThan(model.MinDisbursementAmount) {
		v.Add("amount must be at least %s", model.MinDisbursementAmount)
	} else if !r.Amount.Equal(r.Amount.Round(2)) {
		v.Add("amount must have at most 2 decimal places")
	}
	if r.Category != "" && !slices.Contains(model.Categories, r.Category) {
		v.Add("category must be one of: %s", strings.Join(model.Categories, ", "))
	}
	if r.Date != "" {
		if _, _, err := dbtime.ParseDate(r.Date, time.UTC); err != nil {
			v.Add("date: %s", err.Error())
		}
	}
	if r.ApprovedBy != nil {
		if _, err := uuid.Parse(*r.ApprovedBy); err != nil {
			v.Add("approved_by must be a valid id")
		}
	}
	return v.OrNil()
}

// ToModel builds the record. Date is interpreted in loc; approvedBy falls back to caller.
func (r *CreateDisbursementRequest) ToModel(loc *time.Location, caller *uuid.UUID, now time.Time) model.Disbursement {
	date := now
	if r.Date != "" {
		if t, _, err := dbtime.ParseDate(r.Date, loc); err == nil {
			date = t
		}
	}
	approver := caller
	if r.ApprovedBy != nil {
		if id, err := uuid.Parse(*r.ApprovedBy); err == nil {
			approver = &id
		}
	}
	return model.Disbursement{
		DisbursementRecipient:   r.Recipient,
		DisbursementAmount:      r.Amount,
		DisbursementCategory:    r.Category,
		DisbursementDescription: r.Description,
		DisbursementApprovedBy:  approver,
		DisbursementStatus:      model.DisbursementStatusDisbursed,
		DisbursementDate:        date,
	}
}

type UpdateDisbursementStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Disbursed Cancelled"`
}

func (r *UpdateDisbursementStatusRequest) Validate() error {
	v := errs.NewValidation()
	r.Status = strings.TrimSpace(r.Status)
	helper.CollectValidation(r, v)
	return v.OrNil()
}

type DisbursementFilter struct {
	Status   string
	Category string
	From     *time.Time
	To       *time.Time
}

type ListDisbursementsQuery struct {
	Status    string `query:"status"`
	Category  string `query:"category"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

func (q ListDisbursementsQuery) ToFilter(loc *time.Location) (DisbursementFilter, error) {
	v := errs.NewValidation()
	f := DisbursementFilter{Status: strings.TrimSpace(q.Status), Category: strings.TrimSpace(q.Category)}
	if f.Status != "" && !slices.Contains(model.DisbursementStatuses, f.Status) {
		v.Add("status must be one of: %s", strings.Join(model.DisbursementStatuses, ", "))
	}
	if f.Category != "" && !slices.Contains(model.Categories, f.Category) {
		v.Add("category must be one of: %s", strings.Join(model.Categories, ", "))
	}
	f.From, f.To = parseRange(q.StartDate, q.EndDate, loc, v)
	return f, v.OrNil()
}
