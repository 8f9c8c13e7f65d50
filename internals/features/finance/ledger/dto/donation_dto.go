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

/* ===================== Create ===================== */

// CreateDonationRequest is used both for manual staff entry and for the
// payment-gateway confirmation tuple.
type CreateDonationRequest struct {
	DonorName  string          `json:"donor_name" validate:"required,min=2,max=100"`
	DonorEmail *string         `json:"donor_email" validate:"omitempty,email,max=150"`
	DonorPhone *string         `json:"donor_phone"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`

	ExternalPaymentID *string `json:"external_payment_id" validate:"omitempty,max=120"`
	ExternalOrderID   *string `json:"external_order_id" validate:"omitempty,max=120"`

	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

// Normalize trims free text and lower-cases the email. Run before Validate.
func (r *CreateDonationRequest) Normalize() {
	r.DonorName = strings.TrimSpace(r.DonorName)
	r.DonorEmail = trimPtr(r.DonorEmail, true)
	r.DonorPhone = trimPtr(r.DonorPhone, false)
	r.ExternalPaymentID = trimPtr(r.ExternalPaymentID, false)
	r.ExternalOrderID = trimPtr(r.ExternalOrderID, false)
	r.Notes = trimPtr(r.Notes, false)
	r.Method = strings.TrimSpace(r.Method)
	if r.Method == "" {
		r.Method = model.MethodUPI
	}
}

// Validate collects every violated constraint into one ValidationError.
func (r *CreateDonationRequest) Validate() error {
	v := errs.NewValidation()
	helper.CollectValidation(r, v)

	if r.DonorPhone != nil && !ValidPhone(*r.DonorPhone) {
		v.Add("donor_phone must contain 10 to 12 digits")
	}
	if r.Amount.LessThan(model.MinDonationAmount) || r.Amount.GreaterThan(model.MaxDonationAmount) {
		v.Add("amount must be between %s and %s", model.MinDonationAmount, model.MaxDonationAmount)
	} else if !r.Amount.Equal(r.Amount.Round(2)) {
		v.Add("amount must have at most 2 decimal places")
	}
	if !slices.Contains(model.DonationMethods, r.Method) {
		v.Add("method must be one of: %s", strings.Join(model.DonationMethods, ", "))
	}
	return v.OrNil()
}

func (r *CreateDonationRequest) ToModel(recordedBy *uuid.UUID) model.Donation {
	return model.Donation{
		DonationDonorName:         r.DonorName,
		DonationDonorEmail:        r.DonorEmail,
		DonationDonorPhone:        r.DonorPhone,
		DonationAmount:            r.Amount,
		DonationMethod:            r.Method,
		DonationExternalPaymentID: r.ExternalPaymentID,
		DonationExternalOrderID:   r.ExternalOrderID,
		DonationStatus:            model.DonationStatusCompleted,
		DonationNotes:             r.Notes,
		DonationRecordedBy:        recordedBy,
	}
}

/* ===================== Status / Delete ===================== */

type UpdateDonationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Completed Failed Refunded"`
}

func (r *UpdateDonationStatusRequest) Validate() error {
	v := errs.NewValidation()
	r.Status = strings.TrimSpace(r.Status)
	helper.CollectValidation(r, v)
	return v.OrNil()
}

// DeleteRequest carries the reason recorded on the tombstone.
type DeleteRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func (r *DeleteRequest) Validate() error {
	v := errs.NewValidation()
	r.Reason = strings.TrimSpace(r.Reason)
	helper.CollectValidation(r, v)
	return v.OrNil()
}

/* ===================== Filter ===================== */

// DonationFilter: semua field opsional. From/To inklusif.
type DonationFilter struct {
	Status string
	Method string
	From   *time.Time
	To     *time.Time
}

type ListDonationsQuery struct {
	Status    string `query:"status"`
	Method    string `query:"method"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

func (q ListDonationsQuery) ToFilter(loc *time.Location) (DonationFilter, error) {
	v := errs.NewValidation()
	f := DonationFilter{Status: strings.TrimSpace(q.Status), Method: strings.TrimSpace(q.Method)}
	if f.Status != "" && !slices.Contains(model.DonationStatuses, f.Status) {
		v.Add("status must be one of: %s", strings.Join(model.DonationStatuses, ", "))
	}
	if f.Method != "" && !slices.Contains(model.DonationMethods, f.Method) {
		v.Add("method must be one of: %s", strings.Join(model.DonationMethods, ", "))
	}
	f.From, f.To = parseRange(q.StartDate, q.EndDate, loc, v)
	return f, v.OrNil()
}

/* ===================== Helpers ===================== */

// ValidPhone mirrors the public form rule: 10–12 digits once punctuation is stripped.
func ValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 12
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

func parseRange(start, end string, loc *time.Location, v *errs.ValidationError) (from, to *time.Time) {
	if s := strings.TrimSpace(start); s != "" {
		t, _, err := dbtime.ParseDate(s, loc)
		if err != nil {
			v.Add("start_date: %s", err.Error())
		} else {
			from = &t
		}
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := dbtime.ParseRangeEnd(s, loc)
		if err != nil {
			v.Add("end_date: %s", err.Error())
		} else {
			to = &t
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		v.Add("end_date must not be before start_date")
	}
	return from, to
}
