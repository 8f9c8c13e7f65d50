package dto

import (
	"github.com/shopspring/decimal"

	"hopefoundation_backend/internals/features/finance/errs"
	ledgerDto "hopefoundation_backend/internals/features/finance/ledger/dto"
)

// CheckoutRequest: donasi online oleh publik.
type CheckoutRequest struct {
	DonorName  string          `json:"donor_name"`
	DonorEmail *string         `json:"donor_email"`
	DonorPhone *string         `json:"donor_phone"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      *string         `json:"notes"`
}

// Donation returns the normalized ledger request, validated with the same
// rules recordDonation applies, so a confirmed payment cannot be rejected later.
func (r CheckoutRequest) Donation() (ledgerDto.CreateDonationRequest, error) {
	d := ledgerDto.CreateDonationRequest{
		DonorName:  r.DonorName,
		DonorEmail: r.DonorEmail,
		DonorPhone: r.DonorPhone,
		Amount:     r.Amount,
		Notes:      r.Notes,
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return d, err
	}
	if !d.Amount.Equal(d.Amount.Truncate(0)) {
		return d, errs.NewValidation("amount must be a whole number for online payment")
	}
	return d, nil
}

type CheckoutResponse struct {
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
}

// Notification adalah body webhook gateway. Hanya order_id yang dipakai;
// status diambil ulang dari gateway.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
}

type NotificationResult struct {
	OrderID    string  `json:"order_id"`
	Status     string  `json:"status"`
	DonationID *string `json:"donation_id,omitempty"`
}
