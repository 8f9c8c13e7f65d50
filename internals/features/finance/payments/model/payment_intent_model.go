package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	IntentStatusPending = "pending"
	IntentStatusPaid    = "paid"
	IntentStatusFailed  = "failed"
	IntentStatusExpired = "expired"
)

const ProviderMidtrans = "midtrans"

// PaymentIntent menyimpan data donor selama pembayaran berjalan di gateway.
// Donasi baru dicatat ke ledger setelah status paid dikonfirmasi.
type PaymentIntent struct {
	PaymentIntentID uuid.UUID `gorm:"column:payment_intent_id;type:uuid;primaryKey" json:"payment_intent_id"`

	PaymentIntentOrderID  string `gorm:"column:payment_intent_order_id;type:varchar(120);not null;uniqueIndex:uq_payment_intents_order" json:"payment_intent_order_id"`
	PaymentIntentProvider string `gorm:"column:payment_intent_provider;type:varchar(20);not null;default:'midtrans'" json:"payment_intent_provider"`

	PaymentIntentDonorName  string          `gorm:"column:payment_intent_donor_name;type:varchar(100);not null" json:"payment_intent_donor_name"`
	PaymentIntentDonorEmail *string         `gorm:"column:payment_intent_donor_email;type:varchar(150)" json:"payment_intent_donor_email,omitempty"`
	PaymentIntentDonorPhone *string         `gorm:"column:payment_intent_donor_phone;type:varchar(20)" json:"payment_intent_donor_phone,omitempty"`
	PaymentIntentAmount     decimal.Decimal `gorm:"column:payment_intent_amount;type:numeric(14,2);not null" json:"payment_intent_amount"`
	PaymentIntentNotes      *string         `gorm:"column:payment_intent_notes;type:text" json:"payment_intent_notes,omitempty"`

	PaymentIntentStatus      string  `gorm:"column:payment_intent_status;type:varchar(20);not null;default:'pending';index" json:"payment_intent_status"`
	PaymentIntentToken       *string `gorm:"column:payment_intent_token;type:varchar(120)" json:"payment_intent_token,omitempty"`
	PaymentIntentRedirectURL *string `gorm:"column:payment_intent_redirect_url" json:"payment_intent_redirect_url,omitempty"`

	// Diisi dari status transaksi gateway
	PaymentIntentTransactionID *string    `gorm:"column:payment_intent_transaction_id;type:varchar(120)" json:"payment_intent_transaction_id,omitempty"`
	PaymentIntentPaymentType   *string    `gorm:"column:payment_intent_payment_type;type:varchar(40)" json:"payment_intent_payment_type,omitempty"`
	PaymentIntentDonationID    *uuid.UUID `gorm:"column:payment_intent_donation_id;type:uuid" json:"payment_intent_donation_id,omitempty"`
	PaymentIntentPaidAt        *time.Time `gorm:"column:payment_intent_paid_at" json:"payment_intent_paid_at,omitempty"`

	// Jawaban terakhir cek status ke gateway, disimpan apa adanya untuk audit
	PaymentIntentGatewayStatus datatypes.JSON `gorm:"column:payment_intent_gateway_status" json:"payment_intent_gateway_status,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentIntent) TableName() string { return "payment_intents" }

func (p *PaymentIntent) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentIntentID == uuid.Nil {
		p.PaymentIntentID = uuid.New()
	}
	return nil
}

// Settled true jika intent sudah final (paid/failed/expired) dan tidak diproses lagi.
func (p *PaymentIntent) Settled() bool {
	return p.PaymentIntentStatus != IntentStatusPending
}
