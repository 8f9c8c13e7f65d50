package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Constants ===================== */

const (
	DonationStatusPending   = "Pending"
	DonationStatusCompleted = "Completed"
	DonationStatusFailed    = "Failed"
	DonationStatusRefunded  = "Refunded"
)

const (
	MethodUPI          = "UPI"
	MethodCard         = "Card"
	MethodBankTransfer = "Bank Transfer"
	MethodCash         = "Cash"
	MethodCheque       = "Cheque"
	MethodOther        = "Other"
)

var (
	DonationStatuses = []string{DonationStatusPending, DonationStatusCompleted, DonationStatusFailed, DonationStatusRefunded}
	DonationMethods  = []string{MethodUPI, MethodCard, MethodBankTransfer, MethodCash, MethodCheque, MethodOther}
)

// Donation amount bounds, in major currency units.
var (
	MinDonationAmount = decimal.NewFromInt(1)
	MaxDonationAmount = decimal.NewFromInt(10_000_000)
)

/* ===================== Model ===================== */

type Donation struct {
	DonationID uuid.UUID `gorm:"column:donation_id;type:uuid;primaryKey" json:"donation_id"`

	DonationDonorName  string  `gorm:"column:donation_donor_name;type:varchar(100);not null" json:"donation_donor_name"`
	DonationDonorEmail *string `gorm:"column:donation_donor_email;type:varchar(150)" json:"donation_donor_email,omitempty"`
	DonationDonorPhone *string `gorm:"column:donation_donor_phone;type:varchar(20)" json:"donation_donor_phone,omitempty"`

	DonationAmount decimal.Decimal `gorm:"column:donation_amount;type:numeric(14,2);not null" json:"donation_amount"`
	DonationMethod string          `gorm:"column:donation_method;type:varchar(30);not null;default:'UPI'" json:"donation_method"`

	// Opaque references handed over by the payment gateway once payment is confirmed.
	DonationExternalPaymentID *string `gorm:"column:donation_external_payment_id;type:varchar(120)" json:"donation_external_payment_id,omitempty"`
	DonationExternalOrderID   *string `gorm:"column:donation_external_order_id;type:varchar(120);uniqueIndex:uq_donations_external_order" json:"donation_external_order_id,omitempty"`

	DonationStatus string  `gorm:"column:donation_status;type:varchar(20);not null;default:'Completed';index" json:"donation_status"`
	DonationNotes  *string `gorm:"column:donation_notes;type:text" json:"donation_notes,omitempty"`

	// Staff member who entered the donation by hand (nil for gateway confirmations).
	DonationRecordedBy *uuid.UUID `gorm:"column:donation_recorded_by;type:uuid" json:"donation_recorded_by,omitempty"`

	// Tombstone
	DonationDeletedBy    *uuid.UUID `gorm:"column:donation_deleted_by;type:uuid" json:"donation_deleted_by,omitempty"`
	DonationDeleteReason *string    `gorm:"column:donation_delete_reason;type:text" json:"donation_delete_reason,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Donation) TableName() string { return "donations" }

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.DonationID == uuid.Nil {
		d.DonationID = uuid.New()
	}
	return nil
}

// CountsAsFunds true jika donasi ikut dihitung ke total dana.
func (d *Donation) CountsAsFunds() bool {
	return d.DonationStatus == DonationStatusCompleted
}
