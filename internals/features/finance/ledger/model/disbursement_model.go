package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DisbursementStatusPending   = "Pending"
	DisbursementStatusApproved  = "Approved"
	DisbursementStatusDisbursed = "Disbursed"
	DisbursementStatusCancelled = "Cancelled"
)

const (
	CategoryEducation  = "Education"
	CategoryNutrition  = "Nutrition"
	CategoryHealthcare = "Healthcare"
	CategoryShelter    = "Shelter"
	CategoryEmergency  = "Emergency"
	CategoryOther      = "Other"
)

var (
	DisbursementStatuses = []string{DisbursementStatusPending, DisbursementStatusApproved, DisbursementStatusDisbursed, DisbursementStatusCancelled}
	Categories           = []string{CategoryEducation, CategoryNutrition, CategoryHealthcare, CategoryShelter, CategoryEmergency, CategoryOther}
)

var MinDisbursementAmount = decimal.NewFromInt(1)

type Disbursement struct {
	DisbursementID uuid.UUID `gorm:"column:disbursement_id;type:uuid;primaryKey" json:"disbursement_id"`

	DisbursementRecipient   string          `gorm:"column:disbursement_recipient;type:varchar(150);not null" json:"disbursement_recipient"`
	DisbursementAmount      decimal.Decimal `gorm:"column:disbursement_amount;type:numeric(14,2);not null" json:"disbursement_amount"`
	DisbursementCategory    string          `gorm:"column:disbursement_category;type:varchar(20);not null;index" json:"disbursement_category"`
	DisbursementDescription string          `gorm:"column:disbursement_description;type:text;not null" json:"disbursement_description"`

	// Weak reference ke staff (lookup only).
	DisbursementApprovedBy *uuid.UUID `gorm:"column:disbursement_approved_by;type:uuid" json:"disbursement_approved_by,omitempty"`

	DisbursementStatus string    `gorm:"column:disbursement_status;type:varchar(20);not null;default:'Disbursed';index" json:"disbursement_status"`
	DisbursementDate   time.Time `gorm:"column:disbursement_date;not null;index" json:"disbursement_date"`

	DisbursementDeletedBy    *uuid.UUID `gorm:"column:disbursement_deleted_by;type:uuid" json:"disbursement_deleted_by,omitempty"`
	DisbursementDeleteReason *string    `gorm:"column:disbursement_delete_reason;type:text" json:"disbursement_delete_reason,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Disbursement) TableName() string { return "disbursements" }

func (d *Disbursement) BeforeCreate(tx *gorm.DB) error {
	if d.DisbursementID == uuid.Nil {
		d.DisbursementID = uuid.New()
	}
	return nil
}

// CountsAsSpend true jika disbursement mengurangi saldo.
func (d *Disbursement) CountsAsSpend() bool {
	return d.DisbursementStatus == DisbursementStatusDisbursed
}
