package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InstitutionStatusActive   = "Active"
	InstitutionStatusInactive = "Inactive"
	InstitutionStatusPending  = "Pending"
)

const (
	SectorEducation  = "Education"
	SectorNutrition  = "Nutrition"
	SectorHealthcare = "Healthcare"
	SectorShelter    = "Shelter"
	SectorOther      = "Other"
)

var (
	InstitutionStatuses = []string{InstitutionStatusActive, InstitutionStatusInactive, InstitutionStatusPending}
	Sectors             = []string{SectorEducation, SectorNutrition, SectorHealthcare, SectorShelter, SectorOther}
)

// FullAllocation is the percentage every allocation set has to add up to.
const FullAllocation = 100

type Institution struct {
	InstitutionID uuid.UUID `gorm:"column:institution_id;type:uuid;primaryKey" json:"institution_id"`

	InstitutionName    string  `gorm:"column:institution_name;type:varchar(150);not null" json:"institution_name"`
	InstitutionCity    string  `gorm:"column:institution_city;type:varchar(100);not null" json:"institution_city"`
	InstitutionAddress *string `gorm:"column:institution_address;type:text" json:"institution_address,omitempty"`
	InstitutionSector  string  `gorm:"column:institution_sector;type:varchar(20);not null;index" json:"institution_sector"`

	// Persen (0–100) dari total dana, hanya untuk estimasi/laporan.
	InstitutionAllocation int `gorm:"column:institution_allocation;not null;default:0;check:chk_institutions_allocation,institution_allocation >= 0 AND institution_allocation <= 100" json:"institution_allocation"`

	InstitutionImpact        *string `gorm:"column:institution_impact;type:text" json:"institution_impact,omitempty"`
	InstitutionContactPerson *string `gorm:"column:institution_contact_person;type:varchar(100)" json:"institution_contact_person,omitempty"`
	InstitutionContactEmail  *string `gorm:"column:institution_contact_email;type:varchar(150)" json:"institution_contact_email,omitempty"`
	InstitutionContactPhone  *string `gorm:"column:institution_contact_phone;type:varchar(20)" json:"institution_contact_phone,omitempty"`

	InstitutionStatus string `gorm:"column:institution_status;type:varchar(20);not null;default:'Active';index" json:"institution_status"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Institution) TableName() string { return "institutions" }

func (i *Institution) BeforeCreate(tx *gorm.DB) error {
	if i.InstitutionID == uuid.Nil {
		i.InstitutionID = uuid.New()
	}
	return nil
}

func (i *Institution) IsActive() bool { return i.InstitutionStatus == InstitutionStatusActive }
