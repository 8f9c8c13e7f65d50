package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StaffStatusActive    = "Active"
	StaffStatusInactive  = "Inactive"
	StaffStatusSuspended = "Suspended"
)

type Staff struct {
	StaffID uuid.UUID `gorm:"column:staff_id;type:uuid;primaryKey" json:"staff_id"`

	StaffName         string  `gorm:"column:staff_name;type:varchar(100);not null" json:"staff_name"`
	StaffEmail        string  `gorm:"column:staff_email;type:varchar(150);not null;uniqueIndex:uq_staff_email" json:"staff_email"`
	StaffPasswordHash string  `gorm:"column:staff_password_hash;type:varchar(100);not null" json:"-"`
	StaffRole         string  `gorm:"column:staff_role;type:varchar(20);not null;default:'staff'" json:"staff_role"`
	StaffDepartment   *string `gorm:"column:staff_department;type:varchar(100)" json:"staff_department,omitempty"`
	StaffStatus       string  `gorm:"column:staff_status;type:varchar(20);not null;default:'Active'" json:"staff_status"`

	StaffLastLoginAt *time.Time `gorm:"column:staff_last_login_at" json:"staff_last_login_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.StaffID == uuid.Nil {
		s.StaffID = uuid.New()
	}
	return nil
}

func (s *Staff) IsActive() bool { return s.StaffStatus == StaffStatusActive }
