package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categories covered by the utilization policy, in display order.
var RatioCategories = []string{SectorEducation, SectorNutrition, SectorHealthcare}

// DefaultRatioPercents applies until an administrator saves a policy.
var DefaultRatioPercents = map[string]int{
	SectorEducation:  50,
	SectorNutrition:  30,
	SectorHealthcare: 20,
}

// UtilizationRatio is one row of the category policy. Percent is what the
// admin typed; Ratio is Percent/100 and is what projections multiply by.
type UtilizationRatio struct {
	UtilizationRatioCategory  string          `gorm:"column:utilization_ratio_category;type:varchar(20);primaryKey" json:"category"`
	UtilizationRatioPercent   int             `gorm:"column:utilization_ratio_percent;not null" json:"percent"`
	UtilizationRatioValue     decimal.Decimal `gorm:"column:utilization_ratio_value;type:numeric(5,4);not null" json:"ratio"`
	UtilizationRatioUpdatedBy *uuid.UUID      `gorm:"column:utilization_ratio_updated_by;type:uuid" json:"updated_by,omitempty"`
	UpdatedAt                 time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UtilizationRatio) TableName() string { return "utilization_ratios" }

func NewUtilizationRatio(category string, percent int, by *uuid.UUID) UtilizationRatio {
	return UtilizationRatio{
		UtilizationRatioCategory:  category,
		UtilizationRatioPercent:   percent,
		UtilizationRatioValue:     decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(FullAllocation)),
		UtilizationRatioUpdatedBy: by,
	}
}

// DefaultRatios returns the fallback policy in RatioCategories order.
func DefaultRatios() []UtilizationRatio {
	out := make([]UtilizationRatio, 0, len(RatioCategories))
	for _, c := range RatioCategories {
		out = append(out, NewUtilizationRatio(c, DefaultRatioPercents[c], nil))
	}
	return out
}
