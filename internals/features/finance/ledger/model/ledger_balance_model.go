package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MainBalanceID is the key of the single running-balance row.
const MainBalanceID = "main"

// LedgerBalance is the running-balance row every balance-affecting write
// serializes on. Version is the optimistic-concurrency token: a write only
// lands when the version it read is still current.
type LedgerBalance struct {
	LedgerBalanceID string          `gorm:"column:ledger_balance_id;type:varchar(20);primaryKey" json:"ledger_balance_id"`
	TotalFunds      decimal.Decimal `gorm:"column:total_funds;type:numeric(16,2);not null;default:0" json:"total_funds"`
	TotalDisbursed  decimal.Decimal `gorm:"column:total_disbursed;type:numeric(16,2);not null;default:0" json:"total_disbursed"`
	Version         int64           `gorm:"column:version;not null;default:0" json:"version"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LedgerBalance) TableName() string { return "ledger_balances" }

func (b LedgerBalance) Available() decimal.Decimal {
	return b.TotalFunds.Sub(b.TotalDisbursed)
}
