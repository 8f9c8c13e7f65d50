package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/features/finance/ledger/model"
	"hopefoundation_backend/internals/features/finance/reconciliation/engine"
)

const balanceGuardAttempts = 5

var errVersionConflict = errors.New("ledger balance changed concurrently")

// withBalanceGuard runs fn inside one transaction together with the running
// balance row. fn writes its record and adjusts bal in memory; the guard then
// rejects any change that leaves the fund overdrawn and writes bal back only
// if the version it read is still current. A lost race re-runs the whole
// transaction, so the balance check is always made against fresh totals.
func (s *LedgerService) withBalanceGuard(ctx context.Context, op string, fn func(tx *gorm.DB, bal *model.LedgerBalance) error) error {
	for attempt := 1; attempt <= balanceGuardAttempts; attempt++ {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			bal, err := lockBalance(tx)
			if err != nil {
				return err
			}
			read := bal.Version
			before := bal.Available()

			if err := fn(tx, &bal); err != nil {
				return err
			}

			after := bal.Available()
			if after.IsNegative() && after.LessThan(before) {
				return &errs.InsufficientFundsError{Available: before, Requested: before.Sub(after)}
			}

			res := tx.Model(&model.LedgerBalance{}).
				Where("ledger_balance_id = ? AND version = ?", model.MainBalanceID, read).
				Updates(map[string]any{
					"total_funds":     bal.TotalFunds,
					"total_disbursed": bal.TotalDisbursed,
					"version":         read + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVersionConflict
			}
			return nil
		})
		if errors.Is(err, errVersionConflict) {
			log.Printf("[WARN] %s: balance version conflict, retrying (%d/%d)", op, attempt, balanceGuardAttempts)
			continue
		}
		return errs.Storage(op, err)
	}
	return errs.Storage(op, fmt.Errorf("%w after %d attempts", errVersionConflict, balanceGuardAttempts))
}

// lockBalance reads the balance row FOR UPDATE, creating it from the records
// when it does not exist yet.
func lockBalance(tx *gorm.DB) (model.LedgerBalance, error) {
	var bal model.LedgerBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ledger_balance_id = ?", model.MainBalanceID).
		Take(&bal).Error
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return bal, err
	}

	donations, disbursements, err := loadRecords(tx)
	if err != nil {
		return bal, err
	}
	seed := model.LedgerBalance{
		LedgerBalanceID: model.MainBalanceID,
		TotalFunds:      engine.TotalFunds(donations),
		TotalDisbursed:  engine.TotalDisbursed(disbursements),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return bal, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ledger_balance_id = ?", model.MainBalanceID).
		Take(&bal).Error
	return bal, err
}

// loadRecords returns every live record, oldest first.
func loadRecords(tx *gorm.DB) ([]model.Donation, []model.Disbursement, error) {
	var donations []model.Donation
	if err := tx.Order("created_at ASC").Find(&donations).Error; err != nil {
		return nil, nil, err
	}
	var disbursements []model.Disbursement
	if err := tx.Order("created_at ASC").Find(&disbursements).Error; err != nil {
		return nil, nil, err
	}
	return donations, disbursements, nil
}

// EnsureBalance creates the running-balance row if it is missing. Called at startup.
func (s *LedgerService) EnsureBalance(ctx context.Context) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := lockBalance(tx)
		return err
	})
	return errs.Storage("ensure balance", err)
}

// Balance returns the running-balance row.
func (s *LedgerService) Balance(ctx context.Context) (model.LedgerBalance, error) {
	var bal model.LedgerBalance
	err := s.DB.WithContext(ctx).Where("ledger_balance_id = ?", model.MainBalanceID).Take(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.EnsureBalance(ctx); err != nil {
			return bal, err
		}
		err = s.DB.WithContext(ctx).Where("ledger_balance_id = ?", model.MainBalanceID).Take(&bal).Error
	}
	return bal, errs.Storage("read balance", err)
}

// RebuildBalance overwrites the running-balance row with totals recomputed
// from the records. The report describes the row as it was before the rebuild.
func (s *LedgerService) RebuildBalance(ctx context.Context) (*engine.IntegrityReport, error) {
	var report engine.IntegrityReport
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bal, err := lockBalance(tx)
		if err != nil {
			return err
		}
		donations, disbursements, err := loadRecords(tx)
		if err != nil {
			return err
		}
		report = engine.CheckIntegrity(bal, donations, disbursements)
		return tx.Model(&model.LedgerBalance{}).
			Where("ledger_balance_id = ?", model.MainBalanceID).
			Updates(map[string]any{
				"total_funds":     report.RecomputedFunds,
				"total_disbursed": report.RecomputedDisbursed,
				"version":         bal.Version + 1,
			}).Error
	})
	if err != nil {
		return nil, errs.Storage("rebuild balance", err)
	}
	if !report.InSync {
		log.Printf("[WARN] ledger balance was out of sync: stored funds=%s disbursed=%s, recomputed funds=%s disbursed=%s",
			report.StoredFunds, report.StoredDisbursed, report.RecomputedFunds, report.RecomputedDisbursed)
	}
	if report.Overdrawn {
		log.Printf("[ALARM] available balance is negative: %s", report.RecomputedAvailable.StringFixed(2))
	}
	s.changed(ctx)
	return &report, nil
}
