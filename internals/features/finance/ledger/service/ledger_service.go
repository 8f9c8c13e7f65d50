package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/features/finance/ledger/dto"
	"hopefoundation_backend/internals/features/finance/ledger/model"
	"hopefoundation_backend/internals/features/finance/reconciliation/engine"
	"hopefoundation_backend/internals/helpers/dbtime"
)

// StaffLookup answers whether an id belongs to a staff member. Approver
// references are checked against it; nothing else about staff is read here.
type StaffLookup interface {
	StaffExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Invalidator is told after every successful write so cached figures can be dropped.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type LedgerService struct {
	DB       *gorm.DB
	Loc      *time.Location
	Staff    StaffLookup
	OnChange Invalidator
	Now      func() time.Time
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db, Loc: dbtime.LedgerLocation(), Now: time.Now}
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *LedgerService) changed(ctx context.Context) {
	if s.OnChange != nil {
		s.OnChange.Invalidate(ctx)
	}
}

/* ===================== Create ===================== */

// RecordDonation validates req and stores a Completed donation, raising total funds.
// recordedBy is nil for gateway confirmations.
func (s *LedgerService) RecordDonation(ctx context.Context, req dto.CreateDonationRequest, recordedBy *uuid.UUID) (*model.Donation, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d := req.ToModel(recordedBy)

	err := s.withBalanceGuard(ctx, "record donation", func(tx *gorm.DB, bal *model.LedgerBalance) error {
		if d.DonationExternalOrderID != nil {
			var n int64
			if err := tx.Unscoped().Model(&model.Donation{}).
				Where("donation_external_order_id = ?", *d.DonationExternalOrderID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return errs.NewValidation("external_order_id " + *d.DonationExternalOrderID + " is already recorded")
			}
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		bal.TotalFunds = bal.TotalFunds.Add(d.DonationAmount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] donation %s recorded: %s via %s", d.DonationID, d.DonationAmount.StringFixed(2), d.DonationMethod)
	s.changed(ctx)
	return &d, nil
}

// RecordDisbursement validates req and stores a Disbursed disbursement. The
// balance check and the insert happen in one guarded transaction.
func (s *LedgerService) RecordDisbursement(ctx context.Context, req dto.CreateDisbursementRequest, caller *uuid.UUID) (*model.Disbursement, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d := req.ToModel(s.Loc, caller, s.now())
	d.DisbursementDate = d.DisbursementDate.UTC()

	if req.ApprovedBy != nil && s.Staff != nil {
		ok, err := s.Staff.StaffExists(ctx, *d.DisbursementApprovedBy)
		if err != nil {
			return nil, errs.Storage("lookup approver", err)
		}
		if !ok {
			return nil, errs.NewValidation("approved_by does not reference a staff member")
		}
	}

	err := s.withBalanceGuard(ctx, "record disbursement", func(tx *gorm.DB, bal *model.LedgerBalance) error {
		if available := bal.Available(); d.DisbursementAmount.GreaterThan(available) {
			return &errs.InsufficientFundsError{Available: available, Requested: d.DisbursementAmount}
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		bal.TotalDisbursed = bal.TotalDisbursed.Add(d.DisbursementAmount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] disbursement %s recorded: %s to %s (%s)", d.DisbursementID, d.DisbursementAmount.StringFixed(2), d.DisbursementRecipient, d.DisbursementCategory)
	s.changed(ctx)
	return &d, nil
}

/* ===================== Read ===================== */

func (s *LedgerService) GetDonation(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	var d model.Donation
	if err := s.DB.WithContext(ctx).Where("donation_id = ?", id).First(&d).Error; err != nil {
		return nil, errs.FromLookup("get donation", "donation", id, err)
	}
	return &d, nil
}

func (s *LedgerService) GetDisbursement(ctx context.Context, id uuid.UUID) (*model.Disbursement, error) {
	var d model.Disbursement
	if err := s.DB.WithContext(ctx).Where("disbursement_id = ?", id).First(&d).Error; err != nil {
		return nil, errs.FromLookup("get disbursement", "disbursement", id, err)
	}
	return &d, nil
}

// ListDonations returns live donations matching f, newest first.
func (s *LedgerService) ListDonations(ctx context.Context, f dto.DonationFilter) ([]model.Donation, error) {
	q := s.DB.WithContext(ctx).Model(&model.Donation{})
	if f.Status != "" {
		q = q.Where("donation_status = ?", f.Status)
	}
	if f.Method != "" {
		q = q.Where("donation_method = ?", f.Method)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", f.To.UTC())
	}

	var out []model.Donation
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, errs.Storage("list donations", err)
	}
	return out, nil
}

// ListDisbursements returns live disbursements matching f, newest date first.
func (s *LedgerService) ListDisbursements(ctx context.Context, f dto.DisbursementFilter) ([]model.Disbursement, error) {
	q := s.DB.WithContext(ctx).Model(&model.Disbursement{})
	if f.Status != "" {
		q = q.Where("disbursement_status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("disbursement_category = ?", f.Category)
	}
	if f.From != nil {
		q = q.Where("disbursement_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("disbursement_date <= ?", f.To.UTC())
	}

	var out []model.Disbursement
	if err := q.Order("disbursement_date DESC").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, errs.Storage("list disbursements", err)
	}
	return out, nil
}

// Snapshot is every live record, oldest first.
type Snapshot struct {
	Donations     []model.Donation
	Disbursements []model.Disbursement
}

func (s *LedgerService) Snapshot(ctx context.Context) (*Snapshot, error) {
	donations, disbursements, err := loadRecords(s.DB.WithContext(ctx))
	if err != nil {
		return nil, errs.Storage("load ledger", err)
	}
	return &Snapshot{Donations: donations, Disbursements: disbursements}, nil
}

type LedgerStats struct {
	DonationCount     int                 `json:"donation_count"`
	TotalFunds        decimal.Decimal     `json:"total_funds"`
	ByMethod          []engine.GroupTotal `json:"by_method"`
	DisbursementCount int                 `json:"disbursement_count"`
	TotalDisbursed    decimal.Decimal     `json:"total_disbursed"`
	ByCategory        []engine.GroupTotal `json:"by_category"`
}

// Stats groups Completed donations by method and Disbursed disbursements by category.
func (s *LedgerService) Stats(ctx context.Context) (*LedgerStats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	st := &LedgerStats{
		TotalFunds:     engine.TotalFunds(snap.Donations),
		ByMethod:       engine.DonationsByMethod(snap.Donations),
		TotalDisbursed: engine.TotalDisbursed(snap.Disbursements),
		ByCategory:     engine.DisbursementsByCategory(snap.Disbursements),
	}
	for _, g := range st.ByMethod {
		st.DonationCount += g.Count
	}
	for _, g := range st.ByCategory {
		st.DisbursementCount += g.Count
	}
	return st, nil
}

/* ===================== Status edits ===================== */

// UpdateDonationStatus is a plain status edit. Moving a donation out of
// Completed lowers total funds and is refused if that would overdraw the fund.
func (s *LedgerService) UpdateDonationStatus(ctx context.Context, id uuid.UUID, status string, actor *uuid.UUID) (*model.Donation, error) {
	req := dto.UpdateDonationStatusRequest{Status: status}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var d model.Donation
	err := s.withBalanceGuard(ctx, "update donation status", func(tx *gorm.DB, bal *model.LedgerBalance) error {
		if err := tx.Where("donation_id = ?", id).First(&d).Error; err != nil {
			return errs.FromLookup("update donation status", "donation", id, err)
		}
		was := d.CountsAsFunds()
		d.DonationStatus = req.Status
		switch now := d.CountsAsFunds(); {
		case was && !now:
			bal.TotalFunds = bal.TotalFunds.Sub(d.DonationAmount)
		case !was && now:
			bal.TotalFunds = bal.TotalFunds.Add(d.DonationAmount)
		}
		return tx.Model(&d).Update("donation_status", req.Status).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] donation %s status -> %s by %s", id, req.Status, actorString(actor))
	s.changed(ctx)
	return &d, nil
}

// UpdateDisbursementStatus is a plain status edit. Moving a disbursement into
// Disbursed spends its amount and goes through the same balance check as a new one.
func (s *LedgerService) UpdateDisbursementStatus(ctx context.Context, id uuid.UUID, status string, actor *uuid.UUID) (*model.Disbursement, error) {
	req := dto.UpdateDisbursementStatusRequest{Status: status}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var d model.Disbursement
	err := s.withBalanceGuard(ctx, "update disbursement status", func(tx *gorm.DB, bal *model.LedgerBalance) error {
		if err := tx.Where("disbursement_id = ?", id).First(&d).Error; err != nil {
			return errs.FromLookup("update disbursement status", "disbursement", id, err)
		}
		was := d.CountsAsSpend()
		d.DisbursementStatus = req.Status
		switch now := d.CountsAsSpend(); {
		case !was && now:
			if available := bal.Available(); d.DisbursementAmount.GreaterThan(available) {
				return &errs.InsufficientFundsError{Available: available, Requested: d.DisbursementAmount}
			}
			bal.TotalDisbursed = bal.TotalDisbursed.Add(d.DisbursementAmount)
		case was && !now:
			bal.TotalDisbursed = bal.TotalDisbursed.Sub(d.DisbursementAmount)
		}
		return tx.Model(&d).Update("disbursement_status", req.Status).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] disbursement %s status -> %s by %s", id, req.Status, actorString(actor))
	s.changed(ctx)
	return &d, nil
}

/* ===================== Delete (tombstone) ===================== */

// DeleteDonation tombstones the donation with actor and reason. The row stays
// in the table but leaves every total and listing.
func (s *LedgerService) DeleteDonation(ctx context.Context, id uuid.UUID, actor *uuid.UUID, reason string) error {
	req := dto.DeleteRequest{Reason: reason}
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.withBalanceGuard(ctx, "delete donation", func(tx *gorm.DB, bal *model.LedgerBalance) error {
		var d model.Donation
		if err := tx.Where("donation_id = ?", id).First(&d).Error; err != nil {
			return errs.FromLookup("delete donation", "donation", id, err)
		}
		if d.CountsAsFunds() {
			bal.TotalFunds = bal.TotalFunds.Sub(d.DonationAmount)
		}
		if err := tx.Model(&d).Updates(map[string]any{
			"donation_deleted_by":    actor,
			"donation_delete_reason": req.Reason,
		}).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[INFO] donation %s deleted by %s: %s", id, actorString(actor), req.Reason)
	s.changed(ctx)
	return nil
}

func (s *LedgerService) DeleteDisbursement(ctx context.Context, id uuid.UUID, actor *uuid.UUID, reason string) error {
	req := dto.DeleteRequest{Reason: reason}
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.withBalanceGuard(ctx, "delete disbursement", func(tx *gorm.DB, bal *model.LedgerBalance) error {
		var d model.Disbursement
		if err := tx.Where("disbursement_id = ?", id).First(&d).Error; err != nil {
			return errs.FromLookup("delete disbursement", "disbursement", id, err)
		}
		if d.CountsAsSpend() {
			bal.TotalDisbursed = bal.TotalDisbursed.Sub(d.DisbursementAmount)
		}
		if err := tx.Model(&d).Updates(map[string]any{
			"disbursement_deleted_by":    actor,
			"disbursement_delete_reason": req.Reason,
		}).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[INFO] disbursement %s deleted by %s: %s", id, actorString(actor), req.Reason)
	s.changed(ctx)
	return nil
}

func actorString(actor *uuid.UUID) string {
	if actor == nil {
		return "system"
	}
	return actor.String()
}
