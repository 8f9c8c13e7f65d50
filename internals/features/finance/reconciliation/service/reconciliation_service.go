package service

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	allocDto "hopefoundation_backend/internals/features/finance/allocations/dto"
	allocModel "hopefoundation_backend/internals/features/finance/allocations/model"
	allocService "hopefoundation_backend/internals/features/finance/allocations/service"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	"hopefoundation_backend/internals/features/finance/reconciliation/engine"
)

// Summary is the public transparency figure set.
type Summary struct {
	TotalFunds        decimal.Decimal              `json:"total_funds"`
	TotalDisbursed    decimal.Decimal              `json:"total_disbursed"`
	AvailableBalance  decimal.Decimal              `json:"available_balance"`
	DonationCount     int                          `json:"donation_count"`
	DisbursementCount int                          `json:"disbursement_count"`
	Institutions      []engine.InstitutionEstimate `json:"institutions"`
	AllocationTotal   int                          `json:"allocation_total"`
	Balanced          bool                         `json:"balanced"`
	Categories        []engine.CategoryEstimate    `json:"categories"`
	Monthly           []engine.MonthTotal          `json:"monthly"`
	GeneratedAt       time.Time                    `json:"generated_at"`
}

type ReconciliationService struct {
	Ledger *ledgerService.LedgerService
	Alloc  *allocService.AllocationService
	Cache  SummaryCache // nil: recompute on every call
}

func NewReconciliationService(ledger *ledgerService.LedgerService, alloc *allocService.AllocationService, cache SummaryCache) *ReconciliationService {
	return &ReconciliationService{Ledger: ledger, Alloc: alloc, Cache: cache}
}

// Invalidate drops the cached summary. Ledger and allocation writes call it.
func (s *ReconciliationService) Invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}

func (s *ReconciliationService) Summary(ctx context.Context) (*Summary, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.Cache != nil {
		// generasi dibaca sebelum snapshot
		gen, cacheable = s.Cache.Generation(ctx)
		if cacheable {
			if sum, ok := s.Cache.Get(ctx, gen); ok {
				return sum, nil
			}
		}
	}

	snap, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.Alloc.ListInstitutions(ctx, allocDto.InstitutionFilter{Status: allocModel.InstitutionStatusActive})
	if err != nil {
		return nil, err
	}
	ratios, err := s.Alloc.GetUtilizationRatios(ctx)
	if err != nil {
		return nil, err
	}

	sum := Build(snap, active, ratios, s.Ledger.Loc)
	sum.GeneratedAt = time.Now().UTC()
	if sum.AvailableBalance.IsNegative() {
		log.Printf("[ALARM] recomputed available balance is negative: %s", sum.AvailableBalance.StringFixed(2))
	}

	if cacheable {
		s.Cache.Set(ctx, gen, sum)
	}
	return sum, nil
}

// Build derives the summary from already-loaded records. active must hold
// Active institutions only.
func Build(snap *ledgerService.Snapshot, active []allocModel.Institution, ratios []allocModel.UtilizationRatio, loc *time.Location) *Summary {
	completed := make([]ledgerModel.Donation, 0, len(snap.Donations))
	for i := range snap.Donations {
		if snap.Donations[i].CountsAsFunds() {
			completed = append(completed, snap.Donations[i])
		}
	}
	spent := 0
	for i := range snap.Disbursements {
		if snap.Disbursements[i].CountsAsSpend() {
			spent++
		}
	}

	funds := engine.TotalFunds(completed)
	disbursed := engine.TotalDisbursed(snap.Disbursements)
	state := allocDto.NewAllocationState(engine.AllocationTotal(active))

	return &Summary{
		TotalFunds:        funds,
		TotalDisbursed:    disbursed,
		AvailableBalance:  funds.Sub(disbursed),
		DonationCount:     len(completed),
		DisbursementCount: spent,
		Institutions:      engine.EstimatedAllocation(funds, active),
		AllocationTotal:   state.AllocationTotal,
		Balanced:          state.Balanced,
		Categories:        engine.EstimatedCategoryAllocation(funds, ratios),
		Monthly:           engine.MonthlyTotals(completed, loc),
	}
}

// IntegrityCheck compares the running-balance row with totals recomputed from the records.
func (s *ReconciliationService) IntegrityCheck(ctx context.Context) (*engine.IntegrityReport, error) {
	bal, err := s.Ledger.Balance(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report := engine.CheckIntegrity(bal, snap.Donations, snap.Disbursements)
	if report.Overdrawn {
		log.Printf("[ALARM] recomputed available balance is negative: %s", report.RecomputedAvailable.StringFixed(2))
	}
	if !report.InSync {
		log.Printf("[WARN] ledger balance row out of sync with records")
	}
	return &report, nil
}
