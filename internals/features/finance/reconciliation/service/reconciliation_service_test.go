package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	allocDto "hopefoundation_backend/internals/features/finance/allocations/dto"
	allocModel "hopefoundation_backend/internals/features/finance/allocations/model"
	allocService "hopefoundation_backend/internals/features/finance/allocations/service"
	ledgerDto "hopefoundation_backend/internals/features/finance/ledger/dto"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	"hopefoundation_backend/internals/testutil"
)

type memoryCache struct {
	gen         int64
	entries     map[int64]*Summary
	gets, sets  int
	invalidated int
}

func (m *memoryCache) Generation(context.Context) (int64, bool) { return m.gen, true }

func (m *memoryCache) Get(_ context.Context, gen int64) (*Summary, bool) {
	m.gets++
	sum, ok := m.entries[gen]
	return sum, ok
}

func (m *memoryCache) Set(_ context.Context, gen int64, s *Summary) {
	m.sets++
	if m.entries == nil {
		m.entries = map[int64]*Summary{}
	}
	m.entries[gen] = s
}

func (m *memoryCache) Invalidate(context.Context) {
	m.invalidated++
	m.gen++
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intp(v int) *int { return &v }

func newTestService(t *testing.T, cache SummaryCache) *ReconciliationService {
	t.Helper()
	db := testutil.NewDB(t,
		&ledgerModel.Donation{}, &ledgerModel.Disbursement{}, &ledgerModel.LedgerBalance{},
		&allocModel.Institution{}, &allocModel.UtilizationRatio{},
	)
	ledger := ledgerService.NewLedgerService(db)
	alloc := allocService.NewAllocationService(db)
	svc := NewReconciliationService(ledger, alloc, cache)
	ledger.OnChange = svc
	alloc.OnChange = svc
	return svc
}

func donate(t *testing.T, svc *ReconciliationService, amount string) {
	t.Helper()
	_, err := svc.Ledger.RecordDonation(context.Background(), ledgerDto.CreateDonationRequest{
		DonorName: "Meera Iyer", Amount: dec(amount), Method: ledgerModel.MethodUPI,
	}, nil)
	require.NoError(t, err)
}

func TestSummary_Figures(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	donate(t, svc, "10000")
	donate(t, svc, "5000")
	donate(t, svc, "5000")
	_, err := svc.Ledger.RecordDisbursement(ctx, ledgerDto.CreateDisbursementRequest{
		Recipient: "Sunrise School", Amount: dec("3000"), Category: ledgerModel.CategoryEducation, Description: "Books",
	}, nil)
	require.NoError(t, err)

	for _, r := range []allocDto.CreateInstitutionRequest{
		{Name: "A", City: "Pune", Sector: allocModel.SectorEducation, Allocation: intp(35)},
		{Name: "B", City: "Pune", Sector: allocModel.SectorNutrition, Allocation: intp(25)},
		{Name: "C", City: "Pune", Sector: allocModel.SectorHealthcare, Allocation: intp(20)},
		{Name: "D", City: "Pune", Sector: allocModel.SectorShelter, Allocation: intp(20)},
		{Name: "Z", City: "Pune", Sector: allocModel.SectorShelter, Allocation: intp(50), Status: allocModel.InstitutionStatusPending},
	} {
		_, err := svc.Alloc.AddInstitution(ctx, r)
		require.NoError(t, err)
	}

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, sum.TotalFunds.Equal(dec("20000")))
	assert.True(t, sum.TotalDisbursed.Equal(dec("3000")))
	assert.True(t, sum.AvailableBalance.Equal(dec("17000")))
	assert.Equal(t, 3, sum.DonationCount)
	assert.Equal(t, 1, sum.DisbursementCount)
	assert.Equal(t, 100, sum.AllocationTotal)
	assert.True(t, sum.Balanced)

	require.Len(t, sum.Institutions, 4, "only active institutions are projected")
	got := map[string]string{}
	for _, e := range sum.Institutions {
		got[e.Name] = e.EstimatedAmount.String()
	}
	assert.Equal(t, map[string]string{"A": "7000", "B": "5000", "C": "4000", "D": "4000"}, got)

	require.Len(t, sum.Categories, 3)
	assert.True(t, sum.Categories[0].EstimatedAmount.Equal(dec("10000")))
	assert.True(t, sum.Categories[1].EstimatedAmount.Equal(dec("6000")))
	assert.True(t, sum.Categories[2].EstimatedAmount.Equal(dec("4000")))

	require.Len(t, sum.Monthly, 1)
	assert.True(t, sum.Monthly[0].Amount.Equal(dec("20000")))
	assert.False(t, sum.GeneratedAt.IsZero())
}

func TestSummary_IgnoresNonCompletedDonations(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	donate(t, svc, "1000")
	refunded, err := svc.Ledger.RecordDonation(ctx, ledgerDto.CreateDonationRequest{
		DonorName: "Ravi", Amount: dec("500"),
	}, nil)
	require.NoError(t, err)
	_, err = svc.Ledger.UpdateDonationStatus(ctx, refunded.DonationID, ledgerModel.DonationStatusRefunded, nil)
	require.NoError(t, err)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.DonationCount)
	assert.True(t, sum.TotalFunds.Equal(dec("1000")))
}

func TestSummary_CachedUntilWrite(t *testing.T) {
	cache := &memoryCache{}
	svc := newTestService(t, cache)
	ctx := context.Background()

	donate(t, svc, "100")
	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	again, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, cache.sets)

	donate(t, svc, "50")
	assert.Equal(t, 1, cache.invalidated)
	_, hit := cache.Get(ctx, cache.gen)
	assert.False(t, hit)

	fresh, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, fresh.TotalFunds.Equal(dec("150")))
	assert.Equal(t, 2, cache.sets)
}

func TestSummary_WriteDuringComputeIsNotCached(t *testing.T) {
	cache := &memoryCache{}
	svc := newTestService(t, cache)
	ctx := context.Background()
	donate(t, svc, "100")

	// donasi baru masuk setelah snapshot dibaca, sebelum hasilnya disimpan
	armed := false
	require.NoError(t, svc.Ledger.DB.Callback().Query().After("gorm:query").
		Register("test:write_during_summary", func(*gorm.DB) {
			if !armed {
				return
			}
			armed = false
			donate(t, svc, "900")
		}))

	armed = true
	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.False(t, armed, "write should have fired during Summary")
	assert.True(t, first.TotalFunds.Equal(dec("100")))

	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, second.TotalFunds.Equal(dec("1000")), second.TotalFunds.String())
}

func TestIntegrityCheck(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	donate(t, svc, "700")

	report, err := svc.IntegrityCheck(ctx)
	require.NoError(t, err)
	assert.True(t, report.InSync)
	assert.False(t, report.Overdrawn)
	assert.True(t, report.RecomputedAvailable.Equal(dec("700")))

	require.NoError(t, svc.Ledger.DB.Model(&ledgerModel.LedgerBalance{}).
		Where("1 = 1").Update("total_funds", dec("900")).Error)

	report, err = svc.IntegrityCheck(ctx)
	require.NoError(t, err)
	assert.False(t, report.InSync)
	assert.True(t, report.StoredFunds.Equal(dec("900")))
}
