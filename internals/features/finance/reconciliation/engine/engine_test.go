package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	allocModel "hopefoundation_backend/internals/features/finance/allocations/model"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func donation(amount, status, method string, at time.Time) ledgerModel.Donation {
	return ledgerModel.Donation{
		DonationDonorName: "Donor",
		DonationAmount:    dec(amount),
		DonationStatus:    status,
		DonationMethod:    method,
		CreatedAt:         at,
	}
}

func disbursement(amount, status, category string) ledgerModel.Disbursement {
	return ledgerModel.Disbursement{
		DisbursementRecipient: "Recipient",
		DisbursementAmount:    dec(amount),
		DisbursementStatus:    status,
		DisbursementCategory:  category,
	}
}

func TestTotalFunds_ExcludesNonCompleted(t *testing.T) {
	now := time.Now()
	donations := []ledgerModel.Donation{
		donation("5000", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, now),
		donation("3000", ledgerModel.DonationStatusCompleted, ledgerModel.MethodCard, now),
		donation("1000", ledgerModel.DonationStatusFailed, ledgerModel.MethodUPI, now),
	}

	assert.True(t, TotalFunds(donations).Equal(dec("8000")), "got %s", TotalFunds(donations))
}

func TestAvailableBalance(t *testing.T) {
	now := time.Now()
	donations := []ledgerModel.Donation{
		donation("5000", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, now),
		donation("3000", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, now),
		donation("700", ledgerModel.DonationStatusPending, ledgerModel.MethodUPI, now),
	}
	disbursements := []ledgerModel.Disbursement{
		disbursement("3000", ledgerModel.DisbursementStatusDisbursed, ledgerModel.CategoryEducation),
		disbursement("900", ledgerModel.DisbursementStatusApproved, ledgerModel.CategoryEducation),
	}

	assert.True(t, TotalDisbursed(disbursements).Equal(dec("3000")))
	assert.True(t, AvailableBalance(donations, disbursements).Equal(dec("5000")))
}

func TestEstimatedCategoryAllocation_DefaultRatios(t *testing.T) {
	got := EstimatedCategoryAllocation(dec("10000"), allocModel.DefaultRatios())

	require.Len(t, got, 3)
	want := map[string]string{
		allocModel.SectorEducation:  "5000",
		allocModel.SectorNutrition:  "3000",
		allocModel.SectorHealthcare: "2000",
	}
	for _, c := range got {
		assert.True(t, c.EstimatedAmount.Equal(dec(want[c.Category])), "%s: got %s", c.Category, c.EstimatedAmount)
	}
}

func TestEstimatedAllocation_PerInstitution(t *testing.T) {
	institutions := []allocModel.Institution{
		{InstitutionName: "A", InstitutionAllocation: 35, InstitutionStatus: allocModel.InstitutionStatusActive},
		{InstitutionName: "B", InstitutionAllocation: 25, InstitutionStatus: allocModel.InstitutionStatusActive},
		{InstitutionName: "C", InstitutionAllocation: 20, InstitutionStatus: allocModel.InstitutionStatusActive},
		{InstitutionName: "D", InstitutionAllocation: 20, InstitutionStatus: allocModel.InstitutionStatusActive},
	}

	got := EstimatedAllocation(dec("20000"), institutions)

	require.Len(t, got, 4)
	for i, want := range []string{"7000", "5000", "4000", "4000"} {
		assert.True(t, got[i].EstimatedAmount.Equal(dec(want)), "%s: got %s", got[i].Name, got[i].EstimatedAmount)
	}
	assert.Equal(t, 100, AllocationTotal(institutions))
}

func TestEstimatedAllocation_RoundsEachInstitution(t *testing.T) {
	institutions := []allocModel.Institution{
		{InstitutionName: "A", InstitutionAllocation: 33, InstitutionStatus: allocModel.InstitutionStatusActive},
		{InstitutionName: "B", InstitutionAllocation: 33, InstitutionStatus: allocModel.InstitutionStatusActive},
		{InstitutionName: "C", InstitutionAllocation: 34, InstitutionStatus: allocModel.InstitutionStatusActive},
	}

	got := EstimatedAllocation(dec("101"), institutions)

	// 33.33 -> 33, 33.33 -> 33, 34.34 -> 34: drift of 1 is expected
	assert.True(t, got[0].EstimatedAmount.Equal(dec("33")))
	assert.True(t, got[1].EstimatedAmount.Equal(dec("33")))
	assert.True(t, got[2].EstimatedAmount.Equal(dec("34")))
}

func TestAllocationTotal_IgnoresInactive(t *testing.T) {
	institutions := []allocModel.Institution{
		{InstitutionAllocation: 60, InstitutionStatus: allocModel.InstitutionStatusActive},
		{InstitutionAllocation: 30, InstitutionStatus: allocModel.InstitutionStatusInactive},
		{InstitutionAllocation: 10, InstitutionStatus: allocModel.InstitutionStatusPending},
	}
	assert.Equal(t, 60, AllocationTotal(institutions))
}

func TestMonthlyTotals_FirstOccurrenceOrder(t *testing.T) {
	feb := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	jan := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)
	donations := []ledgerModel.Donation{
		donation("100", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, feb),
		donation("50", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, jan),
		donation("25.50", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, feb.AddDate(0, 0, 3)),
	}

	got := MonthlyTotals(donations, time.UTC)

	require.Len(t, got, 2)
	assert.Equal(t, "Feb 2024", got[0].Label)
	assert.True(t, got[0].Amount.Equal(dec("125.50")))
	assert.Equal(t, "Jan 2024", got[1].Label)
	assert.True(t, got[1].Amount.Equal(dec("50")))
}

func TestMonthlyTotals_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 20:00 UTC on Jan 31 is already Feb 1 in Kolkata
	at := time.Date(2024, time.January, 31, 20, 0, 0, 0, time.UTC)

	got := MonthlyTotals([]ledgerModel.Donation{
		donation("10", ledgerModel.DonationStatusCompleted, ledgerModel.MethodCash, at),
	}, kolkata)

	require.Len(t, got, 1)
	assert.Equal(t, "Feb 2024", got[0].Label)
}

func TestBreakdowns(t *testing.T) {
	now := time.Now()
	donations := []ledgerModel.Donation{
		donation("10", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, now),
		donation("20", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, now),
		donation("5", ledgerModel.DonationStatusCompleted, ledgerModel.MethodCash, now),
		donation("99", ledgerModel.DonationStatusRefunded, ledgerModel.MethodCard, now),
	}
	byMethod := DonationsByMethod(donations)
	require.Len(t, byMethod, 2)
	assert.Equal(t, ledgerModel.MethodCash, byMethod[0].Key)
	assert.Equal(t, 1, byMethod[0].Count)
	assert.Equal(t, ledgerModel.MethodUPI, byMethod[1].Key)
	assert.Equal(t, 2, byMethod[1].Count)
	assert.True(t, byMethod[1].Total.Equal(dec("30")))

	disbursements := []ledgerModel.Disbursement{
		disbursement("40", ledgerModel.DisbursementStatusDisbursed, ledgerModel.CategoryShelter),
		disbursement("60", ledgerModel.DisbursementStatusCancelled, ledgerModel.CategoryShelter),
	}
	byCategory := DisbursementsByCategory(disbursements)
	require.Len(t, byCategory, 1)
	assert.True(t, byCategory[0].Total.Equal(dec("40")))
}

func TestCheckIntegrity(t *testing.T) {
	now := time.Now()
	donations := []ledgerModel.Donation{donation("100", ledgerModel.DonationStatusCompleted, ledgerModel.MethodUPI, now)}
	disbursements := []ledgerModel.Disbursement{disbursement("150", ledgerModel.DisbursementStatusDisbursed, ledgerModel.CategoryOther)}

	report := CheckIntegrity(ledgerModel.LedgerBalance{TotalFunds: dec("100"), TotalDisbursed: dec("0")}, donations, disbursements)

	assert.False(t, report.InSync)
	assert.True(t, report.Overdrawn)
	assert.True(t, report.RecomputedAvailable.Equal(dec("-50")))
}
