package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefoundation_backend/internals/features/finance/audit/dto"
	"hopefoundation_backend/internals/features/finance/errs"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strp(s string) *string { return &s }

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func donation(name, amount, status, created string) ledgerModel.Donation {
	return ledgerModel.Donation{
		DonationID:        uuid.New(),
		DonationDonorName: name,
		DonationAmount:    dec(amount),
		DonationMethod:    ledgerModel.MethodUPI,
		DonationStatus:    status,
		CreatedAt:         at(created),
	}
}

func disbursement(recipient, amount, status, date string) ledgerModel.Disbursement {
	return ledgerModel.Disbursement{
		DisbursementID:          uuid.New(),
		DisbursementRecipient:   recipient,
		DisbursementAmount:      dec(amount),
		DisbursementCategory:    ledgerModel.CategoryNutrition,
		DisbursementDescription: "Meals",
		DisbursementStatus:      status,
		DisbursementDate:        at(date),
	}
}

func TestBuildTransactionFeed_Entries(t *testing.T) {
	d := donation("Asha Rao", "5000", ledgerModel.DonationStatusCompleted, "2025-01-05T20:00:00Z")
	d.DonationExternalPaymentID = strp("pay_001")
	d.DonationExternalOrderID = strp("DONATION-1")
	manual := donation("Ravi", "300", ledgerModel.DonationStatusCompleted, "2025-01-02T08:00:00Z")
	b := disbursement("Annapurna Kitchen", "1200", ledgerModel.DisbursementStatusDisbursed, "2025-01-03T00:00:00Z")

	feed := BuildTransactionFeed([]ledgerModel.Donation{manual, d}, []ledgerModel.Disbursement{b}, kolkata(t))
	require.Len(t, feed, 3)

	credit := feed[0]
	assert.Equal(t, "pay_001", credit.ID)
	assert.Equal(t, d.DonationID.String(), credit.SourceID)
	assert.Equal(t, dto.TypeCredit, credit.Type)
	assert.Equal(t, "Donation from Asha Rao", credit.Description)
	assert.Equal(t, ledgerModel.MethodUPI, credit.Category)
	assert.Equal(t, "2025-01-06", credit.Date, "calendar day is taken in the ledger timezone")
	assert.Equal(t, "pay_001", credit.Reference)

	debit := feed[1]
	assert.Equal(t, dto.TypeDebit, debit.Type)
	assert.Equal(t, "Meals - Annapurna Kitchen", debit.Description)
	assert.Equal(t, ledgerModel.CategoryNutrition, debit.Category)
	assert.Equal(t, b.DisbursementID.String(), debit.Reference)

	assert.Equal(t, manual.DonationID.String(), feed[2].ID)
	assert.Equal(t, "-", feed[2].Reference)
}

func TestBuildTransactionFeed_StableOnTies(t *testing.T) {
	same := "2025-02-01T10:00:00Z"
	d1 := donation("First", "10", ledgerModel.DonationStatusCompleted, same)
	d2 := donation("Second", "20", ledgerModel.DonationStatusCompleted, same)
	b := disbursement("Third", "5", ledgerModel.DisbursementStatusDisbursed, same)

	feed := BuildTransactionFeed([]ledgerModel.Donation{d1, d2}, []ledgerModel.Disbursement{b}, time.UTC)
	require.Len(t, feed, 3)
	assert.Equal(t, d1.DonationID.String(), feed[0].SourceID)
	assert.Equal(t, d2.DonationID.String(), feed[1].SourceID)
	assert.Equal(t, b.DisbursementID.String(), feed[2].SourceID)
}

func TestApplyFilter(t *testing.T) {
	feed := BuildTransactionFeed(
		[]ledgerModel.Donation{
			donation("A", "100", ledgerModel.DonationStatusCompleted, "2025-03-01T00:00:00Z"),
			donation("B", "200", ledgerModel.DonationStatusCompleted, "2025-03-10T23:59:59Z"),
			donation("C", "300", ledgerModel.DonationStatusCompleted, "2025-03-11T00:00:00Z"),
		},
		[]ledgerModel.Disbursement{
			disbursement("X", "50", ledgerModel.DisbursementStatusDisbursed, "2025-03-05T00:00:00Z"),
		},
		time.UTC,
	)

	got := ApplyFilter(feed, dto.Filter{Type: dto.TypeAll, DateFrom: "2025-03-01", DateTo: "2025-03-10"})
	assert.Len(t, got, 3, "both bounds are inclusive")

	got = ApplyFilter(feed, dto.Filter{Type: dto.TypeDebit})
	require.Len(t, got, 1)
	assert.Equal(t, "Meals - X", got[0].Description)

	got = ApplyFilter(feed, dto.Filter{Type: dto.TypeCredit, DateFrom: "2025-03-11"})
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(dec("300")))
}

func TestFilterValidate(t *testing.T) {
	f := dto.Filter{Type: "refund", DateFrom: "01/03/2025"}
	f.Normalize()
	var ve *errs.ValidationError
	require.ErrorAs(t, f.Validate(), &ve)
	assert.Len(t, ve.Messages, 2)

	f = dto.Filter{DateFrom: "2025-03-10", DateTo: "2025-03-01"}
	f.Normalize()
	assert.Equal(t, dto.TypeAll, f.Type)
	require.ErrorAs(t, f.Validate(), &ve)

	f = dto.Filter{Type: " Credit "}
	f.Normalize()
	assert.NoError(t, f.Validate())
}

func TestSummarize_CountsSettledEntriesOnly(t *testing.T) {
	feed := BuildTransactionFeed(
		[]ledgerModel.Donation{
			donation("A", "5000", ledgerModel.DonationStatusCompleted, "2025-01-01T00:00:00Z"),
			donation("B", "3000", ledgerModel.DonationStatusCompleted, "2025-01-02T00:00:00Z"),
			donation("C", "1000", ledgerModel.DonationStatusFailed, "2025-01-03T00:00:00Z"),
		},
		[]ledgerModel.Disbursement{
			disbursement("X", "3000", ledgerModel.DisbursementStatusDisbursed, "2025-01-04T00:00:00Z"),
			disbursement("Y", "700", ledgerModel.DisbursementStatusPending, "2025-01-05T00:00:00Z"),
		},
		time.UTC,
	)

	sum := Summarize(feed)
	assert.True(t, sum.TotalCredit.Equal(dec("8000")))
	assert.True(t, sum.TotalDebit.Equal(dec("3000")))
	assert.True(t, sum.NetBalance.Equal(dec("5000")))
	assert.Equal(t, 2, sum.CreditCount)
	assert.Equal(t, 1, sum.DebitCount)

	credits := Summarize(ApplyFilter(feed, dto.Filter{Type: dto.TypeCredit}))
	assert.True(t, credits.NetBalance.Equal(dec("8000")), "net balance covers the filtered view only")
}
