package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefoundation_backend/internals/features/finance/audit/dto"
	"hopefoundation_backend/internals/features/finance/errs"
	ledgerDto "hopefoundation_backend/internals/features/finance/ledger/dto"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	"hopefoundation_backend/internals/testutil"
)

type memoryArchive struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (m *memoryArchive) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	m.bodies = append(m.bodies, body)
	return "https://reports.example/" + key, nil
}

func newAuditService(t *testing.T, archive Archiver) (*AuditService, *ledgerService.LedgerService) {
	t.Helper()
	db := testutil.NewDB(t, &ledgerModel.Donation{}, &ledgerModel.Disbursement{}, &ledgerModel.LedgerBalance{})
	ledger := ledgerService.NewLedgerService(db)
	ctx := context.Background()

	for _, amount := range []string{"5000", "3000"} {
		_, err := ledger.RecordDonation(ctx, ledgerDto.CreateDonationRequest{DonorName: "Asha Rao", Amount: dec(amount)}, nil)
		require.NoError(t, err)
	}
	_, err := ledger.RecordDisbursement(ctx, ledgerDto.CreateDisbursementRequest{
		Recipient: "Sunrise School", Amount: dec("3000"), Category: ledgerModel.CategoryEducation, Description: "Term fees",
	}, nil)
	require.NoError(t, err)

	svc := NewAuditService(ledger, archive)
	svc.Now = func() time.Time { return time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC) }
	return svc, ledger
}

func TestAuditService_Feed(t *testing.T) {
	svc, _ := newAuditService(t, nil)

	res, err := svc.Feed(context.Background(), dto.Filter{})
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.True(t, res.Summary.NetBalance.Equal(dec("5000")))

	res, err = svc.Feed(context.Background(), dto.Filter{Type: "debit"})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Term fees - Sunrise School", res.Entries[0].Description)
	assert.True(t, res.Summary.NetBalance.Equal(dec("-3000")))

	_, err = svc.Feed(context.Background(), dto.Filter{Type: "gift"})
	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAuditService_FeedHidesTombstones(t *testing.T) {
	svc, ledger := newAuditService(t, nil)
	ctx := context.Background()

	res, err := svc.Feed(ctx, dto.Filter{Type: "debit"})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	id := res.Entries[0].SourceID

	b, err := ledger.ListDisbursements(ctx, ledgerDto.DisbursementFilter{})
	require.NoError(t, err)
	require.Equal(t, id, b[0].DisbursementID.String())
	require.NoError(t, ledger.DeleteDisbursement(ctx, b[0].DisbursementID, nil, "entered twice"))

	res, err = svc.Feed(ctx, dto.Filter{})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
}

func TestAuditService_ExportFormats(t *testing.T) {
	svc, _ := newAuditService(t, nil)
	ctx := context.Background()

	var buf bytes.Buffer
	format, err := svc.Export(ctx, &buf, dto.Filter{}, "")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)
	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.Len(t, parsed, 3)

	buf.Reset()
	format, err = svc.Export(ctx, &buf, dto.Filter{}, "HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, format)
	assert.Contains(t, buf.String(), "Generated 2025-04-01T09:30:00Z")

	_, err = svc.Export(ctx, &buf, dto.Filter{}, "pdf")
	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAuditService_Archive(t *testing.T) {
	archive := &memoryArchive{}
	svc, _ := newAuditService(t, archive)

	res, err := svc.ArchiveReport(context.Background(), dto.Filter{Type: "credit"}, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "audit/transactions_20250401_093000.xlsx", res.Key)
	assert.Equal(t, "https://reports.example/"+res.Key, res.URL)
	assert.Equal(t, 2, res.Entries)
	require.Len(t, archive.bodies, 1)
	assert.NotEmpty(t, archive.bodies[0])

	archive.err = errors.New("access denied")
	_, err = svc.ArchiveReport(context.Background(), dto.Filter{}, "csv")
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadGateway, fe.Code)
}

func TestAuditService_ArchiveDisabled(t *testing.T) {
	svc, _ := newAuditService(t, nil)

	_, err := svc.ArchiveReport(context.Background(), dto.Filter{}, "csv")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}
