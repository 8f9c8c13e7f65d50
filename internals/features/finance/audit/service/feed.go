package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"hopefoundation_backend/internals/features/finance/audit/dto"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	"hopefoundation_backend/internals/helpers/dbtime"
)

// Entry is one line of the transaction feed. Donations are credits,
// disbursements are debits.
type Entry struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD in the ledger timezone
	Timestamp   time.Time       `json:"timestamp"`
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	SourceID    string          `json:"source_id"`
}

// BuildTransactionFeed merges both record sets, newest first. Entries with the
// same timestamp keep their input order: donations before disbursements, each
// in the order given.
func BuildTransactionFeed(donations []ledgerModel.Donation, disbursements []ledgerModel.Disbursement, loc *time.Location) []Entry {
	feed := make([]Entry, 0, len(donations)+len(disbursements))
	for i := range donations {
		feed = append(feed, donationEntry(&donations[i], loc))
	}
	for i := range disbursements {
		feed = append(feed, disbursementEntry(&disbursements[i], loc))
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	return feed
}

func donationEntry(d *ledgerModel.Donation, loc *time.Location) Entry {
	id := d.DonationID.String()
	ref := "-"
	switch {
	case d.DonationExternalPaymentID != nil && *d.DonationExternalPaymentID != "":
		ref = *d.DonationExternalPaymentID
		id = ref
	case d.DonationExternalOrderID != nil && *d.DonationExternalOrderID != "":
		ref = *d.DonationExternalOrderID
	}
	return Entry{
		ID:          id,
		Type:        dto.TypeCredit,
		Description: "Donation from " + d.DonationDonorName,
		Category:    d.DonationMethod,
		Amount:      d.DonationAmount,
		Date:        dbtime.DayOf(d.CreatedAt, loc),
		Timestamp:   d.CreatedAt.UTC(),
		Reference:   ref,
		Status:      d.DonationStatus,
		SourceID:    d.DonationID.String(),
	}
}

func disbursementEntry(d *ledgerModel.Disbursement, loc *time.Location) Entry {
	id := d.DisbursementID.String()
	return Entry{
		ID:          id,
		Type:        dto.TypeDebit,
		Description: d.DisbursementDescription + " - " + d.DisbursementRecipient,
		Category:    d.DisbursementCategory,
		Amount:      d.DisbursementAmount,
		Date:        dbtime.DayOf(d.DisbursementDate, loc),
		Timestamp:   d.DisbursementDate.UTC(),
		Reference:   id,
		Status:      d.DisbursementStatus,
		SourceID:    id,
	}
}

// ApplyFilter keeps entries matching the type whose own Date falls inside
// [DateFrom, DateTo]. Bounds are inclusive calendar days.
func ApplyFilter(feed []Entry, f dto.Filter) []Entry {
	out := make([]Entry, 0, len(feed))
	for _, e := range feed {
		if f.Type != "" && f.Type != dto.TypeAll && e.Type != f.Type {
			continue
		}
		// YYYY-MM-DD compares correctly as a string
		if f.DateFrom != "" && e.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && e.Date > f.DateTo {
			continue
		}
		out = append(out, e)
	}
	return out
}

/* ===================== Summary ===================== */

type Summary struct {
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	NetBalance  decimal.Decimal `json:"net_balance"`
	CreditCount int             `json:"credit_count"`
	DebitCount  int             `json:"debit_count"`
}

// Summarize totals the given entries only. Credits count when Completed,
// debits when Disbursed.
func Summarize(entries []Entry) Summary {
	s := Summary{TotalCredit: decimal.Zero, TotalDebit: decimal.Zero}
	for _, e := range entries {
		switch {
		case e.Type == dto.TypeCredit && e.Status == ledgerModel.DonationStatusCompleted:
			s.TotalCredit = s.TotalCredit.Add(e.Amount)
			s.CreditCount++
		case e.Type == dto.TypeDebit && e.Status == ledgerModel.DisbursementStatusDisbursed:
			s.TotalDebit = s.TotalDebit.Add(e.Amount)
			s.DebitCount++
		}
	}
	s.NetBalance = s.TotalCredit.Sub(s.TotalDebit)
	return s
}
