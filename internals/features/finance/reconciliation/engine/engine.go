// Package engine derives report figures from already-fetched ledger and
// allocation records. Everything here is CPU-only and side-effect free; it is
// re-run on every query.
package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	allocModel "hopefoundation_backend/internals/features/finance/allocations/model"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
)

var hundred = decimal.NewFromInt(100)

// TotalFunds sums Completed donations.
func TotalFunds(donations []ledgerModel.Donation) decimal.Decimal {
	total := decimal.Zero
	for i := range donations {
		if donations[i].CountsAsFunds() {
			total = total.Add(donations[i].DonationAmount)
		}
	}
	return total
}

// TotalDisbursed sums Disbursed disbursements.
func TotalDisbursed(disbursements []ledgerModel.Disbursement) decimal.Decimal {
	total := decimal.Zero
	for i := range disbursements {
		if disbursements[i].CountsAsSpend() {
			total = total.Add(disbursements[i].DisbursementAmount)
		}
	}
	return total
}

func AvailableBalance(donations []ledgerModel.Donation, disbursements []ledgerModel.Disbursement) decimal.Decimal {
	return TotalFunds(donations).Sub(TotalDisbursed(disbursements))
}

/* ===================== Projections ===================== */

type InstitutionEstimate struct {
	InstitutionID   uuid.UUID       `json:"institution_id"`
	Name            string          `json:"name"`
	Sector          string          `json:"sector"`
	Status          string          `json:"status"`
	Allocation      int             `json:"allocation"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
}

// EstimatedAllocation projects totalFunds onto each institution as
// round(totalFunds × allocation/100). Each figure is rounded on its own, so
// the estimates need not add up to totalFunds exactly.
func EstimatedAllocation(totalFunds decimal.Decimal, institutions []allocModel.Institution) []InstitutionEstimate {
	out := make([]InstitutionEstimate, 0, len(institutions))
	for _, inst := range institutions {
		out = append(out, InstitutionEstimate{
			InstitutionID:   inst.InstitutionID,
			Name:            inst.InstitutionName,
			Sector:          inst.InstitutionSector,
			Status:          inst.InstitutionStatus,
			Allocation:      inst.InstitutionAllocation,
			EstimatedAmount: percentOf(totalFunds, inst.InstitutionAllocation),
		})
	}
	return out
}

type CategoryEstimate struct {
	Category        string          `json:"category"`
	Percent         int             `json:"percent"`
	Ratio           decimal.Decimal `json:"ratio"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
}

// EstimatedCategoryAllocation projects totalFunds onto the utilization ratios.
func EstimatedCategoryAllocation(totalFunds decimal.Decimal, ratios []allocModel.UtilizationRatio) []CategoryEstimate {
	out := make([]CategoryEstimate, 0, len(ratios))
	for _, r := range ratios {
		out = append(out, CategoryEstimate{
			Category:        r.UtilizationRatioCategory,
			Percent:         r.UtilizationRatioPercent,
			Ratio:           r.UtilizationRatioValue,
			EstimatedAmount: totalFunds.Mul(r.UtilizationRatioValue).Round(0),
		})
	}
	return out
}

func percentOf(total decimal.Decimal, percent int) decimal.Decimal {
	return total.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(0)
}

// AllocationTotal sums allocation over Active institutions.
func AllocationTotal(institutions []allocModel.Institution) int {
	total := 0
	for i := range institutions {
		if institutions[i].IsActive() {
			total += institutions[i].InstitutionAllocation
		}
	}
	return total
}

/* ===================== Time series ===================== */

type MonthTotal struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyTotals groups the given donations by calendar month of CreatedAt in
// loc, labelled "Jan 2024". Order is first occurrence in the input; callers
// wanting chronological order must sort.
func MonthlyTotals(donations []ledgerModel.Donation, loc *time.Location) []MonthTotal {
	if loc == nil {
		loc = time.UTC
	}
	index := make(map[string]int)
	out := make([]MonthTotal, 0)
	for i := range donations {
		label := donations[i].CreatedAt.In(loc).Format("Jan 2006")
		pos, ok := index[label]
		if !ok {
			pos = len(out)
			index[label] = pos
			out = append(out, MonthTotal{Label: label, Amount: decimal.Zero})
		}
		out[pos].Amount = out[pos].Amount.Add(donations[i].DonationAmount)
	}
	return out
}

/* ===================== Breakdown ===================== */

type GroupTotal struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DonationsByMethod groups Completed donations by method, sorted by key.
func DonationsByMethod(donations []ledgerModel.Donation) []GroupTotal {
	groups := map[string]*GroupTotal{}
	for i := range donations {
		d := &donations[i]
		if !d.CountsAsFunds() {
			continue
		}
		addTo(groups, d.DonationMethod, d.DonationAmount)
	}
	return sortedGroups(groups)
}

// DisbursementsByCategory groups Disbursed disbursements by category, sorted by key.
func DisbursementsByCategory(disbursements []ledgerModel.Disbursement) []GroupTotal {
	groups := map[string]*GroupTotal{}
	for i := range disbursements {
		d := &disbursements[i]
		if !d.CountsAsSpend() {
			continue
		}
		addTo(groups, d.DisbursementCategory, d.DisbursementAmount)
	}
	return sortedGroups(groups)
}

func addTo(groups map[string]*GroupTotal, key string, amount decimal.Decimal) {
	g, ok := groups[key]
	if !ok {
		g = &GroupTotal{Key: key, Total: decimal.Zero}
		groups[key] = g
	}
	g.Count++
	g.Total = g.Total.Add(amount)
}

func sortedGroups(groups map[string]*GroupTotal) []GroupTotal {
	out := make([]GroupTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

/* ===================== Integrity ===================== */

type IntegrityReport struct {
	RecomputedFunds     decimal.Decimal `json:"recomputed_funds"`
	RecomputedDisbursed decimal.Decimal `json:"recomputed_disbursed"`
	RecomputedAvailable decimal.Decimal `json:"recomputed_available"`
	StoredFunds         decimal.Decimal `json:"stored_funds"`
	StoredDisbursed     decimal.Decimal `json:"stored_disbursed"`
	InSync              bool            `json:"in_sync"`
	Overdrawn           bool            `json:"overdrawn"`
}

// CheckIntegrity compares the running-balance row against totals recomputed from records.
func CheckIntegrity(stored ledgerModel.LedgerBalance, donations []ledgerModel.Donation, disbursements []ledgerModel.Disbursement) IntegrityReport {
	funds := TotalFunds(donations)
	spent := TotalDisbursed(disbursements)
	available := funds.Sub(spent)
	return IntegrityReport{
		RecomputedFunds:     funds,
		RecomputedDisbursed: spent,
		RecomputedAvailable: available,
		StoredFunds:         stored.TotalFunds,
		StoredDisbursed:     stored.TotalDisbursed,
		InSync:              funds.Equal(stored.TotalFunds) && spent.Equal(stored.TotalDisbursed),
		Overdrawn:           available.IsNegative(),
	}
}
