package dto

import (
	"slices"
	"strings"
	"time"

	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/helpers/dbtime"
)

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
	TypeAll    = "all"
)

// Filter: ?type=credit|debit|all&date_from=YYYY-MM-DD&date_to=YYYY-MM-DD
type Filter struct {
	Type     string `query:"type"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
}

func (f *Filter) Normalize() {
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type == "" {
		f.Type = TypeAll
	}
	f.DateFrom = strings.TrimSpace(f.DateFrom)
	f.DateTo = strings.TrimSpace(f.DateTo)
}

func (f *Filter) Validate() error {
	v := errs.NewValidation()
	if !slices.Contains([]string{TypeCredit, TypeDebit, TypeAll}, f.Type) {
		v.Add("type must be one of: credit, debit, all")
	}
	if f.DateFrom != "" && !isDay(f.DateFrom) {
		v.Add("date_from must be a date in YYYY-MM-DD format")
	}
	if f.DateTo != "" && !isDay(f.DateTo) {
		v.Add("date_to must be a date in YYYY-MM-DD format")
	}
	if len(v.Messages) == 0 && f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		v.Add("date_from must not be after date_to")
	}
	return v.OrNil()
}

func isDay(s string) bool {
	_, err := time.Parse(dbtime.DateLayout, s)
	return err == nil
}

// ExportQuery: filter + ?format=csv|xlsx|html
type ExportQuery struct {
	Type     string `query:"type"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Format   string `query:"format"`
}

func (q ExportQuery) Filter() Filter {
	return Filter{Type: q.Type, DateFrom: q.DateFrom, DateTo: q.DateTo}
}

// ArchiveRequest: body POST /audit/archive
type ArchiveRequest struct {
	Type     string `json:"type"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Format   string `json:"format"`
}

func (r ArchiveRequest) Filter() Filter {
	return Filter{Type: r.Type, DateFrom: r.DateFrom, DateTo: r.DateTo}
}
