package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/audit/dto"
	"hopefoundation_backend/internals/features/finance/errs"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	"hopefoundation_backend/internals/helpers/dbtime"
)

var ErrArchiveDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "report archive is not configured")

// FeedSource supplies the live ledger records.
type FeedSource interface {
	Snapshot(ctx context.Context) (*ledgerService.Snapshot, error)
}

// AuditService is read-only over the ledger.
type AuditService struct {
	Ledger  FeedSource
	Archive Archiver // nil: archive disabled
	Loc     *time.Location
	Now     func() time.Time
}

func NewAuditService(ledger FeedSource, archive Archiver) *AuditService {
	return &AuditService{Ledger: ledger, Archive: archive, Loc: dbtime.LedgerLocation(), Now: time.Now}
}

type FeedResult struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

type ArchiveResult struct {
	URL     string `json:"url"`
	Key     string `json:"key"`
	Format  string `json:"format"`
	Entries int    `json:"entries"`
}

func (s *AuditService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Feed builds the full feed, applies the filter and summarizes the filtered part.
func (s *AuditService) Feed(ctx context.Context, f dto.Filter) (*FeedResult, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	entries := ApplyFilter(BuildTransactionFeed(snap.Donations, snap.Disbursements, s.Loc), f)
	return &FeedResult{Entries: entries, Summary: Summarize(entries)}, nil
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if !slices.Contains(Formats, format) {
		return "", errs.NewValidation("format must be one of: " + strings.Join(Formats, ", "))
	}
	return format, nil
}

// Export writes the filtered feed in the requested format and returns the format used.
func (s *AuditService) Export(ctx context.Context, w io.Writer, f dto.Filter, format string) (string, error) {
	format, err := normalizeFormat(format)
	if err != nil {
		return "", err
	}
	res, err := s.Feed(ctx, f)
	if err != nil {
		return "", err
	}
	return format, s.render(w, res, format)
}

func (s *AuditService) render(w io.Writer, res *FeedResult, format string) error {
	var err error
	switch format {
	case FormatXLSX:
		err = ExportXLSX(w, res.Entries, res.Summary)
	case FormatHTML:
		err = ExportHTML(w, res.Entries, res.Summary, s.now())
	default:
		err = ExportCSV(w, res.Entries)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// ArchiveReport uploads an export and returns its location.
func (s *AuditService) ArchiveReport(ctx context.Context, f dto.Filter, format string) (*ArchiveResult, error) {
	if s.Archive == nil {
		return nil, ErrArchiveDisabled
	}
	format, err := normalizeFormat(format)
	if err != nil {
		return nil, err
	}

	res, err := s.Feed(ctx, f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.render(&buf, res, format); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("audit/transactions_%s.%s", s.now().Format("20060102_150405"), format)
	url, err := s.Archive.Put(ctx, key, ContentType(format), buf.Bytes())
	if err != nil {
		log.Printf("[ERROR] archive %s: %v", key, err)
		return nil, fiber.NewError(fiber.StatusBadGateway, "could not upload report")
	}
	log.Printf("[INFO] audit report archived to %s (%d entries)", url, len(res.Entries))
	return &ArchiveResult{URL: url, Key: key, Format: format, Entries: len(res.Entries)}, nil
}
