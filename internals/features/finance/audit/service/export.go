package service

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
)

var Formats = []string{FormatCSV, FormatXLSX, FormatHTML}

var csvHeader = []string{"Transaction ID", "Type", "Description", "Category", "Amount", "Date", "Timestamp", "Reference", "Status"}

func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

func row(e Entry) []string {
	return []string{
		e.ID,
		e.Type,
		e.Description,
		e.Category,
		e.Amount.StringFixed(2),
		e.Date,
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Reference,
		e.Status,
	}
}

/* ===================== CSV ===================== */

func ExportCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(row(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads back a file written by ExportCSV. SourceID is not part of
// the file and stays empty.
func ParseCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: missing header")
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			return nil, fmt.Errorf("csv: column %d is %q, want %q", i+1, records[0][i], h)
		}
	}

	out := make([]Entry, 0, len(records)-1)
	for n, rec := range records[1:] {
		amount, err := decimal.NewFromString(rec[4])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: amount: %w", n+2, err)
		}
		ts, err := time.Parse(time.RFC3339, rec[6])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: timestamp: %w", n+2, err)
		}
		out = append(out, Entry{
			ID:          rec[0],
			Type:        rec[1],
			Description: rec[2],
			Category:    rec[3],
			Amount:      amount,
			Date:        rec[5],
			Timestamp:   ts,
			Reference:   rec[7],
			Status:      rec[8],
		})
	}
	return out, nil
}

/* ===================== XLSX ===================== */

const xlsxSheet = "Transactions"

func ExportXLSX(w io.Writer, entries []Entry, sum Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := setXLSXRow(f, 1, 1, header...); err != nil {
		return err
	}
	for i, e := range entries {
		amount, _ := e.Amount.Float64()
		if err := setXLSXRow(f, i+2, 1,
			e.ID, e.Type, e.Description, e.Category, amount, e.Date,
			e.Timestamp.UTC().Format(time.RFC3339), e.Reference, e.Status,
		); err != nil {
			return err
		}
	}

	// ringkasan di bawah tabel, satu baris kosong
	r := len(entries) + 3
	for i, kv := range [][2]string{
		{"Total Credit", sum.TotalCredit.StringFixed(2)},
		{"Total Debit", sum.TotalDebit.StringFixed(2)},
		{"Net Balance", sum.NetBalance.StringFixed(2)},
	} {
		if err := setXLSXRow(f, r+i, 4, kv[0], kv[1]); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// setXLSXRow writes values left to right starting at (col, row).
func setXLSXRow(f *excelize.File, row, col int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(xlsxSheet, cell, &values)
}

/* ===================== HTML (printable) ===================== */

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;font-size:12px}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #999;padding:4px;text-align:left}
td.num{text-align:right}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.GeneratedAt}}</p>
<table class="summary">
<tr><th>Total Credit</th><td class="num">{{money .Summary.TotalCredit}}</td></tr>
<tr><th>Total Debit</th><td class="num">{{money .Summary.TotalDebit}}</td></tr>
<tr><th>Net Balance</th><td class="num">{{money .Summary.NetBalance}}</td></tr>
</table>
<br>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Entries}}<tr><td>{{.ID}}</td><td>{{.Type}}</td><td>{{.Description}}</td><td>{{.Category}}</td><td class="num">{{money .Amount}}</td><td>{{.Date}}</td><td>{{.Timestamp.Format "2006-01-02 15:04"}}</td><td>{{.Reference}}</td><td>{{.Status}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func ExportHTML(w io.Writer, entries []Entry, sum Summary, generatedAt time.Time) error {
	return reportTmpl.Execute(w, struct {
		Title       string
		GeneratedAt string
		Header      []string
		Entries     []Entry
		Summary     Summary
	}{
		Title:       "Transaction Report",
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Header:      csvHeader,
		Entries:     entries,
		Summary:     sum,
	})
}
