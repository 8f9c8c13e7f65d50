package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixedEntries() []Entry {
	return []Entry{
		{
			ID: "pay_001", Type: "credit", Description: "Donation from Asha Rao", Category: "UPI",
			Amount: dec("5000"), Date: "2025-01-05", Timestamp: at("2025-01-05T04:30:00Z"),
			Reference: "pay_001", Status: "Completed",
		},
		{
			ID: "2f1d7a2e-0000-4000-8000-000000000001", Type: "debit", Description: "Books, bags - Sunrise School",
			Category: "Education", Amount: dec("1200.5"), Date: "2025-01-04", Timestamp: at("2025-01-04T00:00:00Z"),
			Reference: "2f1d7a2e-0000-4000-8000-000000000001", Status: "Disbursed",
		},
		{
			ID: "3a9e0c11-0000-4000-8000-000000000002", Type: "credit", Description: `Donation from Ravi "RK" Kumar`,
			Category: "Cash", Amount: dec("250"), Date: "2025-01-03", Timestamp: at("2025-01-03T12:00:00Z"),
			Reference: "-", Status: "Failed",
		},
	}
}

func TestExportCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, fixedEntries()))

	g := goldie.New(t)
	g.Assert(t, "transactions_csv", buf.Bytes())
}

func TestExportCSV_RoundTrip(t *testing.T) {
	entries := fixedEntries()
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, entries))

	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i].ID, parsed[i].ID)
		assert.Equal(t, entries[i].Type, parsed[i].Type)
		assert.True(t, entries[i].Amount.Equal(parsed[i].Amount), "amount of %s", entries[i].ID)
		assert.Equal(t, entries[i].Date, parsed[i].Date)
		assert.Equal(t, entries[i].Description, parsed[i].Description)
		assert.True(t, entries[i].Timestamp.Equal(parsed[i].Timestamp))
	}
}

func TestParseCSV_RejectsForeignHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a,b,c,d,e,f,g,h,i\n"))
	assert.Error(t, err)

	_, err = ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	entries := fixedEntries()
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, entries, Summarize(entries)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "pay_001", rows[1][0])
	assert.Equal(t, "Books, bags - Sunrise School", rows[2][2])

	net, err := f.GetCellValue(xlsxSheet, "E8")
	require.NoError(t, err)
	assert.Equal(t, "3799.50", net)
	for cell, want := range map[string]string{"D6": "Total Credit", "D7": "Total Debit", "D8": "Net Balance"} {
		got, err := f.GetCellValue(xlsxSheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestSetXLSXRow_ReportsBadCoordinates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", xlsxSheet))

	assert.Error(t, setXLSXRow(f, 0, 1, "x"))
	assert.Error(t, setXLSXRow(f, 1, 0, "x"))
	require.NoError(t, setXLSXRow(f, 2, 4, "Net Balance", "10.00"))
	got, err := f.GetCellValue(xlsxSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "10.00", got)
}

func TestExportHTML(t *testing.T) {
	entries := fixedEntries()
	var buf bytes.Buffer
	require.NoError(t, ExportHTML(&buf, entries, Summarize(entries), time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))

	out := buf.String()
	assert.Contains(t, out, "<title>Transaction Report</title>")
	assert.Contains(t, out, "Generated 2025-01-06T00:00:00Z")
	assert.Contains(t, out, "Donation from Ravi &#34;RK&#34; Kumar")
	assert.Contains(t, out, `<td class="num">1200.50</td>`)
	assert.Contains(t, out, `<tr><th>Net Balance</th><td class="num">3799.50</td></tr>`)
}
