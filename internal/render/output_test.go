package render

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwd-tools/tender-cli/internal/assemble"
	"github.com/pwd-tools/tender-cli/internal/model"
)

func testData(t *testing.T) *assemble.Data {
	t.Helper()

	work := model.WorkRecord{
		ItemNo:               "1",
		WorkName:             "Electrification of GSS <Phase II>",
		NITNumber:            "24/2023-24",
		NITDate:              "15-01-24",
		ReceiptDate:          "29-01-24",
		OpeningDate:          "30-01-24",
		EstimatedCost:        1_000_000,
		EarnestMoney:         20_000,
		TimeCompletionMonths: 6,
	}
	bids := model.BidSet{
		{BidderName: "M/s Sharma", BidderAddress: "Udaipur", Percentage: -5.00, BidAmount: 950_000},
		{BidderName: "M/s Verma", BidderAddress: "Jaipur", Percentage: 2.00, BidAmount: 1_020_000},
	}

	data, err := assemble.Assemble(work, bids, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return data
}

func TestHTMLRenderer_AllKinds(t *testing.T) {
	r, err := NewHTML(DefaultProfile())
	require.NoError(t, err)

	data := testData(t)
	for _, kind := range AllKinds {
		out, ext, err := r.Render(kind, data)
		require.NoError(t, err, kind)
		assert.Equal(t, "html", ext)

		html := string(out)
		assert.Contains(t, html, kind.Title())
		assert.Contains(t, html, "24/2023-24")
		assert.Contains(t, html, "M/s Sharma")
	}
}

func TestHTMLRenderer_EscapesMarkup(t *testing.T) {
	r, err := NewHTML(DefaultProfile())
	require.NoError(t, err)

	out, _, err := r.Render(ComparativeStatement, testData(t))
	require.NoError(t, err)

	html := string(out)
	assert.NotContains(t, html, "<Phase II>")
	assert.Contains(t, html, "&lt;Phase II&gt;")
}

func TestHTMLRenderer_UnknownKind(t *testing.T) {
	r, err := NewHTML(DefaultProfile())
	require.NoError(t, err)

	_, _, err = r.Render(DocumentKind("minutes"), testData(t))
	assert.Error(t, err)
}

func TestPDFRenderer_AllKinds(t *testing.T) {
	r := NewPDF(DefaultProfile())

	data := testData(t)
	for _, kind := range AllKinds {
		out, ext, err := r.Render(kind, data)
		require.NoError(t, err, kind)
		assert.Equal(t, "pdf", ext)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output for %s is not a PDF", kind)
	}
}

func TestPDFRenderer_UnknownKind(t *testing.T) {
	_, _, err := NewPDF(DefaultProfile()).Render(DocumentKind("minutes"), testData(t))
	assert.Error(t, err)
}

func TestBundle(t *testing.T) {
	results := []*Result{
		{Kind: WorkOrder, Bytes: []byte("order"), Ext: "pdf"},
		{Kind: ScrutinySheet, Bytes: []byte("sheet"), Ext: "html"},
	}

	out, err := Bundle("24/2023-24", "1", results)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "work_order_24-2023-24_item1.pdf", zr.File[0].Name)
	assert.Equal(t, "scrutiny_sheet_24-2023-24_item1.html", zr.File[1].Name)
}

func TestBundle_Empty(t *testing.T) {
	_, err := Bundle("24/2023-24", "1", nil)
	assert.Error(t, err)
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "work_order_24-2023-24_item1.pdf",
		ArchiveName(WorkOrder, "24/2023-24", "1", "pdf"))
	assert.Equal(t, "scrutiny_sheet_unknown_item1.html",
		ArchiveName(ScrutinySheet, "  ", "1", "html"))
}
