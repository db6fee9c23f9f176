package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/rotisserie/eris"

	"github.com/pwd-tools/tender-cli/internal/assemble"
	"github.com/pwd-tools/tender-cli/internal/finance"
)

// PDFRenderer lays the documents out natively with gofpdf. The comparative
// statement is landscape; the letter-form documents are portrait.
type PDFRenderer struct {
	profile Profile
}

// NewPDF builds the PDF renderer with the given letterhead profile.
func NewPDF(profile Profile) *PDFRenderer {
	return &PDFRenderer{profile: profile}
}

func (r *PDFRenderer) Name() string { return "pdf" }

func (r *PDFRenderer) Render(kind DocumentKind, data *assemble.Data) ([]byte, string, error) {
	orientation := "P"
	if kind == ComparativeStatement {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	r.letterhead(pdf, kind)

	switch kind {
	case ComparativeStatement:
		r.comparativeStatement(pdf, data)
	case LetterOfAcceptance:
		r.letterOfAcceptance(pdf, data)
	case WorkOrder:
		r.workOrder(pdf, data)
	case ScrutinySheet:
		r.scrutinySheet(pdf, data)
	default:
		return nil, "", eris.Errorf("render: no pdf layout for %s", kind)
	}

	r.signatureBlock(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", eris.Wrapf(err, "render: pdf output for %s", kind)
	}
	return buf.Bytes(), "pdf", nil
}

func (r *PDFRenderer) letterhead(pdf *gofpdf.Fpdf, kind DocumentKind) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 6, r.profile.OfficeName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, r.profile.Division, "B", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, kind.Title(), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (r *PDFRenderer) signatureBlock(pdf *gofpdf.Fpdf) {
	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, r.profile.Signatory, "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, r.profile.OnBehalfOf, "", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.CellFormat(0, 5, "Copy to:", "", 1, "L", false, 0, "")
	for i, line := range r.profile.CopyTo {
		pdf.CellFormat(0, 5, fmt.Sprintf("%d. %s", i+1, line), "", 1, "L", false, 0, "")
	}
}

// labelRow writes a "Label: value" line in the letter documents.
func labelRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func (r *PDFRenderer) comparativeStatement(pdf *gofpdf.Fpdf, data *assemble.Data) {
	v := data.Vars

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf("Name of Work: %s", v["WORK_NAME"]), "", "L", false)
	pdf.CellFormat(0, 5, fmt.Sprintf("NIT No.: %s    Date: %s    Estimated Cost: Rs. %s/-    Earnest Money: Rs. %s/-    Time of Completion: %s",
		v["NIT_NUMBER"], v["NIT_DATE"], v["ESTIMATED_COST"], v["EARNEST_MONEY"], v["TIME_COMPLETION"]), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{15, 85, 45, 40, 45, 25}
	headers := []string{"S.No.", "Name of Bidder", "Estimated Cost (Rs.)", "Rate Quoted", "Tendered Amount (Rs.)", "Remarks"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		pdf.CellFormat(widths[0], 7, strconv.Itoa(row.Rank), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.BidderName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, formatAmount(row.EstimatedCost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, formatRate(row.Percentage, row.RateLabel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, formatAmount(row.BidAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, "L"+strconv.Itoa(row.Rank), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Lowest Bidder: %s at Rs. %s/- (%s)", v["L1_BIDDER_NAME"], v["L1_BID_AMOUNT"], v["L1_PERCENTAGE"]), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Savings against estimate: Rs. %s/- (%s%%)    Tenders received: %s    Report date: %s",
		v["SAVINGS"], v["SAVINGS_PERCENT"], v["NUM_TENDERS_RECEIVED"], v["CURRENT_DATE"]), "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) letterOfAcceptance(pdf *gofpdf.Fpdf, data *assemble.Data) {
	v := data.Vars

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("No.- %s/LOA    Date- %s", v["NIT_NUMBER"], v["CURRENT_DATE"]), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.MultiCell(0, 6, fmt.Sprintf("To,\n%s\n%s", v["L1_BIDDER_NAME"], v["L1_BIDDER_ADDRESS"]), "", "L", false)
	pdf.Ln(2)
	pdf.MultiCell(0, 6, fmt.Sprintf("Subject: Acceptance of tender for \"%s\"", v["WORK_NAME"]), "", "L", false)
	pdf.Ln(2)
	pdf.MultiCell(0, 6, "Sir,\nI am pleased to inform you that your tender for the above mentioned work has been accepted by the competent authority.", "", "L", false)
	pdf.Ln(2)

	labelRow(pdf, "NIT Number:", v["NIT_NUMBER"])
	labelRow(pdf, "NIT Date:", v["NIT_DATE"])
	labelRow(pdf, "Estimated Cost:", "Rs. "+v["ESTIMATED_COST"]+"/-")
	labelRow(pdf, "Your Tendered Amount:", fmt.Sprintf("Rs. %s/- (Rupees %s Only)", v["L1_BID_AMOUNT"], v["L1_BID_AMOUNT_WORDS"]))
	labelRow(pdf, "Rate:", v["L1_PERCENTAGE"]+" estimate")
	labelRow(pdf, "Earnest Money:", "Rs. "+v["EARNEST_MONEY"]+"/-")
	labelRow(pdf, "Performance Security:", "Rs. "+v["PERFORMANCE_SECURITY"]+"/-")
	labelRow(pdf, "Time of Completion:", v["TIME_COMPLETION"])
	labelRow(pdf, "Commencement Date:", v["COMMENCEMENT_DATE_LOA"])
	labelRow(pdf, "Completion Date:", v["COMPLETION_DATE_LOA"])

	pdf.Ln(2)
	pdf.MultiCell(0, 6, fmt.Sprintf("You are requested to submit the Performance Security of Rs. %s/- within 15 days, execute the agreement within 21 days, and commence the work as per the scheduled date above.", v["PERFORMANCE_SECURITY"]), "", "L", false)
}

func (r *PDFRenderer) workOrder(pdf *gofpdf.Fpdf, data *assemble.Data) {
	v := data.Vars

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("To,\nM/s. %s\n%s", v["L1_BIDDER_NAME"], v["L1_BIDDER_ADDRESS"]), "", "L", false)
	pdf.Ln(2)

	labelRow(pdf, "Name of Work:", v["WORK_NAME"])
	labelRow(pdf, "NIT No.:", fmt.Sprintf("%s    ITEM-%s", v["NIT_NUMBER"], v["ITEM_NO"]))
	labelRow(pdf, "NIT Date:", v["NIT_DATE"])
	labelRow(pdf, "Tender Receipt Date:", v["RECEIPT_DATE"])

	pdf.Ln(2)
	pdf.MultiCell(0, 6, fmt.Sprintf("Dear Sir,\nWith reference to your tender for the above work, I am pleased to inform you that your tender has been accepted by the competent authority for an amount of Rs. %s/- (Rupees %s Only).",
		v["L1_BID_AMOUNT"], v["L1_BID_AMOUNT_WORDS"]), "", "L", false)
	pdf.Ln(2)
	pdf.MultiCell(0, 6, "You are therefore requested to contact the Assistant Engineer-in-Charge and start the work. The time allowed for commencement shall be reckoned from the 1st day after the receipt of this order.", "", "L", false)
	pdf.Ln(2)

	labelRow(pdf, "Agreement No.:", v["AGREEMENT_NO"])
	labelRow(pdf, "Commencement of work:", v["COMMENCEMENT_DATE_ORDER"])
	labelRow(pdf, "Completion of work:", v["COMPLETION_DATE_ORDER"])
	labelRow(pdf, "Performance Security:", "Rs. "+v["PERFORMANCE_SECURITY"]+"/-")

	pdf.Ln(2)
	pdf.CellFormat(0, 6, fmt.Sprintf("No.- %s/WO    Date- %s", v["NIT_NUMBER"], v["CURRENT_DATE"]), "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) scrutinySheet(pdf *gofpdf.Fpdf, data *assemble.Data) {
	v := data.Vars

	labelRow(pdf, "Name of Work:", v["WORK_NAME"])
	labelRow(pdf, "NIT Number:", v["NIT_NUMBER"])
	labelRow(pdf, "NIT Date:", v["NIT_DATE"])
	labelRow(pdf, "Receipt of Tenders:", v["RECEIPT_DATE"])
	labelRow(pdf, "Opening of Tenders:", v["OPENING_DATE"])
	labelRow(pdf, "Estimated Cost:", "Rs. "+v["ESTIMATED_COST"]+"/-")
	labelRow(pdf, "Earnest Money:", "Rs. "+v["EARNEST_MONEY"]+"/-")
	labelRow(pdf, "Tenders Sold:", v["NUM_TENDERS_SOLD"])
	labelRow(pdf, "Tenders Received:", v["NUM_TENDERS_RECEIVED"])
	labelRow(pdf, "Validity of Offer:", v["VALIDITY_DATE"])
	pdf.Ln(2)

	widths := []float64{15, 70, 35, 40, 20}
	headers := []string{"S.No.", "Name of Bidder", "Rate Quoted", "Amount (Rs.)", "Remarks"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		pdf.CellFormat(widths[0], 7, strconv.Itoa(row.Rank), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.BidderName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, formatRate(row.Percentage, row.RateLabel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, formatAmount(row.BidAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, "L"+strconv.Itoa(row.Rank), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.MultiCell(0, 6, fmt.Sprintf("The lowest tender of %s at %s estimate, amounting to Rs. %s/-, is recommended for acceptance.",
		v["L1_BIDDER_NAME"], v["L1_PERCENTAGE"], v["L1_BID_AMOUNT"]), "", "L", false)
}

// shared formatting helpers

func itoa(n int) string { return strconv.Itoa(n) }

func formatAmount(v float64) string { return finance.FormatCurrency(v) }

func formatRate(p float64, label string) string {
	return fmt.Sprintf("%+.2f%% %s", p, label)
}
