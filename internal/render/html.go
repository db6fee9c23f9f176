package render

import (
	"bytes"
	"html/template"

	"github.com/rotisserie/eris"

	"github.com/pwd-tools/tender-cli/internal/assemble"
)

// HTMLRenderer renders documents as standalone HTML pages. Escaping of
// markup-sensitive characters in the variable map happens here, in the
// template engine, not in the assembler.
type HTMLRenderer struct {
	profile Profile
	tmpl    *template.Template
}

// NewHTML builds the HTML renderer with the given letterhead profile.
func NewHTML(profile Profile) (*HTMLRenderer, error) {
	t := template.New("documents")
	for name, body := range htmlTemplates {
		var err error
		t, err = t.New(string(name)).Parse(body)
		if err != nil {
			return nil, eris.Wrapf(err, "render: parse html template %s", name)
		}
	}
	return &HTMLRenderer{profile: profile, tmpl: t}, nil
}

func (r *HTMLRenderer) Name() string { return "html" }

// htmlView is the root object the document templates execute against.
type htmlView struct {
	Title   string
	Profile Profile
	V       assemble.Variables
	Rows    []rowView
}

type rowView struct {
	Rank       int
	BidderName string
	Estimated  string
	Rate       string
	Amount     string
	Remark     string
}

func (r *HTMLRenderer) Render(kind DocumentKind, data *assemble.Data) ([]byte, string, error) {
	if _, ok := htmlTemplates[kind]; !ok {
		return nil, "", eris.Errorf("render: no html template for %s", kind)
	}

	view := htmlView{
		Title:   kind.Title(),
		Profile: r.profile,
		V:       data.Vars,
	}
	for _, row := range data.Rows {
		remark := "L" + itoa(row.Rank)
		view.Rows = append(view.Rows, rowView{
			Rank:       row.Rank,
			BidderName: row.BidderName,
			Estimated:  formatAmount(row.EstimatedCost),
			Rate:       formatRate(row.Percentage, row.RateLabel),
			Amount:     formatAmount(row.BidAmount),
			Remark:     remark,
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(kind), view); err != nil {
		return nil, "", eris.Wrapf(err, "render: execute html template %s", kind)
	}
	return buf.Bytes(), "html", nil
}

const htmlShellOpen = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}} - {{.V.NIT_NUMBER}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 11px; color: black; margin: 20mm; }
.office { text-align: center; font-weight: bold; border-bottom: 1px solid black; padding-bottom: 5px; }
.heading { text-align: center; font-weight: bold; font-size: 14px; margin: 20px 0; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; }
td, th { border: 1px solid black; padding: 5px; }
.plain td { border: none; }
.sig { margin-top: 40px; text-align: right; }
</style>
</head>
<body>
<div class="office">{{.Profile.OfficeName}}<br>{{.Profile.Division}}</div>
<div class="heading">{{.Title}}</div>
`

const htmlShellClose = `<div class="sig">{{.Profile.Signatory}}<br>{{.Profile.OnBehalfOf}}</div>
<div>Copy to:<ol>{{range .Profile.CopyTo}}<li>{{.}}</li>{{end}}</ol></div>
</body>
</html>
`

var htmlTemplates = map[DocumentKind]string{
	ComparativeStatement: htmlShellOpen + `
<div>
<strong>Name of Work:</strong> {{.V.WORK_NAME}}<br>
<strong>NIT No.:</strong> {{.V.NIT_NUMBER}} <strong>Date:</strong> {{.V.NIT_DATE}}<br>
<strong>Estimated Cost:</strong> Rs. {{.V.ESTIMATED_COST}}/-
<strong>Earnest Money:</strong> Rs. {{.V.EARNEST_MONEY}}/-
<strong>Time of Completion:</strong> {{.V.TIME_COMPLETION}}
</div>
<table>
<tr><th>S.No.</th><th>Name of Bidder</th><th>Estimated Cost (Rs.)</th><th>Rate Quoted</th><th>Tendered Amount (Rs.)</th><th>Remarks</th></tr>
{{range .Rows}}<tr><td>{{.Rank}}</td><td>{{.BidderName}}</td><td>{{.Estimated}}</td><td>{{.Rate}}</td><td>{{.Amount}}</td><td>{{.Remark}}</td></tr>
{{end}}</table>
<div>
<strong>Lowest Bidder:</strong> {{.V.L1_BIDDER_NAME}} at Rs. {{.V.L1_BID_AMOUNT}}/- ({{.V.L1_PERCENTAGE}})<br>
<strong>Savings against estimate:</strong> Rs. {{.V.SAVINGS}}/- ({{.V.SAVINGS_PERCENT}}%)<br>
<strong>Tenders received:</strong> {{.V.NUM_TENDERS_RECEIVED}}
<strong>Report date:</strong> {{.V.CURRENT_DATE}}
</div>
` + htmlShellClose,

	LetterOfAcceptance: htmlShellOpen + `
<div>No.- {{.V.NIT_NUMBER}}/LOA &nbsp; Date- {{.V.CURRENT_DATE}}</div>
<p>To,<br><strong>{{.V.L1_BIDDER_NAME}}</strong><br>{{.V.L1_BIDDER_ADDRESS}}</p>
<p>Subject: <strong>Acceptance of tender for "{{.V.WORK_NAME}}"</strong></p>
<p>Sir,</p>
<p>I am pleased to inform you that your tender for the above mentioned work
has been accepted by the competent authority.</p>
<table class="plain">
<tr><td>Name of Work:</td><td>{{.V.WORK_NAME}}</td></tr>
<tr><td>NIT Number:</td><td>{{.V.NIT_NUMBER}}</td></tr>
<tr><td>NIT Date:</td><td>{{.V.NIT_DATE}}</td></tr>
<tr><td>Estimated Cost:</td><td>Rs. {{.V.ESTIMATED_COST}}/-</td></tr>
<tr><td>Your Tendered Amount:</td><td>Rs. {{.V.L1_BID_AMOUNT}}/- (Rupees {{.V.L1_BID_AMOUNT_WORDS}} Only)</td></tr>
<tr><td>Rate:</td><td>{{.V.L1_PERCENTAGE}} estimate</td></tr>
<tr><td>Earnest Money:</td><td>Rs. {{.V.EARNEST_MONEY}}/-</td></tr>
<tr><td>Performance Security:</td><td>Rs. {{.V.PERFORMANCE_SECURITY}}/-</td></tr>
<tr><td>Time of Completion:</td><td>{{.V.TIME_COMPLETION}}</td></tr>
<tr><td>Commencement Date:</td><td>{{.V.COMMENCEMENT_DATE_LOA}}</td></tr>
<tr><td>Completion Date:</td><td>{{.V.COMPLETION_DATE_LOA}}</td></tr>
</table>
<p>You are requested to submit the Performance Security of
Rs. {{.V.PERFORMANCE_SECURITY}}/- within 15 days, execute the agreement
within 21 days, and commence the work as per the scheduled date above.</p>
` + htmlShellClose,

	WorkOrder: htmlShellOpen + `
<p>To,<br>M/s. {{.V.L1_BIDDER_NAME}}<br>{{.V.L1_BIDDER_ADDRESS}}</p>
<p><strong>Name of Work:</strong> {{.V.WORK_NAME}}<br>
<strong>NIT No.:</strong> {{.V.NIT_NUMBER}} &nbsp; <strong>ITEM-{{.V.ITEM_NO}}</strong><br>
<strong>NIT Date:</strong> {{.V.NIT_DATE}}<br>
<strong>Tender Receipt Date:</strong> {{.V.RECEIPT_DATE}}</p>
<p>Dear Sir,</p>
<p>With reference to your tender for the above work, I am pleased to inform
you that your tender has been accepted by the competent authority for an
amount of Rs. {{.V.L1_BID_AMOUNT}}/- (Rupees {{.V.L1_BID_AMOUNT_WORDS}} Only).</p>
<p>You are therefore requested to contact the Assistant Engineer-in-Charge
and start the work. The time allowed for commencement shall be reckoned from
the 1st day after the receipt of this order.</p>
<table class="plain">
<tr><td>Agreement No.:</td><td>{{.V.AGREEMENT_NO}}</td></tr>
<tr><td>Stipulated date for commencement of work:</td><td>{{.V.COMMENCEMENT_DATE_ORDER}}</td></tr>
<tr><td>Stipulated date for completion of work:</td><td>{{.V.COMPLETION_DATE_ORDER}}</td></tr>
<tr><td>Performance Security:</td><td>Rs. {{.V.PERFORMANCE_SECURITY}}/-</td></tr>
</table>
<div>No.- {{.V.NIT_NUMBER}}/WO &nbsp; Date- {{.V.CURRENT_DATE}}</div>
` + htmlShellClose,

	ScrutinySheet: htmlShellOpen + `
<table class="plain">
<tr><td>Name of Work:</td><td>{{.V.WORK_NAME}}</td></tr>
<tr><td>NIT Number:</td><td>{{.V.NIT_NUMBER}}</td></tr>
<tr><td>NIT Date:</td><td>{{.V.NIT_DATE}}</td></tr>
<tr><td>Receipt of Tenders:</td><td>{{.V.RECEIPT_DATE}}</td></tr>
<tr><td>Opening of Tenders:</td><td>{{.V.OPENING_DATE}}</td></tr>
<tr><td>Estimated Cost:</td><td>Rs. {{.V.ESTIMATED_COST}}/-</td></tr>
<tr><td>Earnest Money:</td><td>Rs. {{.V.EARNEST_MONEY}}/-</td></tr>
<tr><td>Tenders Sold:</td><td>{{.V.NUM_TENDERS_SOLD}}</td></tr>
<tr><td>Tenders Received:</td><td>{{.V.NUM_TENDERS_RECEIVED}}</td></tr>
<tr><td>Validity of Offer:</td><td>{{.V.VALIDITY_DATE}}</td></tr>
</table>
<table>
<tr><th>S.No.</th><th>Name of Bidder</th><th>Rate Quoted</th><th>Tendered Amount (Rs.)</th><th>Remarks</th></tr>
{{range .Rows}}<tr><td>{{.Rank}}</td><td>{{.BidderName}}</td><td>{{.Rate}}</td><td>{{.Amount}}</td><td>{{.Remark}}</td></tr>
{{end}}</table>
<p>The lowest tender of {{.V.L1_BIDDER_NAME}} at {{.V.L1_PERCENTAGE}}
estimate, amounting to Rs. {{.V.L1_BID_AMOUNT}}/-, is recommended for
acceptance.</p>
` + htmlShellClose,
}
