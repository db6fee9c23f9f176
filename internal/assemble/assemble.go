// Package assemble merges a work record with its ranked bids and derived
// financials into the flat variable set every document template consumes.
package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pwd-tools/tender-cli/internal/dateparse"
	"github.com/pwd-tools/tender-cli/internal/evaluate"
	"github.com/pwd-tools/tender-cli/internal/finance"
	"github.com/pwd-tools/tender-cli/internal/model"
)

// ErrIncompleteWork means assembly is missing a mandatory input: the work's
// estimated cost or the bid list. Blocks document generation.
var ErrIncompleteWork = eris.New("assemble: incomplete work data")

// Variables is the flat string-keyed map the template engines substitute
// verbatim. Markup escaping is the renderer's concern, not ours.
type Variables map[string]string

// Data is the full assembled input for one document set: the variable map
// plus the structured pieces the native renderers lay out themselves.
type Data struct {
	Vars   Variables
	Rows   []finance.ComparisonRow
	Work   model.WorkRecord
	Ranked model.BidSet
	L1     model.Bid
}

// Safe defaults for optional fields, so assembly never fails on them alone.
const (
	defaultItemNo         = "1"
	defaultTimeCompletion = "90 days"
	defaultCompletionDays = 90
	tenderValidityDays    = 20
)

// Assemble builds the document data for a work record and its bid set.
// The bids are re-checked for distinct names and ranked here so no caller can
// hand a template an unranked or placeholder-bidder view.
//
// Two stipulated-commencement anchors are exposed under distinct keys: the
// work order runs from the processing date, the letter of acceptance from the
// NIT date. Collapsing them would silently change one document or the other.
func Assemble(work model.WorkRecord, bids model.BidSet, now time.Time) (*Data, error) {
	if work.EstimatedCost <= 0 {
		return nil, eris.Wrapf(ErrIncompleteWork, "work %q has no estimated cost", work.WorkName)
	}
	if len(bids) == 0 {
		return nil, eris.Wrap(ErrIncompleteWork, "no bids recorded")
	}
	if err := evaluate.CheckDistinctBidders(bids); err != nil {
		return nil, err
	}

	ranked := evaluate.Rank(bids)
	l1 := ranked[0]

	itemNo := work.ItemNo
	if itemNo == "" {
		itemNo = defaultItemNo
	}

	timeCompletion := defaultTimeCompletion
	if work.TimeCompletionMonths > 0 {
		timeCompletion = fmt.Sprintf("%d Months", work.TimeCompletionMonths)
	}

	// Work order anchor: processing date + 1.
	orderStart := dateparse.AddDays(now, 1)
	orderEnd := completionFrom(orderStart, work.TimeCompletionMonths)

	// Letter of acceptance anchor: NIT date + 1.
	nitDate, ok := dateparse.ParseString(work.NITDate)
	if !ok {
		zap.L().Warn("assemble: NIT date unreadable, anchoring acceptance dates to today",
			zap.String("nit_date", work.NITDate),
			zap.String("work", work.WorkName),
		)
		nitDate = now
	}
	loaStart := dateparse.AddDays(nitDate, 1)
	loaEnd := completionFrom(loaStart, work.TimeCompletionMonths)

	security := finance.PerformanceSecurity(l1.BidAmount)
	rows := finance.ComparisonRows(ranked, work.EstimatedCost)
	savings, savingsPct := finance.Savings(work.EstimatedCost, l1.BidAmount)

	vars := Variables{
		"WORK_NAME":    work.WorkName,
		"ITEM_NO":      itemNo,
		"NIT_NUMBER":   work.NITNumber,
		"NIT_DATE":     work.NITDate,
		"RECEIPT_DATE": work.ReceiptDate,
		"OPENING_DATE": work.OpeningDate,

		"ESTIMATED_COST":  finance.FormatCurrency(work.EstimatedCost),
		"EARNEST_MONEY":   finance.FormatCurrency(work.EarnestMoney),
		"TIME_COMPLETION": timeCompletion,

		"L1_BIDDER_NAME":       l1.BidderName,
		"L1_BIDDER_ADDRESS":    l1.BidderAddress,
		"L1_PERCENTAGE":        fmt.Sprintf("%+.2f%% %s", l1.Percentage, finance.RateLabel(l1.Percentage)),
		"L1_BID_AMOUNT":        finance.FormatCurrency(l1.BidAmount),
		"L1_BID_AMOUNT_WORDS":  finance.AmountInWords(int64(l1.BidAmount)),
		"PERFORMANCE_SECURITY": finance.FormatCurrencyWhole(float64(security)),

		"CURRENT_DATE":  dateparse.FormatDisplay(now),
		"VALIDITY_DATE": dateparse.FormatDisplay(dateparse.AddDays(now, tenderValidityDays)),
		"AGREEMENT_NO":  fmt.Sprintf("%s/AGR/%d", work.NITNumber, now.Year()),

		"COMMENCEMENT_DATE_ORDER": dateparse.FormatDisplay(orderStart),
		"COMPLETION_DATE_ORDER":   dateparse.FormatDisplay(orderEnd),
		"COMMENCEMENT_DATE_LOA":   dateparse.FormatDisplay(loaStart),
		"COMPLETION_DATE_LOA":     dateparse.FormatDisplay(loaEnd),

		"NUM_TENDERS_RECEIVED": fmt.Sprintf("%d", len(ranked)),
		"NUM_TENDERS_SOLD":     fmt.Sprintf("%d", len(ranked)+2),

		"SAVINGS":         finance.FormatCurrencyWhole(savings),
		"SAVINGS_PERCENT": fmt.Sprintf("%.2f", savingsPct),

		"BIDDER_TABLE_ROWS": tableBlock(rows),
	}

	return &Data{
		Vars:   vars,
		Rows:   rows,
		Work:   work,
		Ranked: ranked,
		L1:     l1,
	}, nil
}

// completionFrom adds the contract duration to a commencement date. A work
// with no parsed month count gets the documented day-based default.
func completionFrom(start time.Time, months int) time.Time {
	if months > 0 {
		return dateparse.AddMonths(start, months)
	}
	return dateparse.AddDays(start, defaultCompletionDays)
}

// tableBlock renders the comparison rows as one line per bidder, fields in
// template column order, for engines that substitute the block verbatim.
func tableBlock(rows []finance.ComparisonRow) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%d | %s | %s | %+.2f%% %s | %s",
			r.Rank,
			r.BidderName,
			finance.FormatCurrency(r.EstimatedCost),
			r.Percentage,
			r.RateLabel,
			finance.FormatCurrency(r.BidAmount),
		)
	}
	return strings.Join(lines, "\n")
}
