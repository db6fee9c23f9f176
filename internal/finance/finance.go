// Package finance derives the financial fields the tender documents quote
// from a ranked bid set: performance security, amount-in-words, the
// comparative statement table and its savings summary.
package finance

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pwd-tools/tender-cli/internal/model"
)

// PerformanceSecurityRate is the deposit required from the winning bidder as
// a fraction of contract value. It is a regulatory rate, not a constant of
// the domain, and may change by notification.
const PerformanceSecurityRate = 0.03

// PerformanceSecurity computes the winning bidder's deposit: the rate applied
// to the contract value, floored to whole rupees.
func PerformanceSecurity(bidAmount float64) int64 {
	return int64(math.Floor(bidAmount * PerformanceSecurityRate))
}

// ComparisonRow is one line of the comparative statement table. Field order
// matches the column order the document templates key on.
type ComparisonRow struct {
	Rank          int
	BidderName    string
	EstimatedCost float64
	Percentage    float64
	RateLabel     string // "BELOW" or "ABOVE" the estimate
	BidAmount     float64
}

// RateLabel classifies a quoted percentage relative to the estimate.
// Negative quotes are BELOW; zero and positive quotes are ABOVE.
func RateLabel(percentage float64) string {
	if percentage < 0 {
		return "BELOW"
	}
	return "ABOVE"
}

// ComparisonRows builds the comparative statement rows from an already-ranked
// bid set. Rank 1 is the L1 bidder.
func ComparisonRows(ranked model.BidSet, estimatedCost float64) []ComparisonRow {
	rows := make([]ComparisonRow, len(ranked))
	for i, b := range ranked {
		rows[i] = ComparisonRow{
			Rank:          i + 1,
			BidderName:    b.BidderName,
			EstimatedCost: estimatedCost,
			Percentage:    b.Percentage,
			RateLabel:     RateLabel(b.Percentage),
			BidAmount:     b.BidAmount,
		}
	}
	return rows
}

// Savings reports the absolute and percentage saving of the lowest bid
// against the estimate. Percentage is zero when the estimate is zero.
func Savings(estimatedCost, l1Amount float64) (amount, percent float64) {
	amount = estimatedCost - l1Amount
	if estimatedCost > 0 {
		percent = amount / estimatedCost * 100
	}
	return amount, percent
}

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders an amount with thousands separators and two decimal
// places, the display form used across all documents.
func FormatCurrency(amount float64) string {
	return currencyPrinter.Sprintf("%.2f", amount)
}

// FormatCurrencyWhole renders an amount with thousands separators and no
// decimals, used where the documents quote round rupees.
func FormatCurrencyWhole(amount float64) string {
	return currencyPrinter.Sprintf("%.0f", amount)
}
