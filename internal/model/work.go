// Package model defines the canonical records the tender pipeline operates on:
// the work items parsed from a NIT spreadsheet and the bids recorded against them.
package model

import "time"

// UnknownDate is the sentinel used when a NIT header date could not be read.
const UnknownDate = "Unknown"

// WorkRecord is one tendered work item from a NIT spreadsheet.
// Records are created once per parsed row and never mutated within a session;
// re-ingesting a spreadsheet replaces the whole batch.
type WorkRecord struct {
	ItemNo      string `json:"item_no"`
	WorkName    string `json:"work_name"`
	NITNumber   string `json:"nit_number"`
	NITDate     string `json:"nit_date"`      // DD-MM-YY display form or UnknownDate
	ReceiptDate string `json:"receipt_date"`  // DD-MM-YY display form or UnknownDate
	OpeningDate string `json:"opening_date"`  // DD-MM-YY display form or UnknownDate

	// EstimatedCost is the true currency value in rupees. The source
	// spreadsheet expresses it in lacs; the normalizer applies the x100000
	// conversion before this field is set.
	EstimatedCost float64 `json:"estimated_cost"`
	EarnestMoney  float64 `json:"earnest_money"`

	// TimeCompletionMonths is the contract duration parsed from text like
	// "6 months". Zero means the source cell was empty or unparseable.
	TimeCompletionMonths int `json:"time_completion_months"`
}

// NITBatch groups the work records parsed from a single spreadsheet upload.
type NITBatch struct {
	ID        string       `json:"id"`
	NITNumber string       `json:"nit_number"`
	Works     []WorkRecord `json:"works"`
	CreatedAt time.Time    `json:"created_at"`
}

// Work returns the record with the given item number, if present.
func (b *NITBatch) Work(itemNo string) (WorkRecord, bool) {
	for _, w := range b.Works {
		if w.ItemNo == itemNo {
			return w, true
		}
	}
	return WorkRecord{}, false
}
