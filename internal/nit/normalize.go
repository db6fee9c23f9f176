package nit

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pwd-tools/tender-cli/internal/dateparse"
	"github.com/pwd-tools/tender-cli/internal/model"
)

var (
	// ErrParse means the spreadsheet is structurally unreadable or missing
	// required columns. Fatal to the upload; the operator must re-upload.
	ErrParse = eris.New("nit: spreadsheet unreadable")

	// ErrEmptyResult means every row failed normalization. Fatal.
	ErrEmptyResult = eris.New("nit: no rows normalized")
)

// Column names are matched case-sensitively against the statutory header,
// with one fallback alias per field for older sheet revisions.
var (
	colItemNo        = []string{"ITEM NO.", "ITEM NO"}
	colWorkName      = []string{"NAME OF WORK", "WORK NAME"}
	colEstimatedCost = []string{"ESTIMATED COST RS. IN LACS", "ESTIMATED COST"}
	colTimeMonths    = []string{"TIME OF COMPLETION IN MONTH", "TIME OF COMPLETION"}
	colEarnestMoney  = []string{"EARNEST MONEY RS.", "EARNEST MONEY"}
)

// lacs is the unit of the estimated-cost column. The source spreadsheet
// expresses cost in lacs; stored records carry the true rupee value, so the
// conversion here is intentional, not a scaling bug.
const lacs = 100_000

// Normalize converts a decoded NIT sheet into canonical work records. A row
// that fails normalization is skipped with a logged reason; the batch
// succeeds when at least one row survives and fails with ErrEmptyResult when
// none do. Missing required columns fail the whole sheet with ErrParse.
func Normalize(raw *RawSheet) ([]model.WorkRecord, error) {
	if err := checkRequiredColumns(raw.Columns); err != nil {
		return nil, err
	}

	meta := batchMeta(raw)

	var works []model.WorkRecord
	for i, row := range raw.Rows {
		rowNum := headerRowIndex + 2 + i // 1-based spreadsheet row for messages
		w, err := normalizeRow(row, meta, rowNum)
		if err != nil {
			zap.L().Warn("nit: skipping row",
				zap.Int("row", rowNum),
				zap.Error(err),
			)
			continue
		}
		works = append(works, w)
	}

	if len(works) == 0 {
		return nil, eris.Wrapf(ErrEmptyResult, "all %d rows failed", len(raw.Rows))
	}
	return works, nil
}

// workMeta carries the header metadata stamped onto every record of a batch.
type workMeta struct {
	nitNumber   string
	nitDate     string
	receiptDate string
	openingDate string
}

func batchMeta(raw *RawSheet) workMeta {
	return workMeta{
		nitNumber:   orUnknown(raw.NITNumber),
		nitDate:     displayOrUnknown(raw.NITDate),
		receiptDate: displayOrUnknown(raw.ReceiptDate),
		openingDate: displayOrUnknown(raw.OpeningDate),
	}
}

func normalizeRow(row map[string]string, meta workMeta, rowNum int) (model.WorkRecord, error) {
	itemNo := lookup(row, colItemNo)
	if itemNo == "" {
		itemNo = "1"
	}

	workName := lookup(row, colWorkName)
	if workName == "" {
		return model.WorkRecord{}, eris.Errorf("row %d: work name missing", rowNum)
	}

	costLacs, err := parseMoney(lookup(row, colEstimatedCost))
	if err != nil {
		return model.WorkRecord{}, eris.Errorf("row %d: estimated cost not numeric", rowNum)
	}
	if costLacs < 0 {
		return model.WorkRecord{}, eris.Errorf("row %d: estimated cost negative", rowNum)
	}

	earnest, err := parseMoney(lookup(row, colEarnestMoney))
	if err != nil || earnest < 0 {
		// Earnest money is optional; an unreadable cell defaults to zero so
		// downstream arithmetic never needs a null check.
		earnest = 0
	}

	months, _ := dateparse.MonthsFromSpec(lookup(row, colTimeMonths))

	return model.WorkRecord{
		ItemNo:               itemNo,
		WorkName:             workName,
		NITNumber:            meta.nitNumber,
		NITDate:              meta.nitDate,
		ReceiptDate:          meta.receiptDate,
		OpeningDate:          meta.openingDate,
		EstimatedCost:        costLacs * lacs,
		EarnestMoney:         earnest,
		TimeCompletionMonths: months,
	}, nil
}

func checkRequiredColumns(columns []string) error {
	for _, required := range [][]string{colItemNo, colWorkName, colEstimatedCost} {
		if !hasAny(columns, required) {
			return eris.Wrapf(ErrParse, "required column %q missing", required[0])
		}
	}
	return nil
}

func hasAny(columns, candidates []string) bool {
	for _, c := range columns {
		for _, want := range candidates {
			if c == want {
				return true
			}
		}
	}
	return false
}

// lookup returns the first matching column value, primary name before alias.
func lookup(row map[string]string, names []string) string {
	for _, n := range names {
		if v, ok := row[n]; ok && v != "" {
			return v
		}
	}
	return ""
}

// parseMoney coerces a monetary cell: thousands separators stripped, missing
// values zero.
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %q", s)
	}
	return v, nil
}

func orUnknown(s string) string {
	if s == "" {
		return model.UnknownDate
	}
	return s
}

func displayOrUnknown(s string) string {
	if d := dateparse.SerialToDisplay(s); d != "" {
		return d
	}
	return model.UnknownDate
}
