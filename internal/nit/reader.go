// Package nit reads Notice Inviting Tender spreadsheets and normalizes their
// heterogeneous rows into canonical work records.
package nit

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Statutory NIT layout: four metadata rows (value in column C), a header row,
// then one row per tendered work item.
const (
	metaRowNITNumber   = 0
	metaRowNITDate     = 1
	metaRowReceiptDate = 2
	metaRowOpeningDate = 3
	headerRowIndex     = 4
	metaValueColumn    = 2
)

// RawSheet is the NIT spreadsheet decoded into metadata cells plus ordered
// column-name -> raw-value rows, the shape the normalizer consumes.
type RawSheet struct {
	NITNumber   string
	NITDate     string
	ReceiptDate string
	OpeningDate string

	Columns []string
	Rows    []map[string]string
}

// Read opens an NIT workbook and decodes its first sheet.
func Read(path string) (*RawSheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrParse, "open workbook %s: %v", path, err)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrapf(ErrParse, "workbook %s has no sheets", path)
	}
	return decodeSheet(f.Sheets[0])
}

func decodeSheet(sheet *xlsx.Sheet) (*RawSheet, error) {
	if len(sheet.Rows) <= headerRowIndex {
		return nil, eris.Wrapf(ErrParse, "sheet has %d rows, need metadata rows plus a header", len(sheet.Rows))
	}

	raw := &RawSheet{
		NITNumber:   metaCell(sheet, metaRowNITNumber),
		NITDate:     metaCell(sheet, metaRowNITDate),
		ReceiptDate: metaCell(sheet, metaRowReceiptDate),
		OpeningDate: metaCell(sheet, metaRowOpeningDate),
	}

	for _, cell := range sheet.Rows[headerRowIndex].Cells {
		raw.Columns = append(raw.Columns, strings.TrimSpace(cell.String()))
	}

	for _, row := range sheet.Rows[headerRowIndex+1:] {
		cells := make(map[string]string, len(raw.Columns))
		empty := true
		for j, name := range raw.Columns {
			if name == "" || j >= len(row.Cells) {
				continue
			}
			v := strings.TrimSpace(row.Cells[j].String())
			cells[name] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		raw.Rows = append(raw.Rows, cells)
	}

	return raw, nil
}

func metaCell(sheet *xlsx.Sheet, rowIdx int) string {
	if rowIdx >= len(sheet.Rows) {
		return ""
	}
	row := sheet.Rows[rowIdx]
	if metaValueColumn >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[metaValueColumn].String())
}
