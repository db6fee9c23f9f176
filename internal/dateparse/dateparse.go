// Package dateparse resolves the heterogeneous date representations found in
// NIT spreadsheets (numeric serials, half a dozen string formats) into
// calendar dates, and provides the offset arithmetic the document timeline
// fields need.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DisplayLayout is the DD-MM-YY form used in every generated document and
// filename.
const DisplayLayout = "02-01-06"

// serialEpoch is the spreadsheet date origin, 1899-12-30. The two-day offset
// from 1900-01-01 accounts for the classic leap-year bug carried by every
// spreadsheet implementation since.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// layouts are tried in order against string input.
var layouts = []string{
	"2006-01-02",
	"02-01-06",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006",
	"02/01/06",
}

// fallbackLayouts are the best-effort second pass when none of the fixed
// formats match.
var fallbackLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
	"02.01.2006",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06 15:04:05", // xlsx library's default cell rendering of date serials
}

// Parse resolves a raw spreadsheet cell value into a calendar date. Numeric
// values are treated as spreadsheet serials; strings go through the ordered
// format list and then the fallback pass. ok is false when nothing matched,
// including well-formed strings naming invalid dates like "31/02/2024".
// Callers must substitute a default (typically today) and log the fallback
// rather than letting an unresolved date reach a document.
func Parse(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case float64:
		return FromSerial(v), true
	case int:
		return FromSerial(float64(v)), true
	case int64:
		return FromSerial(float64(v)), true
	case string:
		return ParseString(v)
	default:
		return time.Time{}, false
	}
}

// ParseString resolves a textual date. A string holding a bare number is
// treated as a spreadsheet serial.
func ParseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		return FromSerial(serial), true
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromSerial converts a spreadsheet date serial to a calendar date.
func FromSerial(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	return serialEpoch.AddDate(0, 0, days).
		Add(time.Duration(frac * 24 * float64(time.Hour)))
}

// FormatDisplay renders a date in the canonical DD-MM-YY display form.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// SerialToDisplay renders a raw header cell (serial or text) in display form,
// falling back to the raw text when it cannot be resolved.
func SerialToDisplay(raw any) string {
	if t, ok := Parse(raw); ok {
		return FormatDisplay(t)
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return ""
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths returns t shifted by n months, clamping the day-of-month so the
// result is always valid: Jan 31 + 1 month lands on the last day of February
// rather than normalizing into March.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

var digitsRe = regexp.MustCompile(`\d+`)

// defaultCompletionMonths applies when a duration spec carries no digits.
const defaultCompletionMonths = 3

// MonthsFromSpec extracts the embedded month count from duration text like
// "6 Months" or "TIME: 12". ok is false when the text has no digits.
func MonthsFromSpec(spec string) (int, bool) {
	m := digitsRe.FindString(spec)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompletionDate adds the duration named by spec to start. When the spec has
// no usable month count it falls back to a documented default and logs the
// substitution; it never fails, because one bad duration must not abort a
// whole document batch.
func CompletionDate(start time.Time, spec string) time.Time {
	months, ok := MonthsFromSpec(spec)
	if !ok {
		zap.L().Warn("dateparse: no month count in duration spec, using default",
			zap.String("spec", spec),
			zap.Int("default_months", defaultCompletionMonths),
		)
		months = defaultCompletionMonths
	}
	return AddMonths(start, months)
}
