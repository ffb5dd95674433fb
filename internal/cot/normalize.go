package cot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// reportDateFormats lists accepted date layouts, ISO first. Source files are
// date-only; any time-of-day component is discarded.
var reportDateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"01-02-2006",
}

// normalizeRow converts one raw row into a typed record, or rejects it.
// Rejection rules: empty/absent date or symbol cell, unparseable date,
// empty-after-trim symbol. Numeric cells never reject; garbled values
// coerce to zero so a partial reporting week does not disappear.
func normalizeRow(row []string, cols ColumnMap) (domain.PositionRecord, bool) {
	dateIdx, _ := cols.Index(FieldDate)
	symbolIdx, _ := cols.Index(FieldSymbol)

	dateCell := cell(row, dateIdx)
	if dateCell == "" {
		return domain.PositionRecord{}, false
	}
	date, err := parseReportDate(dateCell)
	if err != nil {
		return domain.PositionRecord{}, false
	}

	symbol := cell(row, symbolIdx)
	if symbol == "" {
		return domain.PositionRecord{}, false
	}

	longIdx, _ := cols.Index(FieldLong)
	shortIdx, _ := cols.Index(FieldShort)

	rec := domain.PositionRecord{
		Date:   date,
		Symbol: symbol,
		Long:   coerceNumber(cell(row, longIdx)),
		Short:  coerceNumber(cell(row, shortIdx)),
	}
	rec.Net = rec.Long - rec.Short

	// Sourced deltas are read only when both columns resolved; otherwise the
	// deriver fills them from chronological neighbors.
	if cols.HasDeltas() {
		dLongIdx, _ := cols.Index(FieldDeltaLong)
		dShortIdx, _ := cols.Index(FieldDeltaShort)
		rec.DeltaLong = coerceNumber(cell(row, dLongIdx))
		rec.DeltaShort = coerceNumber(cell(row, dShortIdx))
	}

	return rec, true
}

// cell returns the trimmed value at idx, or "" when the row is too short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseReportDate parses a date cell, trying each accepted layout and
// truncating to the calendar day.
func parseReportDate(s string) (time.Time, error) {
	for _, layout := range reportDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", s)
}

// coerceNumber converts a raw cell to a number with a zero fallback for
// missing or garbled values. Thousands separators are tolerated.
func coerceNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
