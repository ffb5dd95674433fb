package cot

import (
	"fmt"
	"strings"
)

// Field identifies a semantic column of the positioning table.
type Field string

const (
	FieldDate       Field = "date"
	FieldSymbol     Field = "symbol"
	FieldLong       Field = "long"
	FieldShort      Field = "short"
	FieldDeltaLong  Field = "d_long"
	FieldDeltaShort Field = "d_short"
)

// requiredFields are the fields that must resolve for a load to proceed.
var requiredFields = []Field{FieldDate, FieldSymbol, FieldLong, FieldShort}

// optionalFields may be absent; absence switches the pipeline to the
// derivation path for both delta columns.
var optionalFields = []Field{FieldDeltaLong, FieldDeltaShort}

// columnAliases maps each semantic field to its accepted header names,
// canonical CFTC export name first, then common short aliases. Headers are
// matched case-insensitively after trimming.
var columnAliases = map[Field][]string{
	FieldDate:       {"report_date_as_yyyy_mm_dd", "date", "report_date"},
	FieldSymbol:     {"contract_market_name", "symbol", "market", "asset"},
	FieldLong:       {"noncomm_positions_long_all", "long", "noncom_long"},
	FieldShort:      {"noncomm_positions_short_all", "short", "noncom_short"},
	FieldDeltaLong:  {"change_in_noncomm_long_all", "d_long"},
	FieldDeltaShort: {"change_in_noncomm_short_all", "d_short"},
}

// SchemaError reports required columns that could not be resolved from the
// header row. It is fatal to the load.
type SchemaError struct {
	Missing []Field
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("required columns not found: %s", strings.Join(names, ", "))
}

// ColumnMap holds the resolved column index for each semantic field.
type ColumnMap struct {
	indexes   map[Field]int
	hasDeltas bool
}

// Index returns the column index resolved for the given field.
// ok is false for unresolved optional fields.
func (m ColumnMap) Index(f Field) (int, bool) {
	idx, ok := m.indexes[f]
	return idx, ok
}

// HasDeltas reports whether both delta columns were resolved from the
// header. The check is per-dataset: sourced deltas are used only when both
// columns are present, otherwise both are derived for every record.
func (m ColumnMap) HasDeltas() bool {
	return m.hasDeltas
}

// ResolveColumns maps the raw header row onto semantic fields. For each
// field the first header whose lowercased form matches an alias wins.
// A missing required field fails the whole load with a SchemaError; missing
// delta columns are a valid resolution state.
func ResolveColumns(header []string) (ColumnMap, error) {
	lowered := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(trimBOM(h)))
		if _, seen := lowered[key]; !seen {
			lowered[key] = i
		}
	}

	m := ColumnMap{indexes: make(map[Field]int, len(columnAliases))}

	resolve := func(f Field) bool {
		for _, alias := range columnAliases[f] {
			if idx, ok := lowered[alias]; ok {
				m.indexes[f] = idx
				return true
			}
		}
		return false
	}

	var missing []Field
	for _, f := range requiredFields {
		if !resolve(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return ColumnMap{}, &SchemaError{Missing: missing}
	}

	m.hasDeltas = true
	for _, f := range optionalFields {
		if !resolve(f) {
			m.hasDeltas = false
		}
	}

	return m, nil
}

// trimBOM strips a UTF-8 byte order mark, which some exports prepend to the
// first header cell.
func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
