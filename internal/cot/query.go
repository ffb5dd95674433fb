package cot

import (
	"time"

	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// Dataset is an immutable view over one pipeline run's canonical sequence.
// All query methods are pure; filtering returns read-only subsequences of
// the unmodified base sequence.
type Dataset struct {
	records []domain.PositionRecord
}

// NewDataset wraps a canonical record sequence. The caller hands off
// ownership of the slice.
func NewDataset(records []domain.PositionRecord) *Dataset {
	return &Dataset{records: records}
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the canonical sequence. Callers must not modify it.
func (d *Dataset) Records() []domain.PositionRecord {
	return d.records
}

// Symbols returns the sorted set of distinct instrument identifiers.
func (d *Dataset) Symbols() []string {
	symbols := make([]string, 0)
	for _, rec := range d.records {
		// records are grouped by symbol, so a change marks a new instrument
		if len(symbols) == 0 || symbols[len(symbols)-1] != rec.Symbol {
			symbols = append(symbols, rec.Symbol)
		}
	}
	return symbols
}

// DateBounds returns the minimum and maximum date across the dataset.
// ok is false for an empty dataset; that is a valid state, not an error.
func (d *Dataset) DateBounds() (domain.DateBounds, bool) {
	if len(d.records) == 0 {
		return domain.DateBounds{}, false
	}
	bounds := domain.DateBounds{Min: d.records[0].Date, Max: d.records[0].Date}
	for _, rec := range d.records[1:] {
		if rec.Date.Before(bounds.Min) {
			bounds.Min = rec.Date
		}
		if rec.Date.After(bounds.Max) {
			bounds.Max = rec.Date
		}
	}
	return bounds, true
}

// FilterByWindow returns the subsequence for one instrument whose dates fall
// within [start, end] inclusive, in ascending date order. Bounds may be
// passed in either order. An empty result is a valid outcome.
func (d *Dataset) FilterByWindow(symbol string, start, end time.Time) []domain.PositionRecord {
	if start.After(end) {
		start, end = end, start
	}
	out := make([]domain.PositionRecord, 0)
	for _, rec := range d.records {
		if rec.Symbol != symbol {
			continue
		}
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
