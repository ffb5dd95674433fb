package cot

import (
	"sort"

	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// groupAndDerive partitions records by symbol, sorts each partition
// chronologically, fills delta fields when the source omitted them, and
// flattens everything back into the canonical symbol-then-date ordering.
//
// Records sharing a date within one partition keep their relative input
// order; duplicates are preserved, not collapsed.
func groupAndDerive(records []domain.PositionRecord, hasDeltas bool) []domain.PositionRecord {
	groups := make(map[string][]domain.PositionRecord)
	symbols := make([]string, 0)
	for _, rec := range records {
		if _, ok := groups[rec.Symbol]; !ok {
			symbols = append(symbols, rec.Symbol)
		}
		groups[rec.Symbol] = append(groups[rec.Symbol], rec)
	}
	sort.Strings(symbols)

	out := make([]domain.PositionRecord, 0, len(records))
	for _, symbol := range symbols {
		group := groups[symbol]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		if !hasDeltas {
			deriveDeltas(group)
		}
		// DeltaNet is always recomputed, for sourced and derived deltas
		// alike, so net figures stay internally consistent.
		for i := range group {
			group[i].DeltaNet = group[i].DeltaLong - group[i].DeltaShort
		}

		out = append(out, group...)
	}
	return out
}

// deriveDeltas fills d_long/d_short from the immediately preceding record in
// the same, already date-sorted partition. The earliest record has no
// predecessor to diff against and gets zeros.
func deriveDeltas(group []domain.PositionRecord) {
	for i := range group {
		if i == 0 {
			group[i].DeltaLong = 0
			group[i].DeltaShort = 0
			continue
		}
		group[i].DeltaLong = group[i].Long - group[i-1].Long
		group[i].DeltaShort = group[i].Short - group[i-1].Short
	}
}
