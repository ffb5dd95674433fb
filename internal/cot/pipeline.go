package cot

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// Parse runs the full pipeline over already-received CSV text and returns
// the canonical record sequence, ordered by symbol then ascending date.
//
// Rows failing required-field checks are dropped silently; the load either
// fully succeeds (possibly with rows dropped) or fully fails.
func Parse(text string) ([]domain.PositionRecord, error) {
	reader := csv.NewReader(strings.NewReader(trimBOM(text)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: requiredFields}
	}

	cols, err := ResolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.PositionRecord, 0, len(rows)-1)
	dropped := 0
	for _, row := range rows[1:] {
		rec, ok := normalizeRow(row, cols)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		slog.Warn("dropped malformed rows",
			slog.Int("dropped", dropped),
			slog.Int("kept", len(records)))
	}

	return groupAndDerive(records, cols.HasDeltas()), nil
}
