package cot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveTestColumns(t *testing.T, header []string) ColumnMap {
	t.Helper()
	cols, err := ResolveColumns(header)
	require.NoError(t, err)
	return cols
}

func TestNormalizeRow(t *testing.T) {
	cols := resolveTestColumns(t, []string{"date", "symbol", "long", "short", "d_long", "d_short"})

	tests := []struct {
		name string
		row  []string
		ok   bool
	}{
		{name: "valid row", row: []string{"2024-01-02", "GOLD", "100", "40", "5", "-3"}, ok: true},
		{name: "empty date", row: []string{"", "GOLD", "100", "40", "5", "-3"}, ok: false},
		{name: "garbage date", row: []string{"not-a-date", "GOLD", "100", "40", "5", "-3"}, ok: false},
		{name: "empty symbol", row: []string{"2024-01-02", "  ", "100", "40", "5", "-3"}, ok: false},
		{name: "row shorter than symbol index", row: []string{"2024-01-02"}, ok: false},
		{name: "garbled numerics coerce", row: []string{"2024-01-02", "GOLD", "n/a", "", "x", "y"}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := normalizeRow(tt.row, cols)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, "GOLD", rec.Symbol)
				assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rec.Date)
			}
		})
	}
}

func TestNormalizeRowNetComputed(t *testing.T) {
	cols := resolveTestColumns(t, []string{"date", "symbol", "long", "short", "d_long", "d_short"})

	rec, ok := normalizeRow([]string{"2024-01-02", "GOLD", "150", "60", "10", "4"}, cols)
	require.True(t, ok)

	assert.Equal(t, 90.0, rec.Net)
	assert.Equal(t, 10.0, rec.DeltaLong)
	assert.Equal(t, 4.0, rec.DeltaShort)
}

func TestNormalizeRowIgnoresDeltaCellsWithoutBothColumns(t *testing.T) {
	cols := resolveTestColumns(t, []string{"date", "symbol", "long", "short"})

	rec, ok := normalizeRow([]string{"2024-01-02", "GOLD", "150", "60", "99", "99"}, cols)
	require.True(t, ok)

	assert.Zero(t, rec.DeltaLong)
	assert.Zero(t, rec.DeltaShort)
}

func TestParseReportDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024/03/05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05 14:30:00", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"03/05/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"03-05-2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseReportDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}

	_, err := parseReportDate("05.03.2024")
	assert.Error(t, err)
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"100", 100},
		{"-42.5", -42.5},
		{"1,234,567", 1234567},
		{" 12 ", 12},
		{"", 0},
		{"n/a", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceNumber(tt.input), "input %q", tt.input)
	}
}
