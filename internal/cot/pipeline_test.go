package cot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDerivedDeltas(t *testing.T) {
	// No delta columns in the source: both are derived per symbol from the
	// chronological predecessor, first record gets zeros.
	input := "date,symbol,long,short\n" +
		"2024-01-16,GOLD,120,50\n" +
		"2024-01-09,GOLD,100,40\n" +
		"2024-01-09,OIL,200,210\n" +
		"2024-01-16,OIL,190,230\n"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 4)

	// canonical ordering: symbol lexicographic, then date ascending
	assert.Equal(t, "GOLD", records[0].Symbol)
	assert.Equal(t, "GOLD", records[1].Symbol)
	assert.Equal(t, "OIL", records[2].Symbol)
	assert.Equal(t, "OIL", records[3].Symbol)
	assert.True(t, records[0].Date.Equal(day(2024, 1, 9)))
	assert.True(t, records[1].Date.Equal(day(2024, 1, 16)))

	// GOLD 2024-01-09: first in its partition
	assert.Equal(t, 0.0, records[0].DeltaLong)
	assert.Equal(t, 0.0, records[0].DeltaShort)
	assert.Equal(t, 60.0, records[0].Net)
	assert.Equal(t, 0.0, records[0].DeltaNet)

	// GOLD 2024-01-16: diffed against 2024-01-09
	assert.Equal(t, 20.0, records[1].DeltaLong)
	assert.Equal(t, 10.0, records[1].DeltaShort)
	assert.Equal(t, 70.0, records[1].Net)
	assert.Equal(t, 10.0, records[1].DeltaNet)

	// OIL 2024-01-16: long fell, short rose
	assert.Equal(t, -10.0, records[3].DeltaLong)
	assert.Equal(t, 20.0, records[3].DeltaShort)
	assert.Equal(t, -40.0, records[3].Net)
	assert.Equal(t, -30.0, records[3].DeltaNet)
}

func TestParseSourcedDeltasPassThrough(t *testing.T) {
	input := "date,symbol,long,short,d_long,d_short\n" +
		"2024-01-09,GOLD,100,40,7,-2\n" +
		"2024-01-16,GOLD,120,50,20,10\n"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Sourced deltas are not recomputed, even for the first record.
	assert.Equal(t, 7.0, records[0].DeltaLong)
	assert.Equal(t, -2.0, records[0].DeltaShort)
	// DeltaNet is still derived from the sourced deltas.
	assert.Equal(t, 9.0, records[0].DeltaNet)
	assert.Equal(t, 10.0, records[1].DeltaNet)
}

func TestParseDropsMalformedRows(t *testing.T) {
	input := "date,symbol,long,short\n" +
		"2024-01-09,GOLD,100,40\n" +
		"bad-date,GOLD,1,2\n" +
		"2024-01-16,,1,2\n" +
		"2024-01-16,GOLD,120,50\n"

	records, err := Parse(input)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseSchemaFailure(t *testing.T) {
	input := "when,what\n2024-01-09,GOLD\n"

	_, err := Parse(input)
	require.Error(t, err)

	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)

	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParseHeaderOnly(t *testing.T) {
	records, err := Parse("date,symbol,long,short\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCanonicalCFTCExport(t *testing.T) {
	input := "\uFEFFReport_Date_as_YYYY_MM_DD,CONTRACT_MARKET_NAME,NonComm_Positions_Long_All,NonComm_Positions_Short_All,Change_in_NonComm_Long_All,Change_in_NonComm_Short_All\n" +
		"2024-01-09,\"GOLD\",\"1,234\",\"1,000\",50,25\n"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "GOLD", records[0].Symbol)
	assert.Equal(t, 1234.0, records[0].Long)
	assert.Equal(t, 1000.0, records[0].Short)
	assert.Equal(t, 234.0, records[0].Net)
	assert.Equal(t, 50.0, records[0].DeltaLong)
	assert.Equal(t, 25.0, records[0].DeltaNet)
}

func TestParseRaggedRows(t *testing.T) {
	// Rows shorter or longer than the header must not fail the load.
	input := "date,symbol,long,short\n" +
		"2024-01-09,GOLD,100,40,extra\n" +
		"2024-01-16,GOLD,120\n"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Missing short cell coerces to zero.
	assert.Equal(t, 0.0, records[1].Short)
	assert.Equal(t, 120.0, records[1].Net)
}

func TestParseDuplicateDatesKeepInputOrder(t *testing.T) {
	input := "date,symbol,long,short\n" +
		"2024-01-09,GOLD,100,40\n" +
		"2024-01-09,GOLD,101,41\n"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 100.0, records[0].Long)
	assert.Equal(t, 101.0, records[1].Long)
}
