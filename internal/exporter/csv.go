// Package exporter writes normalized positioning records back out as CSV.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// positionHeaders is the column order of the exported file.
var positionHeaders = []string{"Date", "Symbol", "Long", "Short", "d_long", "d_short", "net", "d_net"}

// CSVWriter provides CSV export functionality for positioning records.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true}
}

// WriteFile writes records to a CSV file, creating parent directories as
// needed.
func (w *CSVWriter) WriteFile(filePath string, records []domain.PositionRecord) error {
	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return w.Write(file, records)
}

// Write writes records to out, headers first.
func (w *CSVWriter) Write(out io.Writer, records []domain.PositionRecord) error {
	if w.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write(positionHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range records {
		row := []string{
			rec.Date.Format("2006-01-02"),
			rec.Symbol,
			formatNumber(rec.Long),
			formatNumber(rec.Short),
			formatNumber(rec.DeltaLong),
			formatNumber(rec.DeltaShort),
			formatNumber(rec.Net),
			formatNumber(rec.DeltaNet),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatNumber renders a value without a trailing ".0" for whole numbers.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
