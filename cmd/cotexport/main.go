// Command cotexport fetches a positioning report, normalizes it and writes
// the result as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gptechnologies/cot-charts/internal/config"
	"github.com/gptechnologies/cot-charts/internal/cot"
	"github.com/gptechnologies/cot-charts/internal/exporter"
	"github.com/gptechnologies/cot-charts/internal/fetch"
	"github.com/gptechnologies/cot-charts/internal/infrastructure"
)

func main() {
	source := flag.String("source", config.DefaultSource, "report source (http(s) URL or file path)")
	out := flag.String("out", "cot_normalized.csv", "output csv file path")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  "info",
		Format: "text",
		Output: "stdout",
	})
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Starting export",
		slog.String("source", *source),
		slog.String("output_file", *out))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fetcher := fetch.New(*timeout)
	text, err := fetcher.Fetch(ctx, *source)
	if err != nil {
		logger.Error("Failed to fetch report",
			slog.String("source", *source),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := cot.Parse(text)
	if err != nil {
		logger.Error("Failed to parse report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter()
	if err := writer.WriteFile(*out, records); err != nil {
		logger.Error("Failed to write CSV",
			slog.String("path", *out),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Export completed",
		slog.Int("records", len(records)),
		slog.String("output_path", *out))

	fmt.Printf("Export complete: %d records\n", len(records))
}
