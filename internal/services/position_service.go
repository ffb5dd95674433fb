// Package services holds the application services between the HTTP surface
// and the ingestion pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gptechnologies/cot-charts/internal/cot"
	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// TextFetcher retrieves raw table text from a source location.
type TextFetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// PositionService owns the loaded positioning snapshot. A load fetches the
// source, runs the pipeline and atomically replaces the prior dataset
// wholesale; queries always see one consistent, immutable snapshot.
type PositionService struct {
	fetcher TextFetcher
	source  string
	logger  *slog.Logger

	mu sync.RWMutex
	// dataset is the installed snapshot; nil until the first successful load.
	dataset *cot.Dataset
	// nextGen and installedGen implement last-request-wins: a finished load
	// installs its result only if no later-issued load has installed first.
	nextGen      uint64
	installedGen uint64
}

// NewPositionService creates a position service for the given source.
func NewPositionService(fetcher TextFetcher, source string, logger *slog.Logger) *PositionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PositionService{
		fetcher: fetcher,
		source:  source,
		logger:  logger.With(slog.String("component", "position_service")),
	}
}

// Load fetches the configured source, runs the pipeline and installs the
// result. It returns the number of records in the installed snapshot.
// Transport and schema failures abort the load with no partial result; a
// result arriving after a newer load has installed is discarded and
// ErrLoadSuperseded returned.
func (s *PositionService) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	start := time.Now()
	text, err := s.fetcher.Fetch(ctx, s.source)
	if err != nil {
		return 0, fmt.Errorf("fetch positioning data: %w", err)
	}

	records, err := cot.Parse(text)
	if err != nil {
		return 0, fmt.Errorf("parse positioning data: %w", err)
	}
	dataset := cot.NewDataset(records)

	s.mu.Lock()
	installed := gen > s.installedGen
	if installed {
		s.dataset = dataset
		s.installedGen = gen
	}
	s.mu.Unlock()

	if !installed {
		s.logger.WarnContext(ctx, "discarding stale load result",
			slog.Uint64("generation", gen),
			slog.Int("records", dataset.Len()))
		return 0, ErrLoadSuperseded
	}

	s.logger.InfoContext(ctx, "positioning data loaded",
		slog.String("source", s.source),
		slog.Int("records", dataset.Len()),
		slog.Int("symbols", len(dataset.Symbols())),
		slog.String("duration", time.Since(start).String()))

	return dataset.Len(), nil
}

// snapshot returns the installed dataset, or ErrNotLoaded.
func (s *PositionService) snapshot() (*cot.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNotLoaded
	}
	return s.dataset, nil
}

// Loaded reports whether a snapshot has been installed.
func (s *PositionService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// Count returns the record count of the installed snapshot, zero before the
// first load.
func (s *PositionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return 0
	}
	return s.dataset.Len()
}

// Symbols returns the sorted distinct instrument identifiers.
func (s *PositionService) Symbols(ctx context.Context) ([]string, error) {
	dataset, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return dataset.Symbols(), nil
}

// DateBounds returns the global date range of the snapshot.
// An empty dataset yields ErrNoData.
func (s *PositionService) DateBounds(ctx context.Context) (domain.DateBounds, error) {
	dataset, err := s.snapshot()
	if err != nil {
		return domain.DateBounds{}, err
	}
	bounds, ok := dataset.DateBounds()
	if !ok {
		return domain.DateBounds{}, ErrNoData
	}
	return bounds, nil
}

// Series returns the date-windowed subsequence for one instrument. Nil
// bounds default to the snapshot's global bounds; reversed bounds are
// normalized by the query layer. An empty result is valid.
func (s *PositionService) Series(ctx context.Context, symbol string, from, to *time.Time) ([]domain.PositionRecord, error) {
	dataset, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	bounds, ok := dataset.DateBounds()
	if !ok {
		return []domain.PositionRecord{}, nil
	}
	start, end := bounds.Min, bounds.Max
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}

	return dataset.FilterByWindow(symbol, start, end), nil
}
