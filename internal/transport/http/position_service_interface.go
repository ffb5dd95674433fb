package http

import (
	"context"
	"time"

	"github.com/gptechnologies/cot-charts/pkg/contracts/domain"
)

// PositionServiceInterface defines the position data operations the
// handlers depend on. Satisfied by services.PositionService.
type PositionServiceInterface interface {
	Load(ctx context.Context) (int, error)
	Symbols(ctx context.Context) ([]string, error)
	DateBounds(ctx context.Context) (domain.DateBounds, error)
	Series(ctx context.Context, symbol string, from, to *time.Time) ([]domain.PositionRecord, error)
}
