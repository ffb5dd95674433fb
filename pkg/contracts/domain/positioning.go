package domain

import (
	"time"
)

// PositionRecord represents one instrument's non-commercial positioning
// snapshot for a single reporting date.
type PositionRecord struct {
	Date       time.Time `json:"date"`
	Symbol     string    `json:"symbol" validate:"required"`
	Long       float64   `json:"long"`
	Short      float64   `json:"short"`
	DeltaLong  float64   `json:"d_long"`
	DeltaShort float64   `json:"d_short"`
	Net        float64   `json:"net"`
	DeltaNet   float64   `json:"d_net"`
}

// DateBounds is the inclusive date range covered by a dataset.
type DateBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// SeriesRequest describes a windowed series query for one instrument.
// From and To may arrive in either order; the query layer normalizes them.
type SeriesRequest struct {
	Symbol string     `json:"symbol" validate:"required"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}
