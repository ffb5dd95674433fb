package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/gptechnologies/cot-charts/internal/errors"
	"github.com/gptechnologies/cot-charts/internal/middleware"
	"github.com/gptechnologies/cot-charts/internal/services"
)

// queryDateLayout is the wire format for from/to query parameters.
const queryDateLayout = "2006-01-02"

// PositionHandler handles positioning data HTTP requests with RFC 7807
// compliance.
type PositionHandler struct {
	service      PositionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPositionHandler creates a new positioning data handler
func NewPositionHandler(service PositionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PositionHandler {
	return &PositionHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "position_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the positioning data routes
func (h *PositionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/symbols", h.GetSymbols)
	r.Get("/bounds", h.GetBounds)
	r.Get("/series", h.GetSeries)
	r.Post("/reload", h.Reload)

	return r
}

// GetSymbols handles GET /api/cot/symbols
func (h *PositionHandler) GetSymbols(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	symbols, err := h.service.Symbols(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get symbols",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   symbols,
		"count":  len(symbols),
	})
}

// GetBounds handles GET /api/cot/bounds
func (h *PositionHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	bounds, err := h.service.DateBounds(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			// empty dataset has no bounds; an explicit empty response, not
			// an error
			render.JSON(w, r, map[string]interface{}{
				"status": "success",
				"data":   nil,
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get date bounds",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   bounds,
	})
}

// GetSeries handles GET /api/cot/series?symbol=...&from=...&to=...
// from and to are optional and accepted in either order.
func (h *PositionHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("symbol", "Symbol is required"))
		return
	}

	from, err := parseQueryDate(r, "from")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("from", "Invalid date, expected YYYY-MM-DD"))
		return
	}
	to, err := parseQueryDate(r, "to")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("to", "Invalid date, expected YYYY-MM-DD"))
		return
	}

	records, err := h.service.Series(r.Context(), symbol, from, to)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get series",
			slog.String("error", err.Error()),
			slog.String("symbol", symbol),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// Reload handles POST /api/cot/reload
func (h *PositionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "reloading positioning data",
		slog.String("request_id", reqID),
	)

	count, err := h.service.Load(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrLoadSuperseded) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, map[string]interface{}{
				"status": "superseded",
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "reload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"count":  count,
	})
}

// parseQueryDate parses an optional date query parameter.
func parseQueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// mapServiceError maps service sentinels onto API errors.
func mapServiceError(err error) error {
	if errors.Is(err, services.ErrNotLoaded) {
		return apierrors.ErrDataNotLoaded
	}
	return err
}
