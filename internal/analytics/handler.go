package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type publishingStats struct {
	Dropped int64 `json:"dropped_events"`
}

type statsResponse struct {
	AggregatedStats
	Publishing *publishingStats `json:"publishing,omitempty"`
}

// Handler serves the in-process search statistics. When a collector is
// set the response also reports how many events it has dropped.
type Handler struct {
	aggregator *Aggregator
	collector  *Collector
	logger     *slog.Logger
}

// NewHandler serves aggregator. collector may be nil when events are not
// published.
func NewHandler(aggregator *Aggregator, collector *Collector) *Handler {
	return &Handler{
		aggregator: aggregator,
		collector:  collector,
		logger:     slog.Default().With("component", "analytics-handler"),
	}
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/analytics", h.Stats)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{AggregatedStats: h.aggregator.Stats()}
	if h.collector != nil {
		resp.Publishing = &publishingStats{Dropped: h.collector.Dropped()}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write analytics response", "error", err)
	}
}
