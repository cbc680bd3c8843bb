// Package analytics tracks search events. Events are aggregated in process
// for the stats endpoint and, when enabled, published to Kafka in batches.
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
)

type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Terms     []string  `json:"terms"`
	TotalHits int       `json:"total_hits"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// NewSearchEvent fills Type from totalHits.
func NewSearchEvent(query string, terms []string, totalHits, returned int, latency time.Duration, cacheHit bool) SearchEvent {
	eventType := EventSearch
	if totalHits == 0 {
		eventType = EventZeroResult
	}
	return SearchEvent{
		Type:      eventType,
		Query:     query,
		Terms:     terms,
		TotalHits: totalHits,
		Returned:  returned,
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
	}
}
