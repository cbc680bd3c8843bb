package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/middleware"
)

type recordingTracker struct {
	events []analytics.SearchEvent
}

func (r *recordingTracker) Track(e analytics.SearchEvent) { r.events = append(r.events, e) }

func newExecutor(t *testing.T) *executor.Executor {
	t.Helper()
	idx, titles, err := indexer.Build([]indexer.Source{
		indexer.NewTextSource("docs/d1.txt", "File 1 Title\napple ball carrot"),
		indexer.NewTextSource("docs/d2.txt", "File 2 Title\nball carrot dog"),
	})
	require.NoError(t, err)
	return executor.New(idx, titles)
}

func serve(h *Handler, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.Routes(mux)
	rec := httptest.NewRecorder()
	middleware.RequestID(mux).ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestSearch(t *testing.T) {
	h := New(newExecutor(t))

	rec := serve(h, http.MethodGet, "/api/v1/search?q=Ball+carrot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	res := decode[executor.SearchResult](t, rec)
	assert.Equal(t, "Ball carrot", res.Query)
	assert.Equal(t, []string{"ball", "carrot"}, res.Terms)
	assert.Equal(t, 2, res.TotalHits)
	assert.Equal(t, []executor.Hit{
		{DocID: "docs/d1.txt", Title: "File 1 Title"},
		{DocID: "docs/d2.txt", Title: "File 2 Title"},
	}, res.Results)
}

func TestSearchNoMatchReturnsEmptyList(t *testing.T) {
	rec := serve(New(newExecutor(t)), http.MethodGet, "/api/v1/search?q=apple+dog")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":"apple dog","terms":["apple","dog"],"total_hits":0,"results":[]}`, rec.Body.String())
}

func TestSearchRequiresQuery(t *testing.T) {
	rec := serve(New(newExecutor(t)), http.MethodGet, "/api/v1/search")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"query parameter 'q' is required"}`, rec.Body.String())
}

func TestSearchLimit(t *testing.T) {
	h := New(newExecutor(t), WithLimits(0, 5))

	res := decode[executor.SearchResult](t, serve(h, http.MethodGet, "/api/v1/search?q=ball&limit=1"))
	assert.Equal(t, 2, res.TotalHits)
	assert.Len(t, res.Results, 1)

	rec := serve(h, http.MethodGet, "/api/v1/search?q=ball&limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	capped := New(newExecutor(t), WithLimits(0, 1))
	res = decode[executor.SearchResult](t, serve(capped, http.MethodGet, "/api/v1/search?q=ball&limit=50"))
	assert.Len(t, res.Results, 1)
}

func TestSearchUsesCacheAndTracks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)
	qc := cache.New(cache.NewMemoryStore(16), m)
	tracker := &recordingTracker{}
	h := New(newExecutor(t), WithCache(qc), WithTracker(tracker), WithMetrics(m))

	serve(h, http.MethodGet, "/api/v1/search?q=ball")
	serve(h, http.MethodGet, "/api/v1/search?q=BALL")

	hits, misses := qc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	require.Len(t, tracker.events, 2)
	assert.False(t, tracker.events[0].CacheHit)
	assert.True(t, tracker.events[1].CacheHit)
	assert.Equal(t, "BALL", tracker.events[1].Query)
	assert.NotEmpty(t, tracker.events[1].RequestID)
	assert.Equal(t, 2, tracker.events[1].TotalHits)

	assert.Equal(t, 2, testutil.CollectAndCount(m.SearchLatency), "one series each for miss and hit")

	stats := decode[map[string]any](t, serve(h, http.MethodGet, "/api/v1/cache/stats"))
	assert.Equal(t, "memory", stats["backend"])
	assert.Equal(t, "50.0%", stats["hit_rate"])
}

func TestSearchWhitespaceQueryBypassesCache(t *testing.T) {
	qc := cache.New(cache.NewMemoryStore(16), nil)
	h := New(newExecutor(t), WithCache(qc))

	rec := serve(h, http.MethodGet, "/api/v1/search?q=+++")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[executor.SearchResult](t, rec).TotalHits)

	hits, misses := qc.Stats()
	assert.Zero(t, hits+misses)
}

func TestDocument(t *testing.T) {
	h := New(newExecutor(t))

	rec := serve(h, http.MethodGet, "/api/v1/documents/docs/d2.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"docs/d2.txt","title":"File 2 Title"}`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/api/v1/documents/docs/none.txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "docs/none.txt")
}

func TestIndexStats(t *testing.T) {
	rec := serve(New(newExecutor(t)), http.MethodGet, "/api/v1/index/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":2,"terms":8}`, rec.Body.String())
}

func TestCacheEndpointsWhenDisabled(t *testing.T) {
	h := New(newExecutor(t))

	assert.JSONEq(t, `{"status":"disabled"}`, serve(h, http.MethodGet, "/api/v1/cache/stats").Body.String())
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodPost, "/api/v1/cache/invalidate").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, "/api/v1/cache/invalidate").Code)
}

func TestCacheInvalidate(t *testing.T) {
	qc := cache.New(cache.NewMemoryStore(16), nil)
	h := New(newExecutor(t), WithCache(qc))
	serve(h, http.MethodGet, "/api/v1/search?q=ball")

	rec := serve(h, http.MethodPost, "/api/v1/cache/invalidate")
	require.Equal(t, http.StatusOK, rec.Code)

	serve(h, http.MethodGet, "/api/v1/search?q=ball")
	hits, misses := qc.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(2), misses)
}

func TestMain(m *testing.M) {
	logger.SetupWriter(io.Discard, "error", "text")
	os.Exit(m.Run())
}
