package executor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
)

// Hit is a matching document with its title resolved.
type Hit struct {
	DocID string `json:"doc_id"`
	Title string `json:"title"`
}

type SearchResult struct {
	Query     string   `json:"query"`
	Terms     []string `json:"terms"`
	TotalHits int      `json:"total_hits"`
	Results   []Hit    `json:"results"`
}

// DocIDs returns the IDs of the returned hits in order.
func (r *SearchResult) DocIDs() []string {
	ids := make([]string, len(r.Results))
	for i, h := range r.Results {
		ids[i] = h.DocID
	}
	return ids
}

type IndexStats struct {
	Documents int `json:"documents"`
	Terms     int `json:"terms"`
}

// Search answers a conjunctive query against idx using the raw query
// policy: the query is lower-cased and split on whitespace.
func Search(idx *index.InvertedIndex, query string) []string {
	return Intersect(idx, parser.Parse(query, parser.PolicyRaw).Terms)
}

// Intersect returns the documents that appear in the posting list of every
// term, ordered as in the first term's list. It returns an empty slice when
// terms is empty or any term is missing from idx. The index is not modified.
func Intersect(idx *index.InvertedIndex, terms []string) []string {
	if len(terms) == 0 {
		return []string{}
	}
	lists := make([]*index.PostingList, 0, len(terms))
	for _, term := range terms {
		p := idx.Postings(term)
		if p == nil {
			return []string{}
		}
		lists = append(lists, p)
	}

	shortest := lists[0]
	for _, p := range lists[1:] {
		if p.Len() < shortest.Len() {
			shortest = p
		}
	}
	candidates := make(map[string]struct{}, shortest.Len())
	for docID := range shortest.All() {
		if inAll(docID, lists, shortest) {
			candidates[docID] = struct{}{}
		}
	}

	result := make([]string, 0, len(candidates))
	for docID := range lists[0].All() {
		if _, ok := candidates[docID]; ok {
			result = append(result, docID)
		}
	}
	return result
}

func inAll(docID string, lists []*index.PostingList, skip *index.PostingList) bool {
	for _, p := range lists {
		if p != skip && !p.Contains(docID) {
			return false
		}
	}
	return true
}

// Executor runs parsed queries against a built index and resolves titles.
// It never mutates the index, so one Executor may serve concurrent callers.
type Executor struct {
	idx     *index.InvertedIndex
	titles  index.TitleMap
	policy  parser.Policy
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Executor)

func WithPolicy(p parser.Policy) Option {
	return func(e *Executor) { e.policy = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

func New(idx *index.InvertedIndex, titles index.TitleMap, opts ...Option) *Executor {
	e := &Executor{
		idx:    idx,
		titles: titles,
		policy: parser.PolicyRaw,
		logger: slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Policy() parser.Policy {
	return e.policy
}

// Parse turns a raw query into a plan using the executor's policy.
func (e *Executor) Parse(query string) *parser.QueryPlan {
	return parser.Parse(query, e.policy)
}

// Execute runs plan and returns at most limit hits (all hits when limit is
// not positive). TotalHits always counts every match.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("executing query %q: %w", plan.RawQuery, err)
	}
	if plan.Empty() {
		e.observe("empty_query", 0)
		return &SearchResult{
			Query:   plan.RawQuery,
			Terms:   plan.Terms,
			Results: []Hit{},
		}, nil
	}

	docIDs := Intersect(e.idx, plan.Terms)
	total := len(docIDs)
	if limit > 0 && len(docIDs) > limit {
		docIDs = docIDs[:limit]
	}
	hits := make([]Hit, 0, len(docIDs))
	for _, docID := range docIDs {
		hits = append(hits, Hit{DocID: docID, Title: e.titles[docID]})
	}

	resultType := "hit"
	if total == 0 {
		resultType = "zero_result"
	}
	e.observe(resultType, len(hits))
	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"terms", plan.Terms,
		"policy", e.policy.String(),
		"total_hits", total,
		"returned", len(hits),
	)
	return &SearchResult{
		Query:     plan.RawQuery,
		Terms:     plan.Terms,
		TotalHits: total,
		Results:   hits,
	}, nil
}

// Title returns the title stored for docID.
func (e *Executor) Title(docID string) (string, error) {
	title, ok := e.titles[docID]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrDocumentNotFound, http.StatusNotFound, "no document %q", docID)
	}
	return title, nil
}

func (e *Executor) Stats() IndexStats {
	return IndexStats{
		Documents: len(e.titles),
		Terms:     e.idx.Terms(),
	}
}

func (e *Executor) observe(resultType string, returned int) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	e.metrics.SearchResultsCount.Observe(float64(returned))
}
