// Package indexer builds the inverted index and title map from a set of
// document sources.
package indexer

import (
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
)

type Indexer struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Indexer)

// WithMetrics records indexing counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(ix *Indexer) { ix.metrics = m }
}

func New(opts ...Option) *Indexer {
	ix := &Indexer{
		logger: slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build indexes sources into a new index and title map. On the first read
// failure it returns the error and no structures.
func (ix *Indexer) Build(sources []Source) (*index.InvertedIndex, index.TitleMap, error) {
	idx := index.NewInvertedIndex()
	titles := make(index.TitleMap)
	if err := ix.AddAll(sources, idx, titles); err != nil {
		return nil, nil, err
	}
	return idx, titles, nil
}

// AddAll merges sources into idx and titles in order, stopping at the first
// read failure. Documents merged before the failure stay in place.
func (ix *Indexer) AddAll(sources []Source, idx *index.InvertedIndex, titles index.TitleMap) error {
	for _, src := range sources {
		if err := ix.Add(src, idx, titles); err != nil {
			return err
		}
	}
	if len(sources) > 0 {
		ix.logger.Info("documents indexed",
			"documents", len(titles),
			"terms", idx.Terms(),
			"size", idx.Size(),
		)
	}
	return nil
}

// Add merges one document into idx and titles. The whole document is read
// before anything is written, so a read failure leaves both untouched.
func (ix *Indexer) Add(src Source, idx *index.InvertedIndex, titles index.TitleMap) error {
	docID := src.ID()
	lines, err := src.Lines()
	if err != nil {
		if ix.metrics != nil {
			ix.metrics.IndexReadFailuresTotal.Inc()
		}
		ix.logger.Error("document read failed", "doc_id", docID, "error", err)
		return fmt.Errorf("indexing %s: %w: %w", docID, apperrors.ErrDocumentRead, err)
	}

	title := ""
	if len(lines) > 0 {
		title = tokenizer.Title(lines[0])
	}
	titles[docID] = title

	tokens := tokenizer.TokenizeLines(lines)
	for _, tok := range tokens {
		idx.Add(tok.Term, docID)
	}

	if ix.metrics != nil {
		ix.metrics.DocsIndexedTotal.Inc()
		ix.metrics.IndexTerms.Set(float64(idx.Terms()))
		ix.metrics.IndexDocuments.Set(float64(len(titles)))
	}
	ix.logger.Debug("document indexed",
		"doc_id", docID,
		"title", title,
		"token_count", len(tokens),
	)
	return nil
}

// Build indexes sources with a default Indexer.
func Build(sources []Source) (*index.InvertedIndex, index.TitleMap, error) {
	return New().Build(sources)
}

// Add merges src into idx and titles with a default Indexer.
func Add(src Source, idx *index.InvertedIndex, titles index.TitleMap) error {
	return New().Add(src, idx, titles)
}
