package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/loader"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/postgres"
)

// loadSources returns the corpus documents. A non-empty dir always wins
// over the configured source.
func loadSources(ctx context.Context, cfg *config.Config, dir string) ([]indexer.Source, error) {
	if dir == "" && cfg.Corpus.Source == "postgres" {
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		pg, err := loader.NewPostgres(client.DB, cfg.Corpus.Table)
		if err != nil {
			return nil, err
		}
		return pg.Load(ctx)
	}
	if dir == "" {
		dir = cfg.Corpus.Dir
	}
	sources, err := loader.Directory(dir)
	if err != nil {
		return nil, err
	}
	return loader.Prefetch(ctx, sources, cfg.Loader.Workers)
}

func buildIndex(ctx context.Context, cfg *config.Config, dir string, m *metrics.Metrics) (*index.InvertedIndex, index.TitleMap, error) {
	sources, err := loadSources(ctx, cfg, dir)
	if err != nil {
		return nil, nil, err
	}
	var opts []indexer.Option
	if m != nil {
		opts = append(opts, indexer.WithMetrics(m))
	}
	idx, titles, err := indexer.New(opts...).Build(sources)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("corpus indexed", "component", "cli", "documents", len(titles), "terms", idx.Terms())
	return idx, titles, nil
}

func newExecutor(ctx context.Context, cfg *config.Config, dir string, m *metrics.Metrics) (*executor.Executor, error) {
	policy, err := parser.ParsePolicy(cfg.Search.QueryNormalization)
	if err != nil {
		return nil, err
	}
	idx, titles, err := buildIndex(ctx, cfg, dir, m)
	if err != nil {
		return nil, err
	}
	opts := []executor.Option{executor.WithPolicy(policy)}
	if m != nil {
		opts = append(opts, executor.WithMetrics(m))
	}
	return executor.New(idx, titles, opts...), nil
}

// printResults writes hits the way the interactive loop shows them.
func printResults(w io.Writer, query string, hits []executor.Hit) {
	fmt.Fprintf(w, "Results for query '%s':\n", query)
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results match that query.")
		return
	}
	for i, hit := range hits {
		fmt.Fprintf(w, "%d.  Title: %s,  File: %s\n", i+1, hit.Title, hit.DocID)
	}
}
