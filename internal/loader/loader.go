// Package loader discovers and reads the documents the indexer consumes:
// .txt files in a directory or rows of a PostgreSQL table.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
)

const textExt = ".txt"

// Directory returns a FileSource for every .txt file directly inside dir,
// sorted by name. Subdirectories are not descended into.
func Directory(dir string) ([]indexer.Source, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "directory %q does not exist", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), textExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]indexer.Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, indexer.FileSource{Path: filepath.Join(dir, name)})
	}
	slog.Default().Debug("corpus discovered",
		"component", "loader",
		"dir", dir,
		"documents", len(sources),
	)
	return sources, nil
}

// loaded is a source whose lines were read ahead of indexing.
type loaded struct {
	id    string
	lines []string
}

func (l loaded) ID() string               { return l.id }
func (l loaded) Lines() ([]string, error) { return l.lines, nil }

// Prefetch reads every source with up to workers concurrent reads and
// returns in-memory sources in the original order. A source that fails to
// read comes back as an indexer.FailedSource so the indexer reports it at
// the same position it would have sequentially. Only ctx cancellation is
// returned as an error.
func Prefetch(ctx context.Context, sources []indexer.Source, workers int) ([]indexer.Source, error) {
	if workers <= 1 {
		return sources, nil
	}
	out := make([]indexer.Source, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lines, err := src.Lines()
			if err != nil {
				out[i] = indexer.FailedSource{DocID: src.ID(), Err: err}
				return nil
			}
			out[i] = loaded{id: src.ID(), lines: lines}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("prefetching documents: %w", err)
	}
	return out, nil
}
