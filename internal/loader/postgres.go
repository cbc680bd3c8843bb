package loader

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
)

// Querier is the subset of *sql.DB the Postgres loader needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Postgres loads documents from a table with columns id and content.
type Postgres struct {
	db    Querier
	table string
}

func NewPostgres(db Querier, table string) (*Postgres, error) {
	if table == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "corpus table must not be empty")
	}
	return &Postgres{db: db, table: table}, nil
}

// Query returns the statement Load runs. The table name is quoted as an
// identifier.
func (p *Postgres) Query() string {
	return fmt.Sprintf("SELECT id, content FROM %s ORDER BY id", pq.QuoteIdentifier(p.table))
}

// Load reads every row into an in-memory source. The id column is read as
// text so integer keys work too.
func (p *Postgres) Load(ctx context.Context) ([]indexer.Source, error) {
	r, err := p.db.QueryContext(ctx, p.Query())
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", p.table, err)
	}
	return scanDocuments(r)
}

func scanDocuments(r rows) ([]indexer.Source, error) {
	defer r.Close()
	var sources []indexer.Source
	for r.Next() {
		var (
			id      string
			content sql.NullString
		)
		if err := r.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		sources = append(sources, indexer.NewTextSource(id, content.String))
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return sources, nil
}
