package loader

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
)

type fakeRows struct {
	data    [][2]any
	pos     int
	scanErr error
	iterErr error
	closed  bool
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.data[f.pos-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*sql.NullString) = row[1].(sql.NullString)
	return nil
}

func (f *fakeRows) Err() error   { return f.iterErr }
func (f *fakeRows) Close() error { f.closed = true; return nil }

type failingQuerier struct{ err error }

func (f failingQuerier) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, f.err
}

func TestPostgresQueryQuotesTable(t *testing.T) {
	p, err := NewPostgres(nil, `docs"; DROP TABLE x`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT id, content FROM "docs""; DROP TABLE x" ORDER BY id`, p.Query())
}

func TestNewPostgresRequiresTable(t *testing.T) {
	_, err := NewPostgres(nil, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestScanDocuments(t *testing.T) {
	r := &fakeRows{data: [][2]any{
		{"1", sql.NullString{String: "First Title\nalpha beta", Valid: true}},
		{"2", sql.NullString{}},
	}}

	sources, err := scanDocuments(r)
	require.NoError(t, err)
	assert.True(t, r.closed)
	require.Len(t, sources, 2)

	lines, err := sources[0].Lines()
	require.NoError(t, err)
	assert.Equal(t, "1", sources[0].ID())
	assert.Equal(t, []string{"First Title", "alpha beta"}, lines)

	lines, err = sources[1].Lines()
	require.NoError(t, err)
	assert.Empty(t, lines, "NULL content is an empty document")
}

func TestScanDocumentsErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := scanDocuments(&fakeRows{data: [][2]any{{"1", sql.NullString{}}}, scanErr: boom})
	assert.ErrorIs(t, err, boom)

	_, err = scanDocuments(&fakeRows{iterErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestPostgresLoadQueryError(t *testing.T) {
	boom := errors.New("relation does not exist")
	p, err := NewPostgres(failingQuerier{err: boom}, "documents")
	require.NoError(t, err)

	_, err = p.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}
