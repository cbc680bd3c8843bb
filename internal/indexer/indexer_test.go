package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
)

var (
	doc1 = NewTextSource("test1.txt", "File 1 Title\napple ball carrot\n")
	doc2 = NewTextSource("test2.txt", "File 2 Title\nball carrot dog\n")
)

func TestBuildSingleDocument(t *testing.T) {
	idx, titles, err := Build([]Source{doc1})
	require.NoError(t, err)

	want := []index.TermEntry{
		{Term: "file", DocIDs: []string{"test1.txt"}},
		{Term: "1", DocIDs: []string{"test1.txt"}},
		{Term: "title", DocIDs: []string{"test1.txt"}},
		{Term: "apple", DocIDs: []string{"test1.txt"}},
		{Term: "ball", DocIDs: []string{"test1.txt"}},
		{Term: "carrot", DocIDs: []string{"test1.txt"}},
	}
	assert.Equal(t, want, idx.Entries())
	assert.Equal(t, index.TitleMap{"test1.txt": "File 1 Title"}, titles)
}

func TestBuildTwoDocuments(t *testing.T) {
	idx, titles, err := Build([]Source{doc1, doc2})
	require.NoError(t, err)

	want := []index.TermEntry{
		{Term: "file", DocIDs: []string{"test1.txt", "test2.txt"}},
		{Term: "1", DocIDs: []string{"test1.txt"}},
		{Term: "title", DocIDs: []string{"test1.txt", "test2.txt"}},
		{Term: "apple", DocIDs: []string{"test1.txt"}},
		{Term: "ball", DocIDs: []string{"test1.txt", "test2.txt"}},
		{Term: "carrot", DocIDs: []string{"test1.txt", "test2.txt"}},
		{Term: "2", DocIDs: []string{"test2.txt"}},
		{Term: "dog", DocIDs: []string{"test2.txt"}},
	}
	assert.Equal(t, want, idx.Entries())
	assert.Equal(t, index.TitleMap{"test1.txt": "File 1 Title", "test2.txt": "File 2 Title"}, titles)
}

func TestBuildDuplicateSourcesAreIdempotent(t *testing.T) {
	once, onceTitles, err := Build([]Source{doc1, doc2})
	require.NoError(t, err)
	twice, twiceTitles, err := Build([]Source{doc1, doc2, doc2})
	require.NoError(t, err)

	assert.Equal(t, once.Entries(), twice.Entries())
	assert.Equal(t, onceTitles, twiceTitles)
}

func TestAddRepeatedTermPostsOnce(t *testing.T) {
	idx := index.NewInvertedIndex()
	titles := make(index.TitleMap)
	src := NewTextSource("d", "Echo\necho ECHO echo, \"echo\"")

	require.NoError(t, Add(src, idx, titles))
	assert.Equal(t, []string{"d"}, idx.DocIDs("echo"))
}

func TestAddDoesNotDisturbOtherDocuments(t *testing.T) {
	idx, titles, err := Build([]Source{doc1})
	require.NoError(t, err)
	before := idx.DocIDs("apple")

	require.NoError(t, Add(doc2, idx, titles))

	assert.Equal(t, before, idx.DocIDs("apple"))
	assert.Equal(t, []string{"test1.txt", "test2.txt"}, idx.DocIDs("ball"))
	assert.Equal(t, "File 1 Title", titles["test1.txt"])
}

func TestAddAllEmptySetIsNoop(t *testing.T) {
	idx, titles, err := Build([]Source{doc1})
	require.NoError(t, err)
	entries := idx.Entries()

	require.NoError(t, New().AddAll(nil, idx, titles))

	assert.Equal(t, entries, idx.Entries())
	assert.Equal(t, index.TitleMap{"test1.txt": "File 1 Title"}, titles)
}

func TestAddTitleOnlyDocument(t *testing.T) {
	idx, titles, err := Build([]Source{NewTextSource("t", "Lonely Title!")})
	require.NoError(t, err)

	assert.Equal(t, "Lonely Title", titles["t"])
	assert.Equal(t, []string{"t"}, idx.DocIDs("lonely"))
	assert.Equal(t, []string{"t"}, idx.DocIDs("title"))
}

func TestAddEmptyDocument(t *testing.T) {
	idx, titles, err := Build([]Source{NewTextSource("empty", "")})
	require.NoError(t, err)

	title, ok := titles["empty"]
	assert.True(t, ok)
	assert.Equal(t, "", title)
	assert.Equal(t, 0, idx.Terms())
}

func TestAddKeepsInteriorPunctuation(t *testing.T) {
	idx, _, err := Build([]Source{NewTextSource("d", "Quotes\n\"Don't\" stop, e-mail me.")})
	require.NoError(t, err)

	assert.True(t, idx.Contains("don't"))
	assert.True(t, idx.Contains("e-mail"))
	assert.True(t, idx.Contains("me"))
	assert.False(t, idx.Contains("dont"))
}

func TestReadFailureLeavesStructuresUntouched(t *testing.T) {
	idx, titles, err := Build([]Source{doc1})
	require.NoError(t, err)
	entries := idx.Entries()

	boom := errors.New("disk on fire")
	err = Add(FailedSource{DocID: "bad.txt", Err: boom}, idx, titles)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDocumentRead)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad.txt")
	assert.Equal(t, entries, idx.Entries())
	assert.NotContains(t, titles, "bad.txt")
}

func TestBuildStopsAtFirstReadFailure(t *testing.T) {
	missing := FileSource{Path: filepath.Join(t.TempDir(), "missing.txt")}

	idx, titles, err := Build([]Source{doc1, missing, doc2})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDocumentRead)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, idx)
	assert.Nil(t, titles)
}

func TestAddAllKeepsDocumentsBeforeFailure(t *testing.T) {
	idx := index.NewInvertedIndex()
	titles := make(index.TitleMap)

	err := New().AddAll([]Source{doc1, FailedSource{DocID: "x", Err: errors.New("nope")}, doc2}, idx, titles)

	require.Error(t, err)
	assert.Equal(t, index.TitleMap{"test1.txt": "File 1 Title"}, titles)
	assert.False(t, idx.Contains("dog"))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test1.txt")
	require.NoError(t, os.WriteFile(path, []byte("File 1 Title\r\napple ball carrot\r\n"), 0o644))

	idx, titles, err := Build([]Source{FileSource{Path: path}})
	require.NoError(t, err)

	assert.Equal(t, "File 1 Title", titles[path])
	assert.Equal(t, []string{path}, idx.DocIDs("carrot"))
}

func TestIndexerRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)
	ix := New(WithMetrics(m))

	idx := index.NewInvertedIndex()
	titles := make(index.TitleMap)
	require.NoError(t, ix.AddAll([]Source{doc1, doc2}, idx, titles))
	require.Error(t, ix.Add(FailedSource{DocID: "x", Err: errors.New("nope")}, idx, titles))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocsIndexedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexReadFailuresTotal))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.IndexTerms))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IndexDocuments))
}

func BenchmarkBuild(b *testing.B) {
	sources := make([]Source, 0, 1000)
	for i := 0; i < 1000; i++ {
		sources = append(sources, NewTextSource(
			fmt.Sprintf("doc-%d.txt", i),
			fmt.Sprintf("Document %d\nthis is a benchmark document with several terms for testing indexing throughput", i),
		))
	}
	ix := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ix.Build(sources); err != nil {
			b.Fatal(err)
		}
	}
}
