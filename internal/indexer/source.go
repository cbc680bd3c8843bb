package indexer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single line read from a document.
const maxLineSize = 1 << 20

// Source is a document the indexer can read. ID must be stable: indexing two
// sources with the same ID merges them into one document.
type Source interface {
	ID() string
	Lines() ([]string, error)
}

// FileSource reads a document from disk when indexed. Its ID is the path.
type FileSource struct {
	Path string
}

func (f FileSource) ID() string { return f.Path }

func (f FileSource) Lines() ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadLines(file)
}

// TextSource is a document whose content is already in memory.
type TextSource struct {
	DocID string
	Text  string
}

func NewTextSource(id, text string) TextSource {
	return TextSource{DocID: id, Text: text}
}

func (t TextSource) ID() string { return t.DocID }

func (t TextSource) Lines() ([]string, error) {
	if t.Text == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(t.Text, "\n"), "\n"), nil
}

// FailedSource is a document whose content could not be obtained. Indexing
// it reports Err.
type FailedSource struct {
	DocID string
	Err   error
}

func (f FailedSource) ID() string { return f.DocID }

func (f FailedSource) Lines() ([]string, error) { return nil, f.Err }

// ReadLines reads r to EOF and returns its lines without line terminators.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning lines: %w", err)
	}
	return lines, nil
}
