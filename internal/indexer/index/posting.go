package index

import "iter"

// PostingList is an order-preserving set of document IDs. IDs keep the
// order in which they were first added.
type PostingList struct {
	docIDs []string
	seen   map[string]struct{}
}

func NewPostingList() *PostingList {
	return &PostingList{seen: make(map[string]struct{})}
}

// Add appends docID unless it is already present. It reports whether the
// list changed.
func (p *PostingList) Add(docID string) bool {
	if _, ok := p.seen[docID]; ok {
		return false
	}
	p.seen[docID] = struct{}{}
	p.docIDs = append(p.docIDs, docID)
	return true
}

func (p *PostingList) Contains(docID string) bool {
	_, ok := p.seen[docID]
	return ok
}

func (p *PostingList) Len() int {
	return len(p.docIDs)
}

// All yields the IDs in insertion order without copying.
func (p *PostingList) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, id := range p.docIDs {
			if !yield(id) {
				return
			}
		}
	}
}

// DocIDs returns a copy of the IDs in insertion order.
func (p *PostingList) DocIDs() []string {
	out := make([]string, len(p.docIDs))
	copy(out, p.docIDs)
	return out
}

// TermEntry pairs a term with its posting list, used when listing the
// whole index.
type TermEntry struct {
	Term   string   `json:"term"`
	DocIDs []string `json:"doc_ids"`
}

// TitleMap maps a document ID to its title.
type TitleMap map[string]string
