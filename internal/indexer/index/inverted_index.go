package index

// InvertedIndex maps each term to the documents that contain it. Terms are
// remembered in the order they were first seen.
//
// An InvertedIndex is not safe for concurrent mutation. Once the last Add
// has returned it may be shared read-only between goroutines.
type InvertedIndex struct {
	postings map[string]*PostingList
	terms    []string
	size     int64
}

func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		postings: make(map[string]*PostingList),
	}
}

// Add records that docID contains term. Adding the same pair twice is a
// no-op.
func (m *InvertedIndex) Add(term, docID string) {
	p, exists := m.postings[term]
	if !exists {
		p = NewPostingList()
		m.postings[term] = p
		m.terms = append(m.terms, term)
		m.size += int64(len(term) + 48)
	}
	if p.Add(docID) {
		m.size += int64(len(docID) + 16)
	}
}

// Postings returns the posting list for term, or nil if the term was never
// indexed. The returned list must not be modified.
func (m *InvertedIndex) Postings(term string) *PostingList {
	return m.postings[term]
}

// DocIDs returns a copy of the IDs indexed under term in stored order.
func (m *InvertedIndex) DocIDs(term string) []string {
	p, ok := m.postings[term]
	if !ok {
		return nil
	}
	return p.DocIDs()
}

func (m *InvertedIndex) Contains(term string) bool {
	_, ok := m.postings[term]
	return ok
}

// Entries lists every term with its posting list in first-seen term order.
func (m *InvertedIndex) Entries() []TermEntry {
	entries := make([]TermEntry, 0, len(m.terms))
	for _, term := range m.terms {
		entries = append(entries, TermEntry{
			Term:   term,
			DocIDs: m.postings[term].DocIDs(),
		})
	}
	return entries
}

// Terms returns the number of distinct terms.
func (m *InvertedIndex) Terms() int {
	return len(m.terms)
}

// Size is a rough estimate of the memory held by the index in bytes.
func (m *InvertedIndex) Size() int64 {
	return m.size
}
