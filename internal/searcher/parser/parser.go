package parser

import (
	"fmt"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
)

// Policy selects how query words are turned into index terms.
type Policy int

const (
	// PolicyRaw lower-cases and splits on whitespace only. A word that still
	// carries punctuation ("apple,") will not match the indexed term.
	PolicyRaw Policy = iota
	// PolicyIndex runs every word through the indexing normaliser and
	// drops words that normalise to nothing.
	PolicyIndex
)

func (p Policy) String() string {
	switch p {
	case PolicyIndex:
		return "index"
	default:
		return "raw"
	}
}

// ParsePolicy maps a config value to a Policy. The empty string is raw.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "raw":
		return PolicyRaw, nil
	case "index":
		return PolicyIndex, nil
	default:
		return PolicyRaw, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"unknown query normalization %q (want raw or index)", name)
	}
}

// QueryPlan is a parsed conjunctive query. Every term must match.
type QueryPlan struct {
	Terms    []string
	RawQuery string
	Policy   Policy
}

func (p *QueryPlan) Empty() bool {
	return len(p.Terms) == 0
}

func (p *QueryPlan) String() string {
	return fmt.Sprintf("AND%v", p.Terms)
}

func Parse(query string, policy Policy) *QueryPlan {
	plan := &QueryPlan{
		Terms:    make([]string, 0),
		RawQuery: query,
		Policy:   policy,
	}
	for _, word := range tokenizer.Fields(query) {
		if policy == PolicyIndex {
			word = tokenizer.Normalize(word)
			if word == "" {
				continue
			}
		}
		plan.Terms = append(plan.Terms, word)
	}
	return plan
}
