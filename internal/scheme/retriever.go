package scheme

import (
	"context"
	"strings"

	"github.com/yojana-mitra/server/internal/scheme/searchx"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// DefaultQuery is the generic search used when a plan step carries no query.
const DefaultQuery = "सरकारी योजना"

// SearchResult is what one retriever run returns. Fallback marks results
// produced by keyword matching rather than the semantic index.
type SearchResult struct {
	Schemes      []searchx.Hit `json:"schemes"`
	Query        string        `json:"query"`
	TotalResults int           `json:"total_results"`
	Fallback     bool          `json:"fallback,omitempty"`
}

// Retriever finds schemes relevant to a free-text query. The semantic index
// is optional; without it, or when it fails, a deterministic keyword match
// over the catalog takes over, so Search never returns an error and never
// returns an empty result for a non-empty catalog.
type Retriever struct {
	catalog *Catalog
	index   searchx.Index
	topK    int
}

// NewRetriever builds a retriever over the catalog. index may be nil.
func NewRetriever(catalog *Catalog, index searchx.Index, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{catalog: catalog, index: index, topK: topK}
}

// Search runs the query against the semantic index when available, falling
// back to keyword matching on any failure.
func (r *Retriever) Search(ctx context.Context, query string, topK int) *SearchResult {
	if query == "" {
		query = DefaultQuery
	}
	if topK <= 0 {
		topK = r.topK
	}

	if r.index != nil {
		hits, err := r.index.Search(ctx, query, topK)
		if err == nil && len(hits) > 0 {
			return &SearchResult{Schemes: hits, Query: query, TotalResults: len(hits)}
		}
		if err != nil {
			logx.Warn().Err(err).Str("query", query).Msg("semantic search failed, using keyword fallback")
		}
	}

	return r.keywordSearch(query, topK)
}

// keywordSearch is the pure fallback: case-insensitive containment between
// the query and each scheme's keywords and name. Schemes keep catalog order,
// so repeated runs yield identical results.
func (r *Retriever) keywordSearch(query string, topK int) *SearchResult {
	q := strings.ToLower(query)

	var matched []Scheme
	for _, s := range r.catalog.Schemes() {
		if keywordHit(q, s) {
			matched = append(matched, s)
		}
	}
	// No keyword hits still surfaces the whole catalog rather than nothing.
	if len(matched) == 0 {
		matched = r.catalog.Schemes()
	}

	total := len(matched)
	if len(matched) > topK {
		matched = matched[:topK]
	}

	hits := make([]searchx.Hit, len(matched))
	for i, s := range matched {
		score := 1.0 - 0.1*float64(i)
		if score < 0.1 {
			score = 0.1
		}
		hits[i] = searchx.Hit{
			ID:      s.ID,
			Name:    s.NameHI,
			Content: s.Document(),
			Score:   score,
		}
	}

	return &SearchResult{Schemes: hits, Query: query, TotalResults: total, Fallback: true}
}

func keywordHit(q string, s Scheme) bool {
	for _, kw := range s.Keywords {
		k := strings.ToLower(kw)
		if strings.Contains(q, k) || strings.Contains(k, q) {
			return true
		}
	}
	for _, name := range []string{s.NameHI, s.NameEN} {
		n := strings.ToLower(name)
		if n != "" && (strings.Contains(q, n) || strings.Contains(n, q)) {
			return true
		}
	}
	return false
}
