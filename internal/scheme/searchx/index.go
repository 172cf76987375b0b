// Package searchx provides the semantic scheme index backing the retriever's
// primary search path. The retriever treats the index as optional; when it is
// absent or failing, a deterministic keyword fallback takes over.
package searchx

import "context"

// Document is one indexable scheme rendering.
type Document struct {
	ID      string
	Name    string
	Content string
}

// Hit is one ranked search result.
type Hit struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Content string  `json:"content"`
	Score   float64 `json:"relevance_score"`
}

// Index is the semantic search substrate.
type Index interface {
	// Upsert writes or replaces documents in the index.
	Upsert(ctx context.Context, docs []Document) error
	// Search returns up to topK hits ranked by relevance.
	Search(ctx context.Context, query string, topK int) ([]Hit, error)
}
