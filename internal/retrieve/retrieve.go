// Package retrieve performs query-time nearest-neighbor lookup.
package retrieve

import (
	"context"
	"fmt"

	"confchat/internal/domain"
)

// Retriever embeds a query and searches the vector store. Stateless after
// construction; safe for concurrent use.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	topK     int
}

func New(embedder domain.Embedder, store domain.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = 10
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns up to topK chunks nearest to the query. An empty result
// is a valid outcome (empty context), not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.SearchResult, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := r.store.Search(ctx, vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
