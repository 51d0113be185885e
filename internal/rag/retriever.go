package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/faq"
	"gynocare-chat/internal/storage"
	"gynocare-chat/internal/vectorstore"
)

// Retriever finds the FAQ entries closest to a query.
type Retriever struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	store       storage.FAQStore
	collection  string
	k           int
}

// NewRetriever creates a retriever returning up to k matches per query.
func NewRetriever(embedder Embedder, vectorStore vectorstore.VectorStore, store storage.FAQStore, collection string, k int) *Retriever {
	return &Retriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		store:       store,
		collection:  collection,
		k:           k,
	}
}

// Search embeds query and returns the nearest FAQ entries with their answer tables.
// Hits without a catalog row are skipped; ranks stay contiguous.
func (r *Retriever) Search(ctx context.Context, query string) ([]Match, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := r.vectorStore.Search(ctx, r.collection, embeddings[0], r.k, map[string]string{"collection": r.collection})
	if err != nil {
		return nil, fmt.Errorf("failed to search collection: %w", err)
	}
	if len(results) == 0 {
		logger.Info("no search results found")
		return nil, nil
	}

	ids := make([]string, len(results))
	for i, result := range results {
		ids[i] = result.PointID
	}
	entries, err := r.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load FAQ entries: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		entry, ok := entries[result.PointID]
		if !ok {
			logger.Warn("search hit has no catalog entry", zap.String("point_id", result.PointID))
			continue
		}
		matches = append(matches, Match{
			Rank:     len(matches) + 1,
			Question: entry.Question,
			Distance: 1 - float64(result.Score),
			Table:    faq.FormatTable(entry.Answers),
		})
	}

	logger.Info("retrieval completed", zap.Int("results", len(results)), zap.Int("matches", len(matches)))
	return matches, nil
}
