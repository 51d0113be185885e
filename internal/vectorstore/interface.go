package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks gynocare-chat/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error
	// Search performs a cosine similarity search. filters holds exact-match payload conditions.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]string) ([]SearchResult, error)
	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
	// RecreateCollection drops the collection (if present) and creates it empty.
	RecreateCollection(ctx context.Context, collection string, vectorSize int) error
	// GetCollectionInfo returns the vector size and point count.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)
}
