package faq

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks gynocare-chat/internal/faq Embedder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/storage"
	"gynocare-chat/internal/vectorstore"
)

// DefaultBatchSize is how many questions are embedded per request.
const DefaultBatchSize = 32

// Embedder turns question texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestOptions controls a single ingestion run.
type IngestOptions struct {
	Path  string // .xlsx file
	Sheet string // empty means the first sheet
	Force bool   // drop and rebuild an existing collection
}

// IngestResult summarizes an ingestion run.
type IngestResult struct {
	Collection  string `json:"collection"`
	Skipped     bool   `json:"skipped"` // collection already existed and Force was not set
	Questions   int    `json:"questions"`
	Answers     int    `json:"answers"`
	PointsCount int    `json:"points_count"`
}

// Pipeline builds the FAQ collection from a spreadsheet into SQLite and Qdrant.
type Pipeline struct {
	store       storage.FAQStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	vectorSize  int
	batchSize   int
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store storage.FAQStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	vectorSize int,
) *Pipeline {
	return &Pipeline{
		store:       store,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		vectorSize:  vectorSize,
		batchSize:   DefaultBatchSize,
	}
}

// Ingest loads the spreadsheet and stores every question with its answers.
// An existing collection is left untouched unless opts.Force is set.
func (p *Pipeline) Ingest(ctx context.Context, opts IngestOptions) (*IngestResult, error) {
	logger := contextutil.LoggerFromContext(ctx).With(zap.String("collection", p.collection))

	exists, err := p.vectorStore.CollectionExists(ctx, p.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	if exists && !opts.Force {
		info, err := p.vectorStore.GetCollectionInfo(ctx, p.collection)
		if err != nil {
			return nil, fmt.Errorf("failed to read collection info: %w", err)
		}
		logger.Info("collection already exists, skipping ingestion", zap.Int("points", info.PointsCount))
		return &IngestResult{Collection: p.collection, Skipped: true, PointsCount: info.PointsCount}, nil
	}

	// Parse before touching the collection so a bad file never leaves it empty.
	questions, err := LoadSpreadsheet(opts.Path, opts.Sheet)
	if err != nil {
		return nil, err
	}
	logger.Info("spreadsheet loaded", zap.String("path", opts.Path), zap.Int("questions", len(questions)))

	if err := p.vectorStore.RecreateCollection(ctx, p.collection, p.vectorSize); err != nil {
		return nil, fmt.Errorf("failed to prepare collection: %w", err)
	}
	removed, err := p.store.DeleteByCollection(ctx, p.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to clear catalog: %w", err)
	}
	if removed > 0 {
		logger.Info("cleared previous catalog entries", zap.Int("removed", removed))
	}

	result := &IngestResult{Collection: p.collection}
	for start := 0; start < len(questions); start += p.batchSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := min(start+p.batchSize, len(questions))
		answers, err := p.ingestBatch(ctx, questions[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to ingest questions %d-%d: %w", start+1, end, err)
		}
		result.Questions += end - start
		result.Answers += answers
		logger.Debug("batch ingested", zap.Int("from", start+1), zap.Int("to", end))
	}

	info, err := p.vectorStore.GetCollectionInfo(ctx, p.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection info: %w", err)
	}
	result.PointsCount = info.PointsCount

	logger.Info("ingestion completed",
		zap.Int("questions", result.Questions),
		zap.Int("answers", result.Answers),
		zap.Int("points", result.PointsCount))
	return result, nil
}

// ingestBatch embeds one batch of questions and writes it to both stores.
// Returns the number of answers stored.
func (p *Pipeline) ingestBatch(ctx context.Context, batch []Question) (int, error) {
	texts := make([]string, len(batch))
	for i, q := range batch {
		texts[i] = q.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	entries := make([]*storage.FAQEntry, len(batch))
	points := make([]vectorstore.Point, len(batch))
	answers := 0
	for i, q := range batch {
		id := uuid.New().String()
		entries[i] = &storage.FAQEntry{
			ID:         id,
			Collection: p.collection,
			Question:   q.Text,
			Answers:    q.Answers,
		}
		points[i] = vectorstore.Point{
			ID:  id,
			Vec: vectors[i],
			Meta: map[string]any{
				"question":   q.Text,
				"collection": p.collection,
			},
		}
		answers += len(q.Answers)
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return 0, fmt.Errorf("failed to upsert vectors: %w", err)
	}
	if err := p.store.InsertMany(ctx, entries); err != nil {
		// Points without a catalog row would be returned by search but never answered.
		ids := make([]string, len(points))
		for i, pt := range points {
			ids[i] = pt.ID
		}
		if delErr := p.vectorStore.Delete(ctx, p.collection, ids); delErr != nil {
			contextutil.LoggerFromContext(ctx).Warn("failed to remove orphaned points",
				zap.Int("points", len(ids)), zap.Error(delErr))
		}
		return 0, fmt.Errorf("failed to store entries: %w", err)
	}
	return answers, nil
}
