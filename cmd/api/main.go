package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gynocare-chat/internal/config"
	"gynocare-chat/internal/http"
	"gynocare-chat/internal/llm"
	"gynocare-chat/internal/logging"
	"gynocare-chat/internal/rag"
	"gynocare-chat/internal/service"
	"gynocare-chat/internal/storage"
	"gynocare-chat/internal/vectorstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(runMain())
}

// runMain returns the process exit code after its deferred cleanup has run.
func runMain() int {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("Failed to configure logging: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	logger.Debug("Logging configured", zap.String("level", cfg.LogLevel), zap.String("format", cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("API server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database initialized", zap.String("path", cfg.DBPath))

	faqRepo := storage.NewFAQRepo(db)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	defer func() {
		_ = vectorStore.Close()
	}()

	if err := checkCollection(ctx, vectorStore, faqRepo, cfg); err != nil {
		return err
	}
	logger.Info("FAQ collection ready",
		zap.String("collection", cfg.CollectionName),
		zap.Int("vector_size", cfg.QdrantVectorSize),
	)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize, nil)
	if _, err := embedder.EmbedTexts(ctx, []string{"teste"}); err != nil {
		return fmt.Errorf("failed to validate embedding client: %w", err)
	}
	logger.Info("Embedding client validated", zap.String("model", cfg.EmbeddingModelName))

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, nil)

	retriever := rag.NewRetriever(embedder, vectorStore, faqRepo, cfg.CollectionName, cfg.SearchK)
	engine := rag.NewEngine(llmClient, retriever, rag.EngineOptions{
		Temperature:        cfg.LLMTemperature,
		RewriteTemperature: cfg.RewriteTemperature,
	})
	chatService := service.NewChatService(engine, cfg.RequestTimeout)
	logger.Info("RAG engine initialized", zap.Int("k", cfg.SearchK))

	router := http.NewRouter(&http.Deps{
		ChatService:    chatService,
		VectorStore:    vectorStore,
		FAQStore:       faqRepo,
		CollectionName: cfg.CollectionName,
	})

	ln, err := net.Listen("tcp", ":"+cfg.APIPort)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.APIPort, err)
	}
	logger.Debug("LLM configuration", zap.String("base_url", cfg.LLMBaseURL), zap.String("model", cfg.LLMModelName))
	return serve(ctx, newServer(ln.Addr().String(), router), ln, logger)
}

// newServer builds the API server. Request contexts are not tied to the
// signal context, so Shutdown can drain turns already in flight.
func newServer(addr string, handler nethttp.Handler) *nethttp.Server {
	return &nethttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs srv on ln until it fails or ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *nethttp.Server, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", zap.String("addr", srv.Addr))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// checkCollection refuses to start against a missing, mis-sized or empty collection.
func checkCollection(ctx context.Context, vs vectorstore.VectorStore, faqs storage.FAQStore, cfg *config.Config) error {
	exists, err := vs.CollectionExists(ctx, cfg.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to reach Qdrant: %w", err)
	}
	if !exists {
		return &config.ConfigurationError{
			Key:    "COLLECTION_NAME",
			Reason: fmt.Sprintf("%q does not exist; run `gynocare ingest` first", cfg.CollectionName),
		}
	}

	info, err := vs.GetCollectionInfo(ctx, cfg.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to read collection info: %w", err)
	}
	if info.VectorSize != 0 && info.VectorSize != cfg.QdrantVectorSize {
		return &config.ConfigurationError{
			Key:    "QDRANT_VECTOR_SIZE",
			Reason: fmt.Sprintf("is %d but collection %q stores %d-dimensional vectors", cfg.QdrantVectorSize, cfg.CollectionName, info.VectorSize),
		}
	}
	if info.PointsCount == 0 {
		return &config.ConfigurationError{
			Key:    "COLLECTION_NAME",
			Reason: fmt.Sprintf("%q is empty; run `gynocare ingest --force`", cfg.CollectionName),
		}
	}

	count, err := faqs.CountByCollection(ctx, cfg.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to read FAQ catalog: %w", err)
	}
	if count == 0 {
		return &config.ConfigurationError{
			Key:    "DB_PATH",
			Reason: fmt.Sprintf("has no FAQ entries for %q; run `gynocare ingest --force`", cfg.CollectionName),
		}
	}
	return nil
}
