package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/storage"
	"gynocare-chat/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        vectorstore.VectorStore
	faqStore           storage.FAQStore
	collectionName     string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore vectorstore.VectorStore, faqStore storage.FAQStore, collectionName string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		faqStore:           faqStore,
		collectionName:     collectionName,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
// The completion provider is not probed.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.Warn("method not allowed", zap.String("method", r.Method))
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	if h.checkCatalog(checkCtx, logger) {
		checks["catalog"] = "ok"
	} else {
		checks["catalog"] = "error"
		issues = append(issues, "catalog_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode health response", zap.Error(err))
	}
}

// checkVectorStore checks that the collection exists and is reachable.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *zap.Logger) bool {
	exists, err := h.vectorStore.CollectionExists(ctx, h.collectionName)
	if err != nil {
		logger.Warn("vector store health check failed", zap.Error(err))
		return false
	}
	if !exists {
		logger.Warn("vector store collection does not exist", zap.String("collection", h.collectionName))
		return false
	}
	return true
}

// checkCatalog checks that the FAQ catalog holds entries for the collection.
func (h *HealthHandler) checkCatalog(ctx context.Context, logger *zap.Logger) bool {
	count, err := h.faqStore.CountByCollection(ctx, h.collectionName)
	if err != nil {
		logger.Warn("catalog health check failed", zap.Error(err))
		return false
	}
	if count == 0 {
		logger.Warn("catalog has no entries", zap.String("collection", h.collectionName))
		return false
	}
	return true
}
