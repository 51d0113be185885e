package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gynocare-chat/internal/handlers"
	"gynocare-chat/internal/service"
	"gynocare-chat/internal/storage"
	"gynocare-chat/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService    service.ChatService
	VectorStore    vectorstore.VectorStore
	FAQStore       storage.FAQStore
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
// Routes are served both at the root and under /api.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.FAQStore, deps.CollectionName)

	routes := func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	}

	routes(r)
	r.Route("/api", routes)

	return r
}
