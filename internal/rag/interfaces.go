package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_interfaces.go -package=mocks gynocare-chat/internal/rag Embedder,Completer,Searcher

import (
	"context"

	"gynocare-chat/internal/llm"
)

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer sends a message list to a chat completion model.
type Completer interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Searcher returns the FAQ entries closest to a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Match, error)
}
