package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/llm"
)

// Engine answers chat turns from the FAQ collection.
type Engine interface {
	// Answer rewrites the question, retrieves FAQ entries and generates the reply.
	Answer(ctx context.Context, req AnswerRequest) (AnswerResponse, error)
}

// EngineOptions holds the model settings for an engine.
type EngineOptions struct {
	Temperature        float32
	RewriteTemperature float32
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	completer Completer
	searcher  Searcher
	opts      EngineOptions
}

// NewEngine creates a new answer engine.
func NewEngine(completer Completer, searcher Searcher, opts EngineOptions) Engine {
	return &ragEngine{
		completer: completer,
		searcher:  searcher,
		opts:      opts,
	}
}

// Answer answers a chat turn.
func (e *ragEngine) Answer(ctx context.Context, req AnswerRequest) (AnswerResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	logger.Info("answer started",
		zap.Int("message_length", len(req.Message)),
		zap.Int("history_length", len(req.History)),
	)

	query, err := RewriteQuestion(ctx, e.completer, req.History, req.Message, e.opts.RewriteTemperature)
	if err != nil {
		logger.Error("failed to rewrite question", zap.Error(err))
		return AnswerResponse{}, err
	}
	logger.Debug("question rewritten", zap.String("original", req.Message), zap.String("rewritten", query))

	matches, err := e.searcher.Search(ctx, query)
	if err != nil {
		logger.Error("failed to retrieve FAQ entries", zap.Error(err))
		return AnswerResponse{}, err
	}
	if matches == nil {
		matches = []Match{}
	}

	databaseContext := buildDatabaseContext(matches)
	logger.Debug("database context", zap.String("context", databaseContext))

	messages := buildAnswerMessages(req.History, databaseContext, req.Message)
	reply, err := e.completer.ChatWithMessages(ctx, messages, llm.ChatParams{
		Temperature: e.opts.Temperature,
	})
	if err != nil {
		logger.Error("failed to get LLM response", zap.Error(err))
		return AnswerResponse{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	logger.Info("answer completed", zap.Int("matches", len(matches)), zap.Int("reply_length", len(reply)))

	return AnswerResponse{
		Reply: reply,
		Reasoning: Reasoning{
			OriginalQuestion:  req.Message,
			RewrittenQuestion: query,
			Matches:           matches,
		},
	}, nil
}
