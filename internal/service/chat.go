package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_responder.go -package=mocks gynocare-chat/internal/service Responder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService gynocare-chat/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/llm"
	"gynocare-chat/internal/rag"
)

// Responder produces a grounded reply for one chat turn.
// This interface is defined from the service layer's perspective (consumer-first).
type Responder interface {
	Answer(ctx context.Context, req rag.AnswerRequest) (rag.AnswerResponse, error)
}

// ChatMessage is one prior turn of the conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string
	History []ChatMessage
	// Debug asks for the retrieval trace alongside the reply.
	Debug bool
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply string
	// Reasoning is set only for debug requests.
	Reasoning *rag.Reasoning
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat relays one message to the model and returns its reply.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	responder Responder
	timeout   time.Duration
}

// NewChatService creates a new ChatService. timeout bounds each turn; zero disables it.
func NewChatService(responder Responder, timeout time.Duration) ChatService {
	return &chatService{
		responder: responder,
		timeout:   timeout,
	}
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if strings.TrimSpace(req.Message) == "" {
		logger.Warn("empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}
	history, err := toLLMHistory(req.History)
	if err != nil {
		logger.Warn("invalid history in chat request", zap.Error(err))
		return ChatResponse{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// Call external services
	resp, err := s.responder.Answer(ctx, rag.AnswerRequest{
		Message: req.Message,
		History: history,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Error("chat request timed out", zap.Duration("timeout", s.timeout), zap.Error(err))
			return ChatResponse{}, Unavailable(err, "request timed out")
		}
		logger.Error("failed to get LLM response", zap.Error(err))
		return ChatResponse{}, Unavailable(err, "failed to get LLM response")
	}
	if strings.TrimSpace(resp.Reply) == "" {
		logger.Error("empty reply from LLM")
		return ChatResponse{}, Unavailable(llm.ErrEmptyCompletion, "failed to get LLM response")
	}

	logger.Info("chat request processed successfully",
		zap.Int("message_length", len(req.Message)),
		zap.Int("history_length", len(req.History)),
		zap.Int("reply_length", len(resp.Reply)),
	)

	out := ChatResponse{Reply: resp.Reply}
	if req.Debug {
		reasoning := resp.Reasoning
		out.Reasoning = &reasoning
	}
	return out, nil
}

// toLLMHistory validates roles and converts history to model messages.
func toLLMHistory(history []ChatMessage) ([]llm.Message, error) {
	if len(history) == 0 {
		return nil, nil
	}

	messages := make([]llm.Message, len(history))
	for i, msg := range history {
		if msg.Role != llm.RoleUser && msg.Role != llm.RoleAssistant {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("history[%d].role", i),
				Message: fmt.Sprintf("must be %q or %q", llm.RoleUser, llm.RoleAssistant),
			}
		}
		messages[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}
	return messages, nil
}
