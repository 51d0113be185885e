package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/rag"
	"gynocare-chat/internal/service"
)

// maxChatBodyBytes caps the request body, history included.
const maxChatBodyBytes = 1 << 20

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatMessage is a prior conversation turn in the request payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
	Debug   bool          `json:"debug,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Reply     string         `json:"reply"`
	Reasoning *rag.Reasoning `json:"reasoning,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.Warn("method not allowed", zap.String("method", r.Method))
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Convert HTTP request to service request
	svcReq := service.ChatRequest{
		Message: req.Message,
		Debug:   req.Debug,
	}
	if len(req.History) > 0 {
		svcReq.History = make([]service.ChatMessage, len(req.History))
		for i, msg := range req.History {
			svcReq.History[i] = service.ChatMessage{Role: msg.Role, Content: msg.Content}
		}
	}

	// Call service layer
	svcResp, err := h.chatService.ProcessChat(ctx, svcReq)
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to process chat request")
		return
	}

	// Convert service response to HTTP response
	resp := ChatResponse{
		Reply:     svcResp.Reply,
		Reasoning: svcResp.Reasoning,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *ChatHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(r.Context())

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn("chat request rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	// Check for wrapped errors
	if errors.Is(err, service.ErrInvalidInput) {
		logger.Warn("chat request rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	logger.Error("service error", zap.Error(err))

	if errors.Is(err, service.ErrServiceUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "Service unavailable, please try again later")
		return
	}

	// Default to internal server error
	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
