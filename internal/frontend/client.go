package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
)

var (
	// ErrBackendUnavailable is returned for transport failures, timeouts and non-2xx replies.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrEmptyMessage is returned when the user submits blank input.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

type chatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the backend relay's /chat endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. The timeout applies to the whole exchange.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Chat sends message with the prior history and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, message string, history []Message) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	body, err := json.Marshal(chatRequest{Message: message, History: history})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("backend request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readErrorDetail(resp.Body)
		logger.Warn("backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		if detail == "" {
			return "", fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrBackendUnavailable, resp.StatusCode, detail)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: invalid response body: %w", ErrBackendUnavailable, err)
	}

	logger.Debug("backend replied",
		zap.Duration("duration", time.Since(start)),
		zap.Int("reply_length", len(out.Reply)),
	)
	return out.Reply, nil
}

// readErrorDetail returns the "error" field of a JSON error body, or the trimmed raw body.
func readErrorDetail(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}
