package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the provider answers without any text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Client is a client for an OpenAI-compatible chat completions API (Groq by default).
type Client struct {
	BaseURL string
	Model   string
	api     *openai.Client
}

// NewClient creates a new LLM client. httpClient may be nil, in which case
// http.DefaultClient is used; deadlines come from the request context.
func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		api:     openai.NewClientWithConfig(newConfig(baseURL, apiKey, httpClient)),
	}
}

func newConfig(baseURL, apiKey string, httpClient *http.Client) openai.ClientConfig {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.HTTPClient = httpClient
	return cfg
}

// ChatWithMessages sends a full message list to the completion endpoint and returns the
// content of the first choice.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	model := params.Model
	if model == "" {
		model = c.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toAPIMessages(messages),
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}
	// go-openai drops a zero temperature from the payload, which makes the provider
	// fall back to its own default.
	if req.Temperature == 0 {
		req.Temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned: %w", ErrEmptyCompletion)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func toAPIMessages(msgs []Message) []openai.ChatCompletionMessage {
	res := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}
