package rag

import (
	"context"
	"fmt"
	"strings"

	"gynocare-chat/internal/llm"
)

// RewriteQuestion asks the model to turn question into a standalone query given the history.
// With no history the question is returned unchanged and the model is not called.
func RewriteQuestion(ctx context.Context, completer Completer, history []llm.Message, question string, temperature float32) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	prompt := fmt.Sprintf(rewritePromptTemplate, formatTranscript(history), question)
	rewritten, err := completer.ChatWithMessages(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, llm.ChatParams{
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to rewrite question: %w", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}
