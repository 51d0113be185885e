package frontend

import (
	"context"
	"strings"
	"sync"
)

// Backend is what a Session needs from the backend relay.
type Backend interface {
	Chat(ctx context.Context, message string, history []Message) (string, error)
}

// Session couples one conversation with a backend.
// Sends on one session run one at a time.
type Session struct {
	backend      Backend
	conversation *Conversation

	sendMu sync.Mutex
}

// NewSession starts a session with an empty conversation.
func NewSession(backend Backend) *Session {
	return &Session{
		backend:      backend,
		conversation: NewConversation(),
	}
}

// Conversation returns the session history.
func (s *Session) Conversation() *Conversation {
	return s.conversation
}

// Send relays one user message. Blank input is rejected without touching the history.
// The user message is kept even when the backend fails; the reply is appended only on success.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	prior := s.conversation.Messages()
	s.conversation.Append(RoleUser, text)

	reply, err := s.backend.Chat(ctx, text, prior)
	if err != nil {
		return "", err
	}

	s.conversation.Append(RoleAssistant, reply)
	return reply, nil
}
