package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gynocare-chat/internal/frontend"
)

type stubBackend struct {
	reply string
	err   error
}

func (b *stubBackend) Chat(_ context.Context, _ string, _ []frontend.Message) (string, error) {
	return b.reply, b.err
}

func newTestModel(backend *stubBackend) Model {
	m := New(context.Background(), frontend.NewSession(backend))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

// runBatch executes cmd and returns the replyMsg it produced, if any.
func runBatch(t *testing.T, cmd tea.Cmd) (replyMsg, bool) {
	t.Helper()
	if cmd == nil {
		return replyMsg{}, false
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if r, ok := c().(replyMsg); ok {
				return r, true
			}
		}
		return replyMsg{}, false
	}
	r, ok := msg.(replyMsg)
	return r, ok
}

func TestModel_SendFlow(t *testing.T) {
	m := newTestModel(&stubBackend{reply: "Atendemos das **8h às 18h**."})
	m = typeText(m, "Qual o horário?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.state != stateSending {
		t.Fatalf("state = %v, want sending", m.state)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "Aguardando resposta") {
		t.Error("sending state should show the spinner line")
	}

	reply, ok := runBatch(t, cmd)
	if !ok {
		t.Fatal("enter should schedule the backend call")
	}

	updated, _ = m.Update(reply)
	m = updated.(Model)

	if m.state != stateAwaitingInput {
		t.Errorf("state = %v, want awaiting input", m.state)
	}
	msgs := m.session.Conversation().Messages()
	if len(msgs) != 2 || msgs[0].Role != frontend.RoleUser || msgs[1].Role != frontend.RoleAssistant {
		t.Fatalf("conversation = %+v", msgs)
	}
	transcript := m.transcript()
	if !strings.Contains(transcript, "Qual o horário?") {
		t.Error("transcript should show the user message")
	}
	if !strings.Contains(transcript, "8h às 18h") {
		t.Error("transcript should show the reply")
	}
}

func TestModel_InputBlockedWhileSending(t *testing.T) {
	m := newTestModel(&stubBackend{reply: "ok"})
	m = typeText(m, "Olá")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m = typeText(m, "mais texto")
	if m.input.Value() != "" {
		t.Errorf("typing while sending should be ignored, got %q", m.input.Value())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter while sending should not schedule another call")
	}
}

func TestModel_BlankInputIgnored(t *testing.T) {
	m := newTestModel(&stubBackend{reply: "ok"})
	m = typeText(m, "   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if cmd != nil {
		t.Error("blank input should not schedule a call")
	}
	if m.state != stateAwaitingInput {
		t.Errorf("state = %v, want awaiting input", m.state)
	}
}

func TestModel_ErrorShownInlineAndHistoryKept(t *testing.T) {
	m := newTestModel(&stubBackend{err: fmt.Errorf("%w: status 503", frontend.ErrBackendUnavailable)})
	m = typeText(m, "Olá")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	reply, ok := runBatch(t, cmd)
	if !ok {
		t.Fatal("enter should schedule the backend call")
	}
	updated, _ = m.Update(reply)
	m = updated.(Model)

	if m.state != stateAwaitingInput {
		t.Errorf("state = %v, want awaiting input", m.state)
	}
	if n := m.session.Conversation().Len(); n != 1 {
		t.Errorf("conversation length = %d, want 1", n)
	}
	transcript := m.transcript()
	if !strings.Contains(transcript, "backend unavailable") {
		t.Errorf("transcript should show the error, got %q", transcript)
	}
	if !strings.Contains(transcript, "Olá") {
		t.Error("transcript should keep the user message")
	}
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newTestModel(&stubBackend{})
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("%v should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v should produce tea.QuitMsg", key)
		}
	}
}
