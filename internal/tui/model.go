// Package tui implements the terminal chat frontend.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"gynocare-chat/internal/frontend"
)

type state int

const (
	stateAwaitingInput state = iota
	stateSending
)

// replyMsg carries the outcome of one backend round trip.
type replyMsg struct {
	reply string
	err   error
}

// Model is the bubbletea model for the terminal chat.
type Model struct {
	ctx     context.Context
	session *frontend.Session

	state    state
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// errs holds inline errors keyed by the conversation length when they happened.
	errs  map[int][]string
	width int
	ready bool
}

// New builds the model around a session.
func New(ctx context.Context, session *frontend.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Digite sua pergunta..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = assistantLabelStyle

	return Model{
		ctx:      ctx,
		session:  session,
		state:    stateAwaitingInput,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		errs:     make(map[int][]string),
		width:    80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
		m.input.Width = max(msg.Width-4, 10)
		m.renderer = nil
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.state == stateSending {
				return m, nil
			}
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.Reset()
			m.state = stateSending
			m.input.Blur()
			m.refresh()
			return m, tea.Batch(m.send(text), m.spinner.Tick)
		}
		if m.state == stateSending {
			return m, nil
		}

	case replyMsg:
		m.state = stateAwaitingInput
		if msg.err != nil && !errors.Is(msg.err, frontend.ErrEmptyMessage) {
			n := m.session.Conversation().Len()
			m.errs[n] = append(m.errs[n], "Erro: "+msg.err.Error())
		}
		m.refresh()
		return m, m.input.Focus()

	case spinner.TickMsg:
		if m.state != stateSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send runs the backend call off the update loop.
func (m Model) send(text string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		reply, err := session.Send(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}

func (m Model) header() string {
	return titleStyle.Render("Gynocare - Dúvidas frequentes")
}

func (m Model) footer() string {
	var line string
	if m.state == stateSending {
		line = m.spinner.View() + " Aguardando resposta..."
	} else {
		line = m.input.View()
	}
	return line + "\n" + helpStyle.Render("enter: enviar • esc/ctrl+c: sair")
}

// refresh re-renders the transcript into the viewport and scrolls to the bottom.
func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m *Model) transcript() string {
	var b strings.Builder
	msgs := m.session.Conversation().Messages()
	for i, msg := range msgs {
		for _, e := range m.errs[i] {
			b.WriteString(errorStyle.Render(e) + "\n\n")
		}
		switch msg.Role {
		case frontend.RoleUser:
			b.WriteString(userLabelStyle.Render("Você") + "\n" + msg.Content + "\n\n")
		default:
			b.WriteString(assistantLabelStyle.Render("Assistente") + "\n" + m.renderMarkdown(msg.Content) + "\n")
		}
	}
	for _, e := range m.errs[len(msgs)] {
		b.WriteString(errorStyle.Render(e) + "\n\n")
	}
	return b.String()
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(m.width-4, 20)),
		)
		if err != nil {
			return content
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, session *frontend.Session) error {
	p := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
