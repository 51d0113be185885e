// Package webui serves the browser chat frontend.
package webui

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"gynocare-chat/internal/contextutil"
	"gynocare-chat/internal/frontend"
	apphttp "gynocare-chat/internal/http"
)

const sessionCookie = "gynocare_session"

// Session table bounds.
const (
	defaultMaxSessions = 1000
	defaultSessionTTL  = 2 * time.Hour
)

// User-facing banners.
const (
	emptyMessageBanner = "Digite uma mensagem antes de enviar."
	backendErrorBanner = "Não foi possível obter uma resposta agora. Tente novamente em instantes."
)

//go:embed templates/chat.html
var templatesFS embed.FS

// viewMessage is a message prepared for the page.
type viewMessage struct {
	Role string
	HTML template.HTML
}

type pageData struct {
	Messages []viewMessage
	Error    string
}

type sessionEntry struct {
	session  *frontend.Session
	lastSeen time.Time
}

// Server holds one frontend.Session per browser, in memory.
// A session is created on the first message. Sessions idle longer than
// sessionTTL are dropped, and the least recently used one is evicted once
// maxSessions is reached.
type Server struct {
	backend  frontend.Backend
	page     *template.Template
	markdown goldmark.Markdown

	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	maxSessions int
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewServer creates the web frontend.
func NewServer(backend frontend.Backend) (*Server, error) {
	page, err := template.ParseFS(templatesFS, "templates/chat.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		backend: backend,
		page:    page,
		// Raw HTML in replies is dropped; goldmark only passes it through with html.WithUnsafe.
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table, extension.Linkify)),
		sessions:    make(map[string]*sessionEntry),
		maxSessions: defaultMaxSessions,
		sessionTTL:  defaultSessionTTL,
		now:         time.Now,
	}, nil
}

// Routes returns the HTTP handler for the web frontend.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(apphttp.LoggerMiddleware)
	r.Use(apphttp.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/send", s.handleSend)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.lookup(r), "")
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	logger := contextutil.LoggerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, s.lookup(r), emptyMessageBanner)
		return
	}
	text := r.PostForm.Get("message")
	if strings.TrimSpace(text) == "" {
		s.render(w, r, http.StatusBadRequest, s.lookup(r), emptyMessageBanner)
		return
	}

	session := s.session(w, r)
	if _, err := session.Send(r.Context(), text); err != nil {
		if errors.Is(err, frontend.ErrEmptyMessage) {
			s.render(w, r, http.StatusBadRequest, session, emptyMessageBanner)
			return
		}
		logger.Warn("chat relay failed", zap.Error(err))
		s.render(w, r, http.StatusBadGateway, session, backendErrorBanner)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// lookup returns the caller's session, or nil when the cookie is missing or unknown.
func (s *Server) lookup(r *http.Request) *frontend.Session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[c.Value]
	if !ok {
		return nil
	}
	now := s.now()
	if now.Sub(entry.lastSeen) > s.sessionTTL {
		delete(s.sessions, c.Value)
		return nil
	}
	entry.lastSeen = now
	return entry.session
}

// session returns the caller's session, creating one and setting the cookie when needed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *frontend.Session {
	if sess := s.lookup(r); sess != nil {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	id := uuid.NewString()
	sess := frontend.NewSession(s.backend)
	s.sessions[id] = &sessionEntry{session: sess, lastSeen: now}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// pruneLocked drops idle sessions and makes room for one more. s.mu must be held.
func (s *Server) pruneLocked(now time.Time) {
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.sessionTTL {
			delete(s.sessions, id)
		}
	}
	for s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, entry := range s.sessions {
			if oldestID == "" || entry.lastSeen.Before(oldest) {
				oldestID, oldest = id, entry.lastSeen
			}
		}
		delete(s.sessions, oldestID)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, session *frontend.Session, banner string) {
	logger := contextutil.LoggerFromContext(r.Context())

	var msgs []frontend.Message
	if session != nil {
		msgs = session.Conversation().Messages()
	}
	data := pageData{Messages: make([]viewMessage, 0, len(msgs)), Error: banner}
	for _, m := range msgs {
		data.Messages = append(data.Messages, viewMessage{Role: m.Role, HTML: s.messageHTML(m)})
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// messageHTML renders assistant replies as Markdown and escapes user input.
func (s *Server) messageHTML(m frontend.Message) template.HTML {
	if m.Role != frontend.RoleAssistant {
		return template.HTML("<p>" + template.HTMLEscapeString(m.Content) + "</p>")
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(m.Content), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(m.Content) + "</p>")
	}
	return template.HTML(buf.String())
}
