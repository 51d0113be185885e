package frontend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gynocare-chat/internal/frontend"
)

type capturedRequest struct {
	Method      string             `json:"-"`
	Path        string             `json:"-"`
	ContentType string             `json:"-"`
	Message     string             `json:"message"`
	History     []frontend.Message `json:"history"`
}

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		handler  http.HandlerFunc
		captured capturedRequest
	)

	BeforeEach(func() {
		ctx = context.Background()
		captured = capturedRequest{}
		handler = func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&captured)
			captured.Method = r.Method
			captured.Path = r.URL.Path
			captured.ContentType = r.Header.Get("Content-Type")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"reply":"Atendemos das 8h às 18h."}`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts the message with history and returns the reply", func() {
		client := frontend.NewClient(server.URL+"/", time.Second)
		history := []frontend.Message{
			{Role: frontend.RoleUser, Content: "Olá"},
			{Role: frontend.RoleAssistant, Content: "Olá!"},
		}

		reply, err := client.Chat(ctx, "Qual o horário?", history)

		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("Atendemos das 8h às 18h."))
		Expect(captured.Method).To(Equal(http.MethodPost))
		Expect(captured.Path).To(Equal("/chat"))
		Expect(captured.ContentType).To(Equal("application/json"))
		Expect(captured.Message).To(Equal("Qual o horário?"))
		Expect(captured.History).To(Equal(history))
	})

	It("surfaces the backend error field on non-2xx replies", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Service unavailable, please try again later"}`))
		}
		client := frontend.NewClient(server.URL, time.Second)

		_, err := client.Chat(ctx, "Olá", nil)

		Expect(err).To(MatchError(frontend.ErrBackendUnavailable))
		Expect(err.Error()).To(ContainSubstring("503"))
		Expect(err.Error()).To(ContainSubstring("Service unavailable, please try again later"))
	})

	It("falls back to the raw body when it is not JSON", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}
		client := frontend.NewClient(server.URL, time.Second)

		_, err := client.Chat(ctx, "Olá", nil)

		Expect(err).To(MatchError(frontend.ErrBackendUnavailable))
		Expect(err.Error()).To(ContainSubstring("bad gateway"))
	})

	It("times out slow backends", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}
		client := frontend.NewClient(server.URL, 50*time.Millisecond)

		_, err := client.Chat(ctx, "Olá", nil)

		Expect(err).To(MatchError(frontend.ErrBackendUnavailable))
	})

	It("reports unreachable backends", func() {
		client := frontend.NewClient("http://127.0.0.1:1", time.Second)

		_, err := client.Chat(ctx, "Olá", nil)

		Expect(err).To(MatchError(frontend.ErrBackendUnavailable))
	})

	It("rejects undecodable success bodies", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}
		client := frontend.NewClient(server.URL, time.Second)

		_, err := client.Chat(ctx, "Olá", nil)

		Expect(err).To(MatchError(frontend.ErrBackendUnavailable))
	})
})
