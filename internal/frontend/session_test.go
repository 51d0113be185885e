package frontend_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gynocare-chat/internal/frontend"
)

type fakeBackend struct {
	calls    int
	lastMsg  string
	lastHist []frontend.Message
	reply    func(n int) (string, error)
}

func (f *fakeBackend) Chat(_ context.Context, message string, history []frontend.Message) (string, error) {
	f.calls++
	f.lastMsg = message
	f.lastHist = history
	return f.reply(f.calls)
}

var _ = Describe("Session", func() {
	var (
		ctx     context.Context
		backend *fakeBackend
		session *frontend.Session
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = &fakeBackend{reply: func(n int) (string, error) {
			return fmt.Sprintf("resposta %d", n), nil
		}}
		session = frontend.NewSession(backend)
	})

	It("appends the user message and the reply", func() {
		reply, err := session.Send(ctx, "  Qual o horário?  ")

		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("resposta 1"))
		Expect(backend.lastMsg).To(Equal("Qual o horário?"))
		Expect(backend.lastHist).To(BeEmpty())
		Expect(session.Conversation().Messages()).To(Equal([]frontend.Message{
			{Role: frontend.RoleUser, Content: "Qual o horário?"},
			{Role: frontend.RoleAssistant, Content: "resposta 1"},
		}))
	})

	It("holds 2N alternating messages after N successful sends", func() {
		const n = 4
		for i := range n {
			_, err := session.Send(ctx, fmt.Sprintf("pergunta %d", i+1))
			Expect(err).NotTo(HaveOccurred())
		}

		msgs := session.Conversation().Messages()
		Expect(msgs).To(HaveLen(2 * n))
		for i, m := range msgs {
			if i%2 == 0 {
				Expect(m.Role).To(Equal(frontend.RoleUser))
			} else {
				Expect(m.Role).To(Equal(frontend.RoleAssistant))
			}
		}
	})

	It("runs concurrent sends one at a time", func() {
		backend.reply = func(n int) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return fmt.Sprintf("resposta %d", n), nil
		}

		var wg sync.WaitGroup
		for _, text := range []string{"a", "b", "c"} {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := session.Send(ctx, text)
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		msgs := session.Conversation().Messages()
		Expect(msgs).To(HaveLen(6))
		for i, m := range msgs {
			if i%2 == 0 {
				Expect(m.Role).To(Equal(frontend.RoleUser))
			} else {
				Expect(m.Role).To(Equal(frontend.RoleAssistant))
			}
		}
		Expect(backend.lastHist).To(HaveLen(4))
	})

	It("sends only the prior history with each message", func() {
		_, err := session.Send(ctx, "primeira")
		Expect(err).NotTo(HaveOccurred())
		_, err = session.Send(ctx, "segunda")
		Expect(err).NotTo(HaveOccurred())

		Expect(backend.lastMsg).To(Equal("segunda"))
		Expect(backend.lastHist).To(Equal([]frontend.Message{
			{Role: frontend.RoleUser, Content: "primeira"},
			{Role: frontend.RoleAssistant, Content: "resposta 1"},
		}))
	})

	DescribeTable("rejects blank input without calling the backend",
		func(input string) {
			_, err := session.Send(ctx, input)

			Expect(err).To(MatchError(frontend.ErrEmptyMessage))
			Expect(backend.calls).To(Equal(0))
			Expect(session.Conversation().Len()).To(Equal(0))
		},
		Entry("empty", ""),
		Entry("spaces", "   "),
		Entry("newlines and tabs", "\n\t "),
	)

	It("keeps the user message when the backend fails", func() {
		backend.reply = func(int) (string, error) {
			return "", fmt.Errorf("%w: status 503", frontend.ErrBackendUnavailable)
		}

		_, err := session.Send(ctx, "Olá")

		Expect(errors.Is(err, frontend.ErrBackendUnavailable)).To(BeTrue())
		Expect(session.Conversation().Messages()).To(Equal([]frontend.Message{
			{Role: frontend.RoleUser, Content: "Olá"},
		}))
	})
})
