package frontend_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gynocare-chat/internal/frontend"
)

var _ = Describe("Conversation", func() {
	var conv *frontend.Conversation

	BeforeEach(func() {
		conv = frontend.NewConversation()
	})

	It("starts empty", func() {
		Expect(conv.Len()).To(Equal(0))
		Expect(conv.Messages()).To(BeEmpty())
	})

	It("keeps messages in insertion order", func() {
		conv.Append(frontend.RoleUser, "Olá")
		conv.Append(frontend.RoleAssistant, "Olá! Como posso ajudar?")

		Expect(conv.Messages()).To(Equal([]frontend.Message{
			{Role: frontend.RoleUser, Content: "Olá"},
			{Role: frontend.RoleAssistant, Content: "Olá! Como posso ajudar?"},
		}))
	})

	It("returns a copy that callers cannot mutate", func() {
		conv.Append(frontend.RoleUser, "Olá")

		msgs := conv.Messages()
		msgs[0].Content = "changed"
		_ = append(msgs, frontend.Message{Role: frontend.RoleUser, Content: "extra"})

		Expect(conv.Messages()).To(HaveLen(1))
		Expect(conv.Messages()[0].Content).To(Equal("Olá"))
	})
})
