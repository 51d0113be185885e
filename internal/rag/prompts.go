package rag

import (
	"fmt"
	"strings"

	"gynocare-chat/internal/llm"
)

// FallbackReply is the sentence the assistant uses when the FAQ has no answer.
const FallbackReply = "Desculpe, não tenho uma resposta para isso no momento. Por favor, entre em contato com " +
	"nosso suporte ao cliente para mais informações."

// NoResultsContext stands in for the database context when retrieval finds nothing.
const NoResultsContext = "Nenhum resultado encontrado."

const systemPrompt = "Você é um atendente da Clínica Gynocare. Suas respostas devem ser simples e diretas, " +
	"com linguagem formal e gentil. Você receberá respostas similares do banco de perguntas " +
	"frequentes (tabelas por idade). Use essas respostas como base. Se não encontrar, responda:\n" +
	"'" + FallbackReply + "' Responda apenas com texto, sem formatação, emojis ou links."

const userPromptTemplate = "Dados do banco (tabelas de idade/resposta):\n%s\n\n" +
	"Pergunta do usuário: %s\n\n" +
	"Com base no histórico e nesses dados, responda de forma adequada."

const rewritePromptTemplate = "Você é um assistente que pega uma pergunta de usuário e seu histórico de conversa e " +
	"reformula para ser uma consulta independente. Considere apenas fatos, sem suposições. " +
	"Retorne apenas a pergunta reformulada.\n\n" +
	"Histórico de conversa:\n%s\n" +
	"Pergunta do usuário: %s\n" +
	"Pergunta reformulada:"

// formatTranscript renders history as "Usuário:"/"Assistente:" lines.
// Messages with other roles are skipped.
func formatTranscript(history []llm.Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleUser:
			lines = append(lines, "Usuário: "+msg.Content)
		case llm.RoleAssistant:
			lines = append(lines, "Assistente: "+msg.Content)
		}
	}
	return strings.Join(lines, "\n")
}

// buildDatabaseContext joins the matches into the block handed to the model.
func buildDatabaseContext(matches []Match) string {
	if len(matches) == 0 {
		return NoResultsContext
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("### Resultado %d: %s (Distância: %.4f)\n%s", m.Rank, m.Question, m.Distance, m.Table)
	}
	return strings.Join(parts, "\n\n")
}

// buildAnswerMessages assembles the completion input: instructions, history,
// retrieved tables and the templated user message.
func buildAnswerMessages(history []llm.Message, databaseContext, message string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages,
		llm.Message{Role: llm.RoleSystem, Content: databaseContext},
		llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf(userPromptTemplate, databaseContext, message)},
	)
	return messages
}
