package rag

import "gynocare-chat/internal/llm"

// AnswerRequest is a single chat turn to answer.
type AnswerRequest struct {
	// Message is the user's latest message.
	Message string
	// History holds the prior turns, oldest first. It does not include Message.
	History []llm.Message
}

// AnswerResponse is the generated reply with the retrieval trace behind it.
type AnswerResponse struct {
	Reply     string
	Reasoning Reasoning
}

// Reasoning records how the reply was grounded.
type Reasoning struct {
	// OriginalQuestion is the message as the user sent it.
	OriginalQuestion string `json:"original_question"`
	// RewrittenQuestion is the standalone query used for retrieval.
	RewrittenQuestion string `json:"rewritten_question"`
	// Matches are the retrieved FAQ entries, best first.
	Matches []Match `json:"matches"`
}

// Match is one retrieved FAQ entry.
type Match struct {
	// Rank is 1-based.
	Rank int `json:"rank"`
	// Question is the FAQ question as written in the spreadsheet.
	Question string `json:"question"`
	// Distance is the cosine distance (1 - similarity); lower is closer.
	Distance float64 `json:"distance"`
	// Table is the Markdown age/answer table for the question.
	Table string `json:"table"`
}
