package faq

import (
	"strings"

	"gynocare-chat/internal/storage"
)

const (
	tableHeader    = "| Idade    | Resposta Correspondente |"
	tableAlignment = "| :------- | :---------------------- |"
	tableEmptyRow  = "| N/A      | Nenhuma resposta encontrada |"
)

var pipeEscaper = strings.NewReplacer("|", `\|`)

// FormatTable renders a question's answers as a Markdown age/answer table.
func FormatTable(answers []storage.AgeAnswer) string {
	lines := make([]string, 0, len(answers)+2)
	lines = append(lines, tableHeader, tableAlignment)

	if len(answers) == 0 {
		lines = append(lines, tableEmptyRow)
		return strings.Join(lines, "\n")
	}

	for _, a := range answers {
		lines = append(lines, "| "+pipeEscaper.Replace(a.AgeRange)+" | "+pipeEscaper.Replace(a.Answer)+" |")
	}
	return strings.Join(lines, "\n")
}
