package faq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"gynocare-chat/internal/storage"
)

const (
	// MissingValue replaces blank age range and answer cells.
	MissingValue = "N/A"
	// requiredColumns is question, age range, answer.
	requiredColumns = 3
)

var (
	// ErrNoQuestions is returned when a spreadsheet yields no usable question.
	ErrNoQuestions = errors.New("no valid questions found in spreadsheet")
)

// Question is a unique spreadsheet question with its answers grouped by age range.
type Question struct {
	Text    string
	Answers []storage.AgeAnswer
}

// LoadSpreadsheet reads the FAQ workbook at path.
// sheet selects a worksheet by name; empty means the first one.
func LoadSpreadsheet(path, sheet string) ([]Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return ParseRows(rows)
}

// ParseRows groups spreadsheet rows into questions. The first row is the header.
// Only the first three columns are read: question, age range, answer.
func ParseRows(rows [][]string) ([]Question, error) {
	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	if columns < requiredColumns {
		return nil, fmt.Errorf("spreadsheet needs at least %d columns, found %d", requiredColumns, columns)
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}

	var (
		questions []Question
		index     = make(map[string]int)
		previous  string
	)
	for _, row := range rows {
		question, age, answer := cell(row, 0), cell(row, 1), cell(row, 2)
		if question == "" && age == "" && answer == "" {
			continue
		}

		// Merged question cells only carry a value on their first row.
		if question == "" {
			question = previous
		} else {
			previous = question
		}

		question = strings.TrimSpace(question)
		if question == "" || strings.EqualFold(question, "nan") {
			continue
		}

		entry := storage.AgeAnswer{
			AgeRange: orMissing(age),
			Answer:   orMissing(answer),
		}

		i, ok := index[question]
		if !ok {
			i = len(questions)
			index[question] = i
			questions = append(questions, Question{Text: question})
		}
		questions[i].Answers = append(questions[i].Answers, entry)
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func orMissing(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return MissingValue
	}
	return value
}
