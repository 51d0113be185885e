package storage

import "time"

// AgeAnswer is one row of a question's answer table.
type AgeAnswer struct {
	AgeRange string
	Answer   string
}

// FAQEntry is a question from the FAQ spreadsheet with its answers grouped by age range.
type FAQEntry struct {
	ID         string // UUID, same as the Qdrant point ID
	Collection string
	Question   string
	Answers    []AgeAnswer // Spreadsheet order
	CreatedAt  time.Time
}
