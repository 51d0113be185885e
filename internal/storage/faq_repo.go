package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_faq_store.go -package=mocks gynocare-chat/internal/storage FAQStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FAQStore defines the interface for FAQ catalog operations.
type FAQStore interface {
	// InsertMany stores entries and their answers in one transaction.
	// Entries without an ID get a new UUID.
	InsertMany(ctx context.Context, entries []*FAQEntry) error
	// GetByIDs gets entries keyed by ID. Unknown IDs are absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*FAQEntry, error)
	// DeleteByCollection removes every entry of a collection.
	DeleteByCollection(ctx context.Context, collection string) (int, error)
	// CountByCollection returns how many entries a collection holds.
	CountByCollection(ctx context.Context, collection string) (int, error)
}

// FAQRepo provides methods for FAQ catalog operations.
// It implements the FAQStore interface.
type FAQRepo struct {
	db *sql.DB
}

// NewFAQRepo creates a new FAQRepo.
func NewFAQRepo(db *sql.DB) *FAQRepo {
	return &FAQRepo{db: db}
}

// InsertMany stores entries and their answers in one transaction.
func (r *FAQRepo) InsertMany(ctx context.Context, entries []*FAQEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entryStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO faq_entries (id, collection, question, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)")
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer func() {
		_ = entryStmt.Close()
	}()

	answerStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO faq_answers (entry_id, position, age_range, answer) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare answer insert: %w", err)
	}
	defer func() {
		_ = answerStmt.Close()
	}()

	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		if _, err := entryStmt.ExecContext(ctx, entry.ID, entry.Collection, entry.Question); err != nil {
			return fmt.Errorf("failed to insert entry %q: %w", entry.Question, err)
		}
		for i, answer := range entry.Answers {
			if _, err := answerStmt.ExecContext(ctx, entry.ID, i, answer.AgeRange, answer.Answer); err != nil {
				return fmt.Errorf("failed to insert answer %d of %q: %w", i, entry.Question, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entries: %w", err)
	}
	return nil
}

// GetByIDs gets entries keyed by ID. Unknown IDs are absent from the map.
func (r *FAQRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*FAQEntry, error) {
	result := make(map[string]*FAQEntry, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, collection, question, created_at FROM faq_entries WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var entry FAQEntry
		var createdAtStr string
		if err := rows.Scan(&entry.ID, &entry.Collection, &entry.Question, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			return nil, err
		}
		result[entry.ID] = &entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	answerRows, err := r.db.QueryContext(ctx,
		"SELECT entry_id, age_range, answer FROM faq_answers WHERE entry_id IN ("+placeholders+") ORDER BY entry_id, position", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer func() {
		_ = answerRows.Close()
	}()

	for answerRows.Next() {
		var entryID string
		var answer AgeAnswer
		if err := answerRows.Scan(&entryID, &answer.AgeRange, &answer.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if entry, ok := result[entryID]; ok {
			entry.Answers = append(entry.Answers, answer)
		}
	}
	if err := answerRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answers: %w", err)
	}

	return result, nil
}

// DeleteByCollection removes every entry of a collection. Answers go with them (ON DELETE CASCADE).
func (r *FAQRepo) DeleteByCollection(ctx context.Context, collection string) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM faq_entries WHERE collection = ?", collection)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}

// CountByCollection returns how many entries a collection holds.
func (r *FAQRepo) CountByCollection(ctx context.Context, collection string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM faq_entries WHERE collection = ?", collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// parseTimestamp parses a SQLite DATETIME value.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err == nil {
		return t, nil
	}
	// Try alternative format (SQLite might use different format)
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}
