package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// Foreign keys are enabled on every pooled connection through the DSN.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS faq_entries (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			question TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (collection, question)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_faq_entries_collection ON faq_entries (collection);`,
		`CREATE TABLE IF NOT EXISTS faq_answers (
			entry_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			age_range TEXT NOT NULL,
			answer TEXT NOT NULL,
			PRIMARY KEY (entry_id, position),
			FOREIGN KEY (entry_id) REFERENCES faq_entries(id) ON DELETE CASCADE
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
