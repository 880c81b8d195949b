// Package history persists analyzed emails in a local sqlite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one analyzed email.
type Record struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // "cli", "api", "inbox"
	Sender     string    `json:"sender,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Category   string    `json:"category"`
	Sentiment  string    `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Keywords   []string  `json:"keywords,omitempty"`
	Response   string    `json:"response,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats aggregates the stored records.
type Stats struct {
	Total       int            `json:"total"`
	ByCategory  map[string]int `json:"by_category"`
	BySentiment map[string]int `json:"by_sentiment"`
}

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS emails (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		sender TEXT,
		subject TEXT,
		category TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		confidence REAL,
		keywords TEXT,
		response TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_emails_category ON emails(category);
	CREATE INDEX IF NOT EXISTS idx_emails_sentiment ON emails(sentiment);
	CREATE INDEX IF NOT EXISTS idx_emails_created_at ON emails(created_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *Store) Add(record *Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO emails (id, source, sender, subject, category, sentiment, confidence, keywords, response, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		record.ID,
		record.Source,
		record.Sender,
		record.Subject,
		record.Category,
		record.Sentiment,
		record.Confidence,
		strings.Join(record.Keywords, ","),
		record.Response,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (s *Store) Recent(limit int) ([]Record, error) {
	query := `
	SELECT id, source, sender, subject, category, sentiment, confidence, keywords, response, created_at
	FROM emails ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var sender, subject, keywords, response sql.NullString
		var createdAt sql.NullTime

		err := rows.Scan(&r.ID, &r.Source, &sender, &subject, &r.Category,
			&r.Sentiment, &r.Confidence, &keywords, &response, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.Sender = sender.String
		r.Subject = subject.String
		r.Response = response.String
		r.CreatedAt = createdAt.Time
		if keywords.String != "" {
			r.Keywords = strings.Split(keywords.String, ",")
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{
		ByCategory:  make(map[string]int),
		BySentiment: make(map[string]int),
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM emails`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	rows, err := s.db.Query(`SELECT category, COUNT(*) FROM emails GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`SELECT sentiment, COUNT(*) FROM emails GROUP BY sentiment`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sentiment string
		var count int
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment stat: %w", err)
		}
		stats.BySentiment[sentiment] = count
	}
	return stats, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }
