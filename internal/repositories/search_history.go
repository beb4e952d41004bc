package repositories

import (
	"database/sql"
	"fmt"
	"strings"
)

// SearchHistoryRepository records search queries per user.
type SearchHistoryRepository struct {
	db *sql.DB
}

// NewSearchHistoryRepository creates a new SearchHistoryRepository with the given database connection
func NewSearchHistoryRepository(db *sql.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Record appends query to username's history. Blank queries are ignored.
func (r *SearchHistoryRepository) Record(username, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if _, err := r.db.Exec(`INSERT INTO search_history (username, query) VALUES (?, ?)`, username, query); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// Recent returns up to limit distinct queries for username, newest first.
func (r *SearchHistoryRepository) Recent(username string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(`
		SELECT query FROM search_history
		WHERE username = ?
		GROUP BY query
		ORDER BY MAX(id) DESC
		LIMIT ?
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan search history: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// Clear removes username's history.
func (r *SearchHistoryRepository) Clear(username string) error {
	if _, err := r.db.Exec(`DELETE FROM search_history WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
