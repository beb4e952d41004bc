package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// SessionRepository persists the one signed-in session of this device.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save replaces the current session.
func (r *SessionRepository) Save(s models.Session) error {
	if !s.Valid() {
		return fmt.Errorf("%w: session requires username and token", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO current_session (id, username, display_name, avatar_url, token)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url,
			token = excluded.token,
			created_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, s.Username, s.DisplayName, s.AvatarURL, s.Token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Current returns the signed-in session or [shared.ErrNotAuthenticated].
func (r *SessionRepository) Current() (models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(`SELECT username, display_name, avatar_url, token FROM current_session WHERE id = 1`).
		Scan(&s.Username, &s.DisplayName, &s.AvatarURL, &s.Token)
	if err == sql.ErrNoRows {
		return models.Session{}, shared.ErrNotAuthenticated
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

// Clear removes the current session, if any.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM current_session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
