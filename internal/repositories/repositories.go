package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/tubelist/internal/shared"
)

// notFound maps [sql.ErrNoRows] onto [shared.ErrNotFound] so callers need not import database/sql.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, what)
	}
	return err
}
