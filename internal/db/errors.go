package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/terraincognita07/rationportal/internal/store"
	"gorm.io/gorm"
)

const postgresUniqueViolation = "23505"

// mapWriteError turns driver-level unique violations into store.ErrConflict.
// Postgres is matched by SQLSTATE; SQLite only reports the constraint in the
// message text.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.Detail)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrConflict
	}

	lowered := strings.ToLower(err.Error())
	if strings.Contains(lowered, "unique constraint") || strings.Contains(lowered, postgresUniqueViolation) {
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	}
	return err
}
