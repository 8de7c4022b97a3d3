package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов,
// а также переведённую GORM ошибку (TranslateError)
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// mapError переводит ошибки GORM/драйверов в ошибки приложения
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s already exists", apperrors.ErrConflict, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// affectedOrNotFound возвращает ErrNotFound, если запрос не затронул ни одной строки
func affectedOrNotFound(result *gorm.DB, what string) error {
	if result.Error != nil {
		return mapError(result.Error, what)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
