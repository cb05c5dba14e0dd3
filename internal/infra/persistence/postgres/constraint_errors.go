package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes this package maps to repository errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	return "", ""
}

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	// Check for GORM's duplicate key error (set when TranslateError is enabled)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	code, _ := pgErrorCode(err)

	return code == pgUniqueViolation
}

// isUniqueViolationOn reports a unique violation of one named index.
func isUniqueViolationOn(err error, constraint string) bool {
	code, name := pgErrorCode(err)

	return code == pgUniqueViolation && name == constraint
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	code, _ := pgErrorCode(err)

	return code == pgForeignKeyViolation
}

func isNotNullConstraintViolation(err error) bool {
	code, _ := pgErrorCode(err)

	return code == pgNotNullViolation
}

func isCheckConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	code, _ := pgErrorCode(err)

	return code == pgCheckViolation
}
