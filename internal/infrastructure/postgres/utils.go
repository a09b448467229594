package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de foreign key (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// nullLimit traduce limit <= 0 a NULL, que en PostgreSQL equivale a LIMIT ALL.
func nullLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

// validID evita enviar a PostgreSQL ids que no son UUID (fallarían con 22P02).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
