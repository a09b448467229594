package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

func TestNullLimit(t *testing.T) {
	assert.Nil(t, nullLimit(0))
	assert.Nil(t, nullLimit(-1))
	assert.Equal(t, 20, *nullLimit(20))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("00000000-0000-0000-0000-000000000001"))
	assert.False(t, validID("abc"))
}
