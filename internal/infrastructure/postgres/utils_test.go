package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	w := &whereBuilder{}
	assert.Empty(t, w.sql())

	w.add("p.organization_id = ?", "org-1")
	w.add("(p.name ILIKE ? OR p.sku ILIKE ?)", "%x%")
	w.addRaw("p.expiration_date IS NOT NULL")
	assert.Equal(t,
		" WHERE p.organization_id = $1 AND (p.name ILIKE $2 OR p.sku ILIKE $2) AND p.expiration_date IS NOT NULL",
		w.sql())

	limit, args := w.page(10, 20)
	assert.Equal(t, " LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"org-1", "%x%", 10, 20}, args)
	assert.Len(t, w.args, 2, "page no modifica los args del WHERE")

	limit, args = w.page(0, 0)
	assert.Empty(t, limit)
	assert.Len(t, args, 2)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%tor%`, likePattern("tor"))
	assert.Equal(t, `%50\%\_a\\b%`, likePattern(`50%_a\b`))
}

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	check := &pgconn.PgError{Code: "23514"}
	badUUID := &pgconn.PgError{Code: "22P02"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(check))
	assert.True(t, isCheckViolation(check))
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.True(t, isNoRows(badUUID))
	assert.False(t, isNoRows(errors.New("conexión rechazada")))
}
