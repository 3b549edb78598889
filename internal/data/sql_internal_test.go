package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	query := `UPDATE doctors SET name = ?, specialization = ? WHERE id = ?`

	assert.Equal(t, `UPDATE doctors SET name = $1, specialization = $2 WHERE id = $3`, dialects["postgres"].rebind(query))
	assert.Equal(t, query, dialects["sqlite"].rebind(query))
	assert.Equal(t, query, dialects["mysql"].rebind(query))
}

func TestEveryListedDriverHasADialect(t *testing.T) {
	for _, driver := range SQLDrivers() {
		_, ok := dialects[driver]
		assert.True(t, ok, driver)
	}
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{
		"specialization": "must not be more than 100 characters long",
		"name":           "must be provided",
	}}
	assert.Equal(t, "validation failed: name must be provided; specialization must not be more than 100 characters long", err.Error())
}

func TestCheckUpdateOrder(t *testing.T) {
	verr := &ValidationError{Errors: map[string]string{"name": "must be provided"}}

	assert.Equal(t, verr, checkUpdate(1, 2, verr))
	assert.ErrorIs(t, checkUpdate(1, 2, nil), ErrIDMismatch)
	assert.NoError(t, checkUpdate(3, 3, nil))
}
