package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPassesThroughAPIErrors(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "OTHER", "other", http.StatusTeapot)
	assert.Same(t, ErrNotFound, wrapped)

	plain := fmt.Errorf("disk full")
	wrapped = Wrap(plain, "DB_ERROR", "database failure", http.StatusInternalServerError)
	assert.Equal(t, "DB_ERROR", wrapped.Code)
	assert.Equal(t, "disk full", wrapped.Details)
}

func TestTaxonomyStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized.Status)
	assert.Equal(t, http.StatusNotFound, ErrNotFound.Status)
	assert.Equal(t, http.StatusConflict, ErrConflict.Status)
	assert.Equal(t, http.StatusUnprocessableEntity, ErrValidation.Status)
	assert.Equal(t, http.StatusUnprocessableEntity, ErrNoMoreItems.Status)
	assert.Equal(t, http.StatusInternalServerError, ErrInternal.Status)
}

func TestHelperConstructors(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, Validation("field missing").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("gone").Status)
	assert.Equal(t, http.StatusConflict, Conflict("dup").Status)
	assert.Equal(t, "NOT_FOUND: gone", NotFound("gone").Error())
}
