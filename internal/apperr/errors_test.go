package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	err := NotFound("person", "p-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("loading sender: %w", ErrSamePerson)
	assert.True(t, errors.Is(wrapped, ErrSamePerson))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("call", "c-1")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrSamePerson))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrNotSameGroup))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrBadCredential))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrOwnerImmutable))
	assert.Equal(t, http.StatusMethodNotAllowed, HTTPStatus(ErrBadTransition))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("email taken")))
	assert.Equal(t, http.StatusUnavailableForLegalReasons, HTTPStatus(ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestFrom(t *testing.T) {
	e := From(errors.New("db down"))
	require.NotNil(t, e)
	assert.Equal(t, "INTERNAL", e.Name)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(e))

	typed := From(fmt.Errorf("ctx: %w", ErrInsufficient))
	assert.Equal(t, "INSUFFICIENT_RIGHTS", typed.Name)
}

func TestWithCauseKeepsName(t *testing.T) {
	cause := errors.New("sql: no rows")
	err := ErrNotFound.WithCause(cause)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, err, cause)
}
