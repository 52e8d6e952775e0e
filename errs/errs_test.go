package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	require.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("get item: %w", ErrNotFound)))
	require.Equal(t, http.StatusConflict, HTTPStatus(New(KindConflict, "DUPLICATE_OUTFIT", "dup")))
	require.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(New(KindUnprocessable, "SUGGESTION_FAILED", "x")))
	require.Equal(t, http.StatusForbidden, HTTPStatus(New(KindForbidden, "PLAN_REQUIRED", "x")))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestErrorIsSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Outfit not found"))
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrAlreadyExists)

	wrapped := Wrap(KindInternal, "DB", "save failed", ErrAlreadyExists)
	require.ErrorIs(t, wrapped, ErrAlreadyExists)
}

func TestCodeAndPublicMessage(t *testing.T) {
	require.Equal(t, "NOT_FOUND", Code(ErrNotFound))
	require.Equal(t, "HERO_REQUIRED", Code(New(KindInvalid, "HERO_REQUIRED", "Please select a Hero Piece")))
	require.Equal(t, "INTERNAL", Code(errors.New("db down")))

	require.Equal(t, "Please select a Hero Piece", PublicMessage(New(KindInvalid, "HERO_REQUIRED", "Please select a Hero Piece")))
	require.Equal(t, "internal server error", PublicMessage(errors.New("db down")))
	require.Equal(t, "internal server error", PublicMessage(Wrap(KindInternal, "X", "secret", errors.New("y"))))
}
