package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, New(ErrCodeNotFound, "нет").HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, New(ErrCodeUnauthorized, "нет").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, New(ErrCodeForbidden, "нет").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(ErrCodeInternal, "нет").HTTPStatus)

	// Конфликты и нарушения предусловий отдаются как 400.
	assert.Equal(t, http.StatusBadRequest, New(ErrCodeValidation, "нет").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, New(ErrCodeConflict, "нет").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, New(ErrCodeInvalidState, "нет").HTTPStatus)
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("sql: connection refused")))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("исходная ошибка")
	err := Wrap(cause, ErrCodeValidation, "некорректные данные")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "исходная ошибка")
}

func TestIsHelpers_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("сервис: %w", ErrJobNotFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsForbidden(wrapped))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}
