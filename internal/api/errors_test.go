package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTrimBody(t *testing.T) {
	t.Run("short body unchanged", func(t *testing.T) {
		assert.Equal(t, "Звонок не найден", trimBody([]byte("  Звонок не найден\n")))
	})

	t.Run("cyrillic cut on a rune boundary", func(t *testing.T) {
		body := strings.Repeat("ж", maxErrorBody+50)
		got := trimBody([]byte(body))

		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), maxErrorBody)
		assert.Greater(t, utf8.RuneCountInString(got), maxErrorBody-10)
	})

	t.Run("split trailing rune dropped", func(t *testing.T) {
		b := []byte("ошибка")
		got := trimBody(b[:len(b)-1])

		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "ошибк", got)
	})
}

func TestStatusError_Unauthorized(t *testing.T) {
	assert.ErrorIs(t, &StatusError{Code: http.StatusForbidden}, ErrUnauthorized)
	assert.ErrorIs(t, &StatusError{Code: http.StatusFound}, ErrUnauthorized)
	assert.False(t, errors.Is(&StatusError{Code: http.StatusBadRequest}, ErrUnauthorized))
}
