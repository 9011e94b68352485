package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ErrUnauthorized is matched by StatusErrors the backend uses to signal a
// missing or expired session (401, 403 and redirects to the login page).
var ErrUnauthorized = errors.New("not authorized")

// maxErrorBody bounds the response text kept in a StatusError, in cells.
const maxErrorBody = 300

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrUnauthorized) classify auth failures.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code >= 300 && e.Code < 400:
		return ErrUnauthorized
	default:
		return nil
	}
}

// trimBody shortens a response body on a character boundary. A multi-byte
// rune split by a read limit is dropped.
func trimBody(b []byte) string {
	s := strings.TrimSpace(strings.ToValidUTF8(string(b), ""))
	return ansi.Truncate(s, maxErrorBody, "...")
}
