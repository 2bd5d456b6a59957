package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mapdb/internal/library"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// ResponseError is the body of every non-2xx JSON response:
// {"error": {"message": "...", "type": "..."}}.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorEnvelope struct {
	Error ResponseError `json:"error"`
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, errorEnvelope{Error: ResponseError{Message: msg, Type: errType}})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

// writeLookupError maps library and codec errors onto HTTP statuses.
func (s *Server) writeLookupError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, library.ErrNotFound):
		return writeNotFound(c, "map not found")
	case errors.Is(err, sspm.ErrNoCover):
		return writeNotFound(c, "map has no cover")
	case errors.Is(err, sspm.ErrNoAudio):
		return writeNotFound(c, "map has no playable audio")
	case errors.Is(err, os.ErrNotExist):
		return writeNotFound(c, "map file is gone")
	default:
		s.log.Error("request failed", "path", c.Request().URL.Path, "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", "internal error")
	}
}
