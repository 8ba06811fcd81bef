package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrTimeout            = errors.New("request timed out")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUnexpectedResponse = errors.New("unexpected server response")
)

// ServerError is a non-2xx answer from the API. Message is the server's
// detail text, or the status text when the body carried none.
//
// 401 and 403 responses also match ErrUnauthorized.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrUnauthorized && isUnauthorizedStatus(e.StatusCode)
}

func isUnauthorizedStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// Message extracts the text to show an operator for err: the server's own
// message for *ServerError, err.Error() otherwise.
func Message(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
